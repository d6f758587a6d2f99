package schema

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Comparator orders two schema versions. Zero means the persisted version is
// compatible with the declared one; any other result makes the collection
// read-only once the persisted version is known.
type Comparator func(declared, actual string) int

// Comparator names accepted by ComparatorByName
const (
	ComparatorExact  = "exact"
	ComparatorSemver = "semver"
	ComparatorMajor  = "major"
)

// ExactComparator treats versions as opaque strings
func ExactComparator(declared, actual string) int {
	return strings.Compare(declared, actual)
}

// SemverComparator orders versions semantically, so "1.0" equals "1.0.0".
// Versions that do not parse are compared as strings.
func SemverComparator(declared, actual string) int {
	dv, derr := semver.NewVersion(declared)
	av, aerr := semver.NewVersion(actual)
	if derr != nil || aerr != nil {
		return ExactComparator(declared, actual)
	}
	return dv.Compare(av)
}

// MajorComparator treats versions sharing a major version as compatible.
// Versions that do not parse are compared as strings.
func MajorComparator(declared, actual string) int {
	dv, derr := semver.NewVersion(declared)
	av, aerr := semver.NewVersion(actual)
	if derr != nil || aerr != nil {
		return ExactComparator(declared, actual)
	}
	return cmp.Compare(dv.Major(), av.Major())
}

// ComparatorByName returns the comparator registered under name. An empty
// name selects ComparatorExact.
func ComparatorByName(name string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ComparatorExact:
		return ExactComparator, nil
	case ComparatorSemver:
		return SemverComparator, nil
	case ComparatorMajor:
		return MajorComparator, nil
	default:
		return nil, fmt.Errorf("%w: unknown schema comparator %q", ErrConfiguration, name)
	}
}
