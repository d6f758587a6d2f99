package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrConfiguration is returned when a record type declares an unusable
	// collection marker or an unknown comparator is requested
	ErrConfiguration = errors.New("invalid collection configuration")

	// ErrUnsupportedOperation is returned when an identifier operation is
	// requested on a collection without an identifier field or accessor
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrRecordType is returned when a record is not of the collection's type
	ErrRecordType = errors.New("record type mismatch")

	// ErrValueType is returned when a value cannot be assigned to a field
	ErrValueType = errors.New("value type mismatch")
)

// ConfigurationError describes a record type whose Document marker is
// missing a required value
type ConfigurationError struct {
	Type   reflect.Type
	Reason string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Type, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// IsConfigurationError returns true if err is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUnsupportedOperation returns true if err is ErrUnsupportedOperation
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
