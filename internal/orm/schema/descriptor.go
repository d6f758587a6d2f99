package schema

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
)

// Descriptor is the metadata of one collection: its record type, identifier
// field, secret fields, field operations and schema version state.
//
// The descriptor owns the collection lock but never acquires it. Callers hold
// Lock() shared while reading records through the descriptor and exclusive
// while writing records or calling SetActualSchemaVersion.
type Descriptor struct {
	collection    string
	schemaVersion string
	compare       Comparator
	recordType    reflect.Type

	actualSchemaVersion string
	hasActual           bool
	readOnly            bool

	idField    string
	hasID      bool
	idAccessor *Accessor
	idMutator  *Mutator

	secretFields map[string]struct{}
	accessors    map[string]*Accessor
	mutators     map[string]*Mutator

	// idCandidates lists every field marked as identifier, in walk order
	idCandidates []string

	lock sync.RWMutex
}

// NewDescriptor introspects recordType and returns the descriptor of the
// named collection. A pointer type is dereferenced and a nil
// cmp selects ExactComparator. Missing accessors or identifier fields leave
// the corresponding entries absent.
func NewDescriptor(collection string, recordType reflect.Type, schemaVersion string, cmp Comparator) *Descriptor {
	if cmp == nil {
		cmp = ExactComparator
	}
	recordType = indirect(recordType)

	d := &Descriptor{
		collection:    collection,
		schemaVersion: schemaVersion,
		compare:       cmp,
		recordType:    recordType,
		secretFields:  make(map[string]struct{}),
		accessors:     make(map[string]*Accessor),
		mutators:      make(map[string]*Mutator),
	}
	if recordType == nil || recordType.Kind() != reflect.Struct {
		return d
	}

	in := introspect(recordType)
	d.accessors = in.accessors
	d.mutators = in.mutators
	d.idCandidates = in.idCandidates
	for _, f := range in.fields {
		if f.opts.secret {
			d.secretFields[f.name] = struct{}{}
		}
	}

	d.idField, d.hasID = in.idField()
	if d.hasID {
		d.idAccessor = d.accessors[d.idField]
		d.idMutator = d.mutators[d.idField]
	}
	return d
}

// CollectionName returns the collection the descriptor belongs to
func (d *Descriptor) CollectionName() string {
	return d.collection
}

// SchemaVersion returns the version declared by the record type
func (d *Descriptor) SchemaVersion() string {
	return d.schemaVersion
}

// ActualSchemaVersion returns the version found in the persisted collection;
// ok is false until SetActualSchemaVersion is called.
func (d *Descriptor) ActualSchemaVersion() (version string, ok bool) {
	return d.actualSchemaVersion, d.hasActual
}

// SetActualSchemaVersion records the persisted version and recomputes the
// read-only flag. The caller must hold Lock() exclusively.
func (d *Descriptor) SetActualSchemaVersion(version string) {
	d.actualSchemaVersion = version
	d.hasActual = true
	d.readOnly = d.compare(d.schemaVersion, version) != 0
}

// IsReadOnly reports whether the persisted schema version is incompatible
// with the declared one
func (d *Descriptor) IsReadOnly() bool {
	return d.readOnly
}

// RecordType returns the mapped struct type
func (d *Descriptor) RecordType() reflect.Type {
	return d.recordType
}

// IDField returns the identifier field name; ok is false when no field is
// marked as identifier.
func (d *Descriptor) IDField() (name string, ok bool) {
	return d.idField, d.hasID
}

// IDAccessor returns the identifier accessor, or nil
func (d *Descriptor) IDAccessor() *Accessor {
	return d.idAccessor
}

// IDMutator returns the identifier mutator, or nil
func (d *Descriptor) IDMutator() *Mutator {
	return d.idMutator
}

// RecordID reads the identifier of record
func (d *Descriptor) RecordID(record any) (any, error) {
	if d.idAccessor == nil {
		return nil, fmt.Errorf("%w: collection %s has no identifier accessor", ErrUnsupportedOperation, d.collection)
	}
	return d.idAccessor.Get(record)
}

// SetRecordID writes the identifier of record
func (d *Descriptor) SetRecordID(record any, id any) error {
	if d.idMutator == nil {
		return fmt.Errorf("%w: collection %s has no identifier mutator", ErrUnsupportedOperation, d.collection)
	}
	return d.idMutator.Set(record, id)
}

// SecretFields returns the names of fields marked secret, sorted
func (d *Descriptor) SecretFields() []string {
	return slices.Sorted(maps.Keys(d.secretFields))
}

// IsSecretField reports whether name is marked secret
func (d *Descriptor) IsSecretField(name string) bool {
	_, ok := d.secretFields[name]
	return ok
}

// HasSecret reports whether any field is marked secret
func (d *Descriptor) HasSecret() bool {
	return len(d.secretFields) > 0
}

// Accessor returns the accessor of field, or nil
func (d *Descriptor) Accessor(field string) *Accessor {
	return d.accessors[field]
}

// Mutator returns the mutator of field, or nil
func (d *Descriptor) Mutator(field string) *Mutator {
	return d.mutators[field]
}

// AccessorFields returns the fields that have an accessor, sorted by name
func (d *Descriptor) AccessorFields() []string {
	return slices.Sorted(maps.Keys(d.accessors))
}

// MutatorFields returns the fields that have a mutator, sorted by name
func (d *Descriptor) MutatorFields() []string {
	return slices.Sorted(maps.Keys(d.mutators))
}

// Lock returns the collection lock. The descriptor itself never takes it.
func (d *Descriptor) Lock() *sync.RWMutex {
	return &d.lock
}
