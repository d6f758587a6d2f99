// Package schema builds the collection metadata the document store consults
// on every read and write.
//
// A record type declares its collection with a blank Document field and
// marks its identifier and secret fields with jsondb tags:
//
//	type Customer struct {
//		_       schema.Document `jsondb:"collection=customers,schemaVersion=1.0"`
//		ID      string          `json:"id" jsondb:"id"`
//		SSN     string          `json:"ssn" jsondb:"secret"`
//		Active  bool            `json:"active"`
//	}
//
//	func (c *Customer) GetID() string   { return c.ID }
//	func (c *Customer) SetID(id string) { c.ID = id }
//	func (c *Customer) IsActive() bool  { return c.Active }
//
// Build walks every candidate type once at start-up:
//
//	reg, err := schema.Build([]reflect.Type{reflect.TypeFor[Customer]()}, schema.ExactComparator)
//	d, _ := reg.Get("customers")
//	d.IDField()      // "id", true
//	d.SecretFields() // ["ssn"]
//
// # Field discovery
//
// Fields are collected from the struct itself first, then from each
// embedded struct in declaration order. Accessors are found by name on the
// pointer type: Is<Field> for bool fields, Get<Field> otherwise, and
// Set<Field> for mutators, where <Field> is the Go field name with its first
// letter upper-cased. Types implementing FieldMapper can register accessors
// and mutators explicitly instead.
//
// Embedded structs are followed through values and pointers alike. A struct
// reached a second time is skipped, which cuts embedding cycles and keeps only
// the first copy of a struct embedded along two paths. An embedded struct
// with a json name is a nested object, as in encoding/json: it is one field
// and its own fields are not collected.
//
// Methods are looked up in the full method set of *T, so methods promoted
// from embedded structs count, and a method that is ambiguous between two
// embeds does not. When a promoted method is reached through a nil embedded
// pointer, accessors run it against a copy of the record with zero values
// filled in, and mutators allocate the embedded struct on the record. An
// unexported embedded pointer cannot be allocated; both then fail with
// ErrRecordType.
//
// When several fields carry the id marker the last one in walk order is the
// identifier. When several types declare the same collection the last one
// passed to Build is kept.
//
// # Locking
//
// Each Descriptor carries a sync.RWMutex returned by Lock. The descriptor
// never acquires it; the store takes it shared for reads and exclusive for
// writes and SetActualSchemaVersion.
package schema
