package schema

import (
	"iter"
	"reflect"
	"slices"
)

// Registry maps collection names to descriptors. It is filled once by Build
// and never changes afterwards, so it needs no lock of its own; concurrent
// readers only contend on the per-collection locks.
type Registry struct {
	names  []string
	byName map[string]*Descriptor
	byType map[reflect.Type]*Descriptor
}

func newRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
		byType: make(map[reflect.Type]*Descriptor),
	}
}

// put inserts d, replacing any descriptor with the same collection name.
// A replaced name moves to the end of the insertion order.
func (r *Registry) put(d *Descriptor) (replaced *Descriptor) {
	name := d.CollectionName()
	if prev, ok := r.byName[name]; ok {
		replaced = prev
		r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
		if r.byType[prev.RecordType()] == prev {
			delete(r.byType, prev.RecordType())
		}
	}
	r.names = append(r.names, name)
	r.byName[name] = d
	r.byType[d.RecordType()] = d
	return replaced
}

// Get retrieves a descriptor by collection name
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ForType retrieves the descriptor registered for a record type. Pointer
// types are dereferenced.
func (r *Registry) ForType(t reflect.Type) (*Descriptor, bool) {
	d, ok := r.byType[indirect(t)]
	return d, ok
}

// Names returns the collection names in insertion order
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of collections
func (r *Registry) Len() int {
	return len(r.names)
}

// All iterates over the collections in insertion order
func (r *Registry) All() iter.Seq2[string, *Descriptor] {
	return func(yield func(string, *Descriptor) bool) {
		for _, name := range r.names {
			if !yield(name, r.byName[name]) {
				return
			}
		}
	}
}
