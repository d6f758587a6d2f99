package schema

import (
	"maps"
	"reflect"

	"github.com/conduit-lang/jsondb/internal/util/strings"
)

// FieldMapper is implemented by record types that register their field
// operations explicitly. Explicit entries replace the Get/Is/Set methods
// found by name. MapFields is called once on a zero *T while the descriptor
// is built.
type FieldMapper interface {
	MapFields(m *FieldMap)
}

// FieldMap collects explicit accessors and mutators from a FieldMapper.
// Entries for names that are not fields of the record are ignored.
type FieldMap struct {
	accessors map[string]func(record any) any
	mutators  map[string]func(record any, value any) error
}

// Accessor registers fn as the accessor of field. fn receives a *T.
func (m *FieldMap) Accessor(field string, fn func(record any) any) {
	m.accessors[field] = fn
}

// Mutator registers fn as the mutator of field. fn receives a *T.
func (m *FieldMap) Mutator(field string, fn func(record any, value any) error) {
	m.mutators[field] = fn
}

// fieldInfo is one declared field found while walking a record type
type fieldInfo struct {
	name   string // document field name
	goName string
	typ    reflect.Type
	opts   fieldOptions
}

// introspection is the result of walking a record type
type introspection struct {
	fields       []fieldInfo
	idCandidates []string
	accessors    map[string]*Accessor
	mutators     map[string]*Mutator
}

// idField returns the identifier field; the last candidate in walk order wins
func (in *introspection) idField() (string, bool) {
	if len(in.idCandidates) == 0 {
		return "", false
	}
	return in.idCandidates[len(in.idCandidates)-1], true
}

// introspect runs both phases over t: collect fields across the embedding
// chain, then resolve operations against *t only.
func introspect(t reflect.Type) *introspection {
	in := &introspection{
		accessors: make(map[string]*Accessor),
		mutators:  make(map[string]*Mutator),
	}
	in.fields = collectFields(t, map[reflect.Type]bool{})

	for _, f := range in.fields {
		if f.opts.id {
			in.idCandidates = append(in.idCandidates, f.name)
		}
	}

	resolveMethods(t, in)
	resolveExplicit(t, in)
	return in
}

// collectFields returns the own fields of t in declaration order followed by
// the fields of each embedded struct. An embedded struct with a json name is
// a nested object and counts as an own field. visited cuts embedding cycles
// through pointers and drops a struct reached a second time (diamonds).
func collectFields(t reflect.Type, visited map[reflect.Type]bool) []fieldInfo {
	if visited[t] {
		return nil
	}
	visited[t] = true

	var own []fieldInfo
	var ancestors []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == documentType {
			continue
		}
		if f.Anonymous && jsonTagName(f) == "" {
			if et := indirect(f.Type); et.Kind() == reflect.Struct {
				ancestors = append(ancestors, et)
				continue
			}
		}
		own = append(own, fieldInfo{
			name:   documentFieldName(f),
			goName: f.Name,
			typ:    f.Type,
			opts:   parseFieldTag(f.Tag.Get(TagName)),
		})
	}

	for _, at := range ancestors {
		own = append(own, collectFields(at, visited)...)
	}
	return own
}

func accessorName(f fieldInfo) string {
	if f.typ.Kind() == reflect.Bool {
		return "Is" + strings.UpperFirst(f.goName)
	}
	return "Get" + strings.UpperFirst(f.goName)
}

func mutatorName(f fieldInfo) string {
	return "Set" + strings.UpperFirst(f.goName)
}

// resolveMethods looks up conventionally named methods on *t. A field
// without a matching, well-shaped method is left out of the maps.
func resolveMethods(t reflect.Type, in *introspection) {
	pt := reflect.PointerTo(t)
	for _, f := range in.fields {
		if m, ok := pt.MethodByName(accessorName(f)); ok {
			path := promotionPath(t, m.Name, map[reflect.Type]bool{})
			if a, ok := methodAccessor(f.name, t, m, path); ok {
				in.accessors[f.name] = a
			}
		}
		if m, ok := pt.MethodByName(mutatorName(f)); ok {
			path := promotionPath(t, m.Name, map[reflect.Type]bool{})
			if mu, ok := methodMutator(f.name, t, m, path); ok {
				in.mutators[f.name] = mu
			}
		}
	}
}

// promotionPath returns the embedded field indexes through which *t gets
// method name, or nil when no embedded struct provides it. The shallowest
// providing embed wins, as in Go's selector rules. A method declared on t
// that shadows an embedded one is reported as promoted.
func promotionPath(t reflect.Type, name string, visited map[reflect.Type]bool) []int {
	if visited[t] {
		return nil
	}
	visited[t] = true

	var best []int
	found := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		et := indirect(f.Type)
		if et.Kind() != reflect.Struct || visited[et] {
			continue
		}
		if _, ok := reflect.PointerTo(et).MethodByName(name); !ok {
			continue
		}
		path := append([]int{i}, promotionPath(et, name, maps.Clone(visited))...)
		if !found || len(path) < len(best) {
			best, found = path, true
		}
	}
	return best
}

func resolveExplicit(t reflect.Type, in *introspection) {
	mapper, ok := reflect.New(t).Interface().(FieldMapper)
	if !ok {
		return
	}

	fm := &FieldMap{
		accessors: make(map[string]func(any) any),
		mutators:  make(map[string]func(any, any) error),
	}
	mapper.MapFields(fm)

	known := make(map[string]bool, len(in.fields))
	for _, f := range in.fields {
		known[f.name] = true
	}

	for field, fn := range fm.accessors {
		if !known[field] || fn == nil {
			continue
		}
		get := fn
		in.accessors[field] = &Accessor{
			Field:      field,
			recordType: t,
			get: func(ptr reflect.Value) (any, error) {
				return get(ptr.Interface()), nil
			},
		}
	}
	for field, fn := range fm.mutators {
		if !known[field] || fn == nil {
			continue
		}
		set := fn
		in.mutators[field] = &Mutator{
			Field:      field,
			recordType: t,
			set: func(ptr reflect.Value, value any) error {
				return set(ptr.Interface(), value)
			},
		}
	}
}
