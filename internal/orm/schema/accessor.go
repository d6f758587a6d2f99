package schema

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Accessor reads one field of a record. It is either resolved from a
// conventionally named method (GetName, IsActive) or registered explicitly
// through FieldMapper.
type Accessor struct {
	// Field is the document field name the accessor reads
	Field string
	// Method is the resolved method name, empty for explicit accessors
	Method string

	recordType reflect.Type
	get        func(ptr reflect.Value) (any, error)
}

// Get returns the field value of record, which must be a *T or T of the
// collection's record type.
func (a *Accessor) Get(record any) (any, error) {
	ptr, err := recordPointer(a.recordType, record, false)
	if err != nil {
		return nil, err
	}
	return a.get(ptr)
}

// Mutator writes one field of a record
type Mutator struct {
	// Field is the document field name the mutator writes
	Field string
	// Method is the resolved method name, empty for explicit mutators
	Method string

	recordType reflect.Type
	set        func(ptr reflect.Value, value any) error
}

// Set assigns value to the field of record, which must be a non-nil *T.
func (m *Mutator) Set(record any, value any) error {
	ptr, err := recordPointer(m.recordType, record, true)
	if err != nil {
		return err
	}
	return m.set(ptr, value)
}

// recordPointer normalizes record to a *T value. Plain T values are copied
// into a fresh pointer unless the caller needs to write through it.
func recordPointer(t reflect.Type, record any, mustBePointer bool) (reflect.Value, error) {
	v := reflect.ValueOf(record)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: got nil, want *%s", ErrRecordType, t)
	}

	switch v.Type() {
	case reflect.PointerTo(t):
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil *%s", ErrRecordType, t)
		}
		return v, nil
	case t:
		if mustBePointer {
			return reflect.Value{}, fmt.Errorf("%w: got %s, want *%s", ErrRecordType, t, t)
		}
		ptr := reflect.New(t)
		ptr.Elem().Set(v)
		return ptr, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: got %s, want *%s", ErrRecordType, v.Type(), t)
	}
}

// methodAccessor wraps a method taking no arguments and returning one value.
// path is the embedding path the method is promoted through; when it crosses
// a nil pointer the method runs on a copy of the record with the missing
// structs allocated, so it reads their zero values.
func methodAccessor(field string, recordType reflect.Type, m reflect.Method, path []int) (*Accessor, bool) {
	mt := m.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 {
		return nil, false
	}

	return &Accessor{
		Field:      field,
		Method:     m.Name,
		recordType: recordType,
		get: func(ptr reflect.Value) (any, error) {
			if nilEmbedded(ptr, path) {
				cp := reflect.New(recordType)
				cp.Elem().Set(ptr.Elem())
				if err := fillEmbedded(cp, path, true); err != nil {
					return nil, err
				}
				ptr = cp
			}
			out := m.Func.Call([]reflect.Value{ptr})
			return out[0].Interface(), nil
		},
	}, true
}

// methodMutator wraps a method taking one argument and returning nothing
// or an error. Nil embedded pointers on path are allocated before the call.
func methodMutator(field string, recordType reflect.Type, m reflect.Method, path []int) (*Mutator, bool) {
	mt := m.Type
	if mt.NumIn() != 2 {
		return nil, false
	}
	returnsErr := false
	switch mt.NumOut() {
	case 0:
	case 1:
		if mt.Out(0) != errorType {
			return nil, false
		}
		returnsErr = true
	default:
		return nil, false
	}
	param := mt.In(1)

	return &Mutator{
		Field:      field,
		Method:     m.Name,
		recordType: recordType,
		set: func(ptr reflect.Value, value any) error {
			arg, err := argumentValue(param, value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", recordType.Name(), m.Name, err)
			}
			if nilEmbedded(ptr, path) {
				if err := fillEmbedded(ptr, path, false); err != nil {
					return err
				}
			}
			out := m.Func.Call([]reflect.Value{ptr, arg})
			if returnsErr && !out[0].IsNil() {
				return out[0].Interface().(error)
			}
			return nil
		},
	}, true
}

// argumentValue converts value into an argument of type param. nil becomes
// the zero value; anything else must be assignable.
func argumentValue(param reflect.Type, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(param), nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(param) {
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrValueType, v.Type(), param)
	}
	return v, nil
}

// nilEmbedded reports whether reaching the embedded struct at path from the
// record behind ptr crosses a nil pointer
func nilEmbedded(ptr reflect.Value, path []int) bool {
	if len(path) == 0 {
		return false
	}
	f, err := ptr.Elem().FieldByIndexErr(path)
	return err != nil || (f.Kind() == reflect.Pointer && f.IsNil())
}

// fillEmbedded allocates the nil embedded pointers on path. With copyShared
// set, non-nil pointers on the way are replaced by copies of their targets
// so that the structs they point to stay untouched.
func fillEmbedded(ptr reflect.Value, path []int, copyShared bool) error {
	v := ptr.Elem()
	for _, i := range path {
		f := v.Field(i)
		if f.Kind() == reflect.Pointer {
			switch {
			case f.IsNil() && !f.CanSet():
				return fmt.Errorf("%w: nil embedded %s", ErrRecordType, f.Type())
			case f.IsNil():
				f.Set(reflect.New(f.Type().Elem()))
			case copyShared && f.CanSet():
				cp := reflect.New(f.Type().Elem())
				cp.Elem().Set(f.Elem())
				f.Set(cp)
			case copyShared:
				return fmt.Errorf("%w: cannot copy unexported embedded %s", ErrRecordType, f.Type())
			}
			f = f.Elem()
		}
		v = f
	}
	return nil
}
