package schema

import (
	"reflect"
	"strings"
)

// TagName is the struct tag key read for collection and field markers.
const TagName = "jsondb"

// Field tag options
const (
	OptionID     = "id"
	OptionSecret = "secret"
)

// Document marks a struct type as a stored collection. It is declared as a
// blank field carrying the collection name and schema version:
//
//	type Customer struct {
//		_   schema.Document `jsondb:"collection=customers,schemaVersion=1.0"`
//		ID  string          `json:"id" jsondb:"id"`
//		SSN string          `json:"ssn" jsondb:"secret"`
//	}
type Document struct{}

var documentType = reflect.TypeOf(Document{})

// DocumentInfo holds the values declared on a Document marker
type DocumentInfo struct {
	Collection    string
	SchemaVersion string
}

// DocumentOf returns the collection declaration of t. Pointer types are
// dereferenced; the second result is false when t carries no marker.
func DocumentOf(t reflect.Type) (DocumentInfo, bool) {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return DocumentInfo{}, false
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type != documentType {
			continue
		}
		return parseDocumentTag(f.Tag.Get(TagName)), true
	}
	return DocumentInfo{}, false
}

// parseDocumentTag reads "collection=<name>,schemaVersion=<version>"
func parseDocumentTag(tag string) DocumentInfo {
	var info DocumentInfo
	for _, part := range strings.Split(tag, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "collection":
			info.Collection = strings.TrimSpace(value)
		case "schemaVersion":
			info.SchemaVersion = strings.TrimSpace(value)
		}
	}
	return info
}

// fieldOptions are the markers parsed from a field's jsondb tag
type fieldOptions struct {
	id     bool
	secret bool
}

func parseFieldTag(tag string) fieldOptions {
	var opts fieldOptions
	for _, part := range strings.Split(tag, ",") {
		switch strings.TrimSpace(part) {
		case OptionID:
			opts.id = true
		case OptionSecret:
			opts.secret = true
		}
	}
	return opts
}

// documentFieldName returns the key a field is stored under: the json tag
// name when set, otherwise the Go field name.
func documentFieldName(f reflect.StructField) string {
	if name := jsonTagName(f); name != "" {
		return name
	}
	return f.Name
}

// jsonTagName returns the name part of the json tag, empty when unset or "-"
func jsonTagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
