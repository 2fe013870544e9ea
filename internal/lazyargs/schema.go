package lazyargs

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the closed set of field shapes the binder understands.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindGroup:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one node of a configuration schema.
type Field struct {
	Name     string   // flag name of this field
	Path     []string // flag names from the root down to and including Name
	Kind     Kind
	Owner    string // owning struct type, see OwnerOf
	Facet    *Facet
	Children []*Field // KindGroup only, in declaration order

	value reflect.Value // settable field value
	owner reflect.Value // addressable owning struct
}

// Flag returns the long flag spelling, e.g. "--pw.slowMo".
func (f *Field) Flag() string {
	return "--" + strings.Join(f.Path, ".")
}

// ShortFlag returns the short flag spelling or "".
func (f *Field) ShortFlag() string {
	return f.Facet.ShortFlag()
}

// Value returns the field's current value.
func (f *Field) Value() any {
	return f.value.Interface()
}

// OwnerPtr returns a pointer to the struct that holds the field.
func (f *Field) OwnerPtr() any {
	return f.owner.Addr().Interface()
}

// Schema is the field tree of one configuration value. It holds references
// into that value, so binding through a schema mutates the configuration.
type Schema struct {
	Fields []*Field
}

// Walk visits every field depth-first in declaration order. Returning false
// from fn skips the children of a group.
func (s *Schema) Walk(fn func(*Field) bool) {
	var walk func([]*Field)
	walk = func(fields []*Field) {
		for _, f := range fields {
			if fn(f) && f.Kind == KindGroup {
				walk(f.Children)
			}
		}
	}
	walk(s.Fields)
}

// Leaves returns every non-group field in walk order.
func (s *Schema) Leaves() []*Field {
	var out []*Field
	s.Walk(func(f *Field) bool {
		if f.Kind != KindGroup {
			out = append(out, f)
		}
		return true
	})
	return out
}

// Build creates the schema of cfg, which must be a non-nil pointer to a
// struct, and copies the fields' tags into reg.
//
// Recognized tags:
//
//	flag:"name"    flag name (default: Go name with the first letter lowered); "-" skips
//	short:"s"      short flag
//	doc:"text"     help text
//	repeat:"true"  long and short form may both appear
func Build(cfg any, reg *Registry) (*Schema, error) {
	rv, err := structPtr(cfg)
	if err != nil {
		return nil, err
	}
	fields, err := buildGroup(rv.Elem(), nil, reg)
	if err != nil {
		return nil, err
	}
	return &Schema{Fields: fields}, nil
}

func structPtr(cfg any) (reflect.Value, error) {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("lazyargs: configuration must be a non-nil pointer to a struct, got %T", cfg)
	}
	return rv, nil
}

func buildGroup(sv reflect.Value, path []string, reg *Registry) ([]*Field, error) {
	st := sv.Type()
	owner := ownerName(st)

	var fields []*Field
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := flagName(sf)
		if name == "" {
			continue
		}

		facet := reg.Get(owner, name)
		applyTags(facet, sf.Tag)

		fieldPath := append(append([]string{}, path...), name)
		f := &Field{
			Name:  name,
			Path:  fieldPath,
			Owner: owner,
			Facet: facet,
			value: sv.Field(i),
			owner: sv,
		}

		fv := sv.Field(i)
		switch {
		case fv.Kind() == reflect.Bool:
			f.Kind = KindBool
		case isInteger(fv.Kind()):
			f.Kind = KindNumber
		case fv.Kind() == reflect.String:
			f.Kind = KindString
		case fv.Kind() == reflect.Struct:
			f.Kind = KindGroup
			children, err := buildGroup(fv, fieldPath, reg)
			if err != nil {
				return nil, err
			}
			f.Children = children
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct && !fv.IsNil():
			f.Kind = KindGroup
			children, err := buildGroup(fv.Elem(), fieldPath, reg)
			if err != nil {
				return nil, err
			}
			f.Children = children
		default:
			// A nil group pointer has no defaults to act as type witnesses.
			return nil, &UnsupportedFieldError{Path: strings.Join(fieldPath, "."), Type: fv.Type()}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func flagName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("flag"); ok {
		if tag == "-" {
			return ""
		}
		if tag != "" {
			return tag
		}
	}
	r, size := utf8.DecodeRuneInString(sf.Name)
	return string(unicode.ToLower(r)) + sf.Name[size:]
}

func applyTags(f *Facet, tag reflect.StructTag) {
	if v, ok := tag.Lookup("short"); ok && v != "" {
		f.Short = strings.TrimLeft(v, "-")
	}
	if v, ok := tag.Lookup("doc"); ok && v != "" {
		f.Doc = v
	}
	if v, ok := tag.Lookup("repeat"); ok && v == "true" {
		f.AllowRepeat = true
	}
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
