package lazyargs

import (
	"reflect"
	"sync"
)

// Callback replaces positional binding for a field. It receives the dotted
// path of the owning struct, the field's flag name, a pointer to the owning
// struct and the token stream, so it can consume tokens of its own.
type Callback func(path []string, field string, owner any, s *Stream) error

// FacetKey identifies a field within its owning struct type.
type FacetKey struct {
	Owner string // owning type, see OwnerOf
	Field string // flag name of the field
}

// Facet is the out-of-band metadata attached to one configuration field.
type Facet struct {
	Key         FacetKey
	Short       string // short flag without the dash, empty for none
	Doc         string
	Callback    Callback
	AllowRepeat bool
}

// ShortFlag returns the short flag spelling ("-s"), or "" if none is set.
func (f *Facet) ShortFlag() string {
	if f.Short == "" {
		return ""
	}
	return "-" + f.Short
}

// Registry maps fields to their facets. A facet is created on first access
// and the same instance is returned for the lifetime of the registry.
type Registry struct {
	mu     sync.Mutex
	facets map[FacetKey]*Facet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{facets: make(map[FacetKey]*Facet)}
}

// Default is the process-wide registry used by the package-level helpers.
var Default = NewRegistry()

// Get returns the facet for owner.field, creating an empty one if needed.
func (r *Registry) Get(owner, field string) *Facet {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := FacetKey{Owner: owner, Field: field}
	if f, ok := r.facets[key]; ok {
		return f
	}
	f := &Facet{Key: key}
	r.facets[key] = f
	return f
}

// SetShort assigns a short flag name (without the dash).
func (r *Registry) SetShort(owner, field, name string) {
	r.Get(owner, field).Short = name
}

// SetDoc assigns the help text shown after the type and default.
func (r *Registry) SetDoc(owner, field, doc string) {
	r.Get(owner, field).Doc = doc
}

// SetCallback makes the binder hand the field to cb instead of binding it.
func (r *Registry) SetCallback(owner, field string, cb Callback) {
	r.Get(owner, field).Callback = cb
}

// SetAllowRepeat permits the long and short form to appear together.
// The long form wins.
func (r *Registry) SetAllowRepeat(owner, field string, allow bool) {
	r.Get(owner, field).AllowRepeat = allow
}

// Len returns the number of facets created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.facets)
}

// OwnerOf returns the owner identifier for a struct value or pointer, as used
// in FacetKey. It is the package path and type name, e.g.
// "github.com/roach88/e2e2d/internal/config.Browser".
func OwnerOf(v any) string {
	return ownerName(reflect.TypeOf(v))
}

func ownerName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
