package lazyargs

import (
	"fmt"
	"io"
	"reflect"
)

// Binder binds configurations using the facets of one registry.
type Binder struct {
	registry *Registry
}

// NewBinder creates a binder backed by reg. A nil reg uses Default.
func NewBinder(reg *Registry) *Binder {
	if reg == nil {
		reg = Default
	}
	return &Binder{registry: reg}
}

// Registry returns the facet registry the binder reads.
func (b *Binder) Registry() *Registry {
	return b.registry
}

// Bind fills cfg from args and returns the tokens no field consumed. Fields
// are bound on a copy of cfg, so callbacks see the values bound before them,
// and the copy is written back only when binding succeeds. args is never
// modified.
func (b *Binder) Bind(cfg any, args []string) ([]string, error) {
	rv, err := structPtr(cfg)
	if err != nil {
		return nil, err
	}
	work := reflect.New(rv.Elem().Type())
	work.Elem().Set(rv.Elem())

	schema, err := Build(work.Interface(), b.registry)
	if err != nil {
		return nil, err
	}
	s := NewStream(args)
	if err := b.BindSchema(schema, s); err != nil {
		return nil, err
	}
	rv.Elem().Set(work.Elem())
	return s.Remaining(), nil
}

// BindSchema binds schema against s in place, consuming tokens from s. On
// error the fields bound so far keep their new values.
func (b *Binder) BindSchema(schema *Schema, s *Stream) error {
	return bindFields(schema.Fields, s)
}

// Parse renders help to out and returns ErrHelp if args contains -h or
// --help; otherwise it binds cfg like Bind. header is printed above the
// option listing.
func (b *Binder) Parse(cfg any, args []string, header string, out io.Writer) ([]string, error) {
	if WantsHelp(args) {
		text, err := b.Help(cfg)
		if err != nil {
			return nil, err
		}
		if header != "" {
			fmt.Fprintln(out, header)
		}
		fmt.Fprint(out, text)
		return nil, ErrHelp
	}
	return b.Bind(cfg, args)
}

// Bind binds cfg using the Default registry.
func Bind(cfg any, args []string) ([]string, error) {
	return NewBinder(Default).Bind(cfg, args)
}

// Parse parses cfg using the Default registry.
func Parse(cfg any, args []string, header string, out io.Writer) ([]string, error) {
	return NewBinder(Default).Parse(cfg, args, header, out)
}

func bindFields(fields []*Field, s *Stream) error {
	for _, f := range fields {
		if cb := f.Facet.Callback; cb != nil {
			if err := cb(f.Path[:len(f.Path)-1], f.Name, f.OwnerPtr(), s); err != nil {
				return fmt.Errorf("%s: %w", f.Flag(), err)
			}
			continue
		}
		if f.Kind == KindGroup {
			if err := bindFields(f.Children, s); err != nil {
				return err
			}
			continue
		}

		m, err := s.Locate(f.Flag(), f.ShortFlag(), f.Facet.AllowRepeat)
		if err != nil {
			return err
		}
		if m.Empty() {
			continue
		}

		v, n, err := readValue(f, m)
		if err != nil {
			return err
		}
		if err := m.Consume(n); err != nil {
			return err
		}
		f.value.Set(v)
	}
	return nil
}

// readValue decides the field's new value and how many tokens it spans.
func readValue(f *Field, m Match) (reflect.Value, int, error) {
	t := f.value.Type()
	v := reflect.New(t).Elem()

	switch f.Kind {
	case KindBool:
		if m.NextLooksBoolean() {
			v.SetBool(m.NextBool())
			return v, 2, nil
		}
		v.SetBool(true)
		return v, 1, nil

	case KindNumber:
		if isUnsigned(t.Kind()) {
			n, err := m.NextUnsigned(t.Bits())
			if err != nil {
				return v, 0, err
			}
			v.SetUint(n)
			return v, 2, nil
		}
		n, err := m.NextNumber(t.Bits())
		if err != nil {
			return v, 0, err
		}
		v.SetInt(n)
		return v, 2, nil

	case KindString:
		str, err := m.NextString()
		if err != nil {
			return v, 0, err
		}
		v.SetString(str)
		return v, 2, nil
	}
	return v, 0, fmt.Errorf("lazyargs: cannot bind %s field %s", f.Kind, f.Flag())
}
