package lazyargs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrHelp is returned by Parse after the help listing has been written.
var ErrHelp = errors.New("help requested")

// AmbiguousOptionError is returned when both the long and the short form of
// a field appear in the arguments and the field does not allow repetition.
type AmbiguousOptionError struct {
	Long       string
	LongIndex  int
	Short      string
	ShortIndex int
	Tokens     []string // the full argument list the indexes point into
}

func (e *AmbiguousOptionError) Error() string {
	return fmt.Sprintf("found both '%s' at %d and '%s' at %d in %s",
		e.Long, e.LongIndex, e.Short, e.ShortIndex, strings.Join(e.Tokens, ", "))
}

// MissingValueError is returned when a number or string flag is the last
// token and has no value after it.
type MissingValueError struct {
	Flag  string
	Index int
	Kind  Kind
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("to get a %s from '%s' at %d the next element must exist", e.Kind, e.Flag, e.Index)
}

// InvalidNumberError is returned when the value after a number flag is not a
// base-10 integer that fits the field.
type InvalidNumberError struct {
	Flag  string
	Index int
	Value string
	Err   error
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("'%s' at %d expects a base-10 integer, got %q: %v", e.Flag, e.Index, e.Value, e.Err)
}

func (e *InvalidNumberError) Unwrap() error {
	return e.Err
}

// UnsupportedFieldError is returned when a configuration field has a type the
// binder cannot represent as a flag.
type UnsupportedFieldError struct {
	Path string
	Type reflect.Type
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("field %s has unsupported type %s (want bool, integer, string or struct)", e.Path, e.Type)
}

// IsBindError reports whether err came from binding (as opposed to a callback
// or an I/O failure).
func IsBindError(err error) bool {
	var (
		amb *AmbiguousOptionError
		mis *MissingValueError
		num *InvalidNumberError
		uns *UnsupportedFieldError
	)
	return errors.As(err, &amb) || errors.As(err, &mis) || errors.As(err, &num) || errors.As(err, &uns)
}
