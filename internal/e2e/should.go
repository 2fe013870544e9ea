package e2e

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/e2e2d/internal/driver"
	"github.com/roach88/e2e2d/internal/recording"
)

// Transform maps a subject before comparison.
type Transform func(ctx context.Context, v any) (any, error)

// Identity returns v unchanged.
func Identity(_ context.Context, v any) (any, error) {
	return v, nil
}

// InnerText returns the rendered text of an element subject, or "" when the
// subject is nil.
func InnerText(ctx context.Context, v any) (any, error) {
	if v == nil {
		return "", nil
	}
	el, ok := v.(driver.Element)
	if !ok {
		return nil, fmt.Errorf("innerText: subject is %T, not an element", v)
	}
	return el.Text(ctx)
}

// TrimSpace trims surrounding white space from a string subject.
func TrimSpace(_ context.Context, v any) (any, error) {
	str, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("trimSpace: subject is %T, not a string", v)
	}
	return strings.TrimSpace(str), nil
}

// Should is a fluent assertion chain. Subject selectors (See, That,
// ThatAsync) and qualifiers (Observe, Is, To) return the chain; terminals
// (Equals, Equal, Exist) evaluate it, record exactly one step and return nil
// or the failure.
//
//	err := s.Should().See(ctx, "#welcome", "the greeting").To().Exist(ctx)
type Should struct {
	session      *Session
	chain        []string
	selector     string
	subject      any
	err          error // from resolving the subject
	noScreenshot bool
}

func newShould(s *Session, noScreenshot bool) *Should {
	return &Should{
		session:      s,
		chain:        []string{"You"},
		noScreenshot: noScreenshot,
	}
}

// See selects the first element matching selector. label is used in the
// narrative instead of the selector when given. Lookup errors are logged
// and leave the subject unresolved.
func (sh *Should) See(ctx context.Context, selector string, label ...string) *Should {
	name := selector
	if len(label) > 0 && label[0] != "" {
		name = label[0]
	}
	sh.chain = append(sh.chain, "see", name)
	sh.selector = selector
	sh.subject = nil

	el, err := sh.session.drv.QuerySelector(ctx, selector)
	if err != nil {
		sh.session.logger.Warn("element lookup failed", "selector", selector, "error", err)
		return sh
	}
	if el != nil {
		sh.subject = el
	}
	return sh
}

// That selects an already computed value.
func (sh *Should) That(v any) *Should {
	sh.chain = append(sh.chain, "that")
	sh.selector = ""
	sh.subject = v
	return sh
}

// ThatAsync selects the value produced by fn. An error from fn fails the
// terminal.
func (sh *Should) ThatAsync(ctx context.Context, fn func(context.Context) (any, error)) *Should {
	sh.chain = append(sh.chain, "that")
	sh.selector = ""
	sh.subject, sh.err = fn(ctx)
	return sh
}

// Observe adds a narrative word.
func (sh *Should) Observe() *Should {
	sh.chain = append(sh.chain, "observe")
	return sh
}

// Is adds a narrative word.
func (sh *Should) Is() *Should {
	sh.chain = append(sh.chain, "is")
	return sh
}

// To adds a narrative word.
func (sh *Should) To() *Should {
	sh.chain = append(sh.chain, "to")
	return sh
}

// Equals passes the subject through transforms and requires it to be
// strictly equal to expected.
func (sh *Should) Equals(ctx context.Context, expected any, transforms ...Transform) error {
	return sh.compare(ctx, recording.KindEquals, "equals", expected, transforms)
}

// Equal is Equals with a different narrative word.
func (sh *Should) Equal(ctx context.Context, expected any, transforms ...Transform) error {
	return sh.compare(ctx, recording.KindEqual, "equal", expected, transforms)
}

// Exist requires the subject to be present.
func (sh *Should) Exist(ctx context.Context) error {
	sh.chain = append(sh.chain, "exist")
	step := sh.newStep(recording.KindExist, "")

	if sh.err != nil {
		return sh.failed(step, sh.err)
	}
	if isNil(sh.subject) {
		return sh.failed(step, &ShouldError{
			BaseError: BaseError{Message: "Exist"},
			Chain:     sh.words(),
		})
	}
	return sh.passed(ctx, step)
}

func (sh *Should) compare(ctx context.Context, kind recording.Kind, word string, expected any, transforms []Transform) error {
	sh.chain = append(sh.chain, word)
	step := sh.newStep(kind, fmt.Sprint(expected))

	if sh.err != nil {
		return sh.failed(step, sh.err)
	}
	got := sh.subject
	for _, t := range transforms {
		var err error
		if got, err = t(ctx, got); err != nil {
			return sh.failed(step, err)
		}
	}
	if !strictEqual(got, expected) {
		return sh.failed(step, &CompareError{
			ShouldError: ShouldError{
				BaseError: BaseError{Message: fmt.Sprintf("%s%s %v %v", strings.ToUpper(word[:1]), word[1:], got, expected)},
				Chain:     sh.words(),
			},
			Got:      got,
			Expected: expected,
		})
	}
	return sh.passed(ctx, step)
}

func (sh *Should) newStep(kind recording.Kind, value string) recording.Step {
	sh.session.counter++
	return recording.Step{
		Action:   kind,
		Selector: sh.selector,
		Doc:      strings.Join(sh.chain, " "),
		Value:    value,
	}
}

func (sh *Should) failed(step recording.Step, err error) error {
	step.Failed = true
	sh.session.rec.AddStep(step)
	return err
}

// passed captures the highlight screenshot when the subject came from a
// selector, and records the step.
func (sh *Should) passed(ctx context.Context, step recording.Step) error {
	s := sh.session
	if sh.selector != "" && !isNil(sh.subject) && !sh.noScreenshot && s.rec.Enabled() {
		name, err := sh.highlightShot(ctx, step.Action)
		if err != nil {
			return sh.failed(step, err)
		}
		step.HighlightScreenshot = name
	}
	s.rec.AddStep(step)
	s.pass(step.Doc)
	return nil
}

// highlightShot outlines the subject, captures it and removes the outline
// again, also when the capture fails.
func (sh *Should) highlightShot(ctx context.Context, kind recording.Kind) (name string, err error) {
	s := sh.session
	target := fmt.Sprintf("'%s'", sh.selector)
	if err := driver.Highlight(ctx, s.drv, sh.selector); err != nil {
		return "", newActionError("highlight", target, err)
	}
	defer func() {
		if uerr := driver.Unhighlight(ctx, s.drv, sh.selector); uerr != nil && err == nil {
			err = newActionError("unhighlight", target, uerr)
		}
	}()

	name, err = s.capture(ctx, kind, recording.PhaseHighlight)
	if err != nil {
		return "", newActionError("screenshot", target, err)
	}
	return name, nil
}

func (sh *Should) words() []string {
	return append([]string(nil), sh.chain...)
}

// strictEqual requires the same dynamic type and equal values. Values of
// non-comparable types are compared deeply.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
