package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/e2e2d/internal/config"
	"github.com/roach88/e2e2d/internal/driver"
	"github.com/roach88/e2e2d/internal/recording"
)

// Session is the live context of one scenario run. It is not safe for
// concurrent use; steps run one after another.
type Session struct {
	cfg     *config.Config
	drv     driver.Driver
	rec     *recording.Recording
	dir     string
	counter int
	out     io.Writer
	styles  styles
	logger  *slog.Logger
	failure error
}

type styles struct {
	tick  string
	cross string
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		tick:  r.NewStyle().Foreground(lipgloss.Color("2")).Render("✓"),
		cross: r.NewStyle().Foreground(lipgloss.Color("1")).Render("⨯"),
	}
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() *config.Config { return s.cfg }

// Driver returns the session's browser driver.
func (s *Session) Driver() driver.Driver { return s.drv }

// Recording returns the steps recorded so far.
func (s *Session) Recording() *recording.Recording { return s.rec }

// Dir returns the scenario folder artifacts are written to.
func (s *Session) Dir() string { return s.dir }

// Failure returns the error that stopped the run, or nil.
func (s *Session) Failure() error { return s.failure }

// Passed reports whether every step succeeded.
func (s *Session) Passed() bool { return s.failure == nil }

// NavTo loads url.
func (s *Session) NavTo(ctx context.Context, url string) error {
	return s.act(ctx, action{
		kind:     recording.KindNavTo,
		name:     "navTo",
		selector: url,
		detail:   fmt.Sprintf("'%s'", url),
		sentence: "You navigate to " + url,
	}, func(ctx context.Context) error {
		return s.drv.Goto(ctx, url)
	})
}

// Fill types value into the input matching selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	return s.act(ctx, action{
		kind:     recording.KindFill,
		name:     "fill",
		selector: selector,
		value:    value,
		detail:   fmt.Sprintf("'%s' with '%s'", selector, value),
		sentence: fmt.Sprintf("You insert %s into %s", value, selector),
	}, func(ctx context.Context) error {
		return s.drv.Fill(ctx, selector, value)
	})
}

// Click left-clicks the element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.act(ctx, action{
		kind:     recording.KindClick,
		name:     "leftClick",
		selector: selector,
		detail:   fmt.Sprintf("on '%s'", selector),
		sentence: "You left click " + selector,
	}, func(ctx context.Context) error {
		return s.drv.Click(ctx, selector)
	})
}

// Should starts an assertion chain.
func (s *Session) Should() *Should {
	return newShould(s, false)
}

// ShouldWithoutScreenshot starts an assertion chain that never touches the
// page for highlights or screenshots.
func (s *Session) ShouldWithoutScreenshot() *Should {
	return newShould(s, true)
}

type action struct {
	kind     recording.Kind
	name     string
	selector string
	value    string
	detail   string
	sentence string
}

// act brackets do with before and after screenshots and records the step.
// A failing action is recorded as a failed step.
func (s *Session) act(ctx context.Context, a action, do func(context.Context) error) error {
	s.counter++
	step := recording.Step{
		Action:   a.kind,
		Selector: a.selector,
		Doc:      a.sentence,
		Value:    a.value,
	}
	s.logger.Debug("action", "kind", a.kind, "selector", a.selector, "step", s.counter)

	fail := func(err error) error {
		step.Failed = true
		s.rec.AddStep(step)
		return newActionError(a.name, a.detail, err)
	}

	name, err := s.capture(ctx, a.kind, recording.PhaseBefore)
	if err != nil {
		return fail(err)
	}
	step.BeforeScreenshot = name

	if err := do(ctx); err != nil {
		return fail(err)
	}

	name, err = s.capture(ctx, a.kind, recording.PhaseAfter)
	if err != nil {
		return fail(err)
	}
	step.AfterScreenshot = name

	s.rec.AddStep(step)
	s.pass(a.sentence)
	return nil
}

// capture writes a screenshot for the current step and returns its name
// relative to the scenario folder, or "" when screenshots are disabled or
// the recording is muted.
func (s *Session) capture(ctx context.Context, kind recording.Kind, phase recording.Phase) (string, error) {
	if !s.cfg.Screenshots || !s.rec.Enabled() {
		return "", nil
	}
	name := recording.ScreenshotName(s.counter, kind, phase)
	if err := s.drv.Screenshot(ctx, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	return name, nil
}

func (s *Session) pass(sentence string) {
	if !s.rec.Enabled() {
		return
	}
	fmt.Fprintf(s.out, "\t\t%s %s\n", s.styles.tick, sentence)
}

func (s *Session) fail(sentence string) {
	fmt.Fprintf(s.out, "\t\t%s %s\n", s.styles.cross, sentence)
}
