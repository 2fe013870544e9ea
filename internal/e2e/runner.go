package e2e

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/e2e2d/internal/canon"
	"github.com/roach88/e2e2d/internal/config"
	"github.com/roach88/e2e2d/internal/driver"
	"github.com/roach88/e2e2d/internal/recording"
)

// Step is an element of a scenario chain: an Action or a Precondition.
type Step interface {
	isStep()
}

// Action is a step run directly against the session.
type Action func(ctx context.Context, s *Session) error

func (Action) isStep() {}

// Precondition groups steps that establish state before the scenario
// proper. Only its entry is recorded; its steps run with recording and
// narration muted.
type Precondition struct {
	Name  string
	Steps []Step
}

func (Precondition) isStep() {}

// NavTo returns an action loading url.
func NavTo(url string) Action {
	return func(ctx context.Context, s *Session) error { return s.NavTo(ctx, url) }
}

// Fill returns an action typing value into selector.
func Fill(selector, value string) Action {
	return func(ctx context.Context, s *Session) error { return s.Fill(ctx, selector, value) }
}

// Click returns an action clicking selector.
func Click(selector string) Action {
	return func(ctx context.Context, s *Session) error { return s.Click(ctx, selector) }
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock supplies run timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// RunReport summarizes a finished run for a History.
type RunReport struct {
	Recording  *recording.Recording
	Dir        string
	StartedAt  time.Time
	FinishedAt time.Time
	Failure    FailureKind
	Message    string
}

// History indexes finished runs.
type History interface {
	RecordRun(ctx context.Context, run RunReport) error
}

// Runner executes scenarios.
type Runner struct {
	Config   *config.Config
	Launcher driver.Launcher
	IDs      IDGenerator
	Clock    Clock
	History  History // optional
	Out      io.Writer
	Logger   *slog.Logger
}

// NewRunner returns a runner writing narrative to stdout and logging
// nowhere.
func NewRunner(cfg *config.Config, launcher driver.Launcher) *Runner {
	return &Runner{
		Config:   cfg,
		Launcher: launcher,
		IDs:      UUIDv7Generator{},
		Clock:    systemClock{},
		Out:      os.Stdout,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run opens a session, executes steps in order until one fails, then closes
// the driver and persists the recording. The returned error reports
// infrastructure problems only (launch, output folder, persistence); a
// failing step is reported by Session.Failure.
func (r *Runner) Run(ctx context.Context, name, description string, steps ...Step) (*Session, error) {
	cfg := r.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	ids := r.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	clock := r.Clock
	if clock == nil {
		clock = systemClock{}
	}

	dir := recording.ScenarioDir(cfg.OutputFolder, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scenario folder: %w", err)
	}

	drv, err := r.Launcher(ctx, cfg.DriverOptions())
	if err != nil {
		return nil, fmt.Errorf("launch driver: %w", err)
	}

	rec := recording.New(name, description)
	rec.RunID = ids.Generate()
	s := &Session{
		cfg:    cfg,
		drv:    drv,
		rec:    rec,
		dir:    dir,
		out:    out,
		styles: newStyles(out),
		logger: logger.With("scenario", name, "run", rec.RunID),
	}

	header := description
	if header == "" {
		header = name
	}
	fmt.Fprintf(out, "\t%s:\n", header)

	started := clock.Now()
	s.logger.Info("run started", "steps", len(steps))
	for i, step := range steps {
		if err := s.runStep(ctx, step); err != nil {
			s.failure = err
			s.logger.Info("step failed", "index", i, "kind", Classify(err), "error", err)
			s.report(err)
			break
		}
	}

	return s, r.finish(ctx, s, started, clock.Now())
}

// runStep runs one step. A panicking step fails like any other so the
// session is still closed and persisted.
func (s *Session) runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("step panicked", "panic", r, "stack", string(debug.Stack()))
			err = &BaseError{Message: fmt.Sprintf("step panicked: %v", r)}
		}
	}()

	switch st := step.(type) {
	case Action:
		return st(ctx, s)
	case Precondition:
		return s.precondition(ctx, st)
	case nil:
		return errors.New("nil step")
	default:
		return fmt.Errorf("unsupported step type %T", step)
	}
}

func (s *Session) precondition(ctx context.Context, p Precondition) error {
	s.counter++
	s.rec.AddStep(recording.Step{
		Action: recording.KindPrecondition,
		Doc:    p.Name,
	})

	// Nested preconditions must not restart a recording muted by an outer one.
	if !s.rec.Enabled() {
		return s.runAll(ctx, p.Steps)
	}
	s.pass("Given " + p.Name)
	s.rec.Stop()
	defer s.rec.Start()
	return s.runAll(ctx, p.Steps)
}

func (s *Session) runAll(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := s.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// report renders the failure that stopped the chain.
func (s *Session) report(err error) {
	var cmp *CompareError
	var should *ShouldError
	var action *ActionError
	switch {
	case errors.As(err, &cmp):
		s.fail(fmt.Sprintf("%s | Got: '%v' Expected: '%v'", cmp.Narrative(), cmp.Got, cmp.Expected))
	case errors.As(err, &should):
		s.fail(should.Narrative())
	case errors.As(err, &action):
		for _, line := range action.Lines() {
			fmt.Fprintln(s.out, line)
		}
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	if s.cfg.Verbose {
		fmt.Fprintf(s.out, "%+v\n", err)
	}
}

// finish closes the driver and persists the recording. It runs exactly once
// per session, whatever the outcome of the steps.
func (r *Runner) finish(ctx context.Context, s *Session, started, finished time.Time) error {
	var errs []error
	if err := s.drv.Close(); err != nil {
		s.logger.Warn("closing driver failed", "error", err)
		errs = append(errs, fmt.Errorf("close driver: %w", err))
	}

	kind := Classify(s.failure)
	switch kind {
	case FailureNone:
		s.rec.Outcome = recording.OutcomePassed
	case FailureCompare, FailureShould:
		s.rec.Outcome = recording.OutcomeFailed
	default:
		s.rec.Outcome = recording.OutcomeError
	}

	digest, err := canon.Digest(s.rec)
	if err != nil {
		errs = append(errs, err)
	}
	s.rec.Digest = digest

	path, err := s.rec.Save(s.dir)
	if err != nil {
		errs = append(errs, err)
	} else {
		s.logger.Info("recording saved", "path", path, "outcome", s.rec.Outcome, "steps", s.rec.Len())
	}

	if r.History != nil {
		run := RunReport{
			Recording:  s.rec,
			Dir:        s.dir,
			StartedAt:  started,
			FinishedAt: finished,
			Failure:    kind,
		}
		if s.failure != nil {
			run.Message = s.failure.Error()
		}
		if err := r.History.RecordRun(context.WithoutCancel(ctx), run); err != nil {
			errs = append(errs, fmt.Errorf("record history: %w", err))
		}
	}
	return errors.Join(errs...)
}
