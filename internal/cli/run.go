package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/e2e2d/internal/config"
	"github.com/roach88/e2e2d/internal/driver"
	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/harness"
	"github.com/roach88/e2e2d/internal/lazyargs"
	"github.com/roach88/e2e2d/internal/store"
)

const runHeader = "Usage: e2e2d run [options] <scenario.yaml>...\n\nOptions:"

// RunOptions holds dependencies for the run command.
type RunOptions struct {
	*RootOptions

	// Launcher starts the browser driver. Tests substitute a fake.
	Launcher driver.Launcher
	// IDs and Clock override run identifiers and timestamps (for testing).
	IDs   e2e.IDGenerator
	Clock e2e.Clock
}

// outputFlags are the global output options, bound by the same binder as the
// harness configuration because cobra flag parsing is disabled for run.
type outputFlags struct {
	Format string `doc:"Output format (json|text)"`
}

// ScenarioResult is the outcome of one scenario run.
type ScenarioResult struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	RunID   string `json:"run_id"`
	Dir     string `json:"dir"`
	Outcome string `json:"outcome"`
	Steps   int    `json:"steps"`
	Digest  string `json:"digest"`
	Failure string `json:"failure,omitempty"`
	Message string `json:"message,omitempty"`
}

// RunSummary is the JSON output of the run command.
type RunSummary struct {
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts, Launcher: driver.LaunchRod})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [options] <scenario.yaml>...",
		Short: "Run scenarios in a browser and write their documentation",
		Long: `Run each scenario file in order, narrating every step and writing
screenshots and e2e2d.json under <outputFolder>/<scenario>/.

Options are bound from the argument list; run "e2e2d run --help" to list
them. Every argument no option consumes is a scenario path.

Exits 1 if any scenario fails.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args, cmd)
		},
	}
}

func runRun(opts *RunOptions, args []string, cmd *cobra.Command) error {
	cfg := config.Default()
	rest, err := lazyargs.Parse(cfg, args, runHeader, cmd.OutOrStdout())
	if errors.Is(err, lazyargs.ErrHelp) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalidArgs, err)
	}

	out := outputFlags{Format: opts.Format}
	paths, err := lazyargs.Bind(&out, rest)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	if !isValidFormat(out.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", out.Format, ValidFormats))
	}
	for _, p := range paths {
		if strings.HasPrefix(p, "-") {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: unknown option %q", ErrCodeInvalidArgs, p))
		}
	}
	if len(paths) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no scenario files given", ErrCodeInvalidArgs))
	}

	verbose := cfg.Verbose || opts.Verbose
	formatter := &OutputFormatter{
		Format:    out.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   verbose,
	}
	cfg.Verbose = verbose
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	// Load everything before launching a browser so a typo fails fast.
	scenarios := make([]*harness.Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := harness.LoadScenario(path)
		if err != nil {
			_ = formatter.Error(ErrCodeInvalidScenario, err.Error(), map[string]string{"path": path})
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		scenarios = append(scenarios, s)
	}

	var history *store.Store
	if cfg.History != "" {
		history, err = store.Open(cfg.History)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer history.Close()
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// In JSON mode stdout carries the summary only.
	var narrative io.Writer = cmd.OutOrStdout()
	if formatter.JSON() {
		narrative = cmd.ErrOrStderr()
	}

	runner := newRunner(opts, cfg, narrative, logger)
	if history != nil {
		runner.History = history
	}

	summary := RunSummary{Scenarios: make([]ScenarioResult, 0, len(scenarios))}
	for i, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		formatter.VerboseLog("Running %s", paths[i])
		sess, err := harness.Run(ctx, runner, s)
		if sess == nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), map[string]string{"path": paths[i]})
			return WrapExitError(ExitCommandError, "failed to start scenario", err)
		}
		if err != nil {
			// The run itself finished; only its artifacts are incomplete.
			logger.Error("persisting run failed", "scenario", s.Name, "error", err)
		}

		result := scenarioResult(paths[i], sess)
		if sess.Passed() {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Scenarios = append(summary.Scenarios, result)
	}

	if err := outputRunSummary(formatter, summary); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return NewExitError(ExitCommandError, "interrupted")
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeScenarioFailed, summary.Failed))
	}
	return nil
}

func newRunner(opts *RunOptions, cfg *config.Config, out io.Writer, logger *slog.Logger) *e2e.Runner {
	launcher := opts.Launcher
	if launcher == nil {
		launcher = driver.LaunchRod
	}
	r := e2e.NewRunner(cfg, launcher)
	r.Out = out
	r.Logger = logger
	if opts.IDs != nil {
		r.IDs = opts.IDs
	}
	if opts.Clock != nil {
		r.Clock = opts.Clock
	}
	return r
}

func scenarioResult(path string, sess *e2e.Session) ScenarioResult {
	rec := sess.Recording()
	result := ScenarioResult{
		Path:    path,
		Name:    rec.Name,
		RunID:   rec.RunID,
		Dir:     sess.Dir(),
		Outcome: string(rec.Outcome),
		Steps:   rec.Len(),
		Digest:  rec.Digest,
	}
	if err := sess.Failure(); err != nil {
		result.Failure = string(e2e.Classify(err))
		result.Message = err.Error()
	}
	return result
}

func outputRunSummary(formatter *OutputFormatter, summary RunSummary) error {
	if formatter.JSON() {
		return formatter.Success(summary)
	}

	fmt.Fprintln(formatter.Writer)
	for _, r := range summary.Scenarios {
		fmt.Fprintf(formatter.Writer, "%s %s -> %s\n", r.Outcome, r.Name, r.Dir)
	}
	fmt.Fprintf(formatter.Writer, "%d passed, %d failed\n", summary.Passed, summary.Failed)
	return nil
}
