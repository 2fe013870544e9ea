package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/e2e2d/internal/recording"
	"github.com/roach88/e2e2d/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string
	Limit    int
	RunID    string
}

// RunDetail is the JSON output of history --run.
type RunDetail struct {
	Run   store.Run        `json:"run"`
	Steps []recording.Step `json:"steps"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs from a history database",
		Long: `List runs recorded with "e2e2d run --history <db>", newest first.

With --run, print one run and its steps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the history database (required)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only list runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run with its steps")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run %s not found", opts.RunID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: run %s not found", ErrCodeNotFound, opts.RunID))
		}
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		steps, err := st.ReadSteps(ctx, run.ID)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read steps", err)
		}
		return outputRunDetail(formatter, RunDetail{Run: run, Steps: steps})
	}

	runs, err := st.ListRuns(ctx, opts.Scenario, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	formatter.VerboseLog("Found %d run(s) in %s", len(runs), opts.Database)

	if formatter.JSON() {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSCENARIO\tOUTCOME\tSTEPS\tSTARTED\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Scenario, r.Outcome, r.StepCount, r.StartedAt.Format("2006-01-02 15:04:05"), r.Duration())
	}
	return tw.Flush()
}

func outputRunDetail(formatter *OutputFormatter, detail RunDetail) error {
	if formatter.JSON() {
		return formatter.Success(detail)
	}

	r := detail.Run
	fmt.Fprintf(formatter.Writer, "Run:      %s\n", r.ID)
	fmt.Fprintf(formatter.Writer, "Scenario: %s\n", r.Scenario)
	fmt.Fprintf(formatter.Writer, "Outcome:  %s\n", r.Outcome)
	if r.Failure != "" {
		fmt.Fprintf(formatter.Writer, "Failure:  %s: %s\n", r.Failure, r.Message)
	}
	fmt.Fprintf(formatter.Writer, "Folder:   %s\n", r.Dir)
	fmt.Fprintf(formatter.Writer, "Digest:   %s\n", r.Digest)
	fmt.Fprintln(formatter.Writer)
	for i, s := range detail.Steps {
		mark := "✓"
		if s.Failed {
			mark = "⨯"
		}
		fmt.Fprintf(formatter.Writer, "%3d %s %-12s %s\n", i+1, mark, s.Action, s.Doc)
	}
	return nil
}
