package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/e2e2d/internal/harness"
)

// ScenarioCheck is the validation result of one scenario file.
type ScenarioCheck struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Steps int    `json:"steps"`
	Given int    `json:"given"`
	Error string `json:"error,omitempty"`
}

// ValidationResult is the JSON output of the validate command.
type ValidationResult struct {
	Valid     bool            `json:"valid"`
	Scenarios []ScenarioCheck `json:"scenarios"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Check scenario files without launching a browser",
		Long: `Check each scenario file against the scenario schema and the
structural rules (one action per step, one check per see).

Exits 1 if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Scenarios: make([]ScenarioCheck, 0, len(paths))}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		s, err := harness.LoadScenario(path)
		if errors.Is(err, fs.ErrNotExist) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario file not found: %s", path), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: scenario file not found: %s", ErrCodeNotFound, path))
		}
		check := ScenarioCheck{Path: path}
		if err != nil {
			result.Valid = false
			check.Error = err.Error()
		} else {
			check.Name = s.Name
			check.Steps = len(s.Steps)
			check.Given = len(s.Given)
		}
		result.Scenarios = append(result.Scenarios, check)
	}

	if formatter.JSON() {
		if result.Valid {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else if err := formatter.Error(ErrCodeInvalidScenario, "scenario validation failed", result); err != nil {
			return err
		}
	} else {
		for _, c := range result.Scenarios {
			if c.Error != "" {
				fmt.Fprintf(formatter.Writer, "✗ %s\n    %s\n", c.Path, c.Error)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✓ %s (%s, %d step(s))\n", c.Path, c.Name, c.Steps)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: scenario validation failed", ErrCodeInvalidScenario))
	}
	return nil
}
