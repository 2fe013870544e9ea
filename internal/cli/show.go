package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/e2e2d/internal/canon"
	"github.com/roach88/e2e2d/internal/recording"
)

// ShowResult is the JSON output of the show command.
type ShowResult struct {
	Recording      *recording.Recording `json:"recording"`
	DigestValid    bool                 `json:"digest_valid"`
	ComputedDigest string               `json:"computed_digest"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <e2e2d.json | scenario folder>",
		Short: "Narrate a saved recording and verify its digest",
		Long: `Print the narrative of a recording written by "e2e2d run" and check
that its digest still matches its steps.

Exits 1 if the digest does not match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rec, err := recording.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load recording", err)
	}

	computed, err := canon.Digest(rec)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to compute digest", err)
	}
	valid := rec.Digest == computed
	formatter.VerboseLog("stored digest %s, computed %s", rec.Digest, computed)

	if formatter.JSON() {
		result := ShowResult{Recording: rec, DigestValid: valid, ComputedDigest: computed}
		if valid {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else if err := formatter.Error(ErrCodeDigestMismatch, "recording digest does not match its steps", result); err != nil {
			return err
		}
	} else {
		narrate(formatter.Writer, rec)
		if valid {
			fmt.Fprintf(formatter.Writer, "\noutcome: %s, run: %s, digest ok\n", rec.Outcome, rec.RunID)
		} else {
			fmt.Fprintf(formatter.Writer, "\noutcome: %s, run: %s, digest MISMATCH (stored %s, computed %s)\n",
				rec.Outcome, rec.RunID, rec.Digest, computed)
		}
	}

	if !valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: recording digest does not match its steps", ErrCodeDigestMismatch))
	}
	return nil
}

// narrate prints rec the way the run printed it, one line per step.
func narrate(w io.Writer, rec *recording.Recording) {
	r := lipgloss.NewRenderer(w)
	tick := r.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	cross := r.NewStyle().Foreground(lipgloss.Color("1")).Render("⨯")

	header := rec.Description
	if header == "" {
		header = rec.Name
	}
	fmt.Fprintf(w, "\t%s:\n", header)
	for _, st := range rec.Steps {
		mark := tick
		if st.Failed {
			mark = cross
		}
		doc := st.Doc
		if st.Action == recording.KindPrecondition {
			doc = "Given " + doc
		}
		fmt.Fprintf(w, "\t\t%s %s\n", mark, doc)
	}
}
