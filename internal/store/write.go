package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/recording"
)

// timeLayout stores timestamps as sortable UTC text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one row of the runs table.
type Run struct {
	ID          string            `json:"id"`
	Scenario    string            `json:"scenario"`
	Description string            `json:"description"`
	Dir         string            `json:"dir"`
	Outcome     recording.Outcome `json:"outcome"`
	Failure     e2e.FailureKind   `json:"failure,omitempty"`
	Message     string            `json:"message,omitempty"`
	Digest      string            `json:"digest"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	StepCount   int               `json:"step_count"`
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriteRun inserts run and its steps in one transaction. A run whose ID is
// already stored is left untouched.
func (s *Store) WriteRun(ctx context.Context, run Run, steps []recording.Step) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, description, dir, outcome, failure, message, digest, started_at, finished_at, step_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		run.Description,
		run.Dir,
		string(run.Outcome),
		string(run.Failure),
		run.Message,
		run.Digest,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		len(steps),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tx.Commit()
	}

	for i, st := range steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO steps
			(run_id, seq, action, selector, doc, value, before_screenshot, highlight_screenshot, after_screenshot, failed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i+1,
			string(st.Action),
			st.Selector,
			st.Doc,
			st.Value,
			st.BeforeScreenshot,
			st.HighlightScreenshot,
			st.AfterScreenshot,
			st.Failed,
		)
		if err != nil {
			return fmt.Errorf("write step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// RecordRun stores a finished run reported by an e2e.Runner.
func (s *Store) RecordRun(ctx context.Context, report e2e.RunReport) error {
	rec := report.Recording
	return s.WriteRun(ctx, Run{
		ID:          rec.RunID,
		Scenario:    rec.Name,
		Description: rec.Description,
		Dir:         report.Dir,
		Outcome:     rec.Outcome,
		Failure:     report.Failure,
		Message:     report.Message,
		Digest:      rec.Digest,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
	}, rec.Steps)
}

var _ e2e.History = (*Store)(nil)
