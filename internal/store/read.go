package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/recording"
)

const runColumns = `id, scenario, description, dir, outcome, failure, message, digest, started_at, finished_at, step_count`

// ListRuns returns the most recent runs, newest first. An empty scenario
// lists every scenario; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, scenario string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE ? = '' OR scenario = ?
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, scenario, scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given ID or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ReadSteps returns the steps of a run in recording order.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]recording.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, selector, doc, value, before_screenshot, highlight_screenshot, after_screenshot, failed
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []recording.Step{}
	for rows.Next() {
		var st recording.Step
		var action string
		if err := rows.Scan(&action, &st.Selector, &st.Doc, &st.Value,
			&st.BeforeScreenshot, &st.HighlightScreenshot, &st.AfterScreenshot, &st.Failed); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Action = recording.Kind(action)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var outcome, failure, started, finished string
	err := row.Scan(&run.ID, &run.Scenario, &run.Description, &run.Dir, &outcome, &failure,
		&run.Message, &run.Digest, &started, &finished, &run.StepCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Outcome = recording.Outcome(outcome)
	run.Failure = e2e.FailureKind(failure)
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}
