package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/recording"
)

// RunWithGolden executes a scenario and compares its recording against
// testdata/golden/{golden}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The runner should use fixed run IDs for the comparison to be stable.
func RunWithGolden(t *testing.T, r *e2e.Runner, s *Scenario, golden string) (*e2e.Session, error) {
	t.Helper()

	session, err := Run(context.Background(), r, s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, golden, session.Recording()); err != nil {
		return session, err
	}
	return session, nil
}

// AssertGolden compares rec, serialized as in e2e2d.json, against a golden
// file.
func AssertGolden(t *testing.T, golden string, rec *recording.Recording) error {
	t.Helper()

	data, err := rec.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, golden, data)
	return nil
}
