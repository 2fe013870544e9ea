package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/recording"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// createTestRun creates a run of scenario starting offset seconds after baseTime.
func createTestRun(id, scenario string, offset int) Run {
	start := baseTime.Add(time.Duration(offset) * time.Second)
	return Run{
		ID:         id,
		Scenario:   scenario,
		Dir:        "out/" + scenario,
		Outcome:    recording.OutcomePassed,
		Failure:    e2e.FailureNone,
		Digest:     "digest-" + id,
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}
}

func testSteps() []recording.Step {
	return []recording.Step{
		{Action: recording.KindNavTo, Selector: "http://x", Doc: "You navigate to http://x", AfterScreenshot: "1_navTo_after.png"},
		{Action: recording.KindFill, Selector: "#a", Doc: "You insert v into #a", Value: "v"},
		{Action: recording.KindExist, Selector: "#c", Doc: "You see #c to exist", Failed: true},
	}
}
