package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/e2e2d/internal/recording"
)

func TestRunWithGolden_Login(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login.yaml")
	require.NoError(t, err)

	r, _ := newTestRunner(t, loginDriver())
	session, err := RunWithGolden(t, r, scenario, "login")
	require.NoError(t, err)

	// The file on disk matches the in-memory recording.
	saved, err := recording.Load(session.Dir())
	require.NoError(t, err)
	assert.Equal(t, session.Recording().Steps, saved.Steps)
	assert.Equal(t, session.Recording().Digest, saved.Digest)
}
