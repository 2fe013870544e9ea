package recording

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStep_IgnoredWhileStopped(t *testing.T) {
	r := New("login", "log in")
	assert.True(t, r.Enabled())

	assert.True(t, r.AddStep(Step{Action: KindNavTo, Selector: "http://x"}))
	r.Stop()
	assert.False(t, r.Enabled())
	assert.False(t, r.AddStep(Step{Action: KindClick, Selector: "#hidden"}))
	r.Start()
	assert.True(t, r.AddStep(Step{Action: KindClick, Selector: "#b"}))

	require.Equal(t, 2, r.Len())
	assert.Equal(t, KindNavTo, r.Steps[0].Action)
	assert.Equal(t, "#b", r.Steps[1].Selector)
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Log in as admin", "Log_in_as_admin"},
		{"single", "single"},
		{"two  spaces", "two__spaces"},
		{"café order", "café_order"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FolderName(tt.in), tt.in)
	}
	assert.Equal(t, filepath.Join("out", "a_b"), ScenarioDir("out", "a b"))
}

func TestScreenshotName(t *testing.T) {
	assert.Equal(t, "3_click_before.png", ScreenshotName(3, KindClick, PhaseBefore))
	assert.Equal(t, "12_exist_highlight.png", ScreenshotName(12, KindExist, PhaseHighlight))
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := New("Search", "search the catalog")
	r.RunID = "run-1"
	r.Outcome = OutcomePassed
	r.AddStep(Step{Action: KindFill, Selector: "#q", Doc: "You insert shoes into #q", Value: "shoes"})

	path, err := r.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, r.Steps, loaded.Steps)
	assert.Equal(t, "run-1", loaded.RunID)
	assert.True(t, loaded.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestMarshal_Golden(t *testing.T) {
	r := New("Log in", "log in as admin")
	r.RunID = "00000000-0000-7000-8000-000000000001"
	r.Outcome = OutcomePassed
	r.AddStep(Step{
		Action:          KindNavTo,
		Selector:        "http://localhost/login",
		Doc:             "You navigate to http://localhost/login",
		AfterScreenshot: "1_navTo_after.png",
	})
	r.AddStep(Step{
		Action:              KindExist,
		Selector:            "#welcome",
		Doc:                 "You see Welcome to exist",
		HighlightScreenshot: "2_exist_highlight.png",
	})

	data, err := r.Marshal()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "recording", data)
}
