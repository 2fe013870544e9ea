package harness

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/e2e2d/internal/config"
	"github.com/roach88/e2e2d/internal/e2e"
	"github.com/roach88/e2e2d/internal/testutil"
)

func loginDriver() *testutil.FakeDriver {
	d := testutil.NewFakeDriver(map[string]string{"#user": "", "#login": "Log in"})
	d.OnClick["#login"] = func(d *testutil.FakeDriver) { d.Elements["#welcome"] = " Hello admin " }
	return d
}

func newTestRunner(t *testing.T, d *testutil.FakeDriver) (*e2e.Runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.OutputFolder = t.TempDir()

	var out bytes.Buffer
	r := e2e.NewRunner(cfg, d.Launcher(nil))
	r.IDs = testutil.NewFixedIDGenerator()
	r.Clock = testutil.NewDeterministicClock()
	r.Out = &out
	return r, &out
}

func TestCompile_PreconditionsFirst(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login.yaml")
	require.NoError(t, err)

	steps := Compile(scenario)
	require.Len(t, steps, 6)

	pre, ok := steps[0].(e2e.Precondition)
	require.True(t, ok)
	assert.Equal(t, "logged out", pre.Name)
	assert.Len(t, pre.Steps, 1)

	for _, st := range steps[1:] {
		_, ok := st.(e2e.Action)
		assert.True(t, ok)
	}
}

func TestRun_LoginScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login.yaml")
	require.NoError(t, err)

	d := loginDriver()
	r, out := newTestRunner(t, d)

	session, err := Run(context.Background(), r, scenario)
	require.NoError(t, err)
	require.NoError(t, session.Failure())

	assert.Equal(t, []string{
		"goto http://localhost/logout",
		"goto http://localhost/login",
		"fill #user admin",
		"click #login",
	}, gotoFillClick(d.Calls))
	assert.Equal(t, "\tlog in as admin:\n"+
		"\t\t✓ Given logged out\n"+
		"\t\t✓ You navigate to http://localhost/login\n"+
		"\t\t✓ You insert admin into #user\n"+
		"\t\t✓ You left click #login\n"+
		"\t\t✓ You see the greeting to exist\n"+
		"\t\t✓ You see #welcome is equal\n", out.String())
}

func TestRun_EqualsIsExact(t *testing.T) {
	scenario, err := ParseScenario("s.yaml", []byte(`
name: Exact
steps:
  - navTo: http://localhost/login
  - click: "#login"
  - see: { selector: "#welcome", equals: "Hello admin" }
`))
	require.NoError(t, err)

	r, out := newTestRunner(t, loginDriver())
	session, err := Run(context.Background(), r, scenario)
	require.NoError(t, err)

	assert.Equal(t, e2e.FailureCompare, e2e.Classify(session.Failure()))
	assert.Contains(t, out.String(), "\t\t⨯ You see #welcome equals | Got: ' Hello admin ' Expected: 'Hello admin'\n")
}

func gotoFillClick(calls []string) []string {
	var out []string
	for _, c := range calls {
		switch {
		case len(c) > 5 && (c[:5] == "goto " || c[:5] == "fill "):
			out = append(out, c)
		case len(c) > 6 && c[:6] == "click ":
			out = append(out, c)
		}
	}
	return out
}
