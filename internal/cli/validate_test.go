package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidate_ValidScenarios(t *testing.T) {
	out, err := executeValidate(t, "text",
		"testdata/scenarios/login.yaml", "testdata/scenarios/wrong_greeting.yaml")
	require.NoError(t, err)
	assert.Equal(t, "✓ testdata/scenarios/login.yaml (Log in, 5 step(s))\n"+
		"✓ testdata/scenarios/wrong_greeting.yaml (Wrong greeting, 4 step(s))\n", out)
}

func TestValidate_InvalidScenario(t *testing.T) {
	out, err := executeValidate(t, "text",
		"testdata/scenarios/login.yaml", "testdata/scenarios/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeInvalidScenario)
	assert.Contains(t, out, "✓ testdata/scenarios/login.yaml")
	assert.Contains(t, out, "✗ testdata/scenarios/invalid.yaml")
}

func TestValidate_JSON(t *testing.T) {
	out, err := executeValidate(t, "json", "testdata/scenarios/login.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, ScenarioCheck{Path: "testdata/scenarios/login.yaml", Name: "Log in", Steps: 5, Given: 1}, resp.Data.Scenarios[0])
}

func TestValidate_JSONInvalid(t *testing.T) {
	out, err := executeValidate(t, "json", "testdata/scenarios/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidScenario, resp.Error.Code)
}

func TestValidate_MissingFile(t *testing.T) {
	out, err := executeValidate(t, "text", "testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidate_RequiresArgs(t *testing.T) {
	_, err := executeValidate(t, "text")
	require.Error(t, err)
}
