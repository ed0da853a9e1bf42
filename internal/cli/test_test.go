package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: adults
entity: Contact
collection: default
where:
  - gt: [{member: Age}, 10]
expect: "SELECT e FROM default as e WHERE (e.age > 10)"
`

const failingScenario = `name: wrong
entity: Contact
collection: default
expect: "SELECT x FROM default as e"
`

const rejectedScenario = `name: rejected
entity: Contact
collection: default
take: -1
expect_error: INVALID_QUERY_MODEL
`

func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestTest_AllPass(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adults.yaml":   passingScenario,
		"rejected.yaml": rejectedScenario,
	})

	stdout, _, err := runCLI(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, markPass+" adults")
	assert.Contains(t, stdout, markPass+" rejected")
	assert.Contains(t, stdout, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, stdout, "All scenarios passed")
}

func TestTest_FailureExitsOne(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	stdout, _, err := runCLI(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(1), data["failed"])
	assert.Equal(t, float64(2), data["total"])
}

func TestTest_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	stdout, _, err := runCLI(t, "test", dir, "--filter", "adu*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 total")
	assert.NotContains(t, stdout, "wrong")
}

func TestTest_UpdateWritesGoldenThenChecksIt(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"adults.yaml": passingScenario})
	golden := filepath.Join(dir, "golden", "adults.golden")

	_, _, err := runCLI(t, "test", dir, "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"statement":"SELECT e FROM default as e WHERE (e.age > 10)"`)

	_, _, err = runCLI(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte(`{"name":"adults"}`), 0o644))
	stdout, _, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "does not match golden file")
}

func TestTest_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing dir", []string{"test", filepath.Join(t.TempDir(), "nope")}},
		{"bad filter", []string{"test", t.TempDir(), "--filter", "["}},
		{"bad scenario", []string{"test", scenarioDir(t, map[string]string{"x.yaml": "name: x\ncollection: c\n"})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestTest_EmptyDir(t *testing.T) {
	stdout, _, err := runCLI(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found.")
}
