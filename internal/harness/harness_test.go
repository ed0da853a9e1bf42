package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/querydef"
	"github.com/roach88/docql/internal/testutil"
)

func contactScenario(t *testing.T, src string) *querydef.Definition {
	t.Helper()
	def, err := querydef.Parse([]byte(src))
	require.NoError(t, err)
	return def
}

func TestRun_PassingScenario(t *testing.T) {
	scenario := contactScenario(t, `
name: adults
entity: Contact
collection: default
where:
  - gt: [{member: Age}, 10]
expect: "SELECT e FROM default as e WHERE (e.age > 10)"
`)

	result, err := Run(scenario, WithResolver(testutil.ContactMapper()))
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "SELECT e FROM default as e WHERE (e.age > 10)", result.Statement)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, "adults", result.Receipt.ClientContextID)
	assert.Equal(t, int64(1), result.Receipt.Seq)
	assert.Equal(t, ir.MustStatementFingerprint("adults", result.Statement), result.Receipt.Fingerprint)
}

func TestRun_StatementMismatch(t *testing.T) {
	scenario := contactScenario(t, `
name: wrong
entity: Contact
collection: default
expect: "SELECT e FROM other as e"
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "statement mismatch")
	assert.Contains(t, result.Errors[0], "SELECT e FROM default as e")
	assert.NotNil(t, result.Receipt, "a compiled statement is still recorded")
}

func TestRun_ExpectedErrorMatches(t *testing.T) {
	scenario := contactScenario(t, `
name: bad_take
entity: Contact
collection: default
take: -5
expect_error: INVALID_QUERY_MODEL
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "INVALID_QUERY_MODEL", result.ErrorCode)
	assert.Nil(t, result.Receipt)
}

func TestRun_ExpectedErrorDiffers(t *testing.T) {
	scenario := contactScenario(t, `
name: bad_take
entity: Contact
collection: default
take: -5
expect_error: UNSUPPORTED_EXPRESSION
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error UNSUPPORTED_EXPRESSION")
}

func TestRun_ExpectedErrorButCompiled(t *testing.T) {
	scenario := contactScenario(t, `
name: fine
entity: Contact
collection: default
expect_error: INVALID_QUERY_MODEL
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "compiled: SELECT e FROM default as e")
}

func TestRun_UnexpectedCompileError(t *testing.T) {
	scenario := contactScenario(t, `
name: null_order
entity: Contact
collection: default
where:
  - gt: [{member: Age}, null]
expect: "SELECT e FROM default as e"
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "UNSUPPORTED_EXPRESSION", result.ErrorCode)
	assert.Contains(t, result.Errors[0], "unexpected compile error")
}

func TestRun_DecodeErrorIsReturned(t *testing.T) {
	scenario := contactScenario(t, `
name: undefined_var
entity: Contact
collection: default
where:
  - eq: [{member: Age}, {var: missing}]
expect: "SELECT e FROM default as e"
`)

	_, err := Run(scenario)
	require.Error(t, err)
	assert.True(t, querydef.IsDecodeError(err))
}

func TestRunAll_Summary(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	summary, err := RunAll(scenarios, WithResolver(testutil.ContactMapper()))
	require.NoError(t, err)
	for _, r := range summary.Results {
		assert.True(t, r.Pass, "%s: %v", r.Name, r.Errors)
	}
	assert.True(t, summary.Pass())
	assert.Equal(t, len(scenarios), summary.Passed)
	assert.Zero(t, summary.Failed)
}

func TestSummary_CountsFailures(t *testing.T) {
	var s Summary
	s.Add(NewResult("ok"))
	failed := NewResult("bad")
	failed.AddError("boom")
	s.Add(failed)

	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.False(t, s.Pass())
}
