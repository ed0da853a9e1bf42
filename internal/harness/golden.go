package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/querydef"
)

// toCanonicalMap converts a Result to a map[string]any for canonical JSON
// serialization, which only handles IR types and primitives.
func (r *Result) toCanonicalMap() map[string]any {
	m := map[string]any{
		"name": r.Name,
		"pass": r.Pass,
	}
	if r.Statement != "" {
		m["statement"] = r.Statement
	}
	if r.ErrorCode != "" {
		m["error_code"] = r.ErrorCode
	}
	if len(r.Errors) > 0 {
		errs := make([]any, len(r.Errors))
		for i, e := range r.Errors {
			errs[i] = e
		}
		m["errors"] = errs
	}
	if r.Receipt != nil {
		m["receipt"] = map[string]any{
			"client_context_id": r.Receipt.ClientContextID,
			"fingerprint":       r.Receipt.Fingerprint,
			"seq":               r.Receipt.Seq,
		}
	}
	return m
}

// Snapshot serializes a result as canonical JSON, the golden file format.
func Snapshot(result *Result) ([]byte, error) {
	data, err := ir.MarshalCanonical(result.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// RunWithGolden executes a scenario and compares the result against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *querydef.Definition, opts ...Option) error {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
