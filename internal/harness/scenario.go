package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/querydef"
)

// knownErrorCodes lists the codes expect_error may name.
var knownErrorCodes = []ir.ErrorCode{
	ir.ErrCodeUnsupportedLiteral,
	ir.ErrCodeUnsupportedExpression,
	ir.ErrCodeInvalidQueryModel,
}

// LoadScenario loads a scenario file.
//
// The file is decoded strictly (unknown fields are rejected) and must carry
// either expect or expect_error.
func LoadScenario(path string) (*querydef.Definition, error) {
	def, err := querydef.Load(path)
	if err != nil {
		return nil, err
	}
	if err := validateScenario(def); err != nil {
		return nil, fmt.Errorf("%s: invalid scenario: %w", path, err)
	}
	return def, nil
}

// LoadScenarios loads every scenario file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*querydef.Definition, error) {
	defs, err := querydef.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if err := validateScenario(def); err != nil {
			return nil, fmt.Errorf("%s: invalid scenario: %w", def.Path, err)
		}
	}
	return defs, nil
}

// validateScenario checks the expectation fields.
func validateScenario(d *querydef.Definition) error {
	if d.Expect == "" && d.ExpectError == "" {
		return fmt.Errorf("expect or expect_error is required")
	}
	if d.ExpectError != "" && !slices.Contains(knownErrorCodes, ir.ErrorCode(d.ExpectError)) {
		return fmt.Errorf("expect_error: unknown error code %q", d.ExpectError)
	}
	return nil
}
