package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/mapping"
	"github.com/roach88/docql/internal/n1ql"
	"github.com/roach88/docql/internal/querydef"
)

// QueryCheck is the validation outcome of one query file.
type QueryCheck struct {
	File    string `json:"file"`
	Name    string `json:"name,omitempty"`
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Mappings []string     `json:"mappings,omitempty"` // mapping load errors
	Queries  []QueryCheck `json:"queries"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query.yaml>...",
		Short: "Check query definitions without printing statements",
		Long: `Check that query definitions decode and compile, and that the
configured CUE entity mappings load cleanly.

Exit codes:
  0 - Everything is valid
  1 - One or more queries or mappings are invalid
  2 - Command error (bad config)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if err := opts.resolve(cmd); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	result := ValidationResult{Valid: true, Queries: []QueryCheck{}}

	if dir := opts.config.Mappings; dir != "" {
		loaded, errs := mapping.Load(dir, mapping.LoadModeCollectAll)
		for _, err := range errs {
			result.Mappings = append(result.Mappings, err.Error())
		}
		if loaded != nil {
			formatter.VerboseLog("Loaded %d entity mapping(s) from %d file(s)", len(loaded.Entities), loaded.FileCount)
		}
	}
	if len(result.Mappings) > 0 {
		result.Valid = false
		return outputValidation(formatter, result)
	}

	compiler, err := opts.compiler()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeMapping, err.Error(), nil)
	}

	for _, path := range paths {
		check := checkQuery(compiler, path)
		if !check.Valid {
			result.Valid = false
		}
		formatter.VerboseLog("Checked %s", path)
		result.Queries = append(result.Queries, check)
	}

	return outputValidation(formatter, result)
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeInvalid, Message: "validation failed"}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		for _, msg := range result.Mappings {
			formatter.Textf("%s mappings: %s", markFail, msg)
		}
		for _, q := range result.Queries {
			if q.Valid {
				formatter.Textf("%s %s", markPass, q.File)
				continue
			}
			formatter.Textf("%s %s", markFail, q.File)
			formatter.Textf("  [%s] %s", q.Code, q.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	formatter.Textf("All queries valid")
	return nil
}

// checkQuery loads, decodes and compiles one query file.
func checkQuery(compiler *n1ql.Compiler, path string) QueryCheck {
	check := QueryCheck{File: path}

	def, err := querydef.Load(path)
	if err != nil {
		check.Code, check.Message = ErrCodeLoad, err.Error()
		return check
	}
	check.Name = def.Name

	q, err := def.Query()
	if err != nil {
		check.Code, check.Message = ErrCodeDecode, err.Error()
		return check
	}

	if _, err := compiler.CompileQuery(q); err != nil {
		check.Code, check.Message = ErrCodeInvalid, err.Error()
		if ce, ok := ir.AsCompileError(err); ok {
			check.Code = string(ce.Code)
		}
		return check
	}

	check.Valid = true
	return check
}
