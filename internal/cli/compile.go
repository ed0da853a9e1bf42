package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/docql/internal/exec"
	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/querydef"
	"github.com/roach88/docql/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Record string // statement log to record into
}

// CompileOutput is the JSON payload of a successful compile.
type CompileOutput struct {
	Name      string        `json:"name"`
	Statement string        `json:"statement"`
	Receipt   *exec.Receipt `json:"receipt,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query.yaml>",
		Short: "Compile a query definition to N1QL",
		Long: `Compile a YAML query definition to a N1QL statement.

With --record the statement is also appended to a SQLite statement log
(dry-run execution) and the receipt is printed.

Exit codes:
  0 - Statement compiled
  1 - Query rejected by the compiler
  2 - Command error (unreadable file, bad config, etc.)

Examples:
  docql compile queries/adults.yaml
  docql compile queries/adults.yaml --mappings ./mappings --format json
  docql compile queries/adults.yaml --record docql.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Record, "record", "", "record the statement in this SQLite statement log")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if err := opts.resolve(cmd); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	def, err := querydef.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded query %s from %s", def.Name, path)

	compiler, err := opts.compiler()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeMapping, err.Error(), nil)
	}

	q, err := def.Query()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDecode, err.Error(), nil)
	}

	stmt, err := compiler.CompileQuery(q)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	out := CompileOutput{Name: def.Name, Statement: stmt}
	if opts.Record != "" {
		receipt, err := record(cmd.Context(), opts, def.Name, stmt)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		out.Receipt = &receipt
	}

	text := stmt
	if out.Receipt != nil {
		text += fmt.Sprintf("\nrecorded %s (seq %d, fingerprint %s)",
			out.Receipt.ClientContextID, out.Receipt.Seq, shortFingerprint(out.Receipt.Fingerprint))
	}
	return formatter.Success(out, text)
}

// record appends stmt to the statement log at opts.Record, continuing its
// logical clock.
func record(ctx context.Context, opts *CompileOptions, name, stmt string) (exec.Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Record)
	if err != nil {
		return exec.Receipt{}, err
	}
	defer st.Close()

	seq, err := st.LastSeq(ctx)
	if err != nil {
		return exec.Receipt{}, err
	}

	recorder := exec.NewRecorder(st,
		exec.WithClock(exec.NewClockAt(seq)),
		exec.WithLogger(opts.logger),
	)
	return recorder.Execute(ctx, exec.Request{Name: name, Statement: stmt})
}

func outputCompileError(formatter *OutputFormatter, err error) error {
	ce, ok := ir.AsCompileError(err)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeInvalid, err.Error(), nil)
	}

	details := map[string]string{}
	if ce.Field != "" {
		details["field"] = ce.Field
	}
	if ce.Member != "" {
		details["member"] = ce.Member
	}
	if ce.Kind != "" {
		details["kind"] = ce.Kind
	}
	return formatter.Fail(ExitFailure, string(ce.Code), ce.Message, details)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
