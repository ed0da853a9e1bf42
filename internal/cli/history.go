package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/docql/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath      string
	Limit       int
	Fingerprint string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded statements",
		Long: `List statements recorded with compile --record, oldest first.

Examples:
  docql history --db docql.db
  docql history --db docql.db --limit 10 --format json
  docql history --db docql.db --fingerprint 3f2a...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "statement log path (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of statements (0 = all)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only statements with this fingerprint")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if err := opts.resolve(cmd); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = opts.config.Database
	}
	// Opening would create an empty log; a missing file is a usage error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("database not found: %s", dbPath), nil)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var statements []store.Statement
	if opts.Fingerprint != "" {
		statements, err = st.ByFingerprint(ctx, opts.Fingerprint)
		if err == nil && opts.Limit > 0 && len(statements) > opts.Limit {
			statements = statements[:opts.Limit]
		}
	} else {
		statements, err = st.List(ctx, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(statements, "")
	}

	if len(statements) == 0 {
		formatter.Textf("No statements recorded.")
		return nil
	}
	for _, s := range statements {
		name := s.Name
		if name == "" {
			name = "-"
		}
		formatter.Textf("%4d  %s  %s  %s", s.RecordedSeq, shortFingerprint(s.Fingerprint), name, s.Statement)
	}
	return nil
}
