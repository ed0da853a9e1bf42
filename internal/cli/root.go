package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/docql/internal/config"
	"github.com/roach88/docql/internal/n1ql"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // explicit docql.yaml
	Mappings   string // overrides config mappings
	Convention string // overrides config convention

	config *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the docql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "docql",
		Short: "docql - typed queries to N1QL",
		Long:  "Compile typed query definitions into N1QL statements for document databases.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./docql.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Mappings, "mappings", "", "directory of CUE entity mappings")
	cmd.PersistentFlags().StringVar(&opts.Convention, "convention", "", "default naming convention (lower_first|camel|snake|verbatim)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve loads settings once per process. Flags override file and
// environment values.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.config != nil {
		return nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.Mappings != "" {
		cfg.Mappings = o.Mappings
	}
	if o.Convention != "" {
		cfg.Convention = o.Convention
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = NewLogger(cmd.ErrOrStderr(), level)
	o.config = cfg
	return nil
}

// compiler builds a Compiler over the configured field mapping.
func (o *RootOptions) compiler() (*n1ql.Compiler, error) {
	mapper, err := o.config.Mapper()
	if err != nil {
		return nil, err
	}
	return n1ql.NewCompiler(n1ql.WithResolver(mapper), n1ql.WithLogger(o.logger)), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// NewLogger returns a tint text logger writing to w. Colors are enabled only
// when w is a terminal.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
