// Command docql compiles typed query definitions into N1QL statements.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/docql/internal/cli"
)

func main() {
	slog.SetDefault(cli.NewLogger(os.Stderr, slog.LevelInfo))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	// Subcommands report their own errors; cobra prints the rest.
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
