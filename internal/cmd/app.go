package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/iocontext"
)

// App owns CLI wiring and execution configuration.
type App struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Version   string
	Commit    string
	BuildTime string
}

// NewApp constructs an App with default settings.
func NewApp() *App {
	return &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Version:   "dev",
		Commit:    "unknown",
		BuildTime: "unknown",
	}
}

// Execute runs the CLI with the provided args.
func (a *App) Execute(ctx context.Context, args []string) error {
	// Seed IO into the base context so errors raised before the global
	// options are parsed still reach the configured writers.
	ctx = iocontext.WithIO(ctx, a.Stdout, a.Stderr)

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		printCommandError(root.Context(), err)
		return err
	}
	return nil
}

// RootCommand exposes the root Cobra command for embedding/tests.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}
