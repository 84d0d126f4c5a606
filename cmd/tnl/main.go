package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/salmonumbrella/tunnels-cli/internal/cmd"
)

// Version information set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	app := cmd.NewApp()
	app.Version = Version
	app.Commit = Commit
	app.BuildTime = BuildTime
	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
