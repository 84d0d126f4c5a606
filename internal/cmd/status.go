package cmd

import (
	"context"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
	"github.com/salmonumbrella/tunnels-cli/internal/tunnel"
)

// watchInterval matches the original live view cadence.
const watchInterval = 4 * time.Second

func newStatusCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show the status of configured tunnels",
		Long: `Show each configured tunnel's liveness: the pid and state of the ssh
process carrying its tag and the process's socket connections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFromContext(ctx)
			mgr := tunnel.NewManager()

			if !watch {
				return printStatus(ctx, mgr, cfg.Tunnels)
			}
			return watchStatus(ctx, mgr, cfg.Tunnels)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render every 4 seconds until interrupted")
	return cmd
}

func printStatus(ctx context.Context, mgr *tunnel.Manager, tunnels []config.Tunnel) error {
	ds, err := mgr.StatusDataset(ctx, tunnels)
	if err != nil {
		return err
	}
	return printerForContext(ctx).Print(ctx, ds, renderOptions(ctx, statusTitle(ctx)))
}

func statusTitle(ctx context.Context) string {
	if output.QuietFromContext(ctx) {
		return ""
	}
	return "Active Tunnels"
}

// watchStatus clears and re-renders until the context is canceled. Ctrl-C is
// the expected way out, so cancellation ends the loop cleanly.
func watchStatus(ctx context.Context, mgr *tunnel.Manager, tunnels []config.Tunnel) error {
	out := termenv.NewOutput(stdoutFromContext(ctx))
	clear := isTerminal(stdoutFromContext(ctx))

	tick := time.NewTicker(watchInterval)
	defer tick.Stop()

	for {
		if clear {
			out.ClearScreen()
		}
		if err := printStatus(ctx, mgr, tunnels); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}
