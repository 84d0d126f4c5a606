package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/cmdutil"
	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/debug"
	"github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
	"github.com/salmonumbrella/tunnels-cli/internal/tunnel"
	"github.com/salmonumbrella/tunnels-cli/internal/ui"
)

func newStartCmd() *cobra.Command {
	var (
		names     []string
		group     string
		all       bool
		noAutossh bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start tunnels by name, group, or all",
		Long: `Start the ssh processes for the selected tunnels. Tunnels that are
already running are skipped. autossh is preferred when installed so dropped
connections reconnect automatically; --no-autossh forces plain ssh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tunnels, err := selectTunnels(ctx, names, group, all)
			if err != nil {
				return err
			}

			useAutossh := !noAutossh
			if useAutossh {
				if _, ok := tunnel.AutosshCommand(); !ok {
					if !output.QuietFromContext(ctx) {
						ui.FromContext(ctx).Warning("autossh not found, using plain ssh")
					}
					useAutossh = false
				}
			}

			for i := range tunnels {
				debug.TraceCommand(ctx, stderrFromContext(ctx), tunnel.Command(&tunnels[i], useAutossh))
			}

			mgr := tunnel.NewManager()
			results := mgr.StartAll(ctx, tunnels, useAutossh)
			return reportResults(ctx, results)
		},
	}

	addSelectorFlags(cmd.Flags(), &names, &group, &all, "Start")
	cmd.Flags().BoolVar(&noAutossh, "no-autossh", false, "Disable autossh and use regular ssh")
	return cmd
}

// selectTunnels resolves the shared --name/--group/--all selector flags.
func selectTunnels(ctx context.Context, names []string, group string, all bool) ([]config.Tunnel, error) {
	cleaned, err := cmdutil.NormalizeNames(names)
	if err != nil {
		return nil, errors.NewUserError(err.Error(), "Pass a non-empty tunnel name to --name")
	}
	cfg := ConfigFromContext(ctx)
	return cfg.Select(cleaned, group, all)
}

// reportResults prints per-tunnel outcome messages to stderr and the result
// dataset to stdout. The command fails only when nothing succeeded.
func reportResults(ctx context.Context, results []tunnel.Result) error {
	u := ui.FromContext(ctx)
	quiet := output.QuietFromContext(ctx)

	ds := make(output.Dataset, 0, len(results))
	var firstErr error
	changed := 0

	for _, r := range results {
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
		}
		if r.Changed() {
			changed++
		}
		if !quiet {
			reportResult(u, r)
		}

		pid := output.Null()
		if r.PID > 0 {
			pid = output.Int(int64(r.PID))
		}
		ds = append(ds, output.Record{
			{Name: "name", Value: output.String(r.Tunnel)},
			{Name: "result", Value: output.String(outcomeWord(r.Outcome))},
			{Name: "pid", Value: pid},
		})
	}

	if err := printerForContext(ctx).Print(ctx, ds, renderOptions(ctx, "")); err != nil {
		return err
	}

	if changed == 0 && firstErr != nil {
		return firstErr
	}
	if !quiet {
		u.Info("%d/%d tunnel(s) changed", changed, len(results))
	}
	return nil
}

func reportResult(u *ui.UI, r tunnel.Result) {
	switch r.Outcome {
	case tunnel.OutcomeStarted:
		u.Success("started tunnel %q", r.Tunnel)
	case tunnel.OutcomeAlreadyRunning:
		u.Warning("tunnel %q is already running (pid %d)", r.Tunnel, r.PID)
	case tunnel.OutcomeStopped:
		u.Success("stopped tunnel %q (pid %d)", r.Tunnel, r.PID)
	case tunnel.OutcomeForceStopped:
		u.Warning("force stopped tunnel %q (pid %d)", r.Tunnel, r.PID)
	case tunnel.OutcomeNotRunning:
		u.Warning("tunnel %q is not running", r.Tunnel)
	case tunnel.OutcomeFailed:
		u.Error("%v", r.Err)
	}
}

func outcomeWord(o tunnel.Outcome) string {
	switch o {
	case tunnel.OutcomeStarted:
		return "started"
	case tunnel.OutcomeAlreadyRunning:
		return "already-running"
	case tunnel.OutcomeStopped:
		return "stopped"
	case tunnel.OutcomeForceStopped:
		return "force-stopped"
	case tunnel.OutcomeNotRunning:
		return "not-running"
	case tunnel.OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}
