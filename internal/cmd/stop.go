package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/tunnel"
)

func newStopCmd() *cobra.Command {
	var (
		names []string
		group string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop tunnels by name, group, or all",
		Long: `Stop the ssh processes for the selected tunnels. Each process gets
SIGTERM and five seconds to exit before it is killed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tunnels, err := selectTunnels(ctx, names, group, all)
			if err != nil {
				return err
			}

			mgr := tunnel.NewManager()
			results := mgr.StopAll(ctx, tunnels)
			return reportResults(ctx, results)
		},
	}

	addSelectorFlags(cmd.Flags(), &names, &group, &all, "Stop")
	return cmd
}
