package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured tunnels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFromContext(ctx)

			ds := make(output.Dataset, 0, len(cfg.Tunnels))
			for i := range cfg.Tunnels {
				ds = append(ds, listRecord(&cfg.Tunnels[i]))
			}
			return printerForContext(ctx).Print(ctx, ds, renderOptions(ctx, ""))
		},
	}
}

func listRecord(t *config.Tunnel) output.Record {
	group := output.Null()
	if t.Group != "" {
		group = output.String(t.Group)
	}

	forward := output.Null()
	switch {
	case t.Dynamic != nil:
		forward = output.String("-D " + t.Dynamic.Address())
	case t.Local != nil:
		forward = output.String("-L " + t.Local.Address())
	}

	return output.Record{
		{Name: "name", Value: output.String(t.Name)},
		{Name: "group", Value: group},
		{Name: "hostname", Value: output.String(t.Hostname)},
		{Name: "forward", Value: forward},
	}
}
