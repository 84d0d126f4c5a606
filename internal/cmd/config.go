package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tunnels-cli/internal/cmdutil"
	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage CLI configuration",
		Long:    `Manage the tnl configuration file at ~/.config/tnl/config.yaml`,
	}
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stdoutFromContext(cmd.Context()), path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdoutFromContext(cmd.Context())
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to format config: %w", err)
			}

			// An absent file loads as an empty config; point at the path instead
			// of printing an empty document.
			if len(data) == 0 || string(data) == "{}\n" {
				path, _ := config.DefaultConfigPath()
				_, _ = fmt.Fprintf(out, "No configuration file found at %s\n", path)
				return nil
			}

			_, _ = fmt.Fprint(out, string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file",
		Long: `Validate tunnel definitions in a configuration file. With no argument
the default config file is checked; pass a path, or '-' to read stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var raw string
			if len(args) == 1 {
				loaded, err := cmdutil.ReadInputSource(args[0])
				if err != nil {
					return errors.WrapUserError(err, "cannot read config", "")
				}
				raw = loaded
			} else {
				path, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				loaded, err := cmdutil.ReadInputSource(path)
				if err != nil {
					return errors.WrapUserError(err, "cannot read config",
						"Run 'tnl config path' to see where the file is expected")
				}
				raw = loaded
			}

			var cfg config.Config
			if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
				return errors.WrapUserError(err, "invalid config file", "Check the YAML syntax")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ui.FromContext(ctx).Success("config valid (%d tunnel(s))", len(cfg.Tunnels))
			return nil
		},
	}
}
