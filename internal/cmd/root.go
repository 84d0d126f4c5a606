package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/logging"
)

func newRootCmd(app *App) *cobra.Command {
	// Global flags
	var (
		debugMode    bool
		queryFlag    string
		jqFlag       string
		jsonPathFlag string
		colorFlag    string
		errorFormat  string
		quietFlag    bool
		noInputFlag  bool
	)

	rootCmd := &cobra.Command{
		Use:   "tnl",
		Short: "Manage SSH port-forwarding tunnels",
		Long: `tnl manages named SSH port-forwarding tunnels defined in
~/.config/tnl/config.yaml: start and stop the underlying ssh (or autossh)
processes, check their liveness, and render status in json, yaml, toml, or
a table.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Error/usage text is handled centrally in App.Execute.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			if err := validateErrorFormat(errorFormat); err != nil {
				return err
			}
			if isJSONErrorFormat(errorFormat) {
				logging.SetupJSON(debugMode, app.Stderr)
			} else {
				logging.Setup(debugMode, app.Stderr)
			}

			// Skip config loading for config commands so a broken file can
			// still be located and inspected.
			cfg := &config.Config{}
			if cmd.Name() != "config" && (cmd.Parent() == nil || cmd.Parent().Name() != "config") {
				loaded, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}

			opts, err := parseGlobalOptions(cmd, cfg, app.Stdout, globalFlagInput{
				queryFlag:    queryFlag,
				jqFlag:       jqFlag,
				jsonPathFlag: jsonPathFlag,
				colorFlag:    colorFlag,
				quietFlag:    quietFlag,
				noInputFlag:  noInputFlag,
				errorFormat:  errorFormat,
			})
			if err != nil {
				return err
			}
			if err := validateGlobalOptions(&opts); err != nil {
				return err
			}

			ctx := buildRootContext(cmd.Context(), app, cfg, debugMode, opts)
			cmd.SetContext(ctx)
			// The root context is what App.Execute consults when printing a
			// command error, so keep it in sync.
			cmd.Root().SetContext(ctx)
			return nil
		},
	}

	// Set version info
	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tnl %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))

	// Global flags
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: json|yaml|toml|table")
	rootCmd.PersistentFlags().StringVarP(&queryFlag, "query", "q", "", "JQ expression to filter JSON output")
	// Alias --jq to --query for discoverability
	rootCmd.PersistentFlags().StringVar(&jqFlag, "jq", "", "Alias for --query")
	_ = rootCmd.PersistentFlags().MarkHidden("jq")
	rootCmd.PersistentFlags().StringVar(&jsonPathFlag, "jsonpath", "", "Extract a value using JSONPath (e.g. $[0].pid)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color mode: auto|always|never")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output (shows spawned ssh commands)")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noInputFlag, "no-input", false, "Disable interactive prompts")

	// Register subcommands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
