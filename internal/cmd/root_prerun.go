package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/debug"
	"github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/iocontext"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
	"github.com/salmonumbrella/tunnels-cli/internal/ui"
)

type globalFlagInput struct {
	queryFlag    string
	jqFlag       string
	jsonPathFlag string
	colorFlag    string
	quietFlag    bool
	noInputFlag  bool
	errorFormat  string
}

type globalOptions struct {
	format      output.Format
	query       string
	jsonPathRaw string
	colorMode   ui.ColorMode
	profile     termenv.Profile
	quiet       bool
	noInput     bool
	errorFormat string

	queryFlagSet  bool
	jqFlagSet     bool
	outputFlagSet bool
}

// parseGlobalOptions resolves effective global settings from flags, the
// TNL_OUTPUT environment variable, the config file, and the terminal. The
// output format falls back to json when stdout is piped so scripts get
// structured data without asking.
func parseGlobalOptions(cmd *cobra.Command, cfg *config.Config, stdout io.Writer, flags globalFlagInput) (globalOptions, error) {
	opts := globalOptions{
		quiet:       flags.quietFlag,
		noInput:     flags.noInputFlag,
		errorFormat: flags.errorFormat,

		queryFlagSet:  strings.TrimSpace(flags.queryFlag) != "",
		jqFlagSet:     strings.TrimSpace(flags.jqFlag) != "",
		outputFlagSet: cmd.Flags().Changed("output"),
	}

	formatStr, _ := cmd.Flags().GetString("output")
	if !opts.outputFlagSet {
		switch {
		case strings.TrimSpace(os.Getenv("TNL_OUTPUT")) != "":
			formatStr = os.Getenv("TNL_OUTPUT")
		case cfg.GetOutput() != "":
			formatStr = cfg.GetOutput()
		case !isTerminal(stdout):
			formatStr = string(output.FormatJSON)
		}
	}
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return globalOptions{}, err
	}
	opts.format = format

	colorStr := flags.colorFlag
	if colorStr == "" {
		colorStr = cfg.GetColor()
	}
	mode, err := ui.ParseColorMode(colorStr)
	if err != nil {
		return globalOptions{}, errors.NewUserError(err.Error(), "Use one of: auto, always, never")
	}
	opts.colorMode = mode
	opts.profile = renderProfile(mode, stdout)

	// Piped structured output implies quiet unless the user said otherwise.
	if !cmd.Flags().Changed("quiet") && !isTerminal(stdout) {
		switch opts.format {
		case output.FormatJSON, output.FormatYAML, output.FormatTOML:
			opts.quiet = true
		}
	}

	opts.query = flags.queryFlag
	if opts.query == "" {
		opts.query = flags.jqFlag
	}
	opts.jsonPathRaw = strings.TrimSpace(flags.jsonPathFlag)

	return opts, nil
}

// renderProfile picks the color capability for data written to stdout.
// Styling only ever applies to the table format; a piped table degrades to
// plain text unless --color always.
func renderProfile(mode ui.ColorMode, stdout io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	switch mode {
	case ui.ColorNever:
		return termenv.Ascii
	case ui.ColorAlways:
		if p := termenv.ColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI256
	}
	if !isTerminal(stdout) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

func validateGlobalOptions(opts *globalOptions) error {
	if opts.jqFlagSet && opts.queryFlagSet {
		return errOnlyOne("--query", "--jq")
	}
	if opts.query != "" && opts.jsonPathRaw != "" {
		return errOnlyOne("--query/--jq", "--jsonpath")
	}
	if (opts.query != "" || opts.jsonPathRaw != "") && opts.format != output.FormatJSON {
		return errors.NewUserError(
			"--query and --jsonpath only apply to JSON output",
			"Add -o json or drop the filter flag",
		)
	}
	return nil
}

func buildRootContext(ctx context.Context, app *App, cfg *config.Config, debugMode bool, opts globalOptions) context.Context {
	ctx = iocontext.WithIO(ctx, app.Stdout, app.Stderr)
	ctx = output.WithFormat(ctx, opts.format)
	ctx = output.WithQuery(ctx, opts.query)
	ctx = output.WithJSONPath(ctx, opts.jsonPathRaw)
	ctx = output.WithQuiet(ctx, opts.quiet)
	ctx = debug.WithDebug(ctx, debugMode)
	ctx = WithConfig(ctx, cfg)
	ctx = WithErrorFormat(ctx, opts.errorFormat)
	ctx = WithNoInput(ctx, opts.noInput)
	ctx = withRenderProfile(ctx, opts.profile)
	ctx = ui.WithUI(ctx, ui.NewWithWriter(app.Stderr, opts.colorMode))
	return ctx
}

func errOnlyOne(left, right string) error {
	return errors.NewUserError(
		"use only one of "+left+" or "+right,
		"",
	)
}

type renderProfileKey struct{}

func withRenderProfile(ctx context.Context, p termenv.Profile) context.Context {
	return context.WithValue(ctx, renderProfileKey{}, p)
}

// renderOptions builds the display options commands pass to the printer.
func renderOptions(ctx context.Context, title string) output.Options {
	opts := output.Options{Title: title, Profile: termenv.Ascii}
	if p, ok := ctx.Value(renderProfileKey{}).(termenv.Profile); ok {
		opts.Profile = p
	}
	return opts
}
