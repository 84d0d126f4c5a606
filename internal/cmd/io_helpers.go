package cmd

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/salmonumbrella/tunnels-cli/internal/iocontext"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	return iocontext.StdoutOrDefault(ctx, os.Stdout)
}

func stderrFromContext(ctx context.Context) io.Writer {
	return iocontext.StderrOrDefault(ctx, os.Stderr)
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
