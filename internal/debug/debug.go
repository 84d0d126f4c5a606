// Package debug carries the --debug flag through context and prints
// diagnostic traces for process operations.
package debug

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type contextKey struct{}

// WithDebug injects the debug flag into the context
func WithDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, contextKey{}, debug)
}

// IsDebug returns true if debug mode is enabled in the context
func IsDebug(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// TraceCommand prints the argv of a command about to be spawned, but only
// when debug mode is on. Writes nothing otherwise.
func TraceCommand(ctx context.Context, w io.Writer, argv []string) {
	if !IsDebug(ctx) || w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "--> exec: %s\n", strings.Join(argv, " "))
}

// Tracef prints a formatted diagnostic line when debug mode is on.
func Tracef(ctx context.Context, w io.Writer, format string, args ...any) {
	if !IsDebug(ctx) || w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
