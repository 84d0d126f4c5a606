// Package iocontext carries the command's stdout and stderr writers through
// context. Rendered datasets go to stdout and diagnostics to stderr, and
// tests capture either by injecting buffers.
package iocontext

import (
	"context"
	"io"
)

type (
	stdoutKey struct{}
	stderrKey struct{}
)

// WithIO injects the stdout and stderr writers into the context.
func WithIO(ctx context.Context, stdout, stderr io.Writer) context.Context {
	ctx = context.WithValue(ctx, stdoutKey{}, stdout)
	return context.WithValue(ctx, stderrKey{}, stderr)
}

// Stdout returns the injected stdout writer, or nil when none was set.
func Stdout(ctx context.Context) io.Writer {
	return writerFor(ctx, stdoutKey{})
}

// Stderr returns the injected stderr writer, or nil when none was set.
func Stderr(ctx context.Context) io.Writer {
	return writerFor(ctx, stderrKey{})
}

// StdoutOrDefault returns the injected stdout writer, falling back to def.
func StdoutOrDefault(ctx context.Context, def io.Writer) io.Writer {
	if w := Stdout(ctx); w != nil {
		return w
	}
	return def
}

// StderrOrDefault returns the injected stderr writer, falling back to def.
func StderrOrDefault(ctx context.Context, def io.Writer) io.Writer {
	if w := Stderr(ctx); w != nil {
		return w
	}
	return def
}

func writerFor(ctx context.Context, key any) io.Writer {
	if w, ok := ctx.Value(key).(io.Writer); ok {
		return w
	}
	return nil
}
