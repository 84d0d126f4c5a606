// Package logging configures the global slog logger for tnl.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text-handler logger as the slog default. Debug drops the
// level to Debug; otherwise Info. Output goes to w, or stderr when w is nil,
// keeping stdout clean for rendered data.
func Setup(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(writerOrStderr(w), options(debug))))
}

// SetupJSON is Setup with a JSON handler, used when the error format is json
// so diagnostics stay machine-readable alongside the data stream.
func SetupJSON(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(writerOrStderr(w), options(debug))))
}

func writerOrStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func options(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
