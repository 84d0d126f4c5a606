package cmd

import (
	"context"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
)

type (
	errorFormatKey struct{}
	configKey      struct{}
	noInputKey     struct{}
)

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithConfig stores loaded CLI config in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves CLI config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return v
	}
	return nil
}

// WithNoInput stores the --no-input flag in context.
func WithNoInput(ctx context.Context, noInput bool) context.Context {
	return context.WithValue(ctx, noInputKey{}, noInput)
}

// NoInputFromContext reports whether interactive prompts are disabled.
func NoInputFromContext(ctx context.Context) bool {
	if v, ok := ctx.Value(noInputKey{}).(bool); ok {
		return v
	}
	return false
}
