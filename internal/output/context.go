package output

import "context"

// Private key types prevent collisions with other packages' context values.
type (
	formatKey   struct{}
	queryKey    struct{}
	jsonPathKey struct{}
	quietKey    struct{}
)

// WithFormat returns a new context with the output format attached. The
// format is parsed once in the root command and carried down the command
// chain instead of being threaded through every call.
func WithFormat(ctx context.Context, format Format) context.Context {
	return context.WithValue(ctx, formatKey{}, format)
}

// FormatFromContext retrieves the output format from the context,
// defaulting to FormatTable.
func FormatFromContext(ctx context.Context) Format {
	if v, ok := ctx.Value(formatKey{}).(Format); ok {
		return v
	}
	return FormatTable
}

// WithQuery adds a jq query string to context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// QueryFromContext retrieves the jq query from context.
func QueryFromContext(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WithJSONPath stores a JSONPath expression in context.
func WithJSONPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, jsonPathKey{}, path)
}

// JSONPathFromContext returns the JSONPath expression.
func JSONPathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(jsonPathKey{}).(string); ok {
		return p
	}
	return ""
}

// WithQuiet stores the --quiet flag in context.
func WithQuiet(ctx context.Context, quiet bool) context.Context {
	return context.WithValue(ctx, quietKey{}, quiet)
}

// QuietFromContext returns true if --quiet is set.
func QuietFromContext(ctx context.Context) bool {
	if q, ok := ctx.Value(quietKey{}).(bool); ok {
		return q
	}
	return false
}
