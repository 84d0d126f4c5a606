package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	ctxerrors "github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return ctxerrors.NewUserError(
			fmt.Sprintf("invalid --error-format %q", format),
			"Use one of: auto, text, json, yaml",
		)
	}
}

func isJSONErrorFormat(format string) bool {
	return strings.ToLower(strings.TrimSpace(format)) == "json"
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
	if suggestion := ctxerrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(stderrFromContext(ctx), "Hint: %s\n", suggestion)
	}
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message": err.Error(),
	}

	category := "system"
	if ctxerrors.IsUserError(err) || ctxerrors.IsValidationError(err) {
		category = "user"
	}
	errMap["category"] = category

	if suggestion := ctxerrors.UserSuggestion(err); suggestion != "" {
		errMap["suggestion"] = suggestion
	}

	if ctxerrors.IsNotFound(err) {
		errMap["type"] = "not_found"
	}

	var validationErr *ctxerrors.ValidationError
	if errors.As(err, &validationErr) {
		errMap["type"] = "validation"
		errMap["field"] = validationErr.Field
	}

	var procErr *ctxerrors.ProcessError
	if errors.As(err, &procErr) {
		errMap["type"] = "process"
		errMap["tunnel"] = procErr.Tunnel
		if procErr.PID > 0 {
			errMap["pid"] = procErr.PID
		}
	}

	var encErr *output.EncodingError
	if errors.As(err, &encErr) {
		errMap["type"] = "encoding"
		errMap["format"] = string(encErr.Format)
		errMap["record"] = encErr.Record
		errMap["field"] = encErr.Field
	}

	return map[string]interface{}{"error": errMap}
}
