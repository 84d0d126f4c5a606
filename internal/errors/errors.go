package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error

	notFound bool
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// ProcessError represents a failure while spawning or signaling an ssh
// process. PID is 0 when the process never started.
type ProcessError struct {
	Tunnel string
	PID    int32
	Err    error
}

func (e *ProcessError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("tunnel %q (pid %d): %v", e.Tunnel, e.PID, e.Err)
	}
	return fmt.Sprintf("tunnel %q: %v", e.Tunnel, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Type checkers
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

func IsProcessError(err error) bool {
	var e *ProcessError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a UserError created by NotFoundError.
func IsNotFound(err error) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.notFound
}

// UserSuggestion returns a suggestion string if err carries one.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	return ""
}

// NotFoundError creates a user-friendly error for when a named entity is not
// configured. entityType is "tunnel" or "group"; identifier is the name that
// was requested.
func NotFoundError(entityType, identifier string) error {
	suggestion := fmt.Sprintf("Run 'tnl list' to see configured %ss\n  • Check the name is spelled correctly\n  • Check 'tnl config path' points at the file you expect", entityType)
	return &UserError{
		Message:    fmt.Sprintf("%s %q not found", entityType, identifier),
		Suggestion: suggestion,
		notFound:   true,
	}
}

// NoTunnelsConfiguredError is returned when the config file defines no tunnels.
func NoTunnelsConfiguredError() error {
	msg := "no tunnels configured"
	suggestion := "Add tunnels to the config file:\n  1. Run 'tnl config path' to locate it\n  2. Define tunnels under the top-level 'tunnels' key"
	return NewUserError(msg, suggestion)
}
