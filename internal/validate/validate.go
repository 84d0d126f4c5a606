// Package validate provides field-level checks for tunnel definitions.
package validate

import (
	"fmt"
	"strings"

	tnlerrors "github.com/salmonumbrella/tunnels-cli/internal/errors"
)

// NonEmpty validates that a required string field is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &tnlerrors.ValidationError{Field: field, Message: "cannot be empty"}
	}
	return nil
}

// Port validates that the value is a usable TCP port number.
func Port(field string, port int) error {
	if port < 1 || port > 65535 {
		return &tnlerrors.ValidationError{Field: field,
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", port)}
	}
	return nil
}

// Hostname validates an ssh destination: an optional user@ prefix followed by
// a host or ssh_config alias. Whitespace inside the value would split the
// spawned command line, so it is rejected outright.
func Hostname(field, value string) error {
	if value == "" {
		return &tnlerrors.ValidationError{Field: field, Message: "cannot be empty"}
	}
	if strings.ContainsAny(value, " \t\n") {
		return &tnlerrors.ValidationError{Field: field,
			Message: fmt.Sprintf("must not contain whitespace, got %q", value)}
	}
	host := value
	if i := strings.IndexByte(value, '@'); i >= 0 {
		if i == 0 {
			return &tnlerrors.ValidationError{Field: field,
				Message: fmt.Sprintf("user part before @ is empty in %q", value)}
		}
		host = value[i+1:]
	}
	if host == "" {
		return &tnlerrors.ValidationError{Field: field,
			Message: fmt.Sprintf("host part is empty in %q", value)}
	}
	return nil
}

// BindAddress validates a listen address: a hostname or IP literal without
// whitespace or colons (IPv6 literals are not supported in forward specs).
func BindAddress(field, value string) error {
	if value == "" {
		return nil
	}
	if strings.ContainsAny(value, " \t\n:") {
		return &tnlerrors.ValidationError{Field: field,
			Message: fmt.Sprintf("must be a plain host or IPv4 address, got %q", value)}
	}
	return nil
}
