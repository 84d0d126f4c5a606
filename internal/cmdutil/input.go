// Package cmdutil holds small helpers shared by the command surface.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// NormalizeName cleans a tunnel name given on the command line. Surrounding
// whitespace is the usual shell-quoting accident; interior spaces are legal
// (they become dashes in the process tag).
func NormalizeName(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("tunnel name is required")
	}
	return trimmed, nil
}

// NormalizeNames cleans a repeated --name flag, rejecting empty entries.
func NormalizeNames(inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name, err := NormalizeName(in)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// ReadInputSource reads input from a file path or stdin when path is "-".
func ReadInputSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file path is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
