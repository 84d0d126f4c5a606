package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Format represents the output format type.
type Format string

const (
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML format with records as [[tunnel]] tables.
	FormatTOML Format = "toml"
	// FormatTable is a styled, human-readable table (default).
	FormatTable Format = "table"
)

// ErrUnsupportedFormat is returned for format tokens outside the four
// recognized values.
var ErrUnsupportedFormat = errors.New("unsupported format")

// EncodingError reports a dataset value that cannot be represented in the
// target format. Record is the zero-based record index; Field names the
// offending field.
type EncodingError struct {
	Format Format
	Record int
	Field  string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode field %q of record %d as %s: %v", e.Field, e.Record, e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ParseFormat converts a string to a Format type. Matching is
// case-insensitive; empty string defaults to FormatTable.
// Returns ErrUnsupportedFormat (wrapped with the token) for anything else.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q (expected json|yaml|toml|table)", ErrUnsupportedFormat, s)
	}
}

// Formats returns the recognized format tokens, for flag help and completion.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatTable}
}

// Options carries display hints for the table encoder. Structured encoders
// ignore it.
type Options struct {
	// Title renders above the table when non-empty.
	Title string
	// Profile controls cell styling. termenv.Ascii disables all styling
	// and is what tests and piped output use.
	Profile termenv.Profile
	// Columns overrides the built-in per-column hints, keyed by field name.
	Columns map[string]ColumnStyle
}

// encoderFunc serializes a dataset into its format-specific string.
type encoderFunc func(ds Dataset, opts Options) (string, error)

// encoders is the format registry. Populated once at startup, read-only
// afterwards; safe for concurrent use.
var encoders = map[Format]encoderFunc{
	FormatJSON:  encodeJSON,
	FormatYAML:  encodeYAML,
	FormatTOML:  encodeTOML,
	FormatTable: encodeTable,
}

// encoderFor looks up the encoder for a format. The parse step should make
// a miss unreachable, but malformed external input still gets a typed error.
func encoderFor(f Format) (encoderFunc, error) {
	enc, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return enc, nil
}

// Render serializes the dataset in the requested format. It is a pure
// function of its inputs: no I/O, no shared state beyond the read-only
// encoder registry. Encoder failures propagate as *EncodingError.
func Render(ds Dataset, f Format, opts Options) (string, error) {
	enc, err := encoderFor(f)
	if err != nil {
		return "", err
	}
	return enc(ds, opts)
}
