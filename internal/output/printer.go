package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// Printer handles output formatting across different formats. Commands build
// a Dataset and hand it over; the printer owns the writer, applies any
// context-carried jq/JSONPath filter, and renders.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print renders the dataset in the configured format and writes it out.
// A --query or --jsonpath filter from the context is applied to JSON output;
// filtered output follows the filter's structure, so record field order is
// not preserved there.
func (p *Printer) Print(ctx context.Context, ds Dataset, opts Options) error {
	if p.format == FormatJSON {
		query := QueryFromContext(ctx)
		path := JSONPathFromContext(ctx)
		if query != "" || path != "" {
			normalized, err := normalizeDataset(ds)
			if err != nil {
				return err
			}
			if query != "" {
				return p.printFiltered(runQuery(query, normalized))
			}
			return p.printFiltered(runJSONPath(path, normalized))
		}
	}

	s, err := Render(ds, p.format, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, s)
	return err
}

// printFiltered writes filter results as indented JSON, one document per
// result value.
func (p *Printer) printFiltered(results []interface{}, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	for _, v := range results {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// normalizeDataset round-trips the dataset through JSON so filter engines see
// only the types they understand (float64 numbers, map[string]interface{}).
func normalizeDataset(ds Dataset) (interface{}, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// runJSONPath evaluates a JSONPath expression against the dataset.
func runJSONPath(path string, data interface{}) ([]interface{}, error) {
	v, err := jsonpath.Get(path, data)
	if err != nil {
		return nil, fmt.Errorf("invalid --jsonpath: %w", err)
	}
	return []interface{}{v}, nil
}
