// Package output renders tunnel datasets in multiple output formats.
//
// Supported formats:
//   - json: pretty-printed JSON array, field order preserved
//   - yaml: YAML sequence of mappings, field order preserved
//   - toml: [[tunnel]] array-of-tables (null fields omitted; TOML has no null)
//   - table: bordered table with status-based cell styling (default)
//
// Data is modeled as a [Dataset]: an ordered sequence of [Record] values,
// each an ordered list of named tagged scalars ([Value]). Records in the
// same dataset may carry different field sets; the table encoder uses the
// union of field names in first-seen order and renders missing cells empty.
//
// # Rendering
//
// [Render] is the pure entry point: dataset in, string out. It dispatches
// through a fixed format→encoder registry that is populated at startup and
// never mutated, so concurrent callers need no locking.
//
//	s, err := output.Render(ds, output.FormatJSON, output.Options{})
//
// Commands use a [Printer] instead, which owns the destination writer and
// applies any --query (jq) or --jsonpath filter carried in the context:
//
//	printer := output.NewPrinter(os.Stdout, output.FormatFromContext(ctx))
//	return printer.Print(ctx, ds, opts)
//
// # Errors
//
// [ErrUnsupportedFormat] is returned for format tokens outside the four
// recognized values. Values a target format cannot represent surface as
// [*EncodingError] carrying the record index and field name; encoder
// failures are never swallowed or rewrapped.
package output
