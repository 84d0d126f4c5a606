package output

import (
	"bytes"
	"strings"

	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ColumnStyle selects the visual treatment of a table column.
type ColumnStyle int

const (
	// StyleDefault leaves cells unstyled.
	StyleDefault ColumnStyle = iota
	// StyleName renders cells in green.
	StyleName
	// StylePort renders cells in yellow.
	StylePort
	// StyleStatus styles cells by matching their value against the fixed
	// status vocabulary.
	StyleStatus
)

// defaultColumnStyles are the built-in hints, keyed by field name.
// Options.Columns overrides them per invocation.
var defaultColumnStyles = map[string]ColumnStyle{
	"name":        StyleName,
	"port":        StylePort,
	"local_port":  StylePort,
	"remote_port": StylePort,
	"status":      StyleStatus,
}

// statusClass buckets a status value. The vocabulary is a fixed lookup keyed
// by lowercased value; unrecognized values render unstyled.
type statusClass int

const (
	statusUnknown statusClass = iota
	statusAffirmative
	statusNegative
	statusTransitional
)

var statusVocabulary = map[string]statusClass{
	"active":     statusAffirmative,
	"running":    statusAffirmative,
	"up":         statusAffirmative,
	"connected":  statusAffirmative,
	"inactive":   statusNegative,
	"stopped":    statusNegative,
	"error":      statusNegative,
	"failed":     statusNegative,
	"down":       statusNegative,
	"dead":       statusNegative,
	"connecting": statusTransitional,
	"starting":   statusTransitional,
}

// encodeTable renders the dataset as a bordered table. Columns are the union
// of field names across records in first-seen order; missing fields render
// as empty cells. An empty dataset renders a deterministic placeholder.
func encodeTable(ds Dataset, opts Options) (string, error) {
	var buf bytes.Buffer

	if opts.Title != "" {
		title := opts.Profile.String(opts.Title).Foreground(termenv.ANSICyan).Bold()
		buf.WriteString(title.String())
		buf.WriteByte('\n')
	}

	cols := ds.Columns()
	if len(ds) == 0 || len(cols) == 0 {
		buf.WriteString("(no data)\n")
		return buf.String(), nil
	}

	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Top: tw.On, Bottom: tw.On, Left: tw.On, Right: tw.On},
		}),
	)

	headers := make([]interface{}, len(cols))
	for i, c := range cols {
		headers[i] = snakeToTitle(c)
	}
	table.Header(headers...)

	for _, r := range ds {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			v, ok := r.Get(c)
			if !ok {
				row[j] = ""
				continue
			}
			row[j] = styleCell(opts, c, v.Display())
		}
		table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// styleCell applies the column's style to a fully formatted cell string.
// Styling is applied last so it never feeds back into width calculation
// of the raw value.
func styleCell(opts Options, column, cell string) string {
	if cell == "" {
		return cell
	}

	style, ok := opts.Columns[column]
	if !ok {
		style = defaultColumnStyles[column]
	}

	p := opts.Profile
	switch style {
	case StyleName:
		return p.String(cell).Foreground(termenv.ANSIGreen).String()
	case StylePort:
		return p.String(cell).Foreground(termenv.ANSIYellow).String()
	case StyleStatus:
		switch statusVocabulary[strings.ToLower(cell)] {
		case statusAffirmative:
			return p.String(cell).Foreground(termenv.ANSIGreen).Bold().String()
		case statusNegative:
			return p.String(cell).Foreground(termenv.ANSIRed).Bold().String()
		case statusTransitional:
			return p.String(cell).Faint().String()
		}
	}
	return cell
}

// snakeToTitle converts "local_port" to "Local Port" for headers.
func snakeToTitle(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
