package output

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestEncodeTableHeadersAndCells(t *testing.T) {
	ds := Dataset{
		{
			{Name: "name", Value: String("web")},
			{Name: "local_port", Value: Int(8080)},
			{Name: "status", Value: String("active")},
		},
	}

	got, err := Render(ds, FormatTable, Options{Profile: termenv.Ascii})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"Name", "Local Port", "Status", "web", "8080", "active"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Ascii profile must not emit escape sequences:\n%q", got)
	}
}

func TestEncodeTableUnionColumns(t *testing.T) {
	// Sparse records: columns are the union in first-seen order, missing
	// fields render as empty cells.
	ds := Dataset{
		{{Name: "name", Value: String("a")}, {Name: "port", Value: Int(1)}},
		{{Name: "name", Value: String("b")}, {Name: "group", Value: String("x")}},
	}

	got, err := Render(ds, FormatTable, Options{Profile: termenv.Ascii})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"Name", "Port", "Group", "a", "b", "1", "x"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if i, j := strings.Index(got, "Port"), strings.Index(got, "Group"); i > j {
		t.Errorf("columns out of first-seen order:\n%s", got)
	}
}

func TestEncodeTableEmptyDataset(t *testing.T) {
	got, err := Render(Dataset{}, FormatTable, Options{Profile: termenv.Ascii})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "(no data)\n" {
		t.Errorf("empty dataset = %q, want placeholder", got)
	}
}

func TestEncodeTableTitle(t *testing.T) {
	got, err := Render(Dataset{}, FormatTable, Options{Title: "Tunnels", Profile: termenv.Ascii})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(got, "Tunnels\n") {
		t.Errorf("title missing or misplaced:\n%q", got)
	}
}

func TestStyleCellStatusVocabulary(t *testing.T) {
	opts := Options{Profile: termenv.ANSI}

	tests := []struct {
		name   string
		cell   string
		styled bool
	}{
		{name: "affirmative", cell: "active", styled: true},
		{name: "affirmative uppercase", cell: "RUNNING", styled: true},
		{name: "negative", cell: "inactive", styled: true},
		{name: "negative dead", cell: "dead", styled: true},
		{name: "transitional", cell: "connecting", styled: true},
		{name: "unrecognized", cell: "pending", styled: false},
		{name: "empty", cell: "", styled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := styleCell(opts, "status", tt.cell)
			hasEscape := strings.Contains(got, "\x1b[")
			if hasEscape != tt.styled {
				t.Errorf("styleCell(status, %q) = %q, styled=%v want %v", tt.cell, got, hasEscape, tt.styled)
			}
			if !tt.styled && got != tt.cell {
				t.Errorf("unstyled cell must pass through unchanged, got %q", got)
			}
		})
	}
}

func TestStyleCellColumnOverride(t *testing.T) {
	opts := Options{
		Profile: termenv.ANSI,
		Columns: map[string]ColumnStyle{"status": StyleDefault},
	}

	// The per-invocation override suppresses the built-in status styling.
	if got := styleCell(opts, "status", "active"); got != "active" {
		t.Errorf("override ignored: %q", got)
	}

	// Columns with no default and no override stay unstyled.
	if got := styleCell(Options{Profile: termenv.ANSI}, "pid", "1234"); got != "1234" {
		t.Errorf("unknown column styled: %q", got)
	}
}

func TestStyleCellAsciiProfileStripsColor(t *testing.T) {
	got := styleCell(Options{Profile: termenv.Ascii}, "status", "active")
	if got != "active" {
		t.Errorf("Ascii profile must produce plain text, got %q", got)
	}
}

func TestSnakeToTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"name", "Name"},
		{"local_port", "Local Port"},
		{"remote_host", "Remote Host"},
		{"pid", "Pid"},
	}
	for _, tt := range tests {
		if got := snakeToTitle(tt.in); got != tt.want {
			t.Errorf("snakeToTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
