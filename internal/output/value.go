package output

import (
	"strconv"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is a tagged scalar: string, integer, float, boolean, or null.
// Using a closed variant instead of interface{} keeps encoders exhaustive
// and round-trip semantics explicit per format.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bln  bool
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, bln: b} }

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the scalar kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the native Go representation: string, int64, float64,
// bool, or nil. This is what the structured encoders serialize.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.bln
	default:
		return nil
	}
}

// Display returns the table-cell rendering of the value. Null renders as an
// empty cell, not as the word "null".
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.bln)
	default:
		return ""
	}
}

// Field is one named scalar within a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered set of named scalar fields. Order is
// display-significant; records in the same Dataset may have different
// field sets.
type Record []Field

// Get returns the value for name and whether the field is present.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Dataset is an ordered sequence of Records. Caller-supplied order is
// preserved by every encoder.
type Dataset []Record

// Columns returns the union of field names across all records, in
// first-seen order.
func (d Dataset) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, r := range d {
		for _, f := range r {
			if !seen[f.Name] {
				seen[f.Name] = true
				cols = append(cols, f.Name)
			}
		}
	}
	return cols
}

// Interface converts the dataset to []interface{} of map[string]interface{}.
// Field order is lost; used only where order is already not guaranteed
// (jq/JSONPath filtering).
func (d Dataset) Interface() []interface{} {
	out := make([]interface{}, 0, len(d))
	for _, r := range d {
		m := make(map[string]interface{}, len(r))
		for _, f := range r {
			m[f.Name] = f.Value.Interface()
		}
		out = append(out, m)
	}
	return out
}
