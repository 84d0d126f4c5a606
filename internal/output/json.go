package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// MarshalJSON implements ordered object encoding: fields are written in
// caller-supplied order instead of the sorted order a map would impose.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// errNonFinite reports a float with no representation in the target format.
func errNonFinite(f float64) error {
	return fmt.Errorf("no representation for non-finite float %v", f)
}

func marshalValue(v Value) ([]byte, error) {
	if v.Kind() == KindFloat {
		if f := v.Interface().(float64); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNonFinite(f)
		}
	}
	return json.Marshal(v.Interface())
}

// encodeJSON serializes the dataset as a two-space indented JSON array.
// An empty dataset encodes as []. HTML escaping is disabled so Unicode
// values pass through byte-for-byte.
func encodeJSON(ds Dataset, _ Options) (string, error) {
	if err := checkJSONRepresentable(ds); err != nil {
		return "", err
	}
	if ds == nil {
		ds = Dataset{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// checkJSONRepresentable rejects NaN/Inf floats up front so the failure
// carries the field name and record index instead of encoding/json's
// context-free message.
func checkJSONRepresentable(ds Dataset) error {
	for i, r := range ds {
		for _, f := range r {
			if _, err := marshalValue(f.Value); err != nil {
				return &EncodingError{Format: FormatJSON, Record: i, Field: f.Name, Err: err}
			}
		}
	}
	return nil
}
