package output

import (
	"math"

	toml "github.com/pelletier/go-toml/v2"
)

// tomlTableKey is the array-of-tables key each record is rendered under.
const tomlTableKey = "tunnel"

// encodeTOML serializes the dataset as TOML, one [[tunnel]] table per record.
//
// TOML has no null: null fields are omitted from their record's table. This
// is a fixed policy (omission keeps the remaining values typed, rather than
// smuggling nulls through empty strings) and is locked by a regression test.
// Key order within a table is not guaranteed; TOML has no ordered maps.
// An empty dataset encodes as an empty document.
func encodeTOML(ds Dataset, _ Options) (string, error) {
	if len(ds) == 0 {
		return "", nil
	}

	rows := make([]map[string]interface{}, 0, len(ds))
	for i, r := range ds {
		row := make(map[string]interface{}, len(r))
		for _, f := range r {
			if f.Value.IsNull() {
				continue
			}
			if f.Value.Kind() == KindFloat {
				// TOML spec admits nan/inf literals but they do not survive a
				// round trip through most consumers; reject like JSON does.
				if fv := f.Value.Interface().(float64); math.IsNaN(fv) || math.IsInf(fv, 0) {
					return "", &EncodingError{Format: FormatTOML, Record: i, Field: f.Name,
						Err: errNonFinite(fv)}
				}
			}
			row[f.Name] = f.Value.Interface()
		}
		rows = append(rows, row)
	}

	out, err := toml.Marshal(map[string]interface{}{tomlTableKey: rows})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
