package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// encodeYAML serializes the dataset as a YAML sequence of mappings, two-space
// indent. The document is built from yaml.Node values so key order within a
// record survives encoding (yaml.v3 sorts map keys otherwise). An empty
// dataset encodes as [], not as a null document.
func encodeYAML(ds Dataset, _ Options) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(ds) == 0 {
		seq.Style = yaml.FlowStyle
	}

	for i, r := range ds {
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range r {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
			val := &yaml.Node{}
			if f.Value.IsNull() {
				val.Kind = yaml.ScalarNode
				val.Tag = "!!null"
				val.Value = "null"
			} else if err := val.Encode(f.Value.Interface()); err != nil {
				return "", &EncodingError{Format: FormatYAML, Record: i, Field: f.Name, Err: err}
			}
			mapping.Content = append(mapping.Content, key, val)
		}
		seq.Content = append(seq.Content, mapping)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
