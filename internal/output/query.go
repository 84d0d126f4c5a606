package output

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// runQuery compiles and runs a jq expression against data and collects the
// results. data must already be in map/slice form (see Dataset.Interface).
func runQuery(query string, data interface{}) ([]interface{}, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	var results []interface{}
	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %v", queryErr)
		}
		results = append(results, v)
	}
	return results, nil
}
