package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
)

// CompileQuery parses and compiles a jq expression.
func CompileQuery(query string) (*gojq.Code, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	return code, nil
}

// WriteQuery runs query over the JSON form of v and writes one JSON value
// per result.
func WriteQuery(w io.Writer, v any, query string, indent bool) error {
	code, err := CompileQuery(query)
	if err != nil {
		return err
	}
	// gojq only walks plain JSON values.
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	iter := code.Run(data)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := out.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
}
