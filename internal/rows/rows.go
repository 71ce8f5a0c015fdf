// Package rows loads row documents for the hxtable command and narrows them
// with jq queries or JSONPath expressions.
package rows

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/itchyny/gojq"
	"github.com/pthm/hxtable"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrNotRows is returned when a document does not hold a list of rows.
	ErrNotRows = errors.New("document is not a list of rows")

	// ErrStdinTerminal is returned when rows are read from an interactive
	// standard input.
	ErrStdinTerminal = errors.New("standard input is a terminal; pipe a document or pass --rows FILE")
)

// FormatFor picks a format from a file extension, defaulting to JSON.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadFile reads a JSON or YAML document; "-" reads standard input as JSON.
// Standard input must be piped: a terminal returns ErrStdinTerminal instead
// of waiting for input.
func LoadFile(path string) (any, error) {
	if path == "-" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, ErrStdinTerminal
		}
		return Load(os.Stdin, FormatJSON)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, FormatFor(path))
}

// Load decodes a document. The result uses only map[string]any, []any,
// float64, string, bool and nil, which is what gojq and jsonpath expect.
func Load(r io.Reader, format string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return normalize(doc)
	case FormatJSON, "":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// normalize round-trips doc through JSON so YAML scalars and maps take
// their JSON shapes.
func normalize(doc any) (any, error) {
	if doc == nil {
		return nil, nil
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return out, nil
}

// Query runs a jq program over doc and returns its outputs. A program that
// yields a single array returns that array's elements.
func Query(doc any, query string) ([]any, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	var results []any
	it := code.Run(doc)
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, v)
	}
	if len(results) == 1 {
		if list, ok := results[0].([]any); ok {
			return list, nil
		}
	}
	return results, nil
}

// Select evaluates a JSONPath expression ("$.items[*]") against doc.
func Select(doc any, path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("invalid --jsonpath: empty expression")
	}
	if !strings.HasPrefix(path, "$") {
		path = "$." + strings.TrimPrefix(path, ".")
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("invalid --jsonpath: %w", err)
	}
	return v, nil
}

// Seq turns a loaded value into rows. Lists yield their elements; a lone
// object is treated as one row.
func Seq(v any) (iter.Seq[any], error) {
	switch v := v.(type) {
	case map[string]any:
		return hxtable.Rows([]any{v}), nil
	case []any, nil:
		return hxtable.RowsOf(v)
	}
	return nil, fmt.Errorf("%w: got %T", ErrNotRows, v)
}
