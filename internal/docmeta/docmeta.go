// Package docmeta extracts field values from a document's JSON metadata
// blob by evaluating JSONPath expressions via ojg/jp, rather than
// hand-rolling a path evaluator over encoding/json.
package docmeta

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Document is one record from the `index` CLI's input file: an id, the
// searchable text, and arbitrary metadata fields (e.g. the distinct
// field) addressed by JSONPath.
type Document struct {
	ID     uint32
	Text   string
	Fields map[string]any
}

// ParseLine decodes one newline-delimited JSON document:
// {"id": 3, "text": "...", "sku": "A-1"}.
func ParseLine(line []byte) (Document, error) {
	v, err := oj.Parse(line)
	if err != nil {
		return Document{}, fmt.Errorf("parse document json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Document{}, fmt.Errorf("document json is not an object")
	}
	id, ok := numberField(m, "id")
	if !ok {
		return Document{}, fmt.Errorf("document missing numeric 'id' field")
	}
	text, _ := m["text"].(string)
	return Document{ID: uint32(id), Text: text, Fields: m}, nil
}

func numberField(m map[string]any, name string) (float64, bool) {
	v, ok := m[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FieldValue evaluates a JSONPath expression (e.g. "$.sku" or "$.meta.color")
// against a document's raw field map and returns its string form.
func FieldValue(doc Document, path string) (string, bool, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return "", false, fmt.Errorf("invalid field path %q: %w", path, err)
	}
	results := expr.Get(doc.Fields)
	if len(results) == 0 {
		return "", false, nil
	}
	switch v := results[0].(type) {
	case string:
		return v, true, nil
	case nil:
		return "", false, nil
	default:
		return fmt.Sprintf("%v", v), true, nil
	}
}
