package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildClassifierResponseSchema returns a JSON-Schema (draft 2020-12 subset)
// as a generic map for the classifier sidecar's response. Scores may come
// back scalar or vector-shaped; the Confidence type reduces them later.
func BuildClassifierResponseSchema() map[string]any {
	scoreProp := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "number"},
			},
		},
	}
	prediction := map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties": map[string]any{
			"label": map[string]any{"type": "string", "minLength": 1},
			"score": scoreProp,
		},
		"required": []string{"label", "score"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties": map[string]any{
			"predictions": map[string]any{
				"type":  "array",
				"items": prediction,
			},
			"model": map[string]any{"type": "string"},
		},
		"required": []string{"predictions"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
