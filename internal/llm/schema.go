package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/document-intake/constants"
)

// BuildDocumentJSONSchema returns the JSON-Schema (draft 2020-12 subset) for an
// extraction reply as a generic map. It is embedded in the prompt and used
// locally to validate.
func BuildDocumentJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"item_code":   map[string]any{"type": "string"},
			"description": map[string]any{"type": "string", "minLength": 1},
			"quantity":    map[string]any{"type": "integer", "minimum": 0},
			"unit":        map[string]any{"type": "string"},
			"unit_price":  amountProp(),
			"total":       amountProp(),
			"status": map[string]any{
				"type": "string",
				"enum": []string{
					string(constants.ItemStatusReceived),
					string(constants.ItemStatusConfirmed),
					string(constants.ItemStatusRejected),
				},
			},
		},
		"required": []string{"description", "quantity", "unit_price"},
	}

	props := map[string]any{
		"document_number":   map[string]any{"type": "string"},
		"counterparty_name": map[string]any{"type": "string"},
		"reference_number":  map[string]any{"type": "string"},
		"document_date":     map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"total_items":       map[string]any{"type": "integer", "minimum": 0},
		"items":             map[string]any{"type": "array", "items": item},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"items"},
	}
}

func amountProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0}
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compiledErr    error
)

func documentSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compiledErr = compileSchema(BuildDocumentJSONSchema())
	})
	return compiledSchema, compiledErr
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSONAgainstSchema validates data against the extraction reply schema.
func ValidateJSONAgainstSchema(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
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
