package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildPagePayloadSchema returns a JSON-Schema (draft 2020-12 subset) for
// the embedded page payload after sanitization. Every field is optional:
// missing extraction fields are classifier inputs, not validation failures.
func BuildPagePayloadSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"quantity":    numberishProp(),
			"unit_price":  numberishProp(),
			"amount":      numberishProp(),
			"category":    map[string]any{"type": "string"},
		},
	}
	stringSet := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_number":  map[string]any{"type": "string"},
			"party_name":       map[string]any{"type": "string"},
			"party_identifier": map[string]any{"type": "string"},
			"business_code":    map[string]any{"type": "string"},
			"declared_role":    map[string]any{"type": "string"},
			"has_grand_total":  map[string]any{"type": "boolean"},
			"total_amount":     decimalProp(),
			"unit_count":       map[string]any{"type": "integer", "minimum": 0},
			"entry_date":       map[string]any{"type": "string"},
			"service_start":    map[string]any{"type": "string"},
			"service_end":      map[string]any{"type": "string"},
			"line_items":       map[string]any{"type": "array", "items": lineItem},
			"confirmation_numbers": stringSet,
			"reference_numbers":    stringSet,
			"party_member_names":   stringSet,
		},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d{1,2})?$`, // negatives pass validation, then zero out with a flag
	}
}

func numberishProp() map[string]any {
	return map[string]any{"type": []any{"string", "number"}}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
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
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
