package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// testDataSchema describes the shape the client requires of a /test-data
// response. It deliberately does not forbid extra server fields.
var testDataSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"sections": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":          map[string]any{"type": "integer"},
					"description": map[string]any{"type": "string"},
					"kind":        map[string]any{"type": "string", "enum": []any{"READING", "LISTENING"}},
					"titles": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":   map[string]any{"type": "integer"},
								"name": map[string]any{"type": "string"},
								"questions": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"id":       map[string]any{"type": "integer"},
											"question": map[string]any{"type": "string"},
											"options": map[string]any{
												"type": "array",
												"items": map[string]any{
													"type": "object",
													"properties": map[string]any{
														"id":     map[string]any{"type": "integer"},
														"option": map[string]any{"type": "string"},
													},
													"required": []any{"id", "option"},
												},
											},
										},
										"required": []any{"id", "question", "options"},
									},
								},
							},
							"required": []any{"id", "name", "questions"},
						},
					},
				},
				"required": []any{"id", "kind", "titles"},
			},
		},
	},
	"required": []any{"sections"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateTestData checks a raw /test-data body against testDataSchema.
func validateTestData(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON in test-data response: %w", err)
	}

	compileOnce.Do(func() {
		defBytes, err := json.Marshal(testDataSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://test-data.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	if compileErr != nil {
		return compileErr
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("test-data response failed schema validation: %w", err)
	}
	return nil
}
