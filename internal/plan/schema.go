package plan

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema is the JSON Schema every lesson plan document must satisfy
// before it is accepted, whether fetched from the server or imported from a
// file.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic_id":   map[string]any{"type": "string", "minLength": 1},
		"topic_name": map[string]any{"type": "string"},
		"supertopic": map[string]any{"type": "string"},
		"subtopics": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subtopic_id":    map[string]any{"type": "string", "minLength": 1},
					"subtopic_title": map[string]any{"type": "string"},
					"concept":        map[string]any{"type": "string"},
					"is_case":        map[string]any{"type": "boolean"},
					"references": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"questions": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"question_id":          map[string]any{"type": "string", "minLength": 1},
								"stem":                 map[string]any{"type": "string"},
								"explanation":          map[string]any{"type": "string"},
								"correct_choice_index": map[string]any{"type": "integer", "minimum": 0},
								"choices": map[string]any{
									"type":     "array",
									"minItems": 2,
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"choice_index": map[string]any{"type": "integer", "minimum": 0},
											"choice_text":  map[string]any{"type": "string"},
											"rationale":    map[string]any{"type": "string"},
										},
										"required": []any{"choice_index", "choice_text"},
									},
								},
								"variants": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"variant_no":           map[string]any{"type": "integer", "minimum": 1},
											"stem":                 map[string]any{"type": "string"},
											"correct_choice_index": map[string]any{"type": "integer", "minimum": 0},
										},
										"required": []any{"variant_no", "stem"},
									},
								},
							},
							"required": []any{"question_id", "stem", "choices", "correct_choice_index"},
						},
					},
				},
				"required": []any{"subtopic_id", "subtopic_title", "concept", "questions"},
			},
		},
	},
	"required": []any{"topic_id", "topic_name", "subtopics"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value; round-trip the definition
		// to strip Go-specific typing.
		raw, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal plan schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse plan schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://lesson-plan.json", def); err != nil {
			compileErr = fmt.Errorf("add plan schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://lesson-plan.json")
	})
	return compiledSchema, compileErr
}

// validateDocument checks raw JSON against the lesson plan schema.
func validateDocument(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("lesson plan is not valid JSON: %w", err)
	}

	schema, err := compiled()
	if err != nil {
		return err
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("lesson plan rejected by schema: %w", err)
	}
	return nil
}
