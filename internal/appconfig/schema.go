package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema guards the shape of the JSON config file before it is
// unmarshaled, so typos surface as one readable error instead of a zero value.
var configSchema = map[string]any{
	"type":     "object",
	"required": []any{"model", "imagePath", "promptPath", "generator"},
	"properties": map[string]any{
		"model":      map[string]any{"type": "string", "minLength": 1},
		"imagePath":  map[string]any{"type": "string", "minLength": 1},
		"promptPath": map[string]any{"type": "string", "minLength": 1},
		"generator": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string"},
		},
		"timeout": map[string]any{"type": "integer", "minimum": 0},
		"height":  map[string]any{"type": "integer", "minimum": 0},
		"width":   map[string]any{"type": "integer", "minimum": 0},
		"steps":   map[string]any{"type": "integer", "minimum": 0},
		"seed":    map[string]any{"type": "integer"},
		"warmup":  map[string]any{"type": "integer", "minimum": 0},
		"categories": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"prompts": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"configurations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name"},
				"properties": map[string]any{
					"name":      map[string]any{"type": "string", "minLength": 1},
					"compile":   map[string]any{"type": "boolean"},
					"deepCache": map[string]any{"type": "boolean"},
				},
			},
		},
		"scorers": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ssim": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"enabled":  map[string]any{"type": "boolean"},
						"baseline": map[string]any{"type": "string"},
					},
				},
				"clip":      externalScorerSchema,
				"aesthetic": externalScorerSchema,
				"inception": externalScorerSchema,
				"hps":       externalScorerSchema,
			},
		},
		"export":  map[string]any{"type": "string"},
		"debug":   map[string]any{"type": "boolean"},
		"logFile": map[string]any{"type": "string"},
	},
}

var externalScorerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"enabled": map[string]any{"type": "boolean"},
		"command": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

// ValidateDocument checks raw config JSON against the embedded schema.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("config does not match schema: %s", strings.Join(problems, "; "))
}
