package knowledge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for the knowledge-base data files. Validation happens before
// unmarshalling so a malformed edit to a data file fails loudly at load time
// instead of surfacing as a half-empty knowledge base.

const coursesSchema = `{
	"type": "object",
	"required": ["courses"],
	"properties": {
		"courses": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "level", "duration_years"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"level": {"enum": ["undergraduate", "postgraduate"]},
					"duration_years": {"type": "integer", "minimum": 1},
					"seats": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

const feesSchema = `{
	"type": "object",
	"required": ["fee_structure"],
	"properties": {
		"fee_structure": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["course_id", "annual_fee", "breakdown"],
				"properties": {
					"course_id": {"type": "string", "minLength": 1},
					"annual_fee": {"type": "integer", "minimum": 0},
					"breakdown": {
						"type": "object",
						"required": ["tuition"],
						"additionalProperties": {"type": "integer", "minimum": 0}
					}
				}
			}
		}
	}
}`

const scholarshipsSchema = `{
	"type": "object",
	"required": ["scholarship_rules"],
	"properties": {
		"scholarship_rules": {
			"type": "object",
			"properties": {
				"merit_based": {
					"type": "object",
					"properties": {
						"tiers": {
							"type": "array",
							"items": {
								"type": "object",
								"required": ["min_percentage", "max_percentage", "discount_percentage"],
								"properties": {
									"min_percentage": {"type": "number", "minimum": 0, "maximum": 100},
									"max_percentage": {"type": "number", "minimum": 0, "maximum": 100},
									"discount_percentage": {"type": "number", "minimum": 0, "maximum": 100}
								}
							}
						}
					}
				}
			}
		}
	}
}`

// validateDocument checks raw JSON against a schema and flattens validation
// failures into a single error.
func validateDocument(schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid document: %s", strings.Join(problems, "; "))
}
