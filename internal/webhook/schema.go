// internal/webhook/schema.go
package webhook

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// eventSchema validates the envelope shape before any field is
// trusted. Event-type specific fields stay optional here; type handlers
// check their own requirements.
const eventSchema = `{
	"type": "object",
	"required": ["type", "event"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"event": {
			"type": "object",
			"required": ["subscriber"],
			"properties": {
				"original_transaction_id": {"type": "string"},
				"transaction_id": {"type": "string"},
				"product_id": {"type": "string"},
				"expiration_at_ms": {"type": "integer"},
				"subscriber": {
					"type": "object",
					"required": ["original_app_user_id"],
					"properties": {
						"original_app_user_id": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}
}`

func compileEventSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("compile webhook event schema: %w", err)
	}
	return schema, nil
}

// validateEventBody runs the schema against the raw body and returns a
// message describing the first violation.
func validateEventBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("invalid event payload: %s", result.Errors()[0].String())
	}
	return nil
}
