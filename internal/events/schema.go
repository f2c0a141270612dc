// internal/events/schema.go
package events

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Per-kind JSON schemas. The feed delivers raw field sets with no schema
// enforcement, so required fields and types are re-checked here.
var (
	messageSchema = mustSchema(`{
		"type": "object",
		"required": ["senderId", "text"],
		"properties": {
			"senderId": {"type": "string", "minLength": 1},
			"text":     {"type": "string"}
		}
	}`)

	actionSchema = mustSchema(`{
		"type": "object",
		"required": ["type", "fromUserId", "toUserId"],
		"properties": {
			"type":       {"type": "string", "minLength": 1},
			"fromUserId": {"type": "string", "minLength": 1},
			"toUserId":   {"type": "string", "minLength": 1}
		}
	}`)

	matchSchema = mustSchema(`{
		"type": "object",
		"required": ["users"],
		"properties": {
			"users": {
				"type":  "array",
				"items": {"type": "string", "minLength": 1}
			}
		}
	}`)
)

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid event schema: %v", err))
	}
	return schema
}

func validatePayload(schema *gojsonschema.Schema, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			descs = append(descs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(descs, "; "))
	}
	return nil
}
