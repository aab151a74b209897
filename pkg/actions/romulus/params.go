package romulus

import (
	"encoding/json"
	"fmt"

	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

// Params is the explicit parameter set for one operation, passed in with
// the action configuration instead of being read back from the host item by
// item. Readers are forgiving about JSON number decoding (float64) but
// strict about required fields.
type Params map[string]any

// RequiredString returns the named parameter or a validation error naming
// the missing field. Validation happens before any request is sent.
func (p Params) RequiredString(name string) (string, error) {
	value, ok := p[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("missing required parameter %q: %w", name, romulusapi.ErrValidation)
	}

	return value, nil
}

// String returns the named parameter or fallback when absent or empty.
func (p Params) String(name, fallback string) string {
	value, ok := p[name].(string)
	if !ok || value == "" {
		return fallback
	}

	return value
}

// Bool returns the named parameter or fallback when absent.
func (p Params) Bool(name string, fallback bool) bool {
	value, ok := p[name].(bool)
	if !ok {
		return fallback
	}

	return value
}

// Int returns the named parameter or fallback when absent. JSON-decoded
// numbers arrive as float64.
func (p Params) Int(name string, fallback int) int {
	switch value := p[name].(type) {
	case int:
		return value
	case float64:
		return int(value)
	default:
		return fallback
	}
}

// Object returns a nested parameter collection, empty when absent.
func (p Params) Object(name string) Params {
	value, ok := p[name].(map[string]any)
	if !ok {
		return Params{}
	}

	return Params(value)
}

// List returns a list of nested parameter objects, nil when absent.
func (p Params) List(name string) []map[string]any {
	raw, ok := p[name].([]any)
	if !ok {
		return nil
	}

	entries := make([]map[string]any, 0, len(raw))

	for _, item := range raw {
		if entry, ok := item.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}

	return entries
}

// StringList returns a list of strings, nil when absent.
func (p Params) StringList(name string) []string {
	raw, ok := p[name].([]any)
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))

	for _, item := range raw {
		if value, ok := item.(string); ok {
			values = append(values, value)
		}
	}

	return values
}

// JSONObject parses a free-form JSON parameter. It accepts an already
// decoded object or a JSON string; malformed JSON is a validation error
// naming the field, raised before any request is sent.
func (p Params) JSONObject(name string) (map[string]any, error) {
	switch value := p[name].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return value, nil
	case string:
		if value == "" {
			return nil, nil
		}

		var parsed map[string]any

		err := json.Unmarshal([]byte(value), &parsed)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON in %q field: %w: %w", name, romulusapi.ErrValidation, err)
		}

		return parsed, nil
	default:
		return nil, fmt.Errorf("invalid JSON in %q field: %w", name, romulusapi.ErrValidation)
	}
}

// setOptional copies a present, non-empty string parameter into the body.
func (p Params) setOptional(body map[string]any, name string) {
	if value := p.String(name, ""); value != "" {
		body[name] = value
	}
}

// setOptionalInt copies a present, non-zero integer parameter into the body.
func (p Params) setOptionalInt(body map[string]any, name string) {
	if value := p.Int(name, 0); value != 0 {
		body[name] = value
	}
}
