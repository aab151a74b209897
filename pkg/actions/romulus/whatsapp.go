package romulus

import (
	"fmt"

	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

// buildTemplateParameters groups a flat list of template parameter entries
// by component (header/body/button) into the vendor's nested shape,
// preserving first-seen component order. Each entry's emitted form depends
// on its declared type.
func buildTemplateParameters(entries []map[string]any) ([]map[string]any, error) {
	componentOrder := []string{}
	componentParams := map[string][]map[string]any{}

	for _, entry := range entries {
		params := Params(entry)

		component, err := params.RequiredString("component")
		if err != nil {
			return nil, err
		}

		parameterType, err := params.RequiredString("type")
		if err != nil {
			return nil, err
		}

		parameter := map[string]any{"type": parameterType}

		switch parameterType {
		case "text":
			parameter["text"] = entry["text"]
		case "currency":
			parameter["currency"] = map[string]any{
				"code":   entry["currency_code"],
				"amount": entry["currency_amount"],
			}
		case "image", "document", "video":
			parameter[parameterType] = map[string]any{
				"link": entry["media_url"],
			}
		default:
			return nil, fmt.Errorf("unsupported template parameter type %q: %w",
				parameterType, romulusapi.ErrValidation)
		}

		if _, seen := componentParams[component]; !seen {
			componentOrder = append(componentOrder, component)
		}

		componentParams[component] = append(componentParams[component], parameter)
	}

	parameters := make([]map[string]any, 0, len(componentOrder))
	for _, component := range componentOrder {
		parameters = append(parameters, map[string]any{
			"component":            component,
			"component_parameters": componentParams[component],
		})
	}

	return parameters, nil
}
