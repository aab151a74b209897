package romulus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

func TestBuildTemplateParametersGroupsByComponent(t *testing.T) {
	t.Parallel()

	parameters, err := buildTemplateParameters([]map[string]any{
		{"component": "body", "type": "text", "text": "Hello"},
		{"component": "header", "type": "image", "media_url": "https://example.com/logo.png"},
		{"component": "body", "type": "currency", "currency_code": "EUR", "currency_amount": float64(1999)},
	})
	require.NoError(t, err)

	// Component groups keep first-seen order; entries keep their order
	// within each group.
	assert.Equal(t, []map[string]any{
		{
			"component": "body",
			"component_parameters": []map[string]any{
				{"type": "text", "text": "Hello"},
				{"type": "currency", "currency": map[string]any{"code": "EUR", "amount": float64(1999)}},
			},
		},
		{
			"component": "header",
			"component_parameters": []map[string]any{
				{"type": "image", "image": map[string]any{"link": "https://example.com/logo.png"}},
			},
		},
	}, parameters)
}

func TestBuildTemplateParametersMediaTypes(t *testing.T) {
	t.Parallel()

	for _, mediaType := range []string{"image", "document", "video"} {
		parameters, err := buildTemplateParameters([]map[string]any{
			{"component": "header", "type": mediaType, "media_url": "https://example.com/file"},
		})
		require.NoError(t, err)

		parameter := parameters[0]["component_parameters"].([]map[string]any)[0]
		assert.Equal(t, map[string]any{"link": "https://example.com/file"}, parameter[mediaType])
	}
}

func TestBuildTemplateParametersRejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := buildTemplateParameters([]map[string]any{
		{"component": "body", "type": "location"},
	})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))
	assert.Contains(t, err.Error(), "location")
}

func TestBuildTemplateParametersRequiresComponentAndType(t *testing.T) {
	t.Parallel()

	_, err := buildTemplateParameters([]map[string]any{{"type": "text"}})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))

	_, err = buildTemplateParameters([]map[string]any{{"component": "body"}})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))
}

func TestBuildTemplateParametersEmpty(t *testing.T) {
	t.Parallel()

	parameters, err := buildTemplateParameters(nil)
	require.NoError(t, err)
	assert.Empty(t, parameters)
}
