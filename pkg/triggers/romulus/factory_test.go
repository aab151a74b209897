package romulus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookTriggerFactory(t *testing.T) {
	t.Parallel()

	factory := NewWebhookTriggerFactory()

	assert.Equal(t, "romulus_webhook", factory.ID())
	assert.NotEmpty(t, factory.Name())
	assert.NotEmpty(t, factory.Description())
	assert.Contains(t, factory.Schema()["required"], "public_url")

	trigger, err := factory.Create(map[string]any{
		"api_key":    "test-key",
		"public_url": "https://example.com",
	}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, trigger)

	_, err = factory.Create(map[string]any{"api_key": "test-key"}, testLogger())
	require.Error(t, err)
}

func TestPollTriggerFactory(t *testing.T) {
	t.Parallel()

	factory := NewPollTriggerFactory()

	assert.Equal(t, "romulus_poll", factory.ID())
	assert.Contains(t, factory.Schema()["required"], "agent_id")

	trigger, err := factory.Create(map[string]any{
		"api_key":  "test-key",
		"agent_id": "a-1",
	}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, trigger)
}
