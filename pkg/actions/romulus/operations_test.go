package romulus

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

func TestLookupOperation(t *testing.T) {
	t.Parallel()

	spec, err := lookupOperation("agent", "startAgentCall")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, spec.method)

	_, err = lookupOperation("nope", "listAllAgents")
	require.Error(t, err)

	_, err = lookupOperation("agent", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent")
}

func TestOperationEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		resource  string
		operation string
		params    Params
		method    string
		endpoint  string
		paginated bool
	}{
		{
			resource: "agent", operation: "listAllAgents",
			method: http.MethodGet, endpoint: "/ai-agents/agents/search", paginated: true,
		},
		{
			resource: "agent", operation: "listAllAgentCallTasks",
			params: Params{"agent_id": "a-1"},
			method: http.MethodGet, endpoint: "/ai-agents/agents/a-1/call-tasks", paginated: true,
		},
		{
			resource: "agent", operation: "terminateCallTaskById",
			params: Params{"call_task_id": "ct-1"},
			method: http.MethodPut, endpoint: "/ai-agents/agents/call-tasks/ct-1/terminate",
		},
		{
			resource: "agent", operation: "terminateCallTasksByPhone",
			method: http.MethodPost, endpoint: "/ai-agents/agents/call-tasks/terminate",
		},
		{
			resource: "call", operation: "listRobocalls",
			method: http.MethodGet, endpoint: "/call-tasks/robocalls/configurations", paginated: true,
		},
		{
			resource: "call", operation: "startRobocall",
			method: http.MethodPost, endpoint: "/call-tasks/robocalls",
		},
		{
			resource: "call", operation: "deleteWebhookSubscription",
			params: Params{"webhook_subscription_id": "ws-1"},
			method: http.MethodDelete, endpoint: "/call-tasks/webhook-subscriptions/ws-1",
		},
		{
			resource: "campaign", operation: "createCallTasks",
			params: Params{"campaign_id": "c-1"},
			method: http.MethodPost, endpoint: "/call-campaigns/c-1/tasks",
		},
		{
			resource: "campaign", operation: "terminateCallTasks",
			params: Params{"campaign_id": "c-1"},
			method: http.MethodPut, endpoint: "/call-campaigns/c-1/tasks/terminate",
		},
		{
			resource: "messenger", operation: "listAllWhatsappBots",
			method: http.MethodGet, endpoint: "/messengers/whatsapp/bots", paginated: true,
		},
		{
			resource: "webhook", operation: "list",
			method: http.MethodGet, endpoint: "/webhook-subscriptions/search", paginated: true,
		},
		{
			resource: "webhook", operation: "update",
			params: Params{"webhook_subscription_id": "ws-2"},
			method: http.MethodPut, endpoint: "/webhook-subscriptions/ws-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.resource+"/"+tt.operation, func(t *testing.T) {
			t.Parallel()

			spec, err := lookupOperation(tt.resource, tt.operation)
			require.NoError(t, err)

			endpoint, err := spec.endpoint(tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.method, spec.method)
			assert.Equal(t, tt.endpoint, endpoint)
			assert.Equal(t, tt.paginated, spec.paginated)
		})
	}
}

func TestEndpointMissingIDIsValidationError(t *testing.T) {
	t.Parallel()

	spec, err := lookupOperation("agent", "listAllAgentCallTasks")
	require.NoError(t, err)

	_, err = spec.endpoint(Params{})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))
	assert.Contains(t, err.Error(), "agent_id")
}

func TestBuildStartAgentCallBody(t *testing.T) {
	t.Parallel()

	body, err := buildStartAgentCallBody(Params{
		"to": "+15551234567",
		"properties": map[string]any{
			"name":     "Ada",
			"email":    "",
			"timezone": "Europe/Berlin",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"to":       "+15551234567",
		"name":     "Ada",
		"timezone": "Europe/Berlin",
	}, body)
}

func TestBuildStartAgentCallTaskBody(t *testing.T) {
	t.Parallel()

	t.Run("custom properties merged into body", func(t *testing.T) {
		t.Parallel()

		body, err := buildStartAgentCallTaskBody(Params{
			"contact_phone_number": "+15551234567",
			"contact_name":         "Ada",
			"options": map[string]any{
				"campaign_id":       "camp-1",
				"custom_properties": `{"order_id":"o-9"}`,
			},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"contact_phone_number": "+15551234567",
			"contact_name":         "Ada",
			"campaign_id":          "camp-1",
			"order_id":             "o-9",
		}, body)
	})

	t.Run("malformed custom properties fail before any request", func(t *testing.T) {
		t.Parallel()

		_, err := buildStartAgentCallTaskBody(Params{
			"contact_phone_number": "+15551234567",
			"options": map[string]any{
				"custom_properties": `{"broken":`,
			},
		})
		require.Error(t, err)
		assert.True(t, romulusapi.IsValidationError(err))
	})
}

func TestRetryConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("omitted when not enabled", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, retryConfiguration(Params{}))
		assert.Nil(t, retryConfiguration(Params{
			"retry_configuration": map[string]any{"enabled": false, "max_attempts": float64(5)},
		}))
	})

	t.Run("defaults applied when enabled", func(t *testing.T) {
		t.Parallel()

		retry := retryConfiguration(Params{
			"retry_configuration": map[string]any{"enabled": true},
		})

		assert.Equal(t, map[string]any{"max_attempts": 3, "interval_minutes": 60}, retry)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		t.Parallel()

		retry := retryConfiguration(Params{
			"retry_configuration": map[string]any{
				"enabled":          true,
				"max_attempts":     float64(5),
				"interval_minutes": float64(15),
			},
		})

		assert.Equal(t, map[string]any{"max_attempts": 5, "interval_minutes": 15}, retry)
	})
}

func TestAvailabilityConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("omitted when not enabled", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, availabilityConfiguration(Params{}))
	})

	t.Run("weekdays default", func(t *testing.T) {
		t.Parallel()

		availability := availabilityConfiguration(Params{
			"availability_configuration": map[string]any{
				"enabled": true,
				"time_windows": []any{
					map[string]any{"start": "09:00", "end": "17:00"},
				},
			},
		})

		assert.Equal(t, map[string]any{
			"days_of_week": []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"},
			"time_windows": []map[string]any{{"start": "09:00", "end": "17:00"}},
		}, availability)
	})
}

func TestBuildSubscriptionBodies(t *testing.T) {
	t.Parallel()

	t.Run("create with additional fields", func(t *testing.T) {
		t.Parallel()

		body, err := buildSubscriptionCreateBody(Params{
			"event": "AGENT_CALL_COMPLETED",
			"url":   "https://example.com/hook",
			"additional_fields": map[string]any{
				"entity_type":               "AGENT",
				"entity_id":                 "agent-1",
				"attempts":                  float64(5),
				"attempts_interval_seconds": float64(30),
				"specifications":            `{"signature":"hmac"}`,
			},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"event":                     "AGENT_CALL_COMPLETED",
			"url":                       "https://example.com/hook",
			"entity_type":               "AGENT",
			"entity_id":                 "agent-1",
			"attempts":                  5,
			"attempts_interval_seconds": 30,
			"specifications":            map[string]any{"signature": "hmac"},
		}, body)
	})

	t.Run("update requires status", func(t *testing.T) {
		t.Parallel()

		_, err := buildSubscriptionUpdateBody(Params{})
		require.Error(t, err)
		assert.True(t, romulusapi.IsValidationError(err))

		body, err := buildSubscriptionUpdateBody(Params{
			"status": "PAUSED",
			"update_fields": map[string]any{
				"url": "https://example.com/new-hook",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"status": "PAUSED",
			"url":    "https://example.com/new-hook",
		}, body)
	})
}

func TestDeletedSubscriptionResult(t *testing.T) {
	t.Parallel()

	result := deletedSubscriptionResult(Params{"webhook_subscription_id": "ws-1"})

	assert.Equal(t, map[string]any{
		"success": true,
		"id":      "ws-1",
		"message": "Webhook subscription deleted successfully",
	}, result)
}
