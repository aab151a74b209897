package romulus

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romulus-live/romulus-connect/pkg/models"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAction(t *testing.T, handler http.HandlerFunc, config map[string]any) *Action {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config["api_key"] = "test-key"
	config["base_url"] = server.URL

	action, err := NewAction(config)
	require.NoError(t, err)

	return action
}

func TestNewActionRejectsUnknownOperation(t *testing.T) {
	t.Parallel()

	_, err := NewAction(map[string]any{
		"api_key":   "test-key",
		"resource":  "agent",
		"operation": "explode",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")
}

func TestNewActionRequiresResourceAndOperation(t *testing.T) {
	t.Parallel()

	_, err := NewAction(map[string]any{"api_key": "test-key", "operation": "list"})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))

	_, err = NewAction(map[string]any{"api_key": "test-key", "resource": "webhook"})
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))
}

func TestActionExecuteStartRobocall(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string

	action := newTestAction(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path

		payload, _ := io.ReadAll(r.Body)
		gotBody = string(payload)

		_, _ = w.Write([]byte(`{"id":"rc-1","status":"STARTED"}`))
	}, map[string]any{
		"resource":  "call",
		"operation": "startRobocall",
		"parameters": map[string]any{
			"robocall_configuration_id": "cfg-1",
			"phone_number":              "+15551234567",
		},
	})

	result, err := action.Execute(context.Background(), models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/call-tasks/robocalls", gotPath)
	assert.JSONEq(t, `{"robocall_configuration_id":"cfg-1","phone_number":"+15551234567"}`, gotBody)
	assert.Equal(t, map[string]any{"id": "rc-1", "status": "STARTED"}, result)
}

func TestActionExecuteListReturnAll(t *testing.T) {
	t.Parallel()

	action := newTestAction(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		items := []any{}
		if page == "0" {
			for i := 0; i < 100; i++ {
				items = append(items, map[string]any{"id": i})
			}
		} else {
			items = append(items, map[string]any{"id": 100})
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"content": items})
	}, map[string]any{
		"resource":  "agent",
		"operation": "listAllAgents",
	})

	result, err := action.Execute(context.Background(), models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	records, ok := result.([]any)
	require.True(t, ok)
	assert.Len(t, records, 101)
}

func TestActionExecuteListWithLimit(t *testing.T) {
	t.Parallel()

	var gotSize string

	action := newTestAction(t, func(w http.ResponseWriter, r *http.Request) {
		gotSize = r.URL.Query().Get("size")

		_, _ = w.Write([]byte(`{"results":[{"id":"1"}]}`))
	}, map[string]any{
		"resource":  "webhook",
		"operation": "list",
		"parameters": map[string]any{
			"return_all": false,
			"limit":      float64(10),
		},
	})

	result, err := action.Execute(context.Background(), models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, "10", gotSize)
	assert.Len(t, result.([]any), 1)
}

func TestActionExecuteDeleteSubstitutesSuccessPayload(t *testing.T) {
	t.Parallel()

	action := newTestAction(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/webhook-subscriptions/ws-1", r.URL.Path)

		w.WriteHeader(http.StatusNoContent)
	}, map[string]any{
		"resource":  "webhook",
		"operation": "delete",
		"parameters": map[string]any{
			"webhook_subscription_id": "ws-1",
		},
	})

	result, err := action.Execute(context.Background(), models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"success": true,
		"id":      "ws-1",
		"message": "Webhook subscription deleted successfully",
	}, result)
}

func TestActionExecuteValidationFailureSendsNoRequest(t *testing.T) {
	t.Parallel()

	requests := 0

	action := newTestAction(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++

		_, _ = w.Write([]byte(`{}`))
	}, map[string]any{
		"resource":  "agent",
		"operation": "startAgentCallTask",
		"parameters": map[string]any{
			"agent_id":             "a-1",
			"contact_phone_number": "+15551234567",
			"options": map[string]any{
				"custom_properties": `{"broken":`,
			},
		},
	})

	_, err := action.Execute(context.Background(), models.ExecutionContext{}, testLogger())
	require.Error(t, err)
	assert.True(t, romulusapi.IsValidationError(err))
	assert.Zero(t, requests)
}

func TestActionFactory(t *testing.T) {
	t.Parallel()

	factory := NewActionFactory()

	assert.Equal(t, "romulus", factory.ID())
	assert.NotEmpty(t, factory.Name())
	assert.NotEmpty(t, factory.Description())

	schema := factory.Schema()
	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Contains(t, required, "api_key")
	assert.Contains(t, required, "resource")
	assert.Contains(t, required, "operation")

	action, err := factory.Create(map[string]any{
		"api_key":   "test-key",
		"resource":  "messenger",
		"operation": "listAllWhatsappBots",
	})
	require.NoError(t, err)
	assert.NotNil(t, action)
}
