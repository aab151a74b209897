package romulus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPollTrigger(t *testing.T, handler http.HandlerFunc, config map[string]any) *PollTrigger {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config["api_key"] = "test-key"
	config["base_url"] = server.URL

	trigger, err := NewPollTrigger(context.Background(), config, testLogger())
	require.NoError(t, err)

	return trigger
}

func TestNewPollTriggerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewPollTrigger(context.Background(), map[string]any{
		"api_key": "test-key",
	}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent_id")

	_, err = NewPollTrigger(context.Background(), map[string]any{
		"api_key":  "test-key",
		"agent_id": "a-1",
		"schedule": "not a schedule",
	}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")
}

func TestNewPollTriggerDefaults(t *testing.T) {
	t.Parallel()

	trigger, err := NewPollTrigger(context.Background(), map[string]any{
		"api_key":  "test-key",
		"agent_id": "a-1",
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, defaultPollSchedule, trigger.Schedule)
}

func TestPollEmitsOnlyUnseenTasks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex

	tasks := []any{
		map[string]any{"id": "ct-1", "status": "RUNNING"},
		map[string]any{"id": "ct-2", "status": "PENDING"},
	}

	trigger := newTestPollTrigger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai-agents/agents/a-1/call-tasks", r.URL.Path)

		mu.Lock()
		defer mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{"content": tasks})
	}, map[string]any{
		"agent_id": "a-1",
	})

	var emitted []map[string]any

	trigger.callback = func(_ context.Context, data map[string]any) error {
		emitted = append(emitted, data)

		return nil
	}

	trigger.Poll(context.Background())
	require.Len(t, emitted, 2)
	assert.Equal(t, "a-1", emitted[0]["agent_id"])
	assert.Equal(t, map[string]any{"id": "ct-1", "status": "RUNNING"}, emitted[0]["call_task"])

	// A second poll over the same tasks emits nothing new.
	trigger.Poll(context.Background())
	assert.Len(t, emitted, 2)

	// A new task shows up on the third poll.
	mu.Lock()
	tasks = append(tasks, map[string]any{"id": "ct-3", "status": "PENDING"})
	mu.Unlock()

	trigger.Poll(context.Background())
	require.Len(t, emitted, 3)
	assert.Equal(t, map[string]any{"id": "ct-3", "status": "PENDING"}, emitted[2]["call_task"])
}

func TestPollSkipsTasksWithoutID(t *testing.T) {
	t.Parallel()

	trigger := newTestPollTrigger(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{
			map[string]any{"status": "RUNNING"},
			"not-an-object",
			map[string]any{"id": "ct-1"},
		}})
	}, map[string]any{
		"agent_id": "a-1",
	})

	emitted := 0

	trigger.callback = func(_ context.Context, _ map[string]any) error {
		emitted++

		return nil
	}

	trigger.Poll(context.Background())
	assert.Equal(t, 1, emitted)
}

func TestPollFetchFailureEmitsNothing(t *testing.T) {
	t.Parallel()

	trigger := newTestPollTrigger(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, map[string]any{
		"agent_id": "a-1",
	})

	trigger.callback = func(_ context.Context, _ map[string]any) error {
		t.Error("callback must not fire on a failed fetch")

		return nil
	}

	trigger.Poll(context.Background())
}
