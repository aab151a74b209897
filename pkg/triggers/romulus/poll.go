package romulus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/romulus-live/romulus-connect/pkg/protocol"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

const defaultPollSchedule = "@every 1m"

// PollTrigger periodically lists an agent's call tasks and fires the
// callback once for each task it has not seen before. Seen-task tracking
// lives in process memory only; a restart re-emits whatever the vendor
// still returns.
type PollTrigger struct {
	AgentID  string
	Schedule string

	client   *romulusapi.Client
	cron     *cron.Cron
	callback protocol.TriggerCallback
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewPollTrigger creates a polling trigger from configuration.
func NewPollTrigger(ctx context.Context, config map[string]any, logger *slog.Logger) (*PollTrigger, error) {
	agentID, _ := config["agent_id"].(string)

	schedule, ok := config["schedule"].(string)
	if !ok || schedule == "" {
		schedule = defaultPollSchedule
	}

	apiKey, _ := config["api_key"].(string)

	opts := []romulusapi.Option{}
	if baseURL, ok := config["base_url"].(string); ok && baseURL != "" {
		opts = append(opts, romulusapi.WithBaseURL(baseURL))
	}

	client, err := romulusapi.NewClient(romulusapi.Credentials{APIKey: apiKey}, logger, opts...)
	if err != nil {
		return nil, err
	}

	trigger := &PollTrigger{
		AgentID:  agentID,
		Schedule: schedule,
		client:   client,
		seen:     make(map[string]struct{}),
		logger: logger.With(
			"module", "romulus_poll_trigger",
			"agent_id", agentID,
			"schedule", schedule,
		),
	}

	err = trigger.Validate(ctx)
	if err != nil {
		return nil, err
	}

	return trigger, nil
}

func (t *PollTrigger) Validate(_ context.Context) error {
	if t.AgentID == "" {
		return errors.New("poll trigger agent_id is required")
	}

	_, err := cron.ParseStandard(t.Schedule)
	if err != nil {
		return fmt.Errorf("invalid poll schedule: %w", err)
	}

	return nil
}

func (t *PollTrigger) Start(ctx context.Context, callback protocol.TriggerCallback) error {
	t.callback = callback
	t.cron = cron.New()

	_, err := t.cron.AddFunc(t.Schedule, func() {
		t.Poll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule poll: %w", err)
	}

	t.logger.InfoContext(ctx, "Poll trigger started")
	t.cron.Start()

	<-ctx.Done()

	return t.Stop(context.Background())
}

func (t *PollTrigger) Stop(ctx context.Context) error {
	if t.cron != nil {
		stopCtx := t.cron.Stop()
		<-stopCtx.Done()
	}

	t.logger.InfoContext(ctx, "Poll trigger stopped")

	return nil
}

// Poll fetches the agent's call tasks and emits the unseen ones in fetch
// order. A failed fetch is logged and skipped; the next scheduled poll
// starts from scratch.
func (t *PollTrigger) Poll(ctx context.Context) {
	endpoint := fmt.Sprintf("/ai-agents/agents/%s/call-tasks", t.AgentID)

	tasks, err := t.client.FetchAll(ctx, endpoint)
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to poll call tasks", "error", err)

		return
	}

	for _, record := range tasks {
		task, ok := record.(map[string]any)
		if !ok {
			continue
		}

		id, ok := task["id"].(string)
		if !ok || id == "" {
			continue
		}

		if !t.markSeen(id) {
			continue
		}

		err = t.callback(ctx, map[string]any{
			"agent_id":  t.AgentID,
			"call_task": task,
		})
		if err != nil {
			t.logger.ErrorContext(ctx, "Poll callback failed", "call_task_id", id, "error", err)
		}
	}
}

// markSeen records the task ID and reports whether it was new.
func (t *PollTrigger) markSeen(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[id]; exists {
		return false
	}

	t.seen[id] = struct{}{}

	return true
}
