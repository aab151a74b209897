package romulus

import (
	"context"
	"log/slog"

	"github.com/romulus-live/romulus-connect/pkg/protocol"
)

// WebhookTriggerFactory creates Romulus webhook triggers.
type WebhookTriggerFactory struct{}

func NewWebhookTriggerFactory() *WebhookTriggerFactory {
	return &WebhookTriggerFactory{}
}

func (f *WebhookTriggerFactory) Create(config map[string]any, logger *slog.Logger) (protocol.Trigger, error) {
	return NewTrigger(context.Background(), config, logger)
}

func (f *WebhookTriggerFactory) ID() string {
	return "romulus_webhook"
}

func (f *WebhookTriggerFactory) Name() string {
	return "Romulus Webhook"
}

func (f *WebhookTriggerFactory) Description() string {
	return "Fires when Romulus delivers a robocall or agent event to the registered webhook URL."
}

func (f *WebhookTriggerFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_key": map[string]any{
				"type":        "string",
				"description": "Romulus API key, sent as the raw Authorization header",
			},
			"base_url": map[string]any{
				"type":        "string",
				"description": "Override for the API root, mainly for staging environments",
				"default":     "https://api.romulus.live/v1",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Local listen path for inbound deliveries",
				"default":     defaultWebhookPath,
			},
			"public_url": map[string]any{
				"type":        "string",
				"description": "Externally reachable base URL registered with the vendor",
			},
			"event": map[string]any{
				"type":        "string",
				"description": "Vendor event to subscribe to",
				"enum":        []string{EventRobocall, EventAgentCallCompleted, EventAgentActionCompleted},
				"default":     EventAgentCallCompleted,
			},
			"scope": map[string]any{
				"type":        "string",
				"description": "Subscribe to all entities or a specific one",
				"enum":        []string{ScopeAll, ScopeSpecific},
				"default":     ScopeAll,
			},
			"entity_id": map[string]any{
				"type":        "string",
				"description": "Agent or call task to scope the subscription to; required when scope is 'specific'",
			},
		},
		"required":             []string{"api_key", "public_url"},
		"additionalProperties": false,
	}
}

// PollTriggerFactory creates Romulus call task polling triggers.
type PollTriggerFactory struct{}

func NewPollTriggerFactory() *PollTriggerFactory {
	return &PollTriggerFactory{}
}

func (f *PollTriggerFactory) Create(config map[string]any, logger *slog.Logger) (protocol.Trigger, error) {
	return NewPollTrigger(context.Background(), config, logger)
}

func (f *PollTriggerFactory) ID() string {
	return "romulus_poll"
}

func (f *PollTriggerFactory) Name() string {
	return "Romulus Call Task Poll"
}

func (f *PollTriggerFactory) Description() string {
	return "Periodically lists an agent's call tasks and fires once for each new task."
}

func (f *PollTriggerFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_key": map[string]any{
				"type":        "string",
				"description": "Romulus API key, sent as the raw Authorization header",
			},
			"base_url": map[string]any{
				"type":        "string",
				"description": "Override for the API root, mainly for staging environments",
				"default":     "https://api.romulus.live/v1",
			},
			"agent_id": map[string]any{
				"type":        "string",
				"description": "Agent whose call tasks are polled",
			},
			"schedule": map[string]any{
				"type":        "string",
				"description": "Cron expression or @every interval",
				"default":     defaultPollSchedule,
			},
		},
		"required":             []string{"api_key", "agent_id"},
		"additionalProperties": false,
	}
}
