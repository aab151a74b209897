// Package events defines the connector's published event types.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	WebhookReceivedEvent EventType = "romulus.webhook.received"
	CallTaskPolledEvent  EventType = "romulus.calltask.polled"
)

const (
	// Topic is the single topic all connector events are published on.
	Topic = "romulus.events"

	EventMetadataKey     = "event_id"
	EventTypeMetadataKey = "event_type"
)

// BaseEvent carries the fields common to every connector event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

func (e BaseEvent) GetType() EventType {
	return e.Type
}

// WebhookReceived is published for every inbound vendor delivery.
type WebhookReceived struct {
	BaseEvent

	TriggerID string         `json:"trigger_id"`
	Path      string         `json:"path"`
	Payload   map[string]any `json:"payload"`
}

func NewWebhookReceived(triggerID, path string, payload map[string]any) *WebhookReceived {
	return &WebhookReceived{
		BaseEvent: NewBaseEvent(WebhookReceivedEvent),
		TriggerID: triggerID,
		Path:      path,
		Payload:   payload,
	}
}

// CallTaskPolled is published for every call task the polling trigger sees
// for the first time.
type CallTaskPolled struct {
	BaseEvent

	AgentID  string         `json:"agent_id"`
	CallTask map[string]any `json:"call_task"`
}

func NewCallTaskPolled(agentID string, callTask map[string]any) *CallTaskPolled {
	return &CallTaskPolled{
		BaseEvent: NewBaseEvent(CallTaskPolledEvent),
		AgentID:   agentID,
		CallTask:  callTask,
	}
}
