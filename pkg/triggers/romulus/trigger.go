// Package romulus implements the Romulus triggers: a webhook trigger that
// registers a subscription with the vendor and fires on inbound deliveries,
// and a polling trigger for agent call tasks.
package romulus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/romulus-live/romulus-connect/pkg/protocol"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

// Vendor event types the webhook trigger can subscribe to. Robocall events
// live in the call-task subscription namespace; agent events in the generic
// one.
const (
	EventRobocall             = "robocall"
	EventAgentCallCompleted   = "AGENT_CALL_COMPLETED"
	EventAgentActionCompleted = "AGENT_ACTION_COMPLETED"
)

const (
	ScopeAll      = "all"
	ScopeSpecific = "specific"
)

const defaultWebhookPath = "/webhooks/romulus"

// Trigger is the webhook trigger. Start registers the listen path with the
// shared server manager and reconciles the vendor-side subscription; Stop
// tears both down.
type Trigger struct {
	Path      string
	PublicURL string
	Event     string
	Scope     string
	EntityID  string

	client   *romulusapi.Client
	callback protocol.TriggerCallback
	logger   *slog.Logger
}

// NewTrigger creates a webhook trigger from configuration.
func NewTrigger(ctx context.Context, config map[string]any, logger *slog.Logger) (*Trigger, error) {
	path, ok := config["path"].(string)
	if !ok || path == "" {
		path = defaultWebhookPath
	}

	publicURL, _ := config["public_url"].(string)
	event, ok := config["event"].(string)
	if !ok || event == "" {
		event = EventAgentCallCompleted
	}

	scope, ok := config["scope"].(string)
	if !ok || scope == "" {
		scope = ScopeAll
	}

	entityID, _ := config["entity_id"].(string)
	apiKey, _ := config["api_key"].(string)

	opts := []romulusapi.Option{}
	if baseURL, ok := config["base_url"].(string); ok && baseURL != "" {
		opts = append(opts, romulusapi.WithBaseURL(baseURL))
	}

	client, err := romulusapi.NewClient(romulusapi.Credentials{APIKey: apiKey}, logger, opts...)
	if err != nil {
		return nil, err
	}

	trigger := &Trigger{
		Path:      path,
		PublicURL: publicURL,
		Event:     event,
		Scope:     scope,
		EntityID:  entityID,
		client:    client,
		logger: logger.With(
			"module", "romulus_webhook_trigger",
			"path", path,
			"event", event,
		),
	}

	err = trigger.Validate(ctx)
	if err != nil {
		return nil, err
	}

	return trigger, nil
}

func (t *Trigger) Validate(_ context.Context) error {
	if t.Path == "" || t.Path[0] != '/' {
		return errors.New("webhook trigger path must start with '/'")
	}

	if t.PublicURL == "" {
		return errors.New("webhook trigger public_url is required to register the subscription")
	}

	switch t.Event {
	case EventRobocall, EventAgentCallCompleted, EventAgentActionCompleted:
	default:
		return fmt.Errorf("unsupported webhook trigger event %q", t.Event)
	}

	if t.Scope == ScopeSpecific && t.EntityID == "" {
		return errors.New("webhook trigger entity_id is required when scope is 'specific'")
	}

	return nil
}

// WebhookURL is the externally reachable URL the vendor will deliver to.
func (t *Trigger) WebhookURL() string {
	return strings.TrimSuffix(t.PublicURL, "/") + t.Path
}

func (t *Trigger) Start(ctx context.Context, callback protocol.TriggerCallback) error {
	manager := GetGlobalServerManager()
	if manager == nil {
		return errors.New("global webhook server manager not initialized")
	}

	t.callback = callback

	handler := &Handler{
		Path:     t.Path,
		Callback: callback,
		Logger:   t.logger,
	}

	err := manager.RegisterWebhook(ctx, t.Path, handler)
	if err != nil {
		return err
	}

	err = t.reconcileSubscription(ctx)
	if err != nil {
		manager.UnregisterWebhook(ctx, t.Path)

		return err
	}

	t.logger.InfoContext(ctx, "Webhook trigger started", "url", t.WebhookURL())

	select {
	case <-ctx.Done():
		t.logger.InfoContext(ctx, "Webhook trigger context cancelled")
	case <-manager.Done():
		t.logger.InfoContext(ctx, "Webhook trigger server stopped")
	}

	return nil
}

// reconcileSubscription mirrors the host hook sequence: probe for an
// existing registration first, create one only when no match was confirmed.
// The probe is best-effort, so a failed probe still falls through to create
// and duplicate registrations remain possible.
func (t *Trigger) reconcileSubscription(ctx context.Context) error {
	url := t.WebhookURL()

	if t.client.SubscriptionExists(ctx, url) {
		t.logger.InfoContext(ctx, "Webhook subscription already registered", "url", url)

		return nil
	}

	return t.register(ctx, url)
}

func (t *Trigger) register(ctx context.Context, url string) error {
	var err error

	if t.Event == EventRobocall {
		entityID := ""
		if t.Scope == ScopeSpecific {
			entityID = t.EntityID
		}

		_, err = t.client.CreateCallTaskSubscription(ctx, url, entityID)
	} else {
		request := romulusapi.SubscriptionRequest{
			Event: t.Event,
			URL:   url,
		}

		if t.Scope == ScopeSpecific {
			request.EntityType = romulusapi.EntityTypeAgent
			request.EntityID = t.EntityID
		}

		_, err = t.client.CreateSubscription(ctx, request)
	}

	if err != nil {
		return fmt.Errorf("failed to create webhook subscription: %w", err)
	}

	t.logger.InfoContext(ctx, "Created webhook subscription", "url", url)

	return nil
}

// Stop unregisters the listen path and deletes the vendor-side
// subscription. An already-absent subscription is not an error.
func (t *Trigger) Stop(ctx context.Context) error {
	t.logger.InfoContext(ctx, "Stopping webhook trigger")

	manager := GetGlobalServerManager()
	if manager != nil {
		manager.UnregisterWebhook(ctx, t.Path)
	}

	return t.client.DeleteSubscriptionByURL(ctx, t.WebhookURL())
}
