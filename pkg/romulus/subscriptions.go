package romulus

import (
	"context"
	"fmt"
	"net/http"
)

// The vendor keeps two parallel subscription namespaces: a generic one for
// agent events and a call-task one for robocall events. Reconciliation has
// to probe both, generic first.
const (
	GenericSubscriptionsEndpoint  = "/webhook-subscriptions"
	CallTaskSubscriptionsEndpoint = "/call-tasks/webhook-subscriptions"

	genericSubscriptionsSearchEndpoint = "/webhook-subscriptions/search"
)

// EntityTypeRobocall marks call-task subscriptions.
const EntityTypeRobocall = "robocall"

// EntityTypeAgent scopes a generic subscription to a single agent.
const EntityTypeAgent = "AGENT"

// SubscriptionRequest describes a generic (agent event) webhook
// subscription. EntityType and EntityID are sent only when set.
type SubscriptionRequest struct {
	Event      string
	URL        string
	EntityType string
	EntityID   string
}

// subscriptionNamespace pairs a list endpoint with the delete endpoint root
// for the subscriptions it returns.
type subscriptionNamespace struct {
	listEndpoint   string
	deleteEndpoint string
}

func subscriptionNamespaces() []subscriptionNamespace {
	return []subscriptionNamespace{
		{listEndpoint: genericSubscriptionsSearchEndpoint, deleteEndpoint: GenericSubscriptionsEndpoint},
		{listEndpoint: CallTaskSubscriptionsEndpoint, deleteEndpoint: CallTaskSubscriptionsEndpoint},
	}
}

// SubscriptionExists reports whether either namespace holds a subscription
// whose url matches targetURL exactly. A failed probe of one namespace is
// inconclusive rather than fatal; the next namespace is still checked, and
// the overall answer stays false when no match was confirmed.
func (c *Client) SubscriptionExists(ctx context.Context, targetURL string) bool {
	for _, namespace := range subscriptionNamespaces() {
		response, err := c.Do(ctx, http.MethodGet, namespace.listEndpoint, nil, nil)
		if err != nil {
			c.logger.ErrorContext(ctx, "Failed to check webhook subscriptions",
				"endpoint", namespace.listEndpoint, "error", err)

			continue
		}

		for _, record := range NormalizeEnvelope(response) {
			subscription, ok := record.(map[string]any)
			if !ok {
				continue
			}

			if subscription["url"] == targetURL {
				return true
			}
		}
	}

	return false
}

// CreateSubscription registers a generic (agent event) webhook subscription.
// It posts unconditionally; callers wanting idempotency check
// SubscriptionExists first. Repeated registrations can therefore create
// duplicates, which the vendor accepts.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (any, error) {
	body := map[string]any{
		"event": req.Event,
		"url":   req.URL,
	}

	if req.EntityType != "" {
		body["entity_type"] = req.EntityType
	}

	if req.EntityID != "" {
		body["entity_id"] = req.EntityID
	}

	return c.Do(ctx, http.MethodPost, GenericSubscriptionsEndpoint, body, nil)
}

// CreateCallTaskSubscription registers a robocall webhook subscription in
// the call-task namespace. entityID scopes it to one robocall configuration
// and is omitted when empty.
func (c *Client) CreateCallTaskSubscription(ctx context.Context, targetURL, entityID string) (any, error) {
	body := map[string]any{
		"entity_type": EntityTypeRobocall,
		"url":         targetURL,
	}

	if entityID != "" {
		body["entity_id"] = entityID
	}

	return c.Do(ctx, http.MethodPost, CallTaskSubscriptionsEndpoint, body, nil)
}

// DeleteSubscriptionByURL removes the first subscription matching targetURL
// exactly, probing namespaces in order and stopping after one delete. It
// does not chase duplicate registrations sharing the URL. An absent URL is
// success: delete is idempotent from the caller's perspective.
func (c *Client) DeleteSubscriptionByURL(ctx context.Context, targetURL string) error {
	for _, namespace := range subscriptionNamespaces() {
		response, err := c.Do(ctx, http.MethodGet, namespace.listEndpoint, nil, nil)
		if err != nil {
			c.logger.ErrorContext(ctx, "Failed to list webhook subscriptions, it may not exist",
				"endpoint", namespace.listEndpoint, "error", err)

			continue
		}

		for _, record := range NormalizeEnvelope(response) {
			subscription, ok := record.(map[string]any)
			if !ok {
				continue
			}

			id := subscription["id"]
			if id == nil || id == "" || subscription["url"] != targetURL {
				continue
			}

			deleteEndpoint := fmt.Sprintf("%s/%v", namespace.deleteEndpoint, id)

			_, err = c.Do(ctx, http.MethodDelete, deleteEndpoint, nil, nil)
			if err != nil {
				c.logger.ErrorContext(ctx, "Failed to delete webhook subscription",
					"endpoint", deleteEndpoint, "error", err)

				break
			}

			c.logger.InfoContext(ctx, "Deleted webhook subscription", "endpoint", deleteEndpoint)

			return nil
		}
	}

	c.logger.InfoContext(ctx, "No webhook subscription found", "url", targetURL)

	return nil
}
