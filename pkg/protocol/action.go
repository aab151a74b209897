// Package protocol defines the contracts a workflow host uses to load and
// drive the connector's components.
package protocol

import (
	"context"
	"log/slog"

	"github.com/romulus-live/romulus-connect/pkg/models"
)

// Action is a single executable operation against the vendor API.
type Action interface {
	Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (any, error)
}

// ActionFactory creates action instances and describes the action type to
// the host.
type ActionFactory interface {
	// Create builds a new action from the given configuration.
	Create(config map[string]any) (Action, error)

	// ID returns the unique identifier for this action type.
	ID() string

	// Name returns the human-readable name for this action type.
	Name() string

	// Description returns a description of what this action does.
	Description() string

	// Schema returns the JSON schema for configuring this action.
	Schema() map[string]any
}
