package protocol

import (
	"context"
	"log/slog"
)

// TriggerCallback receives the data of a fired trigger event.
type TriggerCallback func(ctx context.Context, data map[string]any) error

// Trigger is a long-running event source. Start blocks until the context is
// cancelled or the trigger's transport shuts down.
type Trigger interface {
	Start(ctx context.Context, callback TriggerCallback) error
	Stop(ctx context.Context) error
	Validate(ctx context.Context) error
}

// TriggerFactory creates trigger instances and describes the trigger type
// to the host.
type TriggerFactory interface {
	Create(config map[string]any, logger *slog.Logger) (Trigger, error)
	ID() string
	Name() string
	Description() string
	Schema() map[string]any
}
