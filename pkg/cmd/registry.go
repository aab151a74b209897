package cmd

import (
	"log/slog"

	romulusaction "github.com/romulus-live/romulus-connect/pkg/actions/romulus"
	"github.com/romulus-live/romulus-connect/pkg/registry"
	romulustrigger "github.com/romulus-live/romulus-connect/pkg/triggers/romulus"
)

// NewRegistry returns a registry with the connector's built-in factories.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(romulusaction.NewActionFactory())
	reg.RegisterTrigger(romulustrigger.NewWebhookTriggerFactory())
	reg.RegisterTrigger(romulustrigger.NewPollTriggerFactory())

	return reg
}
