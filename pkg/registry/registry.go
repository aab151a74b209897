// Package registry wires the connector's action and trigger factories
// together for hosts and the standalone CLI.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/romulus-live/romulus-connect/pkg/protocol"
)

type Registry struct {
	logger           *slog.Logger
	actionFactories  map[string]protocol.ActionFactory
	triggerFactories map[string]protocol.TriggerFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:           logger,
		actionFactories:  make(map[string]protocol.ActionFactory),
		triggerFactories: make(map[string]protocol.TriggerFactory),
	}
}

func (r *Registry) RegisterAction(actionFactory protocol.ActionFactory) {
	r.actionFactories[actionFactory.ID()] = actionFactory
}

func (r *Registry) RegisterTrigger(triggerFactory protocol.TriggerFactory) {
	r.triggerFactories[triggerFactory.ID()] = triggerFactory
}

// CreateAction validates config against the factory's schema and builds the
// action.
func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("action type '%s' not registered", actionType)
	}

	err := validateConfig(factory.Schema(), config)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for action '%s': %w", actionType, err)
	}

	return factory.Create(config)
}

// CreateTrigger validates config against the factory's schema and builds
// the trigger.
func (r *Registry) CreateTrigger(triggerID string, config map[string]any) (protocol.Trigger, error) {
	factory, ok := r.triggerFactories[triggerID]
	if !ok {
		return nil, fmt.Errorf("trigger ID '%s' not registered", triggerID)
	}

	err := validateConfig(factory.Schema(), config)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for trigger '%s': %w", triggerID, err)
	}

	return factory.Create(config, r.logger)
}

func validateConfig(schema map[string]any, config map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, validationError := range result.Errors() {
			details = append(details, validationError.String())
		}

		return fmt.Errorf("configuration does not match schema: %s", strings.Join(details, "; "))
	}

	return nil
}
