package romulus

import (
	"github.com/romulus-live/romulus-connect/pkg/protocol"
)

// ActionFactory creates Romulus actions.
type ActionFactory struct{}

// NewActionFactory creates a new Romulus action factory.
func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

// Create creates a new Romulus action from the given configuration.
func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

// ID returns the unique identifier for the action.
func (f *ActionFactory) ID() string {
	return "romulus"
}

// Name returns the name of the action.
func (f *ActionFactory) Name() string {
	return "Romulus"
}

// Description returns a brief description of the action.
func (f *ActionFactory) Description() string {
	return "Calls the Romulus telephony API: AI agent calls, robocalls, call campaigns, WhatsApp messaging and webhook subscriptions."
}

// Schema returns the JSON schema for configuring this action.
func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "Identifier for this action instance",
			},
			"api_key": map[string]any{
				"type":        "string",
				"description": "Romulus API key, sent as the raw Authorization header",
			},
			"base_url": map[string]any{
				"type":        "string",
				"description": "Override for the API root, mainly for staging environments",
				"default":     "https://api.romulus.live/v1",
			},
			"max_pages": map[string]any{
				"type":        "integer",
				"description": "Safety ceiling for fetch-all pagination",
				"default":     1000,
				"minimum":     1,
			},
			"resource": map[string]any{
				"type":        "string",
				"description": "Vendor entity category to operate on",
				"enum":        []string{"agent", "call", "campaign", "messenger", "webhook"},
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform within the resource",
				"examples": []string{
					"listAllAgents",
					"startAgentCallTask",
					"startRobocall",
					"createCallTasks",
					"sendWhatsappTemplateMessage",
					"create",
				},
			},
			"parameters": map[string]any{
				"type":        "object",
				"description": "Operation parameters; required fields depend on the selected operation",
				"examples": []map[string]any{
					{
						"agent_id":             "agent-1",
						"contact_phone_number": "+15551234567",
					},
					{
						"return_all": false,
						"limit":      50,
					},
				},
			},
		},
		"required":             []string{"api_key", "resource", "operation"},
		"additionalProperties": false,
	}
}
