// Package models holds the data shapes shared between the connector and
// its host.
package models

// ExecutionContext carries per-invocation state from the host into an
// action. Item is the current input record when the host processes a batch;
// records are independent, nothing carries across them.
type ExecutionContext struct {
	ID          string         `json:"id"`
	WorkflowID  string         `json:"workflow_id,omitempty"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Item        map[string]any `json:"item,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
