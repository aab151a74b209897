package romulus

import (
	"fmt"
	"net/http"

	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

// operationSpec is one transition of the dispatcher: a (resource,
// operation) pair selects exactly one of these. Endpoint and body builders
// are pure functions of the parameter set; nothing carries across
// invocations.
type operationSpec struct {
	method    string
	paginated bool
	endpoint  func(p Params) (string, error)
	body      func(p Params) (map[string]any, error)

	// emptyResult supplies a benign success payload when the vendor answers
	// with an empty body, which its delete endpoints do.
	emptyResult func(p Params) map[string]any
}

func lookupOperation(resource, operation string) (operationSpec, error) {
	resourceOps, ok := operations[resource]
	if !ok {
		return operationSpec{}, fmt.Errorf("unknown resource %q", resource)
	}

	spec, ok := resourceOps[operation]
	if !ok {
		return operationSpec{}, fmt.Errorf("unknown operation %q for resource %q", operation, resource)
	}

	return spec, nil
}

func staticEndpoint(path string) func(Params) (string, error) {
	return func(Params) (string, error) {
		return path, nil
	}
}

func idEndpoint(format, param string) func(Params) (string, error) {
	return func(p Params) (string, error) {
		id, err := p.RequiredString(param)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf(format, id), nil
	}
}

var operations = map[string]map[string]operationSpec{
	"agent": {
		"listAllAgents": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  staticEndpoint("/ai-agents/agents/search"),
		},
		"listAllAgentCallTasks": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  idEndpoint("/ai-agents/agents/%s/call-tasks", "agent_id"),
		},
		"startAgentCall": {
			method:   http.MethodPost,
			endpoint: idEndpoint("/ai-agents/agents/%s/call", "agent_id"),
			body:     buildStartAgentCallBody,
		},
		"startAgentCallTask": {
			method:   http.MethodPost,
			endpoint: idEndpoint("/ai-agents/agents/%s/call-tasks", "agent_id"),
			body:     buildStartAgentCallTaskBody,
		},
		"terminateCallTaskById": {
			method:   http.MethodPut,
			endpoint: idEndpoint("/ai-agents/agents/call-tasks/%s/terminate", "call_task_id"),
		},
		"terminateCallTasksByPhone": {
			method:   http.MethodPost,
			endpoint: staticEndpoint("/ai-agents/agents/call-tasks/terminate"),
			body: func(p Params) (map[string]any, error) {
				phone, err := p.RequiredString("contact_phone_number")
				if err != nil {
					return nil, err
				}

				return map[string]any{"contact_phone_number": phone}, nil
			},
		},
	},
	"call": {
		"listRobocalls": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  staticEndpoint("/call-tasks/robocalls/configurations"),
		},
		"startRobocall": {
			method:   http.MethodPost,
			endpoint: staticEndpoint("/call-tasks/robocalls"),
			body:     buildStartRobocallBody,
		},
		"createWebhookSubscription": {
			method:   http.MethodPost,
			endpoint: staticEndpoint(romulusapi.CallTaskSubscriptionsEndpoint),
			body:     buildCallTaskSubscriptionBody,
		},
		"listWebhookSubscriptions": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  staticEndpoint(romulusapi.CallTaskSubscriptionsEndpoint),
		},
		"deleteWebhookSubscription": {
			method:      http.MethodDelete,
			endpoint:    idEndpoint(romulusapi.CallTaskSubscriptionsEndpoint+"/%s", "webhook_subscription_id"),
			emptyResult: deletedSubscriptionResult,
		},
	},
	"campaign": {
		"createCallTasks": {
			method:   http.MethodPost,
			endpoint: idEndpoint("/call-campaigns/%s/tasks", "campaign_id"),
			body:     buildCampaignCallTasksBody,
		},
		"terminateCallTasks": {
			method:   http.MethodPut,
			endpoint: idEndpoint("/call-campaigns/%s/tasks/terminate", "campaign_id"),
			body: func(p Params) (map[string]any, error) {
				phone, err := p.RequiredString("phone_number")
				if err != nil {
					return nil, err
				}

				return map[string]any{"phone_number": phone}, nil
			},
		},
	},
	"messenger": {
		"listAllWhatsappBots": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  staticEndpoint("/messengers/whatsapp/bots"),
		},
		"sendWhatsappTemplateMessage": {
			method:   http.MethodPost,
			endpoint: staticEndpoint("/messengers/whatsapp/template-message"),
			body:     buildTemplateMessageBody,
		},
	},
	"webhook": {
		"list": {
			method:    http.MethodGet,
			paginated: true,
			endpoint:  staticEndpoint("/webhook-subscriptions/search"),
		},
		"get": {
			method:   http.MethodGet,
			endpoint: idEndpoint(romulusapi.GenericSubscriptionsEndpoint+"/%s", "webhook_subscription_id"),
		},
		"create": {
			method:   http.MethodPost,
			endpoint: staticEndpoint(romulusapi.GenericSubscriptionsEndpoint),
			body:     buildSubscriptionCreateBody,
		},
		"update": {
			method:   http.MethodPut,
			endpoint: idEndpoint(romulusapi.GenericSubscriptionsEndpoint+"/%s", "webhook_subscription_id"),
			body:     buildSubscriptionUpdateBody,
		},
		"delete": {
			method:      http.MethodDelete,
			endpoint:    idEndpoint(romulusapi.GenericSubscriptionsEndpoint+"/%s", "webhook_subscription_id"),
			emptyResult: deletedSubscriptionResult,
		},
	},
}

func buildStartAgentCallBody(p Params) (map[string]any, error) {
	to, err := p.RequiredString("to")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"to": to}

	properties := p.Object("properties")
	properties.setOptional(body, "email")
	properties.setOptional(body, "name")
	properties.setOptional(body, "timezone")

	return body, nil
}

func buildStartAgentCallTaskBody(p Params) (map[string]any, error) {
	phone, err := p.RequiredString("contact_phone_number")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"contact_phone_number": phone}

	p.setOptional(body, "contact_email")
	p.setOptional(body, "contact_name")
	p.setOptional(body, "contact_timezone")

	options := p.Object("options")
	if campaignID := options.String("campaign_id", ""); campaignID != "" {
		body["campaign_id"] = campaignID
	}

	customProperties, err := options.JSONObject("custom_properties")
	if err != nil {
		return nil, err
	}

	for key, value := range customProperties {
		body[key] = value
	}

	if retry := retryConfiguration(p); retry != nil {
		body["retry_configuration"] = retry
	}

	if availability := availabilityConfiguration(p); availability != nil {
		body["availability_configuration"] = availability
	}

	return body, nil
}

func buildStartRobocallBody(p Params) (map[string]any, error) {
	configurationID, err := p.RequiredString("robocall_configuration_id")
	if err != nil {
		return nil, err
	}

	phone, err := p.RequiredString("phone_number")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"robocall_configuration_id": configurationID,
		"phone_number":              phone,
	}, nil
}

func buildCallTaskSubscriptionBody(p Params) (map[string]any, error) {
	url, err := p.RequiredString("url")
	if err != nil {
		return nil, err
	}

	entityType, err := p.RequiredString("entity_type")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"url":         url,
		"entity_type": entityType,
	}

	p.Object("additional_fields").setOptional(body, "entity_id")

	return body, nil
}

func buildCampaignCallTasksBody(p Params) (map[string]any, error) {
	importSource, err := p.RequiredString("import_source")
	if err != nil {
		return nil, err
	}

	recipients := p.List("recipients")
	if recipients == nil {
		recipients = []map[string]any{}
	}

	body := map[string]any{
		"import_source": importSource,
		"recipients":    recipients,
	}

	if retry := retryConfiguration(p); retry != nil {
		body["retry_configuration"] = retry
	}

	if availability := availabilityConfiguration(p); availability != nil {
		body["availability_configuration"] = availability
	}

	return body, nil
}

func buildTemplateMessageBody(p Params) (map[string]any, error) {
	body := map[string]any{}

	for _, field := range []string{"bot_id", "template_id", "recipient"} {
		value, err := p.RequiredString(field)
		if err != nil {
			return nil, err
		}

		body[field] = value
	}

	parameters, err := buildTemplateParameters(p.List("template_parameters"))
	if err != nil {
		return nil, err
	}

	if len(parameters) > 0 {
		body["parameters"] = parameters
	}

	return body, nil
}

func buildSubscriptionCreateBody(p Params) (map[string]any, error) {
	event, err := p.RequiredString("event")
	if err != nil {
		return nil, err
	}

	url, err := p.RequiredString("url")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"event": event,
		"url":   url,
	}

	err = applySubscriptionFields(body, p.Object("additional_fields"))
	if err != nil {
		return nil, err
	}

	return body, nil
}

func buildSubscriptionUpdateBody(p Params) (map[string]any, error) {
	status, err := p.RequiredString("status")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"status": status}

	updateFields := p.Object("update_fields")
	updateFields.setOptional(body, "event")
	updateFields.setOptional(body, "url")

	err = applySubscriptionFields(body, updateFields)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// applySubscriptionFields copies the optional subscription attributes shared
// by create and update. Absent fields stay out of the body entirely; the
// vendor treats explicit null as an intentional clear.
func applySubscriptionFields(body map[string]any, fields Params) error {
	fields.setOptional(body, "entity_type")
	fields.setOptional(body, "entity_id")
	fields.setOptionalInt(body, "attempts")
	fields.setOptionalInt(body, "attempts_interval_seconds")

	specifications, err := fields.JSONObject("specifications")
	if err != nil {
		return err
	}

	if specifications != nil {
		body["specifications"] = specifications
	}

	return nil
}

// retryConfiguration returns the vendor's nested retry shape, or nil when
// retry is not explicitly enabled. Disabled retry must omit the key rather
// than send defaults.
func retryConfiguration(p Params) map[string]any {
	retry := p.Object("retry_configuration")
	if !retry.Bool("enabled", false) {
		return nil
	}

	return map[string]any{
		"max_attempts":     retry.Int("max_attempts", 3),
		"interval_minutes": retry.Int("interval_minutes", 60),
	}
}

// availabilityConfiguration returns the vendor's nested availability shape,
// or nil when availability windows are not explicitly enabled.
func availabilityConfiguration(p Params) map[string]any {
	availability := p.Object("availability_configuration")
	if !availability.Bool("enabled", false) {
		return nil
	}

	days := availability.StringList("days_of_week")
	if len(days) == 0 {
		days = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}
	}

	windows := []map[string]any{}
	for _, window := range availability.List("time_windows") {
		windows = append(windows, map[string]any{
			"start": window["start"],
			"end":   window["end"],
		})
	}

	return map[string]any{
		"days_of_week": days,
		"time_windows": windows,
	}
}

func deletedSubscriptionResult(p Params) map[string]any {
	id := p.String("webhook_subscription_id", "")

	return map[string]any{
		"success": true,
		"id":      id,
		"message": "Webhook subscription deleted successfully",
	}
}
