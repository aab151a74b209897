// Package romulus implements the Romulus action: a resource/operation
// dispatcher over the vendor API.
package romulus

import (
	"context"
	"log/slog"

	"github.com/romulus-live/romulus-connect/pkg/models"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

const defaultListLimit = 50

// Action executes one vendor API operation selected by a (resource,
// operation) pair. Each execution builds its request from scratch; there is
// no state shared between invocations.
type Action struct {
	ID        string
	Resource  string
	Operation string
	Params    Params

	client *romulusapi.Client
}

// NewAction creates a Romulus action from configuration. The (resource,
// operation) pair is resolved against the dispatch table immediately so
// unsupported combinations fail at creation, not execution.
func NewAction(config map[string]any) (*Action, error) {
	cfg := Params(config)

	resource, err := cfg.RequiredString("resource")
	if err != nil {
		return nil, err
	}

	operation, err := cfg.RequiredString("operation")
	if err != nil {
		return nil, err
	}

	_, err = lookupOperation(resource, operation)
	if err != nil {
		return nil, err
	}

	credentials := romulusapi.Credentials{APIKey: cfg.String("api_key", "")}

	opts := []romulusapi.Option{}
	if baseURL := cfg.String("base_url", ""); baseURL != "" {
		opts = append(opts, romulusapi.WithBaseURL(baseURL))
	}

	if maxPages := cfg.Int("max_pages", 0); maxPages > 0 {
		opts = append(opts, romulusapi.WithMaxPages(maxPages))
	}

	client, err := romulusapi.NewClient(credentials, slog.Default(), opts...)
	if err != nil {
		return nil, err
	}

	actionID, _ := config["id"].(string)

	return &Action{
		ID:        actionID,
		Resource:  resource,
		Operation: operation,
		Params:    cfg.Object("parameters"),
		client:    client,
	}, nil
}

// Execute runs the selected operation and returns the vendor response.
// List operations honor the return_all/limit parameters; delete operations
// substitute a benign success payload when the vendor answers with an
// empty body.
func (a *Action) Execute(ctx context.Context, _ models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger = logger.With(
		"module", "romulus_action",
		"resource", a.Resource,
		"operation", a.Operation,
	)

	spec, err := lookupOperation(a.Resource, a.Operation)
	if err != nil {
		return nil, err
	}

	endpoint, err := spec.endpoint(a.Params)
	if err != nil {
		return nil, err
	}

	if spec.paginated {
		if a.Params.Bool("return_all", true) {
			return a.client.FetchAll(ctx, endpoint)
		}

		return a.client.FetchPage(ctx, endpoint, a.Params.Int("limit", defaultListLimit))
	}

	var body map[string]any

	if spec.body != nil {
		body, err = spec.body(a.Params)
		if err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "Executing Romulus operation", "endpoint", endpoint)

	response, err := a.client.Do(ctx, spec.method, endpoint, body, nil)
	if err != nil {
		return nil, err
	}

	if response == nil && spec.emptyResult != nil {
		return spec.emptyResult(a.Params), nil
	}

	return response, nil
}
