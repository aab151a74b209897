package romulus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/romulus-live/romulus-connect/pkg/otelhelper"
)

// DefaultBaseURL is the production Romulus API root.
const DefaultBaseURL = "https://api.romulus.live/v1"

const defaultTimeoutSeconds = 30

// Client is the HTTP request gateway for the Romulus API. It attaches the
// API key, serializes bodies and query parameters, and maps HTTP statuses
// onto the error taxonomy in errors.go. It is stateless across calls and
// performs no retries; every error is terminal for its originating call.
type Client struct {
	// MaxPages bounds FetchAll against a vendor bug returning full pages
	// forever. See pagination.go.
	MaxPages int

	baseURL     string
	credentials Credentials
	httpClient  *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, mainly for tests
// and staging environments.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxPages overrides the pagination safety ceiling.
func WithMaxPages(maxPages int) Option {
	return func(c *Client) {
		c.MaxPages = maxPages
	}
}

// NewClient creates a gateway for the given credentials.
func NewClient(credentials Credentials, logger *slog.Logger, opts ...Option) (*Client, error) {
	err := credentials.Validate()
	if err != nil {
		return nil, err
	}

	client := &Client{
		MaxPages:    DefaultMaxPages,
		baseURL:     DefaultBaseURL,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: defaultTimeoutSeconds * time.Second},
		logger:      logger.With("module", "romulus_client"),
		tracer:      otel.Tracer("romulus-connect"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the API root the client is pointed at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a single authenticated request and decodes the JSON response.
// A nil result with a nil error means the vendor returned an empty body,
// which happens on some DELETE endpoints.
func (c *Client) Do(
	ctx context.Context,
	method, endpoint string,
	body map[string]any,
	query map[string]string,
) (any, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "romulus.api.request",
		attribute.String(otelhelper.MethodKey, method),
		attribute.String(otelhelper.EndpointKey, endpoint),
	)
	defer span.End()

	req, err := c.buildRequest(ctx, method, endpoint, body, query)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &APIError{Endpoint: endpoint, Err: fmt.Errorf("%w: %w", ErrAPI, err)}
		otelhelper.SetError(span, apiErr)

		return nil, apiErr
	}

	span.SetAttributes(attribute.Int(otelhelper.StatusCodeKey, resp.StatusCode))

	result, err := c.decodeResponse(ctx, resp, endpoint)
	if err != nil {
		otelhelper.SetError(span, err)
	}

	return result, err
}

func (c *Client) buildRequest(
	ctx context.Context,
	method, endpoint string,
	body map[string]any,
	query map[string]string,
) (*http.Request, error) {
	var bodyReader io.Reader

	if len(body) > 0 {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}

	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, value)
		}

		req.URL.RawQuery = values.Encode()
	}

	// The vendor expects the raw key, no "Bearer" prefix.
	req.Header.Set("Authorization", c.credentials.APIKey)
	req.Header.Set("Accept", "application/json")

	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) decodeResponse(ctx context.Context, resp *http.Response, endpoint string) (any, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Status:   resp.StatusCode,
			Endpoint: endpoint,
			Err:      fmt.Errorf("%w: reading response body: %w", ErrAPI, err),
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, endpoint, vendorMessage(payload))
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var result any

	err = json.Unmarshal(payload, &result)
	if err != nil {
		c.logger.WarnContext(ctx, "Response is not valid JSON, returning as string",
			"endpoint", endpoint, "error", err)

		return string(payload), nil
	}

	return result, nil
}

// vendorMessage extracts the human-readable error message from a vendor
// error payload, falling back to the raw body.
func vendorMessage(payload []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if json.Unmarshal(payload, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}

		if envelope.Error != "" {
			return envelope.Error
		}
	}

	return strings.TrimSpace(string(payload))
}
