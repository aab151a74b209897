// Package romulus provides a typed client for the Romulus telephony and
// agent API: request gateway, paginated fetches, and webhook subscription
// management.
package romulus

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error categories for failed API calls. Every error returned by the
// client wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrAuthentication indicates the API key was rejected (HTTP 401).
	ErrAuthentication = errors.New("authentication failed, check your API key")

	// ErrForbidden indicates the key lacks permission for the resource (HTTP 403).
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates too many requests were made (HTTP 429).
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrValidation indicates the request was rejected as invalid (HTTP 400),
	// or failed local parameter validation before any request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrAPI covers every other transport or HTTP failure.
	ErrAPI = errors.New("api request failed")
)

// APIError wraps a failed API call with the endpoint and HTTP status that
// produced it. Status is zero for transport-level failures.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request to %s failed with status %d: %s", e.Endpoint, e.Status, e.Message)
	}

	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error comparison against the category sentinels.
func (e *APIError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newAPIError(status int, endpoint, message string) *APIError {
	category := ErrAPI

	switch status {
	case http.StatusUnauthorized:
		category = ErrAuthentication
	case http.StatusForbidden:
		category = ErrForbidden
	case http.StatusNotFound:
		category = ErrNotFound
		if message == "" {
			message = fmt.Sprintf("resource not found at %s", endpoint)
		}
	case http.StatusTooManyRequests:
		category = ErrRateLimited
	case http.StatusBadRequest:
		category = ErrValidation
	}

	return &APIError{
		Status:   status,
		Endpoint: endpoint,
		Message:  message,
		Err:      category,
	}
}

// IsAuthenticationError checks if an error indicates a rejected API key.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsForbiddenError checks if an error indicates missing permissions.
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFoundError checks if an error indicates a missing resource.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimitError checks if an error indicates rate limiting.
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsValidationError checks if an error indicates an invalid request or
// invalid local parameters.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
