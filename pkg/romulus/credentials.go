package romulus

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Credentials holds the API key issued by the vendor. The key is sent as-is
// in the Authorization header.
type Credentials struct {
	APIKey string `json:"api_key" validate:"required"`
}

var credentialsValidator = validator.New()

// Validate checks that the credentials are usable before any request is
// built from them.
func (c Credentials) Validate() error {
	err := credentialsValidator.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid credentials: %w: %w", ErrValidation, err)
	}

	return nil
}

// TestCredentials verifies the API key against the account endpoint.
func (c *Client) TestCredentials(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, "/me", nil, nil)

	return err
}
