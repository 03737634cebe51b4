package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/devapi/internal/constants"
	devhttp "github.com/fivetwenty-io/devapi/internal/http"
)

// Credentials are sent once to the login endpoint and not retained.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginURL returns the login endpoint for a domain.
func LoginURL(domain string) string {
	return domain + constants.LoginPath
}

// PasswordLogin exchanges credentials for a token. client must be rooted at
// the domain; any token source it carries is not consulted.
//
// The response status is not checked: a body without a "token" member fails
// with ErrMissingToken whatever the status.
func PasswordLogin(ctx context.Context, client *devhttp.Client, creds Credentials) (*Token, error) {
	resp, err := client.PostUnauthenticated(ctx, constants.LoginPath, creds)
	if err != nil {
		return nil, fmt.Errorf("POST request to %s failed: %w", constants.LoginPath, err)
	}

	return parseLoginResponse(resp)
}

func parseLoginResponse(resp *devhttp.Response) (*Token, error) {
	var members map[string]json.RawMessage

	err := json.Unmarshal(resp.Body, &members)
	if err != nil {
		return nil, fmt.Errorf("%w (status %d): %w", constants.ErrInvalidLoginResponse, resp.StatusCode, err)
	}

	if members == nil {
		return nil, fmt.Errorf("%w (status %d): null body", constants.ErrInvalidLoginResponse, resp.StatusCode)
	}

	raw, ok := members[constants.TokenField]
	if !ok {
		return nil, fmt.Errorf("%w (status %d)", constants.ErrMissingToken, resp.StatusCode)
	}

	var value string

	err = json.Unmarshal(raw, &value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrTokenNotString, err)
	}

	if value == "" {
		return nil, fmt.Errorf("%w: empty value (status %d)", constants.ErrMissingToken, resp.StatusCode)
	}

	return &Token{AccessToken: value, Scheme: constants.AuthScheme}, nil
}
