// Package auth performs the password login exchange and holds the acquired token.
package auth

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/devapi/internal/constants"
	devhttp "github.com/fivetwenty-io/devapi/internal/http"
)

// Token is an opaque credential issued at login.
type Token struct {
	AccessToken string `json:"token"`
	Scheme      string `json:"-"`
}

// Valid reports whether the token can be attached to a request.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// Header returns the Authorization header value, e.g. "JWT <token>".
func (t *Token) Header() string {
	scheme := t.Scheme
	if scheme == "" {
		scheme = constants.AuthScheme
	}

	return scheme + " " + t.AccessToken
}

var _ devhttp.TokenSource = (*TokenStore)(nil)

// TokenStore holds a token that is set exactly once. It is the token source
// of the device client's transport.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set stores the token. Only the first valid token is accepted.
func (s *TokenStore) Set(token *Token) error {
	if !token.Valid() {
		return constants.ErrMissingToken
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.token != nil {
		return constants.ErrTokenAlreadySet
	}

	s.token = token

	return nil
}

// GetToken implements devhttp.TokenSource.
func (s *TokenStore) GetToken(ctx context.Context) (string, error) {
	token := s.Get()
	if token == nil {
		return "", constants.ErrNotAuthenticated
	}

	return token.AccessToken, nil
}
