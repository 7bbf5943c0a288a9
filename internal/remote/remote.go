// Package remote implements contact.Store over the contacts HTTP API.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/jmgilman/minicrm/internal/contact"
)

// Defaults for ClientConfig.
const (
	DefaultBaseURL  = "http://localhost:8000/api"
	DefaultTimeout  = 10 * time.Second
	DefaultPageSize = 50
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// ErrInvalidCredentials is returned by Login when the server rejects the
// email and password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenFunc returns the bearer token to send, or "" to send none.
type TokenFunc func() (string, error)

// ClientConfig configures the API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string

	// Timeout bounds every request.
	Timeout time.Duration

	// PageSize is the number of contacts fetched per list request.
	PageSize int

	// Insecure skips TLS certificate verification.
	Insecure bool

	// Token supplies the bearer token. Nil sends no Authorization header.
	Token TokenFunc
}

// Token is an access token issued by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Client is a contact.Store backed by the HTTP API that can also log in.
type Client interface {
	contact.Store

	// Login exchanges an email and password for an access token.
	Login(ctx context.Context, email, password string) (Token, error)
}
