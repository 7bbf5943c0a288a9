// Package credentials stores the contacts API access token and reads its
// claims.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenAccount is the storage key for the API token.
const tokenAccount = "api-token"

// Sentinel errors for credential operations.
var (
	// ErrNotFound is returned when no credential is stored.
	ErrNotFound = errors.New("credential not found")

	// ErrMalformedToken is returned when a token is not a readable JWT.
	ErrMalformedToken = errors.New("malformed access token")
)

// Storage abstracts credential storage backends.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/storage.go . Storage
type Storage interface {
	// Set stores a secret under account.
	Set(account, secret string) error

	// Get retrieves a secret.
	// Returns ErrNotFound if nothing is stored under account.
	Get(account string) (string, error)

	// Delete removes a secret.
	// Returns nil if nothing is stored under account.
	Delete(account string) error
}

// Token is a stored API login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Claims is what the client can read from an access token without the
// server's signing key.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // Zero when the token has no expiry
}

// Expired reports whether the token expired before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Store saves tok.
func Store(storage Storage, tok Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	return storage.Set(tokenAccount, string(data))
}

// Load retrieves the stored token.
// Returns ErrNotFound if no token is stored.
func Load(storage Storage) (*Token, error) {
	data, err := storage.Get(tokenAccount)
	if err != nil {
		return nil, err
	}

	var tok Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

// Clear removes the stored token.
func Clear(storage Storage) error {
	return storage.Delete(tokenAccount)
}

// Inspect reads the claims of an access token. The signature is not
// verified: only the server holds the key.
func Inspect(accessToken string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &rc); err != nil {
		return Claims{}, fmt.Errorf("%w: %s", ErrMalformedToken, err)
	}

	claims := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, nil
}
