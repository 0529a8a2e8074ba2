package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
)

// TokenManager supplies bearer tokens to the HTTP layer.
type TokenManager interface {
	// GetToken returns a usable access token, obtaining a new one when needed.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a new grant.
	RefreshToken(ctx context.Context) error
	// SetToken installs a token obtained elsewhere.
	SetToken(token string, expiresAt time.Time)
	// Invalidate drops the cached token so the next GetToken performs a grant.
	Invalidate()
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresIn   int       `json:"expires_in,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	IssuedAt    time.Time `json:"-"`
	ExpiresAt   time.Time `json:"-"`
}

// RefreshMargin is how long before expiry the token is replaced: 10% of its lifetime, at least 60s.
func (t *Token) RefreshMargin() time.Duration {
	margin := t.ExpiresAt.Sub(t.IssuedAt) / constants.TokenRefreshMarginDivisor
	if margin < constants.TokenRefreshMinMargin {
		return constants.TokenRefreshMinMargin
	}

	return margin
}

// ValidAt reports whether the token may still be used at now.
func (t *Token) ValidAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return now.Before(t.ExpiresAt.Add(-t.RefreshMargin()))
}

// Valid reports whether the token may be used right now.
func (t *Token) Valid() bool {
	return t.ValidAt(time.Now())
}

// TokenStore holds the current token. Concurrent writers are allowed; the last one wins.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns a copy of the stored token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil
	}

	token := *s.token

	return &token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}
