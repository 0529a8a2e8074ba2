package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// StaticTokenManager serves a pre-issued token and never performs a grant.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager for token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", &timeback.AuthError{Err: timeback.ErrCredentialsRequired}
	}

	return m.token, nil
}

// RefreshToken always fails.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return &timeback.AuthError{Err: timeback.ErrStaticTokenRefresh}
}

// SetToken replaces the token. The expiry is ignored.
func (m *StaticTokenManager) SetToken(token string, _ time.Time) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Invalidate is a no-op; the token cannot be replaced by a grant.
func (m *StaticTokenManager) Invalidate() {}
