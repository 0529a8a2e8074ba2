package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister stores tokens between CLI invocations.
type ConfigPersister interface {
	UpdateAPIToken(apiURL, token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps OAuth2TokenManager and writes every newly granted token back to
// the CLI configuration, so later invocations reuse it until it nears expiry.
type ConfigTokenManager struct {
	oauth2Manager   *OAuth2TokenManager
	configPersister ConfigPersister
	apiURL          string
	logger          timeback.Logger

	mu        sync.Mutex
	persisted string
}

// NewConfigTokenManager creates a persisting manager seeded with a previously saved token.
func NewConfigTokenManager(manager *OAuth2TokenManager, persister ConfigPersister, apiURL, savedToken string, savedExpiry time.Time) *ConfigTokenManager {
	if savedToken != "" {
		manager.SetToken(savedToken, savedExpiry)
	}

	return &ConfigTokenManager{
		oauth2Manager:   manager,
		configPersister: persister,
		apiURL:          apiURL,
		logger:          manager.logger,
		persisted:       savedToken,
	}
}

// GetToken returns a valid access token, persisting it when a grant replaced the saved one.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged()

	return token, nil
}

// RefreshToken forces a grant and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged()

	return nil
}

// SetToken installs a token without persisting it.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.oauth2Manager.SetToken(token, expiresAt)

	m.mu.Lock()
	m.persisted = token
	m.mu.Unlock()
}

// Invalidate drops the cached token.
func (m *ConfigTokenManager) Invalidate() {
	m.oauth2Manager.Invalidate()
}

// TokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) TokenExpiry() time.Time {
	token := m.oauth2Manager.CurrentToken()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistIfChanged() {
	token := m.oauth2Manager.CurrentToken()
	if token == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token.AccessToken == m.persisted {
		return
	}

	err := m.persistToken(token)
	if err != nil {
		// A failed write only costs a grant on the next invocation.
		m.logger.Warn("Failed to persist refreshed token", map[string]interface{}{"error": err.Error()})

		return
	}

	m.persisted = token.AccessToken
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.apiURL, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
