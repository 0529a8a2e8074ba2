package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
)

// Static errors for token grants.
var (
	ErrMissingAccessToken = errors.New("token response has no access_token")
	ErrMissingExpiry      = errors.New("token response has no positive expires_in")
)

// OAuth2Config holds the client credentials of a grant. It is copied on construction.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// OAuth2TokenManager obtains tokens with the client-credentials grant and caches them until
// they enter the refresh margin.
type OAuth2TokenManager struct {
	config     OAuth2Config
	store      *TokenStore
	httpClient *http.Client
	now        func() time.Time
	logger     timeback.Logger
}

// Option configures an OAuth2TokenManager.
type Option func(*OAuth2TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *OAuth2TokenManager) {
		m.now = now
	}
}

// WithHTTPClient sets the client used for grants.
func WithHTTPClient(client *http.Client) Option {
	return func(m *OAuth2TokenManager) {
		m.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger timeback.Logger) Option {
	return func(m *OAuth2TokenManager) {
		m.logger = logger
	}
}

// NewOAuth2TokenManager creates a manager for config.
func NewOAuth2TokenManager(config *OAuth2Config, opts ...Option) *OAuth2TokenManager {
	cfg := *config
	cfg.Scopes = append([]string(nil), config.Scopes...)

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = constants.TokenRequestTimeout

	manager := &OAuth2TokenManager{
		config:     cfg,
		store:      NewTokenStore(),
		httpClient: httpClient,
		now:        time.Now,
		logger:     timeback.NoopLogger{},
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// GetToken returns the cached token, or performs a grant when it is absent or inside the refresh margin.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.ValidAt(m.now()) {
		return token.AccessToken, nil
	}

	token, err := m.refresh(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken performs a client-credentials grant and stores the result.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	_, err := m.refresh(ctx)

	return err
}

func (m *OAuth2TokenManager) refresh(ctx context.Context) (*Token, error) {
	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return nil, &timeback.AuthError{Err: timeback.ErrCredentialsRequired}
	}

	if m.config.TokenURL == "" {
		return nil, &timeback.AuthError{Err: timeback.ErrTokenURLRequired}
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return nil, err
	}

	m.store.Set(token)

	m.logger.Debug("Obtained access token", map[string]interface{}{
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
		"scope":      token.Scope,
	})

	return token, nil
}

// SetToken installs a token. A zero expiresAt never expires.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		IssuedAt:    m.now(),
		ExpiresAt:   expiresAt,
	})
}

// Invalidate drops the cached token.
func (m *OAuth2TokenManager) Invalidate() {
	m.store.Clear()
}

// CurrentToken returns a copy of the cached token, or nil.
func (m *OAuth2TokenManager) CurrentToken() *Token {
	return m.store.Get()
}

func (m *OAuth2TokenManager) requestToken(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	if len(m.config.Scopes) > 0 {
		form.Set("scope", strings.Join(m.config.Scopes, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &timeback.AuthError{Err: fmt.Errorf("creating token request: %w", err)}
	}

	req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	issuedAt := m.now()

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &timeback.AuthError{Err: fmt.Errorf("executing token request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &timeback.AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading token response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, grantError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, &timeback.AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding token response: %w", err)}
	}

	if token.AccessToken == "" {
		return nil, &timeback.AuthError{StatusCode: resp.StatusCode, Err: ErrMissingAccessToken}
	}

	if token.ExpiresIn <= 0 {
		return nil, &timeback.AuthError{StatusCode: resp.StatusCode, Err: ErrMissingExpiry}
	}

	token.IssuedAt = issuedAt
	token.ExpiresAt = issuedAt.Add(time.Duration(token.ExpiresIn) * time.Second)

	return &token, nil
}

// grantError reads the RFC 6749 error fields when the body carries them.
func grantError(status int, body []byte) *timeback.AuthError {
	authErr := &timeback.AuthError{StatusCode: status}

	if gjson.ValidBytes(body) {
		root := gjson.ParseBytes(body)
		authErr.Code = root.Get("error").String()
		authErr.Description = root.Get("error_description").String()
	}

	if authErr.Code == "" && authErr.Description == "" {
		authErr.Description = strings.TrimSpace(string(body))
	}

	return authErr
}
