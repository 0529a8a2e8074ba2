package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fivetwenty-io/timeback/internal/auth"
	"github.com/fivetwenty-io/timeback/internal/client"
	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/tbclient"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

// CreateClient creates a TimeBack client from the effective CLI configuration.
//
// A pre-issued access token is used as is. Client credentials go through a token manager
// that saves each grant to config.yml, so later invocations skip the grant.
func CreateClient(ctx context.Context) (timeback.Client, error) {
	return createClientFromConfig(ctx, loadConfig())
}

func createClientFromConfig(ctx context.Context, config *Config) (timeback.Client, error) {
	logger := newLogger()
	tbConfig := buildClientConfig(config, logger)

	if config.AccessToken != "" {
		c, err := tbclient.New(ctx, tbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return c, nil
	}

	tokenManager, err := createTokenManager(config, logger)
	if err != nil {
		return nil, err
	}

	c, err := client.NewWithTokenManager(tbConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

func buildClientConfig(config *Config, logger timeback.Logger) *timeback.Config {
	return &timeback.Config{
		Environment:  timeback.Environment(config.Environment),
		APIURL:       config.APIURL,
		QTIURL:       config.QTIURL,
		PowerPathURL: config.PowerPathURL,
		CaliperURL:   config.CaliperURL,
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		AccessToken:  config.AccessToken,
		UserAgent:    "timeback-cli",
		Debug:        viper.GetBool(KeyVerbose),
		Logger:       logger,
	}
}

func createTokenManager(config *Config, logger timeback.Logger) (*auth.ConfigTokenManager, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, constants.ErrNoCredentials
	}

	if config.TokenURL == "" {
		return nil, constants.ErrNoTokenURL
	}

	oauth2Manager := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
	}, auth.WithLogger(logger))

	var savedExpiry time.Time
	if config.TokenExpiresAt != nil {
		savedExpiry = *config.TokenExpiresAt
	}

	return auth.NewConfigTokenManager(oauth2Manager, NewConfigPersister(), config.APIURL, config.Token, savedExpiry), nil
}

// newLogger logs to stderr: debug with --verbose, warnings otherwise.
func newLogger() timeback.Logger {
	level := hclog.Warn
	if viper.GetBool(KeyVerbose) {
		level = hclog.Debug
	}

	return timeback.NewHCLogger(hclog.New(&hclog.LoggerOptions{
		Name:   "timeback",
		Level:  level,
		Output: os.Stderr,
	}))
}
