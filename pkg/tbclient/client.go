package tbclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/timeback/internal/client"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// New creates a new TimeBack API client.
//
// Fields set on config always win. When config.UseEnvironment is true, empty fields are
// filled from TIMEBACK_* variables; anything still empty uses the defaults of
// config.Environment. The caller's config is not modified.
func New(ctx context.Context, config *timeback.Config) (timeback.Client, error) {
	if config == nil {
		return nil, timeback.ErrConfigRequired
	}

	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	resolved := config.Clone()

	if resolved.UseEnvironment {
		err = applyEnvironment(resolved)
		if err != nil {
			return nil, fmt.Errorf("reading TIMEBACK_ environment: %w", err)
		}
	}

	c, err := client.New(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewFromEnvironment creates a client configured entirely from TIMEBACK_* variables.
func NewFromEnvironment(ctx context.Context) (timeback.Client, error) {
	return New(ctx, &timeback.Config{UseEnvironment: true})
}

// NewWithToken creates a new client with an API URL and a pre-issued access token.
func NewWithToken(ctx context.Context, apiURL, token string) (timeback.Client, error) {
	return New(ctx, &timeback.Config{
		APIURL:      apiURL,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using the OAuth2 client credentials grant.
func NewWithClientCredentials(ctx context.Context, env timeback.Environment, tokenURL, clientID, clientSecret string) (timeback.Client, error) {
	return New(ctx, &timeback.Config{
		Environment:  env,
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
