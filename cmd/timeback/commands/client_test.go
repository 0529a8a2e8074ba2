package commands

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClientFromConfig_Errors(t *testing.T) {
	useTempConfig(t)

	tests := []struct {
		name   string
		config *Config
		want   error
	}{
		{
			name:   "no credentials",
			config: &Config{APIURL: "https://api.example.com"},
			want:   constants.ErrNoCredentials,
		},
		{
			name:   "secret without token url",
			config: &Config{APIURL: "https://api.example.com", ClientID: "id", ClientSecret: "secret"},
			want:   constants.ErrNoTokenURL,
		},
		{
			name:   "unknown environment",
			config: &Config{Environment: "qa", AccessToken: "tok"},
			want:   timeback.ErrUnknownEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createClientFromConfig(context.Background(), tt.config)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUsersList_WithAccessToken(t *testing.T) {
	useTempConfig(t)

	server := newAPIServer(t)
	viper.Set(KeyAPIURL, server.URL)
	viper.Set(KeyAccessToken, "preissued")
	viper.Set(KeyOutput, OutputFormatJSON)

	out, err := execute(t, NewUsersCommand(), "list", "--limit", "5")
	require.NoError(t, err)

	var page timeback.ListResponse[timeback.User]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u-1", page.Items[0].SourcedID)
	assert.Equal(t, 1, page.TotalCount)
	assert.Zero(t, server.grantCount())
}

func TestUsersList_ReusesSavedToken(t *testing.T) {
	useTempConfig(t)

	server := newAPIServer(t)
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, saveConfigStruct(&Config{
		APIURL:         server.URL,
		TokenURL:       server.tokenURL(),
		ClientID:       "cli-client",
		ClientSecret:   "cli-secret",
		Token:          "saved-token",
		TokenExpiresAt: &expiry,
	}))
	require.NoError(t, viper.ReadInConfig())

	out, err := execute(t, NewUsersCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lovelace")
	assert.Zero(t, server.grantCount())
}

func TestUsersList_GrantsAndPersistsToken(t *testing.T) {
	useTempConfig(t)

	server := newAPIServer(t)

	require.NoError(t, saveConfigStruct(&Config{
		APIURL:       server.URL,
		TokenURL:     server.tokenURL(),
		ClientID:     "cli-client",
		ClientSecret: "cli-secret",
	}))
	require.NoError(t, viper.ReadInConfig())

	_, err := execute(t, NewUsersCommand(), "list")
	require.NoError(t, err)
	assert.Equal(t, 1, server.grantCount())
	assert.Equal(t, "granted-token", requireConfigFile(t).Token)
}

func TestBuildClientConfig(t *testing.T) {
	useTempConfig(t)
	viper.Set(KeyVerbose, true)

	config := buildClientConfig(&Config{
		Environment: "staging",
		APIURL:      "https://api.example.com",
		Scopes:      []string{"a"},
	}, timeback.NoopLogger{})

	assert.Equal(t, timeback.EnvironmentStaging, config.Environment)
	assert.Equal(t, "https://api.example.com", config.APIURL)
	assert.Equal(t, []string{"a"}, config.Scopes)
	assert.Equal(t, "timeback-cli", config.UserAgent)
	assert.True(t, config.Debug)
}
