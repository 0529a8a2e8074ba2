package commands

import (
	"testing"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPersister_UpdateAPIToken(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, saveConfigStruct(&Config{APIURL: "https://api.example.com", ClientID: "id"}))

	refreshedAt := time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC)
	expiry := refreshedAt.Add(time.Hour)

	persister := NewConfigPersister()
	persister.now = func() time.Time { return refreshedAt }

	require.NoError(t, persister.UpdateAPIToken("https://api.example.com", "fresh", expiry))

	config := requireConfigFile(t)
	assert.Equal(t, "fresh", config.Token)
	assert.Equal(t, "id", config.ClientID)
	require.NotNil(t, config.TokenExpiresAt)
	assert.True(t, expiry.Equal(*config.TokenExpiresAt))
	require.NotNil(t, config.LastRefreshed)
	assert.True(t, refreshedAt.Equal(*config.LastRefreshed))

	assert.Equal(t, "fresh", viper.GetString(KeyToken))
}

func TestConfigPersister_OtherAPI(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, saveConfigStruct(&Config{APIURL: "https://api.example.com"}))

	err := NewConfigPersister().UpdateAPIToken("https://other.example.com", "fresh", time.Now())
	require.ErrorIs(t, err, constants.ErrAPIConfigNotFound)
	assert.Empty(t, requireConfigFile(t).Token)
}

func TestConfigPersister_EmptyConfig(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, NewConfigPersister().UpdateAPIToken("https://api.example.com", "fresh", time.Time{}))

	config := requireConfigFile(t)
	assert.Equal(t, "fresh", config.Token)
	assert.Nil(t, config.TokenExpiresAt)
}
