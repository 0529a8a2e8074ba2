package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicesCommand(t *testing.T) {
	useTempConfig(t)
	viper.Set(KeyAPIURL, "https://api.example.com")
	viper.Set(KeyQTIURL, "https://qti.example.com")
	viper.Set(KeyAccessToken, "tok")
	viper.Set(KeyOutput, OutputFormatJSON)

	out, err := execute(t, NewServicesCommand())
	require.NoError(t, err)

	var infos []ServiceInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))

	byName := make(map[string]string, len(infos))
	for _, info := range infos {
		byName[info.Name] = info.BaseURL
	}

	assert.Equal(t, "https://api.example.com/ims/oneroster/rostering/v1p2", byName["rostering"])
	assert.Equal(t, "https://api.example.com/ims/oneroster/gradebook/v1p2", byName["gradebook"])
	assert.Equal(t, "https://qti.example.com", byName["qti"])
	assert.Contains(t, byName, "powerpath")
	assert.Equal(t, "https://api.example.com/ims/case/v1p1", byName["case"])
	assert.Equal(t, "https://api.example.com/edubridge", byName["edubridge"])
	assert.Equal(t, "https://api.example.com", byName["caliper"])
}

func TestVersionCommand(t *testing.T) {
	useTempConfig(t)

	cmd := NewVersionCommand("1.2.3", "abc123", "2026-01-01")
	assert.Equal(t, "version", cmd.Use)

	out, err := execute(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")

	viper.Set(KeyOutput, OutputFormatYAML)

	out, err = execute(t, NewVersionCommand("1.2.3", "abc123", "2026-01-01"))
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1.2.3")
}
