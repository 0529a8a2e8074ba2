package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the global viper at an empty config file in a temp dir.
func useTempConfig(t *testing.T) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	return configFile
}

// apiServer fakes the token endpoint and the OneRoster users endpoint.
type apiServer struct {
	*httptest.Server

	grants int32
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	server := &apiServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&server.grants, 1)

		clientID, secret, ok := r.BasicAuth()
		if !ok || clientID != "cli-client" || secret != "cli-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"granted-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/ims/oneroster/rostering/v1p2/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []map[string]interface{}{
				{"sourcedId": "u-1", "status": "active", "givenName": "Ada", "familyName": "Lovelace"},
			},
			"totalCount": 1,
		})
	})

	server.Server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func (s *apiServer) tokenURL() string {
	return s.URL + "/oauth2/token"
}

func (s *apiServer) grantCount() int {
	return int(atomic.LoadInt32(&s.grants))
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func requireConfigFile(t *testing.T) *Config {
	t.Helper()

	config, err := readConfigFile()
	require.NoError(t, err)

	return config
}
