package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	. "github.com/fivetwenty-io/timeback/internal/client"
	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ timeback.Client = (*Client)(nil)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, timeback.ErrConfigRequired)
	})

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		_, err := New(&timeback.Config{APIURL: "https://api.example.com"})
		require.ErrorIs(t, err, timeback.ErrCredentialsRequired)
	})

	t.Run("credentials need a token url", func(t *testing.T) {
		t.Parallel()

		_, err := New(&timeback.Config{
			APIURL:       "https://api.example.com",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		require.ErrorIs(t, err, timeback.ErrTokenURLRequired)
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		t.Parallel()

		_, err := New(&timeback.Config{Environment: "qa", AccessToken: "token"})
		require.ErrorIs(t, err, timeback.ErrUnknownEnvironment)
	})

	t.Run("creates client with access token", func(t *testing.T) {
		t.Parallel()

		client, err := New(&timeback.Config{APIURL: "https://api.example.com", AccessToken: "token"})
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token", token)
	})

	t.Run("creates client with client credentials", func(t *testing.T) {
		t.Parallel()

		client, err := New(&timeback.Config{
			APIURL:       "https://api.example.com",
			TokenURL:     "https://auth.example.com/oauth2/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		require.NoError(t, err)
		assert.NotNil(t, client.GetTokenManager())
	})

	t.Run("custom token manager", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithTokenManager(&timeback.Config{APIURL: "https://api.example.com"}, nil)
		require.ErrorIs(t, err, timeback.ErrCredentialsRequired)
	})
}

func TestClient_Endpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   timeback.Config
		expected timeback.Endpoints
	}{
		{
			name:     "production defaults",
			config:   timeback.Config{},
			expected: timeback.Endpoints{APIURL: constants.ProductionAPIURL, QTIURL: constants.ProductionAPIURL},
		},
		{
			name:     "staging defaults",
			config:   timeback.Config{Environment: timeback.EnvironmentStaging},
			expected: timeback.Endpoints{APIURL: constants.StagingAPIURL, QTIURL: constants.StagingQTIURL},
		},
		{
			name:     "explicit api url wins and qti follows it",
			config:   timeback.Config{Environment: timeback.EnvironmentProduction, APIURL: "https://api.example.com/"},
			expected: timeback.Endpoints{APIURL: "https://api.example.com", QTIURL: "https://api.example.com"},
		},
		{
			name: "explicit qti url wins over staging default",
			config: timeback.Config{
				Environment: timeback.EnvironmentStaging,
				QTIURL:      "https://qti.example.com/api",
			},
			expected: timeback.Endpoints{APIURL: constants.StagingAPIURL, QTIURL: "https://qti.example.com/api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := tt.config
			config.AccessToken = "token"

			client, err := New(&config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.Endpoints())
		})
	}
}

func TestClient_Registry(t *testing.T) {
	t.Parallel()

	client, err := New(&timeback.Config{APIURL: "https://api.example.com", AccessToken: "token"})
	require.NoError(t, err)

	t.Run("lists services sorted", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"caliper", "case", "edubridge", "gradebook", "powerpath", "qti", "resources", "rostering"}, client.Services())
	})

	t.Run("unknown service", func(t *testing.T) {
		t.Parallel()

		_, err := client.Service("billing")
		require.ErrorIs(t, err, timeback.ErrUnknownService)
		assert.Contains(t, err.Error(), `"billing"`)
	})

	t.Run("services are built once", func(t *testing.T) {
		t.Parallel()

		first, err := client.Service(constants.ServiceRostering)
		require.NoError(t, err)

		second, err := client.Service(constants.ServiceRostering)
		require.NoError(t, err)

		assert.Same(t, first.(*RosteringClient), second.(*RosteringClient))
		assert.Same(t, first.(*RosteringClient), client.Rostering().(*RosteringClient))
	})

	t.Run("typed accessors match registry", func(t *testing.T) {
		t.Parallel()

		for _, name := range client.Services() {
			service, err := client.Service(name)
			require.NoError(t, err)
			assert.NotNil(t, service, name)
		}

		assert.Implements(t, (*timeback.GradebookService)(nil), client.Gradebook())
		assert.Implements(t, (*timeback.ResourcesService)(nil), client.Resources())
		assert.Implements(t, (*timeback.QTIService)(nil), client.QTI())
		assert.Implements(t, (*timeback.PowerPathService)(nil), client.PowerPath())
		assert.Implements(t, (*timeback.CASEService)(nil), client.CASE())
		assert.Implements(t, (*timeback.EduBridgeService)(nil), client.EduBridge())
		assert.Implements(t, (*timeback.CaliperService)(nil), client.Caliper())
	})

	t.Run("concurrent first access", func(t *testing.T) {
		t.Parallel()

		fresh, err := New(&timeback.Config{APIURL: "https://api.example.com", AccessToken: "token"})
		require.NoError(t, err)

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			built = map[interface{}]struct{}{}
		)

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				qti := fresh.QTI()

				mu.Lock()
				built[qti] = struct{}{}
				mu.Unlock()
			}()
		}

		wg.Wait()
		assert.Len(t, built, 1)
	})
}

// recorder answers every request with the handler and keeps the paths it saw.
type recorder struct {
	mu    sync.Mutex
	paths []string
	auths []string
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}

	r.paths = append(r.paths, path)
	r.auths = append(r.auths, req.Header.Get("Authorization"))
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.paths...), append([]string(nil), r.auths...)
}

func TestClient_ServiceBaseURLs(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/users/u1"):
			_, _ = io.WriteString(w, `{"user":{"sourcedId":"u1","givenName":"Ada"}}`)
		case strings.HasSuffix(r.URL.Path, "/assessmentLineItems"):
			_, _ = io.WriteString(w, `{"assessmentLineItems":[]}`)
		case strings.HasSuffix(r.URL.Path, "/resources"):
			_, _ = io.WriteString(w, `{"resources":[]}`)
		case strings.HasSuffix(r.URL.Path, "/assessment-items/item-1"):
			_, _ = io.WriteString(w, `{"identifier":"item-1","title":"Q","type":"choice"}`)
		case strings.HasSuffix(r.URL.Path, "/syllabus/course-1"):
			_, _ = io.WriteString(w, `{"syllabus":{}}`)
		case strings.HasSuffix(r.URL.Path, "/CFDocuments"):
			_, _ = io.WriteString(w, `{"CFDocuments":[]}`)
		case strings.HasSuffix(r.URL.Path, "/subject-track/"):
			_, _ = io.WriteString(w, `[]`)
		case strings.HasSuffix(r.URL.Path, "/caliper/event/validate"):
			_, _ = io.WriteString(w, `{"status":"success"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := New(&timeback.Config{APIURL: server.URL, AccessToken: "static-token"})
	require.NoError(t, err)

	ctx := context.Background()

	user, err := client.Rostering().Users().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.GivenName)

	_, err = client.Gradebook().AssessmentLineItems().List(ctx, nil)
	require.NoError(t, err)

	_, err = client.Resources().Resources().List(ctx, nil)
	require.NoError(t, err)

	_, err = client.QTI().AssessmentItems().Get(ctx, "item-1")
	require.NoError(t, err)

	_, err = client.PowerPath().GetCourseSyllabus(ctx, "course-1")
	require.NoError(t, err)

	_, err = client.CASE().ListDocuments(ctx, nil)
	require.NoError(t, err)

	_, err = client.EduBridge().ListSubjectTracks(ctx, nil)
	require.NoError(t, err)

	_, err = client.Caliper().ValidateEvents(ctx, &timeback.CaliperEnvelope{
		Sensor: "sensor",
		Data: []timeback.TimeSpentEvent{{
			Actor:     timeback.CaliperUser{ID: "u1", Email: "u1@example.com"},
			Object:    timeback.CaliperActivityContext{Subject: "Math", App: map[string]interface{}{"name": "a"}, Activity: map[string]interface{}{"name": "b"}},
			EventTime: "2026-01-05T10:00:00Z",
			EdApp:     map[string]interface{}{"id": "app"},
			Generated: timeback.TimeSpentMetrics{Items: []timeback.TimeSpentMetric{{Type: timeback.TimeSpentActive, Value: 1}}},
		}},
	})
	require.NoError(t, err)

	paths, auths := rec.snapshot()
	assert.Equal(t, []string{
		"/ims/oneroster/rostering/v1p2/users/u1",
		"/ims/oneroster/gradebook/v1p2/assessmentLineItems",
		"/ims/oneroster/resources/v1p2/resources",
		"/assessment-items/item-1",
		"/powerpath/syllabus/course-1",
		"/ims/case/v1p1/CFDocuments",
		"/edubridge/subject-track/",
		"/caliper/event/validate",
	}, paths)

	assert.Equal(t, server.URL+"/ims/case/v1p1", client.ServiceBaseURL("case"))
	assert.Equal(t, server.URL+"/edubridge", client.ServiceBaseURL("edubridge"))
	assert.Equal(t, server.URL, client.ServiceBaseURL("caliper"))

	for _, auth := range auths {
		assert.Equal(t, "Bearer static-token", auth)
	}
}

func TestClient_FallbackToClientCredentials(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		grants int
	)

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, secret, ok := r.BasicAuth()
		if !ok || clientID != "client-id" || secret != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		mu.Lock()
		grants++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(tokenServer.Close)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"error":"token expired"}`)

			return
		}

		_, _ = io.WriteString(w, `{"org":{"sourcedId":"org-1","name":"Alpha"}}`)
	}))
	t.Cleanup(apiServer.Close)

	client, err := New(&timeback.Config{
		APIURL:       apiServer.URL,
		TokenURL:     tokenServer.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "stale-token",
	})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = client.Rostering().Orgs().Get(ctx, "org-1")
	require.Error(t, err)
	assert.True(t, timeback.IsUnauthorized(err))

	org, err := client.Rostering().Orgs().Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", org.Name)

	token, err := client.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, grants)
}

func TestClient_GetTokenWrapsAuthErrors(t *testing.T) {
	t.Parallel()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_client","error_description":"unknown client"}`)
	}))
	t.Cleanup(tokenServer.Close)

	client, err := New(&timeback.Config{
		APIURL:       "https://api.example.com",
		TokenURL:     tokenServer.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
	require.NoError(t, err)

	_, err = client.GetToken(context.Background())
	require.Error(t, err)

	var authErr *timeback.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid_client", authErr.Code)
}
