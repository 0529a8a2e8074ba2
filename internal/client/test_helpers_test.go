package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/timeback/internal/auth"
	internalhttp "github.com/fivetwenty-io/timeback/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// capturedRequest is what the stub server saw.
type capturedRequest struct {
	Method   string
	Path     string
	RawPath  string
	RawQuery string
	Body     []byte
	Auth     string
}

// JSON decodes the captured body into a generic map.
func (r capturedRequest) JSON(t *testing.T) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	require.NoError(t, json.Unmarshal(r.Body, &body))

	return body
}

// route is a canned response for one path.
type route struct {
	Status int
	Body   string
}

// stubServer records every request and answers from a route table keyed by path.
type stubServer struct {
	mu       sync.Mutex
	requests []capturedRequest
	routes   map[string]route
	fallback route
}

// newStubServer starts a server answering every path with status and body.
func newStubServer(t *testing.T, status int, body string) (*stubServer, *httptest.Server) {
	t.Helper()

	return newRoutedServer(t, route{Status: status, Body: body}, nil)
}

// newRoutedServer starts a server answering known paths from routes and anything else with fallback.
func newRoutedServer(t *testing.T, fallback route, routes map[string]route) (*stubServer, *httptest.Server) {
	t.Helper()

	stub := &stubServer{routes: routes, fallback: fallback}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		stub.mu.Lock()
		stub.requests = append(stub.requests, capturedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawPath:  r.URL.EscapedPath(),
			RawQuery: r.URL.RawQuery,
			Body:     body,
			Auth:     r.Header.Get("Authorization"),
		})

		answer, ok := stub.routes[r.URL.Path]
		if !ok {
			answer = stub.fallback
		}
		stub.mu.Unlock()

		if answer.Body != "" {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(answer.Status)
		_, _ = io.WriteString(w, answer.Body)
	}))
	t.Cleanup(server.Close)

	return stub, server
}

// last returns the most recent request.
func (s *stubServer) last(t *testing.T) capturedRequest {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	require.NotEmpty(t, s.requests, "no request reached the server")

	return s.requests[len(s.requests)-1]
}

// all returns every request in arrival order.
func (s *stubServer) all() []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]capturedRequest(nil), s.requests...)
}

// count returns the number of requests received.
func (s *stubServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// newTestHTTPClient creates an executor for baseURL authenticated with a static token.
func newTestHTTPClient(baseURL string) *internalhttp.Client {
	return internalhttp.NewClient(baseURL, auth.NewStaticTokenManager(testToken))
}

// TestReadOperation is a generic get case.
type TestReadOperation[T any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     string
	WantErr      bool
	Check        func(t *testing.T, got *T)
	CheckErr     func(t *testing.T, err error)
}

// RunReadTests runs get cases against a fresh server each.
func RunReadTests[T any](
	t *testing.T,
	tests []TestReadOperation[T],
	getFunc func(*internalhttp.Client) func(context.Context, string) (*T, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			stub, server := newStubServer(t, testCase.StatusCode, testCase.Response)

			got, err := getFunc(newTestHTTPClient(server.URL))(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if testCase.CheckErr != nil {
					testCase.CheckErr(t, err)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			req := stub.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, testCase.ExpectedPath, req.RawPath)
			assert.Equal(t, "Bearer "+testToken, req.Auth)

			if testCase.Check != nil {
				testCase.Check(t, got)
			}
		})
	}
}
