package timeback_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *timeback.APIError
		expected string
	}{
		{
			name:     "message and code",
			err:      &timeback.APIError{StatusCode: 422, Message: "duplicate username", Code: "CONFLICT"},
			expected: "duplicate username (status: 422, code: CONFLICT)",
		},
		{
			name:     "message only",
			err:      &timeback.APIError{StatusCode: 400, Message: "bad filter"},
			expected: "bad filter (status: 400)",
		},
		{
			name:     "falls back to status text",
			err:      &timeback.APIError{StatusCode: 503},
			expected: "Service Unavailable (status: 503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAuthError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "authentication failed", (&timeback.AuthError{}).Error())
	assert.Equal(t,
		"authentication failed: status 401: invalid_client: bad secret",
		(&timeback.AuthError{StatusCode: 401, Code: "invalid_client", Description: "bad secret"}).Error())

	cause := errors.New("connection refused")
	authErr := &timeback.AuthError{Err: cause}
	assert.ErrorIs(t, authErr, cause)
	assert.True(t, timeback.IsAuth(fmt.Errorf("getting token: %w", authErr)))
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	wrap := func(status int) error {
		return fmt.Errorf("getting user: %w", &timeback.APIError{StatusCode: status})
	}

	assert.True(t, timeback.IsNotFound(wrap(http.StatusNotFound)))
	assert.False(t, timeback.IsNotFound(wrap(http.StatusForbidden)))
	assert.True(t, timeback.IsUnauthorized(wrap(http.StatusUnauthorized)))
	assert.True(t, timeback.IsForbidden(wrap(http.StatusForbidden)))
	assert.False(t, timeback.IsForbidden(errors.New("plain")))
	assert.False(t, timeback.IsValidation(wrap(http.StatusBadRequest)))
	assert.True(t, timeback.IsValidation(&timeback.ValidationError{Field: "limit", Message: "must be non-negative"}))
	assert.False(t, timeback.IsAuth(nil))
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	err := &timeback.TransportError{Method: http.MethodGet, URL: "https://api.example.com/users", Err: context.DeadlineExceeded}
	assert.Equal(t, "GET https://api.example.com/users: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, err.Timeout())

	refused := &timeback.TransportError{Method: http.MethodPost, URL: "https://api.example.com", Err: errors.New("connection refused")}
	assert.False(t, refused.Timeout())
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "decoding response: empty response body",
		(&timeback.DecodeError{Err: timeback.ErrEmptyResponse}).Error())
	assert.Equal(t, "decoding users: response is not valid JSON",
		(&timeback.DecodeError{Target: "users", Err: timeback.ErrInvalidJSON}).Error())
}
