package timeback

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIURLRequired      = errors.New("API URL is required")
	ErrTokenURLRequired    = errors.New("token URL is required when client credentials are set")
	ErrCredentialsRequired = errors.New("client ID and client secret are required")
	ErrUnknownService      = errors.New("unknown service")
	ErrUnknownEnvironment  = errors.New("unknown environment")
	ErrNoMoreItems         = errors.New("no more items")
	ErrIDRequired          = errors.New("identifier is required")
	ErrStaticTokenRefresh  = errors.New("static token cannot be refreshed")
	ErrEmptyResponse       = errors.New("empty response body")
	ErrInvalidJSON         = errors.New("response is not valid JSON")
)

// AuthError is returned when a bearer token cannot be obtained.
type AuthError struct {
	StatusCode  int
	Code        string
	Description string
	Err         error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	var parts []string

	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}

	if e.Code != "" {
		parts = append(parts, e.Code)
	}

	if e.Description != "" {
		parts = append(parts, e.Description)
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if len(parts) == 0 {
		return "authentication failed"
	}

	return "authentication failed: " + strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// ValidationError is returned before any request is sent when input is malformed.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the TimeBack API.
type APIError struct {
	StatusCode int                    `json:"-"                 yaml:"status_code"`
	Code       string                 `json:"code,omitempty"    yaml:"code,omitempty"`
	Message    string                 `json:"error,omitempty"   yaml:"message,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Body       []byte                 `json:"-"                 yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	if e.Code != "" {
		return fmt.Sprintf("%s (status: %d, code: %s)", msg, e.StatusCode, e.Code)
	}

	return fmt.Sprintf("%s (status: %d)", msg, e.StatusCode)
}

// TransportError wraps network level failures: refused connections, timeouts, truncated bodies.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline.
func (e *TransportError) Timeout() bool {
	var timeout interface{ Timeout() bool }
	if errors.As(e.Err, &timeout) {
		return timeout.Timeout()
	}

	return false
}

// DecodeError is returned when a 2xx body cannot be decoded into the expected shape.
type DecodeError struct {
	Target string
	Body   []byte
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("decoding response: %v", e.Err)
	}

	return fmt.Sprintf("decoding %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsValidation checks if the error was raised before sending because input was invalid.
func IsValidation(err error) bool {
	validationErr := &ValidationError{}

	return errors.As(err, &validationErr)
}

// IsAuth checks if the error came from the token manager.
func IsAuth(err error) bool {
	authErr := &AuthError{}

	return errors.As(err, &authErr)
}
