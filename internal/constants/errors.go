package constants

import "errors"

// Configuration errors.
var (
	ErrAPIConfigNotFound = errors.New("API configuration not found")
	ErrNoCredentials     = errors.New("no credentials configured, use 'timeback login' or set TIMEBACK_CLIENT_ID and TIMEBACK_CLIENT_SECRET")
	ErrNoTokenURL        = errors.New("no token URL configured")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
)

// Operation errors.
var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)
