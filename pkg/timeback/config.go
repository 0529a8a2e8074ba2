package timeback

import (
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
)

// Environment selects a deployment's compiled URL defaults.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
)

// Endpoints are the base URLs of one deployment.
type Endpoints struct {
	APIURL string
	QTIURL string
}

var knownEndpoints = map[Environment]Endpoints{
	EnvironmentProduction: {APIURL: constants.ProductionAPIURL},
	EnvironmentStaging:    {APIURL: constants.StagingAPIURL, QTIURL: constants.StagingQTIURL},
}

// DefaultEndpoints returns the compiled defaults of an environment. An empty environment means production.
func DefaultEndpoints(env Environment) (Endpoints, error) {
	if env == "" {
		env = EnvironmentProduction
	}

	endpoints, ok := knownEndpoints[Environment(strings.ToLower(string(env)))]
	if !ok {
		return Endpoints{}, fmt.Errorf("%w: %s", ErrUnknownEnvironment, env)
	}

	return endpoints, nil
}

// Config holds configuration for the TimeBack client.
//
// Explicit fields always win. When UseEnvironment is true, empty fields are filled from
// TIMEBACK_* variables by tbclient.New; anything still empty falls back to the compiled
// defaults of Environment.
type Config struct {
	// Environment: production (default) or staging; selects compiled URL defaults.
	Environment Environment

	// APIURL: base URL of the OneRoster and PowerPath APIs, without trailing slash.
	APIURL string
	// QTIURL: base URL of the QTI API. Defaults to the environment's QTI URL, then APIURL.
	QTIURL string
	// PowerPathURL: optional override; defaults to APIURL + "/powerpath".
	PowerPathURL string
	// CaliperURL: host receiving Caliper events at /caliper/event; defaults to APIURL.
	CaliperURL string

	// Authentication, client-credentials grant against TokenURL
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// AccessToken: a pre-issued bearer token; skips the grant entirely.
	AccessToken string

	// HTTPTimeout: per-call timeout. Zero means 30s.
	HTTPTimeout time.Duration
	// RetryMax: zero disables retries (the default).
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RetryNonIdempotent allows POST and PATCH to be retried as well.
	RetryNonIdempotent bool

	UserAgent string
	// Debug: logs every request and response when a Logger is provided.
	Debug  bool
	Logger Logger

	// Cache: optional GET response cache; nil disables caching.
	Cache    Cache
	CacheTTL time.Duration

	// UseEnvironment opts in to reading TIMEBACK_* variables for empty fields.
	UseEnvironment bool
}

// Clone returns a copy that does not share slices with c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Scopes = append([]string(nil), c.Scopes...)

	return &clone
}
