package tbclient

import (
	"strings"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. TIMEBACK_API_URL.
const EnvPrefix = "TIMEBACK"

// Environment keys, upper-cased and prefixed with EnvPrefix when read.
const (
	EnvEnvironment  = "environment"
	EnvAPIURL       = "api_url"
	EnvQTIURL       = "qti_url"
	EnvPowerPathURL = "powerpath_url"
	EnvCaliperURL   = "caliper_url"
	EnvTokenURL     = "token_url"
	EnvClientID     = "client_id"
	EnvClientSecret = "client_secret"
	EnvAccessToken  = "access_token"
	EnvScopes       = "scopes"
	EnvHTTPTimeout  = "http_timeout"
	EnvRetryMax     = "retry_max"
	EnvUserAgent    = "user_agent"
	EnvDebug        = "debug"
	EnvLogLevel     = "log_level"
	EnvCache        = "cache"
	EnvCacheSize    = "cache_size"
	EnvCacheTTL     = "cache_ttl"
	EnvNATSURL      = "nats_url"
	EnvNATSBucket   = "nats_bucket"
)

var envKeys = []string{
	EnvEnvironment, EnvAPIURL, EnvQTIURL, EnvPowerPathURL, EnvCaliperURL, EnvTokenURL, EnvClientID, EnvClientSecret,
	EnvAccessToken, EnvScopes, EnvHTTPTimeout, EnvRetryMax, EnvUserAgent, EnvDebug, EnvLogLevel,
	EnvCache, EnvCacheSize, EnvCacheTTL, EnvNATSURL, EnvNATSBucket,
}

// newEnvViper returns a viper instance that only reads TIMEBACK_* variables.
func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	return v
}

// applyEnvironment fills the empty fields of config from the environment.
func applyEnvironment(config *timeback.Config) error {
	v := newEnvViper()

	if config.Environment == "" {
		config.Environment = timeback.Environment(v.GetString(EnvEnvironment))
	}

	fillString(&config.APIURL, v, EnvAPIURL)
	fillString(&config.QTIURL, v, EnvQTIURL)
	fillString(&config.PowerPathURL, v, EnvPowerPathURL)
	fillString(&config.CaliperURL, v, EnvCaliperURL)
	fillString(&config.TokenURL, v, EnvTokenURL)
	fillString(&config.ClientID, v, EnvClientID)
	fillString(&config.ClientSecret, v, EnvClientSecret)
	fillString(&config.AccessToken, v, EnvAccessToken)
	fillString(&config.UserAgent, v, EnvUserAgent)

	if len(config.Scopes) == 0 && v.IsSet(EnvScopes) {
		config.Scopes = strings.FieldsFunc(v.GetString(EnvScopes), func(r rune) bool {
			return r == ',' || r == ' '
		})
	}

	if config.HTTPTimeout == 0 && v.IsSet(EnvHTTPTimeout) {
		config.HTTPTimeout = v.GetDuration(EnvHTTPTimeout)
	}

	if config.RetryMax == 0 && v.IsSet(EnvRetryMax) {
		config.RetryMax = v.GetInt(EnvRetryMax)
	}

	if !config.Debug {
		config.Debug = v.GetBool(EnvDebug)
	}

	if config.Logger == nil && v.IsSet(EnvLogLevel) {
		config.Logger = timeback.NewDefaultLogger(v.GetString(EnvLogLevel))
	}

	if config.Cache == nil && v.IsSet(EnvCache) {
		cache, err := cacheFromEnvironment(v)
		if err != nil {
			return err
		}

		config.Cache = cache

		if config.CacheTTL == 0 {
			config.CacheTTL = v.GetDuration(EnvCacheTTL)
		}
	}

	return nil
}

func fillString(field *string, v *viper.Viper, key string) {
	if *field == "" {
		*field = v.GetString(key)
	}
}

func cacheFromEnvironment(v *viper.Viper) (timeback.Cache, error) {
	cacheConfig := &timeback.CacheConfig{
		Type:    timeback.CacheType(strings.ToLower(v.GetString(EnvCache))),
		MaxSize: v.GetInt(EnvCacheSize),
	}

	if cacheConfig.Type == timeback.CacheTypeNATS {
		cacheConfig.NATS = &timeback.NATSKVConfig{
			URL:    v.GetString(EnvNATSURL),
			Bucket: v.GetString(EnvNATSBucket),
			TTL:    v.GetDuration(EnvCacheTTL),
		}
	}

	return timeback.NewCacheFromConfig(cacheConfig)
}
