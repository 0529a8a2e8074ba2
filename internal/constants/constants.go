package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenRequestTimeout bounds a single client-credentials grant.
	TokenRequestTimeout = 30 * time.Second
)

// Retry limits. Retries are disabled unless a caller opts in.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Token refresh window.
const (
	// TokenRefreshMinMargin is the smallest safety margin before expiry.
	TokenRefreshMinMargin = 60 * time.Second

	// TokenRefreshMarginDivisor yields the proportional margin (lifetime / 10).
	TokenRefreshMarginDivisor = 10
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 100

	// StandardPageSize is the page size used by the CLI.
	StandardPageSize = 50

	// MaxPageSize is the largest limit the API accepts.
	MaxPageSize = 3000
)

// Cache limits.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024
)

// Output formats.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// DescriptionDisplayLength is the default length for displaying titles.
	DescriptionDisplayLength = 60
)

// Service names as registered in the client registry.
const (
	ServiceRostering = "rostering"
	ServiceGradebook = "gradebook"
	ServiceResources = "resources"
	ServiceQTI       = "qti"
	ServicePowerPath = "powerpath"
	ServiceCASE      = "case"
	ServiceEduBridge = "edubridge"
	ServiceCaliper   = "caliper"
)

// API path prefixes.
const (
	// OneRosterPathFormat is formatted with the service name.
	OneRosterPathFormat = "/ims/oneroster/%s/v1p2"

	// PowerPathPrefix is the PowerPath extension prefix.
	PowerPathPrefix = "/powerpath"

	// CASEPath is the CASE 1.1 competency framework API.
	CASEPath = "/ims/case/v1p1"

	// EduBridgePrefix serves subject tracks and applications.
	EduBridgePrefix = "/edubridge"

	// CaliperEventPath receives Caliper envelopes; /validate checks one without storing it.
	CaliperEventPath = "/caliper/event"
)

// Client identification.
const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "timeback-go/1.0"

	// MaxErrorBodyDisplay caps raw error bodies quoted in messages.
	MaxErrorBodyDisplay = 512
)

// Known deployments.
const (
	ProductionAPIURL = "https://alpha-1edtech.com"
	StagingAPIURL    = "https://staging.alpha-1edtech.com"
	StagingQTIURL    = "https://alpha-qti-api-43487de62e73.herokuapp.com/api"
)
