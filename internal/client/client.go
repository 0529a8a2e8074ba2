package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/internal/auth"
	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/hashicorp/go-cleanhttp"
)

// serviceFactory builds a service facade on first access.
type serviceFactory func(c *Client) interface{}

// factories is the registry of every service the client exposes.
var factories = map[string]serviceFactory{
	constants.ServiceRostering: func(c *Client) interface{} {
		return NewRosteringClient(c.executor(c.oneRosterURL(constants.ServiceRostering)))
	},
	constants.ServiceGradebook: func(c *Client) interface{} {
		return NewGradebookClient(c.executor(c.oneRosterURL(constants.ServiceGradebook)))
	},
	constants.ServiceResources: func(c *Client) interface{} {
		return NewResourcesServiceClient(c.executor(c.oneRosterURL(constants.ServiceResources)))
	},
	constants.ServiceQTI: func(c *Client) interface{} {
		return NewQTIClient(c.executor(c.endpoints.QTIURL))
	},
	constants.ServicePowerPath: func(c *Client) interface{} {
		return NewPowerPathClient(c.executor(c.powerPathURL))
	},
	constants.ServiceCASE: func(c *Client) interface{} {
		return NewCASEClient(c.executor(c.endpoints.APIURL + constants.CASEPath))
	},
	constants.ServiceEduBridge: func(c *Client) interface{} {
		return NewEduBridgeClient(c.executor(c.endpoints.APIURL + constants.EduBridgePrefix))
	},
	constants.ServiceCaliper: func(c *Client) interface{} {
		return NewCaliperClient(c.executor(c.caliperURL))
	},
}

// Client implements timeback.Client.
type Client struct {
	tokenManager auth.TokenManager
	endpoints    timeback.Endpoints
	powerPathURL string
	caliperURL   string
	httpOpts     []http.Option
	logger       timeback.Logger

	mu       sync.Mutex
	services map[string]interface{}
}

// resolveEndpoints applies explicit URLs over the environment defaults.
func resolveEndpoints(config *timeback.Config) (timeback.Endpoints, string, error) {
	defaults, err := timeback.DefaultEndpoints(config.Environment)
	if err != nil {
		return timeback.Endpoints{}, "", err
	}

	endpoints := timeback.Endpoints{
		APIURL: firstNonEmpty(config.APIURL, defaults.APIURL),
	}

	if endpoints.APIURL == "" {
		return timeback.Endpoints{}, "", timeback.ErrAPIURLRequired
	}

	endpoints.QTIURL = firstNonEmpty(config.QTIURL, defaults.QTIURL, endpoints.APIURL)

	endpoints.APIURL = strings.TrimRight(endpoints.APIURL, "/")
	endpoints.QTIURL = strings.TrimRight(endpoints.QTIURL, "/")

	powerPathURL := firstNonEmpty(config.PowerPathURL, endpoints.APIURL+constants.PowerPathPrefix)

	return endpoints, strings.TrimRight(powerPathURL, "/"), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *timeback.Config, logger timeback.Logger) (auth.TokenManager, error) {
	hasCredentials := config.ClientID != "" && config.ClientSecret != ""

	if hasCredentials && config.TokenURL == "" {
		return nil, timeback.ErrTokenURLRequired
	}

	switch {
	case config.AccessToken != "" && hasCredentials:
		return &fallbackTokenManager{
			staticToken:  config.AccessToken,
			oauthManager: createOAuth2TokenManager(config, logger),
		}, nil
	case config.AccessToken != "":
		return auth.NewStaticTokenManager(config.AccessToken), nil
	case hasCredentials:
		return createOAuth2TokenManager(config, logger), nil
	default:
		return nil, timeback.ErrCredentialsRequired
	}
}

// createOAuth2TokenManager creates a client-credentials token manager.
func createOAuth2TokenManager(config *timeback.Config, logger timeback.Logger) *auth.OAuth2TokenManager {
	return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
	}, auth.WithLogger(logger))
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *timeback.Config, logger timeback.Logger) []http.Option {
	httpOpts := []http.Option{
		http.WithLogger(logger),
		// One pool is shared by every service executor.
		http.WithHTTPClient(cleanhttp.DefaultPooledClient()),
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts,
			http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax),
			http.WithRetryNonIdempotent(config.RetryNonIdempotent),
		)
	}

	if config.Cache != nil {
		ttl := config.CacheTTL
		if ttl <= 0 {
			ttl = constants.DefaultCacheTTL
		}

		identity := config.ClientID
		if identity == "" {
			identity = config.AccessToken
		}

		httpOpts = append(httpOpts,
			http.WithCache(config.Cache, ttl),
			http.WithCacheNamespace(timeback.CacheNamespace(config.TokenURL, identity)),
		)
	}

	return httpOpts
}

// New creates a TimeBack client from config. Services are built lazily on first access.
func New(config *timeback.Config) (*Client, error) {
	if config == nil {
		return nil, timeback.ErrConfigRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = timeback.NoopLogger{}
	}

	tokenManager, err := createTokenManager(config, logger)
	if err != nil {
		return nil, err
	}

	return newClient(config, tokenManager, logger)
}

// NewWithTokenManager creates a client that authenticates through a caller supplied token manager.
func NewWithTokenManager(config *timeback.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, timeback.ErrConfigRequired
	}

	if tokenManager == nil {
		return nil, timeback.ErrCredentialsRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = timeback.NoopLogger{}
	}

	return newClient(config, tokenManager, logger)
}

func newClient(config *timeback.Config, tokenManager auth.TokenManager, logger timeback.Logger) (*Client, error) {
	endpoints, powerPathURL, err := resolveEndpoints(config)
	if err != nil {
		return nil, err
	}

	return &Client{
		tokenManager: tokenManager,
		endpoints:    endpoints,
		powerPathURL: powerPathURL,
		caliperURL:   strings.TrimRight(firstNonEmpty(config.CaliperURL, endpoints.APIURL), "/"),
		httpOpts:     createHTTPClientOptions(config, logger),
		logger:       logger,
		services:     make(map[string]interface{}, len(factories)),
	}, nil
}

func (c *Client) oneRosterURL(service string) string {
	return c.endpoints.APIURL + fmt.Sprintf(constants.OneRosterPathFormat, service)
}

func (c *Client) executor(baseURL string) *http.Client {
	return http.NewClient(baseURL, c.tokenManager, c.httpOpts...)
}

// Endpoints returns the resolved API and QTI base URLs.
func (c *Client) Endpoints() timeback.Endpoints {
	return c.endpoints
}

// ServiceBaseURL returns the base URL a registered service calls, or "" for an unknown name.
func (c *Client) ServiceBaseURL(name string) string {
	switch name {
	case constants.ServiceRostering, constants.ServiceGradebook, constants.ServiceResources:
		return c.oneRosterURL(name)
	case constants.ServiceQTI:
		return c.endpoints.QTIURL
	case constants.ServicePowerPath:
		return c.powerPathURL
	case constants.ServiceCASE:
		return c.endpoints.APIURL + constants.CASEPath
	case constants.ServiceEduBridge:
		return c.endpoints.APIURL + constants.EduBridgePrefix
	case constants.ServiceCaliper:
		return c.caliperURL
	default:
		return ""
	}
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// Service implements timeback.Client.Service.
func (c *Client) Service(name string) (interface{}, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", timeback.ErrUnknownService, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if service, ok := c.services[name]; ok {
		return service, nil
	}

	service := factory(c)
	c.services[name] = service

	c.logger.Debug("Service initialized", map[string]interface{}{"service": name})

	return service, nil
}

// Services implements timeback.Client.Services.
func (c *Client) Services() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// registered resolves a service whose name is known to be in the registry.
func (c *Client) registered(name string) interface{} {
	service, err := c.Service(name)
	if err != nil {
		panic(err)
	}

	return service
}

// Rostering implements timeback.Client.Rostering.
func (c *Client) Rostering() timeback.RosteringService {
	return c.registered(constants.ServiceRostering).(*RosteringClient)
}

// Gradebook implements timeback.Client.Gradebook.
func (c *Client) Gradebook() timeback.GradebookService {
	return c.registered(constants.ServiceGradebook).(*GradebookClient)
}

// Resources implements timeback.Client.Resources.
func (c *Client) Resources() timeback.ResourcesService {
	return c.registered(constants.ServiceResources).(*ResourcesServiceClient)
}

// QTI implements timeback.Client.QTI.
func (c *Client) QTI() timeback.QTIService {
	return c.registered(constants.ServiceQTI).(*QTIClient)
}

// PowerPath implements timeback.Client.PowerPath.
func (c *Client) PowerPath() timeback.PowerPathService {
	return c.registered(constants.ServicePowerPath).(*PowerPathClient)
}

// CASE implements timeback.Client.CASE.
func (c *Client) CASE() timeback.CASEService {
	return c.registered(constants.ServiceCASE).(*CASEClient)
}

// EduBridge implements timeback.Client.EduBridge.
func (c *Client) EduBridge() timeback.EduBridgeService {
	return c.registered(constants.ServiceEduBridge).(*EduBridgeClient)
}

// Caliper implements timeback.Client.Caliper.
func (c *Client) Caliper() timeback.CaliperService {
	return c.registered(constants.ServiceCaliper).(*CaliperClient)
}

// fallbackTokenManager uses a preissued access token until the API rejects it, then switches
// to the client credentials grant.
type fallbackTokenManager struct {
	mu           sync.Mutex
	staticToken  string
	oauthManager auth.TokenManager
	usingOAuth   bool
}

func (m *fallbackTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	usingOAuth := m.usingOAuth || m.staticToken == ""
	staticToken := m.staticToken
	m.mu.Unlock()

	if !usingOAuth {
		return staticToken, nil
	}

	token, err := m.oauthManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting OAuth token: %w", err)
	}

	return token, nil
}

func (m *fallbackTokenManager) RefreshToken(ctx context.Context) error {
	m.switchToOAuth()

	err := m.oauthManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("refreshing OAuth token: %w", err)
	}

	return nil
}

func (m *fallbackTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usingOAuth {
		m.oauthManager.SetToken(token, expiresAt)

		return
	}

	m.staticToken = token
}

// Invalidate drops the static token after the API rejected it.
func (m *fallbackTokenManager) Invalidate() {
	m.mu.Lock()
	wasOAuth := m.usingOAuth
	m.usingOAuth = true
	m.mu.Unlock()

	if wasOAuth {
		m.oauthManager.Invalidate()
	}
}

func (m *fallbackTokenManager) switchToOAuth() {
	m.mu.Lock()
	m.usingOAuth = true
	m.mu.Unlock()
}
