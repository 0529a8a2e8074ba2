package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// TokenManager supplies the bearer token of each request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// invalidator is implemented by token managers that can drop a rejected token.
type invalidator interface {
	Invalidate()
}

// Client executes authenticated JSON requests against one base URL.
type Client struct {
	baseURL            string
	httpClient         *retryablehttp.Client
	tokenManager       TokenManager
	logger             timeback.Logger
	debug              bool
	userAgent          string
	timeout            time.Duration
	retryNonIdempotent bool
	cache              timeback.Cache
	cacheTTL           time.Duration
	cacheNamespace     string
	cachePolicy        *timeback.CachingPolicy
	now                func() time.Time
}

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// Timeout overrides the client timeout for this call.
	Timeout time.Duration
}

// Response is a completed API call.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger timeback.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryConfig enables retries of 429, 5xx and connection failures with exponential backoff.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithRetryNonIdempotent allows POST and PATCH to be retried.
func WithRetryNonIdempotent(enabled bool) Option {
	return func(c *Client) {
		c.retryNonIdempotent = enabled
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient.HTTPClient = client
		}
	}
}

// WithCache caches successful GET responses for ttl.
func WithCache(cache timeback.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithCacheNamespace prefixes cache keys so clients holding different credentials never share entries.
func WithCacheNamespace(namespace string) Option {
	return func(c *Client) {
		c.cacheNamespace = namespace
	}
}

// WithCachingPolicy restricts which responses are cached.
func WithCachingPolicy(policy *timeback.CachingPolicy) Option {
	return func(c *Client) {
		if policy != nil {
			c.cachePolicy = policy
		}
	}
}

// NewClient creates a client for baseURL. A nil tokenManager sends unauthenticated requests.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		logger:       timeback.NoopLogger{},
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultHTTPTimeout,
		cacheTTL:     constants.DefaultCacheTTL,
		cachePolicy:  timeback.DefaultCachingPolicy(),
		now:          time.Now,
	}

	retryClient.CheckRetry = client.checkRetry

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the URL every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type idempotencyKey struct{}

// checkRetry applies the default policy, but only to verbs that may be replayed.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if replayable, _ := ctx.Value(idempotencyKey{}).(bool); !replayable {
		return false, nil
	}

	retry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	if checkErr != nil {
		// Non-recoverable transport errors surface from Do unchanged.
		return false, nil
	}

	return retry, nil
}

func (c *Client) replayable(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch:
		return c.retryNonIdempotent
	default:
		return true
	}
}

// Do executes req. A response is returned alongside API errors so callers can inspect the status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req.Path, req.Query)

	if req.Method == http.MethodGet {
		cached := c.fromCache(ctx, fullURL)
		if cached != nil {
			return cached, nil
		}
	}

	var body []byte

	if req.Body != nil {
		var err error

		body, err = encodeBody(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx = context.WithValue(ctx, idempotencyKey{}, c.replayable(req.Method))

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	err = c.setHeaders(ctx, httpReq, req, body != nil)
	if err != nil {
		return nil, err
	}

	started := c.now()

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &timeback.TransportError{Method: req.Method, URL: fullURL, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &timeback.TransportError{Method: req.Method, URL: fullURL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"url":      fullURL,
			"bytes":    len(respBody),
			"duration": c.now().Sub(started).String(),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}

	return c.handleResponse(ctx, req, fullURL, resp)
}

func (c *Client) handleResponse(ctx context.Context, req *Request, fullURL string, resp *Response) (*Response, error) {
	if resp.StatusCode >= http.StatusBadRequest {
		if req.Method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
			c.logger.Debug("Delete target already absent", map[string]interface{}{"url": fullURL})

			return resp, nil
		}

		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokenManager.(invalidator); ok {
				inv.Invalidate()
			}
		}

		return resp, ParseErrorResponse(resp.StatusCode, resp.Body)
	}

	if req.Method == http.MethodGet {
		c.toCache(ctx, req.Path, fullURL, resp)
	} else if c.cache != nil {
		err := c.cache.Clear(ctx)
		if err != nil {
			c.logger.Warn("Failed to clear response cache", map[string]interface{}{"error": err.Error()})
		}
	}

	return resp, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, hasBody bool) error {
	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting access token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if hasBody {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL
	if path != "" {
		fullURL += "/" + strings.TrimLeft(path, "/")
	}

	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

func (c *Client) cacheKey(fullURL string) string {
	key := timeback.CacheKey(http.MethodGet, fullURL, "")
	if c.cacheNamespace == "" {
		return key
	}

	return c.cacheNamespace + "/" + key
}

func (c *Client) fromCache(ctx context.Context, fullURL string) *Response {
	if c.cache == nil {
		return nil
	}

	entry, err := c.cache.Get(ctx, c.cacheKey(fullURL))
	if err != nil {
		return nil
	}

	if c.debug {
		c.logger.Debug("Cache hit", map[string]interface{}{"url": fullURL})
	}

	headers := http.Header{}
	headers.Set("X-Cache", "HIT")

	if entry.ETag != "" {
		headers.Set("ETag", entry.ETag)
	}

	return &Response{StatusCode: http.StatusOK, Body: entry.Data, Headers: headers}
}

func (c *Client) toCache(ctx context.Context, path, fullURL string, resp *Response) {
	if c.cache == nil || !c.cachePolicy.ShouldCache(http.MethodGet, path, resp.StatusCode) {
		return
	}

	if len(resp.Body) > constants.MaxCacheValueSize {
		return
	}

	err := c.cache.Set(ctx, c.cacheKey(fullURL), &timeback.CacheEntry{
		Data:      resp.Body,
		ExpiresAt: c.now().Add(c.cacheTTL),
		ETag:      resp.Headers.Get("ETag"),
	})
	if err != nil {
		c.logger.Warn("Failed to cache response", map[string]interface{}{"url": fullURL, "error": err.Error()})
	}
}

func encodeBody(body interface{}) ([]byte, error) {
	switch typed := body.(type) {
	case []byte:
		return typed, nil
	case json.RawMessage:
		return typed, nil
	case io.Reader:
		return io.ReadAll(typed)
	default:
		return json.Marshal(body)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request. A 404 is treated as success.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DecodeJSON unmarshals a response body into target.
func DecodeJSON(resp *Response, target interface{}) error {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &timeback.DecodeError{Err: timeback.ErrEmptyResponse}
	}

	err := json.Unmarshal(resp.Body, target)
	if err != nil {
		return &timeback.DecodeError{Target: fmt.Sprintf("%T", target), Body: resp.Body, Err: err}
	}

	return nil
}

// ParseErrorResponse builds an APIError from a failed response. It reads the TimeBack envelope
// {success, error, code, details}, tolerates message and imsx_description fields and numeric codes,
// and falls back to the status and raw body.
func ParseErrorResponse(statusCode int, body []byte) error {
	apiErr := &timeback.APIError{StatusCode: statusCode, Body: body}

	if gjson.ValidBytes(body) {
		root := gjson.ParseBytes(body)
		if root.IsObject() {
			apiErr.Message = firstString(root, "error", "message", "imsx_description", "detail")
			apiErr.Code = root.Get("code").String()

			details := root.Get("details")
			if fields, ok := details.Value().(map[string]interface{}); ok {
				apiErr.Details = fields
			} else if details.Exists() {
				apiErr.Details = map[string]interface{}{"details": details.Value()}
			}

			if apiErr.Message != "" || apiErr.Code != "" {
				return apiErr
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > constants.MaxErrorBodyDisplay {
		text = text[:constants.MaxErrorBodyDisplay] + "..."
	}

	if text == "" {
		text = http.StatusText(statusCode)
	}

	apiErr.Message = text

	return apiErr
}

func firstString(root gjson.Result, keys ...string) string {
	for _, key := range keys {
		value := root.Get(key)
		if !value.Exists() {
			continue
		}

		if value.IsObject() {
			nested := firstString(value, "message", "description")
			if nested != "" {
				return nested
			}

			continue
		}

		if text := value.String(); text != "" {
			return text
		}
	}

	return ""
}

// IsTransportError reports whether err is a network failure rather than an API response.
func IsTransportError(err error) bool {
	var transportErr *timeback.TransportError

	return errors.As(err, &transportErr)
}
