// Package http is the JSON-over-HTTP transport shared by the login exchange
// and the device client.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/fivetwenty-io/devapi/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
)

// TokenSource supplies the token attached to outgoing requests.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// Request describes a single API call. Path is appended verbatim to the
// client's base URL.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    interface{}
	// SkipAuth leaves the Authorization header off, e.g. for the login call.
	SkipAuth bool
}

// Response holds the fully read response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string
}

// Client is a JSON HTTP client with optional token authentication.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	tokens     TokenSource
	authScheme string
	userAgent  string
	logger     logging.Logger
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug request/response logging.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig sets the retry count and backoff bounds.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying standard client. The client is
// copied, so later options never modify the caller's value.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			copied := *httpClient
			c.httpClient.HTTPClient = &copied
		}
	}
}

// WithLeveledLogger hands a logger to the retry layer.
func WithLeveledLogger(logger retryablehttp.LeveledLogger) Option {
	return func(c *Client) {
		c.httpClient.Logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithAuthScheme sets the prefix placed before the token in the
// Authorization header.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		c.authScheme = scheme
	}
}

// NewClient creates a new HTTP client rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Hand back the last response instead of a "giving up" error so callers
	// can inspect the status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    baseURL,
		httpClient: retryClient,
		tokens:     tokens,
		authScheme: constants.AuthScheme,
		userAgent:  constants.DefaultUserAgent,
		logger:     logging.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// URL returns the target for path. The base URL and path are joined verbatim.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Do performs the request and reads the whole response body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target := c.URL(req.Path)

	var body interface{}

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		body = encoded
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	err = c.setHeaders(ctx, httpReq, req)
	if err != nil {
		return nil, err
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", constants.ErrRequestFailed, req.Method, target, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target,
			"status_code": httpResp.StatusCode,
			"bytes":       len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		URL:        target,
	}, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request) error {
	httpReq.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	if c.tokens != nil && !req.SkipAuth {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set(constants.HeaderAuthorization, c.authScheme+" "+token)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostUnauthenticated performs a POST request without the Authorization header.
func (c *Client) PostUnauthenticated(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body, SkipAuth: true})
}
