package device

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/fivetwenty-io/devapi/internal/auth"
	"github.com/fivetwenty-io/devapi/internal/constants"
	devhttp "github.com/fivetwenty-io/devapi/internal/http"
	"github.com/fivetwenty-io/devapi/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for logging.
type Logger = logging.Logger

// Config holds everything New needs to log in and address one device.
//
// Identifiers and credentials are used as given; only Domain is required.
type Config struct {
	// Domain is the service base URL, e.g. "https://sim.example.com".
	// It is used verbatim, so it should not end with a slash.
	Domain string
	// SimulationID and DeviceID select the device endpoint namespace.
	SimulationID string
	DeviceID     string
	// Username and Password are sent once to the login endpoint.
	Username string
	Password string

	// HTTPTimeout bounds each HTTP attempt. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries for transport failures, 429 and 5xx.
	// Zero means a single attempt.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Debug enables request/response logging through Logger.
	Debug bool
	// Logger is optional.
	Logger Logger
	// LeveledLogger receives retry diagnostics from the transport.
	LeveledLogger retryablehttp.LeveledLogger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// HTTPClient replaces the underlying standard client. It is copied, so
	// HTTPTimeout never changes the caller's value.
	HTTPClient *http.Client
}

// Client is an authenticated client for a single device endpoint namespace.
// The token is acquired once by New and never refreshed.
type Client struct {
	httpClient   *devhttp.Client
	tokens       *auth.TokenStore
	logger       Logger
	simulationID string
	deviceID     string
	domain       string
	devicePath   string
	urlPrefix    string
}

// New logs in and returns an authenticated client. It blocks on the login
// request; on any failure no client is returned.
func New(ctx context.Context, config *Config) (*Client, error) {
	if config == nil || config.Domain == "" {
		return nil, wrap("new", constants.ErrDomainRequired)
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	tokens := auth.NewTokenStore()
	devicePath := fmt.Sprintf(constants.DevicePathFormat, config.SimulationID, config.DeviceID)

	client := &Client{
		httpClient:   devhttp.NewClient(config.Domain, tokens, httpOptions(config, logger)...),
		tokens:       tokens,
		logger:       logger,
		simulationID: config.SimulationID,
		deviceID:     config.DeviceID,
		domain:       config.Domain,
		devicePath:   devicePath,
		urlPrefix:    config.Domain + devicePath,
	}

	token, err := auth.PasswordLogin(ctx, client.httpClient, auth.Credentials{
		Username: config.Username,
		Password: config.Password,
	})
	if err != nil {
		return nil, wrap("login", err)
	}

	err = tokens.Set(token)
	if err != nil {
		return nil, wrap("login", err)
	}

	logger.Debug("Authenticated", map[string]interface{}{
		"login_url":  auth.LoginURL(config.Domain),
		"url_prefix": client.urlPrefix,
	})

	return client, nil
}

func httpOptions(config *Config, logger Logger) []devhttp.Option {
	opts := []devhttp.Option{
		devhttp.WithLogger(logger),
		devhttp.WithDebug(config.Debug),
		devhttp.WithUserAgent(config.UserAgent),
		devhttp.WithHTTPClient(config.HTTPClient),
		devhttp.WithAuthScheme(constants.AuthScheme),
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, devhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, devhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.LeveledLogger != nil {
		opts = append(opts, devhttp.WithLeveledLogger(config.LeveledLogger))
	}

	return opts
}

// SimulationID returns the simulation the client is bound to.
func (c *Client) SimulationID() string {
	return c.simulationID
}

// DeviceID returns the device the client is bound to.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// Domain returns the service base URL.
func (c *Client) Domain() string {
	return c.domain
}

// URLPrefix returns {domain}/external-connection/api/{simulation_id}/{device_id}/.
func (c *Client) URLPrefix() string {
	return c.urlPrefix
}

// EndpointURL returns the URL Post sends to for suffix.
func (c *Client) EndpointURL(suffix string) string {
	return c.urlPrefix + suffix
}

// Token returns the token acquired at login.
func (c *Client) Token() string {
	token := c.tokens.Get()
	if token == nil {
		return ""
	}

	return token.AccessToken
}

// Headers returns the Authorization and Content-Type headers sent with every
// device request.
func (c *Client) Headers() http.Header {
	headers := make(http.Header)
	headers.Set(constants.HeaderAuthorization, (&auth.Token{AccessToken: c.Token(), Scheme: constants.AuthScheme}).Header())
	headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	return headers
}

// Post sends an empty JSON object to EndpointURL(suffix).
//
// A non-200 status is reported through Result, not as an error. If the body
// is not valid UTF-8 the Result is still returned, without a body, together
// with a KindBodyNotText error.
func (c *Client) Post(ctx context.Context, suffix string) (*Result, error) {
	op := "post " + suffix

	// The transport adds the Authorization header from the token store and
	// the JSON Content-Type for the body.
	resp, err := c.httpClient.Post(ctx, c.devicePath+suffix, map[string]string{})
	if err != nil {
		return nil, wrap(op, fmt.Errorf("POST request for endpoint %s failed: %w", suffix, err))
	}

	result := &Result{
		URL:        resp.URL,
		StatusCode: resp.StatusCode,
	}

	if !utf8.Valid(resp.Body) {
		return result, wrap(op, fmt.Errorf("%w: endpoint %s", constants.ErrBodyNotText, suffix))
	}

	result.Body = string(resp.Body)

	if !result.Succeeded() {
		c.logger.Warn("Unexpected response status", map[string]interface{}{
			"url":         result.URL,
			"status_code": result.StatusCode,
		})
	}

	return result, nil
}
