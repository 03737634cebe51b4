package constants

import "time"

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Retry limits. The device client makes a single attempt unless
// RetryMax is raised explicitly.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTPStatusOK is the only status reported as success.
const HTTPStatusOK = 200

// Remote API layout.
const (
	// LoginPath is appended to the domain to form the login URL.
	LoginPath = "/api-token-auth/"

	// DevicePathFormat is formatted with the simulation and device ids.
	DevicePathFormat = "/external-connection/api/%s/%s/"

	// TokenField is the member of the login response carrying the token.
	TokenField = "token"

	// AuthScheme prefixes the token in the Authorization header.
	AuthScheme = "JWT"
)

// Header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"

	// ContentTypeJSON is sent with every request body.
	ContentTypeJSON = "application/json"

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "devapi/1.0"
)

// Format constants.
const (
	// FormatText for plain line output format.
	FormatText = "text"

	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// CLI configuration.
const (
	// EnvPrefix is the prefix for environment variables read by the CLI.
	EnvPrefix = "DEVAPI"

	// ConfigDirName is created under the user's home directory.
	ConfigDirName = ".devapi"

	// ConfigFileName is the config file base name (without extension).
	ConfigFileName = "config"

	// MaskedValue replaces secrets in displayed configuration.
	MaskedValue = "********"
)
