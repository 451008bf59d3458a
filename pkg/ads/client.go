package ads

import (
	"context"
	"errors"
	"time"
)

// Version is the library version reported in the user agent.
const Version = "1.4.0"

// APIVersion is the Ads API version prefix used by the resource paths.
const APIVersion = "12"

// Static errors for err113 compliance.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrConsumerKeyRequired    = errors.New("consumer key and secret are required")
	ErrAccessTokenRequired    = errors.New("access token and secret are required")
	ErrInvalidRetryConfig     = errors.New("invalid retry configuration")
	ErrInvalidRateLimitConfig = errors.New("invalid rate limit configuration")
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client is an authenticated Ads API client. It is read-only after
// construction and safe for concurrent use.
type Client interface {
	Doer

	// Accounts lists the advertising accounts the credentials can access.
	Accounts(ctx context.Context, params Params) *Cursor[*Account]
	// Account loads one advertising account.
	Account(ctx context.Context, id string) (*Account, error)
	// Sandbox reports whether requests go to the sandbox domain.
	Sandbox() bool
}

// Config represents client configuration for building a Client.
//
// Requests are signed with OAuth 1.0a using the consumer key/secret of the
// registered application and the access token/secret of the user. Per-request
// timeouts should be controlled via the context passed to client methods;
// HTTPTimeout bounds each attempt at the transport level.
//
// Retries are disabled unless RetryMax is positive. Client-side throttling is
// disabled unless RateLimit is positive.
type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	// Sandbox sends requests to the sandbox domain instead of production.
	Sandbox bool
	// Trace logs every request and response through Logger.
	Trace bool
	// Logger receives trace and diagnostic output. Nil disables logging.
	Logger Logger

	// UserAgent overrides the default "ads-client version: ..." agent.
	UserAgent string

	// Endpoint and SandboxEndpoint override the API domains.
	Endpoint        string
	SandboxEndpoint string

	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// RateLimit is the sustained request rate per second; RateBurst the burst.
	RateLimit float64
	RateBurst int
}

// Validate checks the credential fields and numeric options.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return ErrConsumerKeyRequired
	}

	if c.AccessToken == "" || c.AccessTokenSecret == "" {
		return ErrAccessTokenRequired
	}

	if c.RetryMax < 0 || c.RetryWaitMin < 0 || c.RetryWaitMax < 0 ||
		(c.RetryWaitMax > 0 && c.RetryWaitMin > c.RetryWaitMax) {
		return ErrInvalidRetryConfig
	}

	if c.RateLimit < 0 || c.RateBurst < 0 {
		return ErrInvalidRateLimitConfig
	}

	return nil
}
