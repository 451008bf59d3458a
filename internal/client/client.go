package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/internal/http"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// Client implements the ads.Client interface.
type Client struct {
	httpClient *http.Client
	sandbox    bool
}

// createHTTPClientOptions maps the configuration onto transport options.
func createHTTPClientOptions(config *ads.Config) []http.Option {
	httpOpts := []http.Option{
		http.WithSandbox(config.Sandbox),
		http.WithDomains(config.Endpoint, config.SandboxEndpoint),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Trace {
		httpOpts = append(httpOpts, http.WithTrace(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RateLimit > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RateLimit, config.RateBurst))
	}

	return httpOpts
}

// New creates a new Ads API client.
func New(_ context.Context, config *ads.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	credentials := http.Credentials{
		ConsumerKey:       config.ConsumerKey,
		ConsumerSecret:    config.ConsumerSecret,
		AccessToken:       config.AccessToken,
		AccessTokenSecret: config.AccessTokenSecret,
	}

	httpClient := http.NewClient(credentials, createHTTPClientOptions(config)...)

	return &Client{
		httpClient: httpClient,
		sandbox:    config.Sandbox,
	}, nil
}

// Do sends a request through the signing transport.
func (c *Client) Do(ctx context.Context, req *ads.Request) (*ads.Response, error) {
	return c.httpClient.Do(ctx, req)
}

// Accounts lists the advertising accounts the credentials can access.
func (c *Client) Accounts(ctx context.Context, params ads.Params) *ads.Cursor[*ads.Account] {
	return ads.ListAccounts(ctx, c, params)
}

// Account loads one advertising account.
func (c *Client) Account(ctx context.Context, id string) (*ads.Account, error) {
	return ads.LoadAccount(ctx, c, id)
}

// Sandbox reports whether requests go to the sandbox domain.
func (c *Client) Sandbox() bool {
	return c.sandbox
}

// Domain returns the base URL requests are sent to.
func (c *Client) Domain() string {
	return c.httpClient.Domain()
}

// loggerAdapter adapts ads.Logger to http.Logger.
type loggerAdapter struct {
	logger ads.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
