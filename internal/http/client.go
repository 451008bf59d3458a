package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Credentials are the OAuth 1.0a keys used to sign every request.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Client is a signing HTTP transport for the Ads API. It implements ads.Doer.
type Client struct {
	httpClient    *retryablehttp.Client
	credentials   Credentials
	domain        string
	sandboxDomain string
	sandbox       bool
	logger        Logger
	trace         bool
	userAgent     string
	timeout       time.Duration
	retryMax      int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
	limiter       *rate.Limiter
	base          *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTrace enables request and response logging.
func WithTrace(trace bool) Option {
	return func(c *Client) {
		c.trace = trace
	}
}

// WithUserAgent overrides the user agent.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithSandbox routes requests to the sandbox domain.
func WithSandbox(sandbox bool) Option {
	return func(c *Client) {
		c.sandbox = sandbox
	}
}

// WithDomains overrides the production and sandbox base URLs.
func WithDomains(production, sandbox string) Option {
	return func(c *Client) {
		if production != "" {
			c.domain = strings.TrimSuffix(production, "/")
		}

		if sandbox != "" {
			c.sandboxDomain = strings.TrimSuffix(sandbox, "/")
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig enables retries of 429, 5xx and connection failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil

			return
		}

		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHTTPClient sets the client whose transport carries signed requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.base = client
	}
}

// DefaultUserAgent identifies the library version and runtime.
func DefaultUserAgent() string {
	return fmt.Sprintf("ads-client version: %s platform: %s (%s/%s)",
		ads.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// NewClient creates a new signing client.
func NewClient(credentials Credentials, opts ...Option) *Client {
	client := &Client{
		credentials:   credentials,
		domain:        constants.ProductionDomain,
		sandboxDomain: constants.SandboxDomain,
		userAgent:     DefaultUserAgent(),
		timeout:       constants.DefaultHTTPTimeout,
		retryWaitMin:  constants.DefaultRetryWaitMin,
		retryWaitMax:  constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	base := client.base
	if base == nil {
		base = retryClient.HTTPClient
	}

	config := oauth1.NewConfig(credentials.ConsumerKey, credentials.ConsumerSecret)
	token := oauth1.NewToken(credentials.AccessToken, credentials.AccessTokenSecret)

	signed := config.Client(context.WithValue(context.Background(), oauth1.HTTPClient, base), token)
	signed.Timeout = client.timeout
	retryClient.HTTPClient = signed

	client.httpClient = retryClient

	return client
}

// Sandbox reports whether requests go to the sandbox domain.
func (c *Client) Sandbox() bool {
	return c.sandbox
}

// Domain returns the base URL requests are sent to by default.
func (c *Client) Domain() string {
	if c.sandbox {
		return c.sandboxDomain
	}

	return c.domain
}

// resolveDomain applies a per-request override.
func (c *Client) resolveDomain(req *ads.Request) string {
	if req.Domain != "" {
		return strings.TrimSuffix(req.Domain, "/")
	}

	return c.Domain()
}

// isAPIDomain reports whether domain is the production or sandbox API.
func (c *Client) isAPIDomain(domain string) bool {
	return domain == c.domain || domain == c.sandboxDomain
}

// Do performs a signed request. Responses with a status of 400 or above are
// returned as *ads.Error; transport failures are wrapped.
func (c *Client) Do(ctx context.Context, req *ads.Request) (*ads.Response, error) {
	err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	path, err := req.URLPath()
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	domain := c.resolveDomain(req)

	fullURL := domain + path
	if query := req.Query(); query != "" {
		fullURL += "?" + query
	}

	if c.limiter != nil {
		err = c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	var body interface{}
	if len(req.Body) > 0 {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	traceID := uuid.NewString()
	if c.trace {
		c.logRequest(traceID, req, domain, path, httpReq.Header)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := ads.NewResponse(httpResp.StatusCode, httpResp.Header, raw)

	if c.trace {
		c.logResponse(traceID, resp, domain)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, ads.Classify(resp)
	}

	return resp, nil
}

func (c *Client) logRequest(traceID string, req *ads.Request, domain, path string, header http.Header) {
	fields := map[string]interface{}{
		"trace_id": traceID,
		"method":   req.Method,
		"url":      domain + path,
		"params":   req.Query(),
		"headers":  flattenHeader(header),
	}

	if len(req.Body) > 0 {
		fields["body"] = c.loggableBody(domain, req.Body)
	}

	c.safeLog("HTTP Request", fields)
}

func (c *Client) logResponse(traceID string, resp *ads.Response, domain string) {
	headers := make(map[string]string)
	for _, h := range resp.Headers() {
		if prev, ok := headers[h.Name]; ok {
			headers[h.Name] = prev + ", " + h.Value

			continue
		}

		headers[h.Name] = h.Value
	}

	fields := map[string]interface{}{
		"trace_id": traceID,
		"status":   resp.StatusCode,
		"headers":  headers,
	}

	if raw := resp.RawBody(); len(raw) > 0 {
		fields["body"] = c.loggableBody(domain, raw)
	}

	c.safeLog("HTTP Response", fields)
}

// loggableBody redacts payloads exchanged with non-API domains.
func (c *Client) loggableBody(domain string, body []byte) string {
	if !c.isAPIDomain(domain) {
		return constants.RedactedBody
	}

	return string(body)
}

// safeLog never lets a failing logger abort the request.
func (c *Client) safeLog(msg string, fields map[string]interface{}) {
	if c.logger == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	c.logger.Info(msg, fields)
}

func flattenHeader(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for name, values := range header {
		out[name] = strings.Join(values, ", ")
	}

	return out
}
