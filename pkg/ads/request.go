package ads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
)

// Static errors for err113 compliance.
var (
	ErrMissingPathParam    = errors.New("missing path parameter")
	ErrUnsupportedMethod   = errors.New("unsupported HTTP method")
	ErrNilRequest          = errors.New("request is nil")
	ErrNoTransportProvided = errors.New("no transport provided")
)

// Doer executes a request and returns its response. Implementations return
// an *Error for every response with a status of 400 or above.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Params is a query parameter mapping. Values may be strings, numbers,
// booleans, times or sequences; sequences are sent comma-joined.
type Params map[string]any

// Encode renders the parameters as URL values.
func (p Params) Encode() url.Values {
	values := make(url.Values, len(p))

	for key, value := range p {
		if value == nil {
			continue
		}

		if joined, ok := joinSequence(value); ok {
			values.Set(key, joined)

			continue
		}

		values.Set(key, stringify(value))
	}

	return values
}

// Clone returns a shallow copy of the parameters.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// Merge returns a copy of p with the entries of other applied on top.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}

	return out
}

// Request is a single API call. It is immutable once built; With* helpers
// return modified copies.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Params     Params
	Body       []byte
	Headers    map[string]string
	// Domain overrides the production/sandbox base URL, e.g. for upload hosts.
	Domain string
}

// RequestOption configures a Request.
type RequestOption func(*Request)

// WithParams sets the query parameters.
func WithParams(params Params) RequestOption {
	return func(r *Request) {
		r.Params = params.Clone()
	}
}

// WithPathParams sets the values substituted for %{name} placeholders.
func WithPathParams(params map[string]string) RequestOption {
	return func(r *Request) {
		r.PathParams = make(map[string]string, len(params))
		for k, v := range params {
			r.PathParams[k] = v
		}
	}
}

// WithBody sets the request payload.
func WithBody(body []byte) RequestOption {
	return func(r *Request) {
		r.Body = body
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		r.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithDomain overrides the base URL for this request.
func WithDomain(domain string) RequestOption {
	return func(r *Request) {
		r.Domain = domain
	}
}

// NewRequest builds a request.
func NewRequest(method, path string, opts ...RequestOption) *Request {
	req := &Request{
		Method: method,
		Path:   path,
	}

	for _, opt := range opts {
		opt(req)
	}

	return req
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	clone := *r
	clone.Params = r.Params.Clone()

	if r.PathParams != nil {
		clone.PathParams = make(map[string]string, len(r.PathParams))
		for k, v := range r.PathParams {
			clone.PathParams[k] = v
		}
	}

	if r.Headers != nil {
		clone.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			clone.Headers[k] = v
		}
	}

	if r.Body != nil {
		clone.Body = append([]byte(nil), r.Body...)
	}

	return &clone
}

// WithParam returns a copy of the request with one query parameter set.
func (r *Request) WithParam(key string, value any) *Request {
	clone := r.Clone()
	if clone.Params == nil {
		clone.Params = Params{}
	}

	clone.Params[key] = value

	return clone
}

// Validate checks the method and path placeholders.
func (r *Request) Validate() error {
	if r == nil {
		return ErrNilRequest
	}

	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, r.Method)
	}

	_, err := ExpandPath(r.Path, r.PathParams)

	return err
}

// URLPath returns the path with placeholders substituted.
func (r *Request) URLPath() (string, error) {
	return ExpandPath(r.Path, r.PathParams)
}

// Query returns the encoded query string, or "" when there are no params.
func (r *Request) Query() string {
	if len(r.Params) == 0 {
		return ""
	}

	return r.Params.Encode().Encode()
}

// Perform executes the request through the given transport.
func (r *Request) Perform(ctx context.Context, doer Doer) (*Response, error) {
	if doer == nil {
		return nil, ErrNoTransportProvided
	}

	return doer.Do(ctx, r)
}

var placeholderPattern = regexp.MustCompile(`%\{([a-zA-Z0-9_]+)\}`)

// ExpandPath substitutes %{name} placeholders in a URL template. Values are
// path-escaped.
func ExpandPath(template string, params map[string]string) (string, error) {
	var missing []string

	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]

		value, ok := params[name]
		if !ok || value == "" {
			missing = append(missing, name)

			return token
		}

		return url.PathEscape(value)
	})

	if len(missing) > 0 {
		sort.Strings(missing)

		return "", fmt.Errorf("%w: %v in %s", ErrMissingPathParam, missing, template)
	}

	return expanded, nil
}
