package ads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifies an API failure.
type ErrorKind int

// Error kinds, in classification order.
const (
	KindClientError ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimit
	KindServerError
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindRateLimit:
		return "RateLimit"
	case KindServerError:
		return "ServerError"
	default:
		return "ClientError"
	}
}

// Error implements the error interface so a kind can be matched with errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Kind sentinels for use with errors.Is.
var (
	ErrBadRequest   error = KindBadRequest
	ErrUnauthorized error = KindUnauthorized
	ErrForbidden    error = KindForbidden
	ErrNotFound     error = KindNotFound
	ErrRateLimit    error = KindRateLimit
	ErrServerError  error = KindServerError
	ErrClientError  error = KindClientError
)

const unknownErrorMessage = "unknown error"

// APIError is one entry of an API error payload. Numeric codes land in Code;
// symbolic codes such as "NOT_FOUND" land in Name.
type APIError struct {
	Code      int    `json:"code"                yaml:"code"`
	Name      string `json:"name,omitempty"      yaml:"name,omitempty"`
	Message   string `json:"message"             yaml:"message"`
	Parameter string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
}

// UnmarshalJSON accepts the code as a number or a string.
func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code      json.RawMessage `json:"code"`
		Message   string          `json:"message"`
		Parameter string          `json:"parameter"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding api error: %w", err)
	}

	e.Message = raw.Message
	e.Parameter = raw.Parameter
	e.Code = 0
	e.Name = ""

	code := strings.TrimSpace(string(raw.Code))
	if code == "" || code == "null" {
		return nil
	}

	if n, err := strconv.Atoi(code); err == nil {
		e.Code = n

		return nil
	}

	var name string
	if err := json.Unmarshal(raw.Code, &name); err == nil {
		if n, err := strconv.Atoi(name); err == nil {
			e.Code = n
		} else {
			e.Name = name
		}
	}

	return nil
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s (code: %s)", e.Message, e.Name)
	}

	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// Error is a classified failure response.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	// Code and Message come from the first API error entry when the body has
	// the structured shape.
	Code    int
	Message string
	Errors  []APIError
	// RetryAfter is set for rate limited and unavailable responses that carry
	// a retry hint.
	RetryAfter time.Duration
	Header     http.Header
	Body       []byte
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s (code: %d)", e.Kind, e.StatusCode, e.Message, e.Code)
	}

	return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

// Is matches kind sentinels.
func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)

	return ok && kind == e.Kind
}

// RetryAfterSeconds returns the retry hint in whole seconds.
func (e *Error) RetryAfterSeconds() int {
	return int(e.RetryAfter / time.Second)
}

// FirstError returns the first API error entry or nil.
func (e *Error) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

type errorPayload struct {
	Errors []APIError `json:"errors"`
}

// parseErrorPayload reports whether raw has the structured error shape.
func parseErrorPayload(raw []byte) ([]APIError, bool) {
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}

	if len(payload.Errors) == 0 {
		return nil, false
	}

	return payload.Errors, true
}

// Classify converts a failed response into an Error. It never fails; bodies
// that are not structured degrade to the raw text or a generic message.
func Classify(resp *Response) *Error {
	if resp == nil {
		return &Error{Kind: KindClientError, Message: unknownErrorMessage}
	}

	apiErrors, structured := parseErrorPayload(resp.raw)

	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Errors:     apiErrors,
		Header:     resp.header.Clone(),
		Body:       resp.raw,
	}

	switch status := resp.StatusCode; {
	case status == http.StatusBadRequest && structured:
		apiErr.Kind = KindBadRequest
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		apiErr.Kind = KindForbidden
	case status == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case status == http.StatusTooManyRequests:
		apiErr.Kind = KindRateLimit
		apiErr.RetryAfter = retryAfter(resp.header, time.Now())
	case status >= 500 && status <= 599:
		apiErr.Kind = KindServerError
		if status == http.StatusServiceUnavailable {
			apiErr.RetryAfter = retryAfter(resp.header, time.Now())
		}
	default:
		apiErr.Kind = KindClientError
	}

	switch {
	case structured:
		apiErr.Code = apiErrors[0].Code
		apiErr.Message = apiErrors[0].Message
	case len(strings.TrimSpace(string(resp.raw))) > 0:
		apiErr.Message = strings.TrimSpace(string(resp.raw))
	default:
		apiErr.Message = unknownErrorMessage
	}

	if apiErr.Message == "" {
		apiErr.Message = unknownErrorMessage
	}

	return apiErr
}

// retryAfter reads Retry-After as seconds or an HTTP date, then falls back to
// the x-rate-limit-reset epoch.
func retryAfter(header http.Header, now time.Time) time.Duration {
	if value := strings.TrimSpace(header.Get("Retry-After")); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}

		if at, err := http.ParseTime(value); err == nil && at.After(now) {
			return at.Sub(now).Truncate(time.Second)
		}
	}

	if value := strings.TrimSpace(header.Get("X-Rate-Limit-Reset")); value != "" {
		if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
			if at := time.Unix(epoch, 0); at.After(now) {
				return at.Sub(now).Truncate(time.Second)
			}
		}
	}

	return 0
}

func kindOf(err error) (ErrorKind, bool) {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}

	return 0, false
}

func isKind(err error, kind ErrorKind) bool {
	got, ok := kindOf(err)

	return ok && got == kind
}

// IsBadRequest checks if the error is a structured 400 error.
func IsBadRequest(err error) bool { return isKind(err, KindBadRequest) }

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool { return isKind(err, KindForbidden) }

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool { return isKind(err, KindRateLimit) }

// IsServerError checks if the error is a 5xx error.
func IsServerError(err error) bool { return isKind(err, KindServerError) }

// IsClientError checks if the error is an unclassified 4xx error.
func IsClientError(err error) bool { return isKind(err, KindClientError) }

// IsAPIError reports whether err carries a classified API failure of any kind.
func IsAPIError(err error) bool {
	_, ok := kindOf(err)

	return ok
}

// RetryAfter returns the retry hint of a classified error, or zero.
func RetryAfter(err error) time.Duration {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}

	return 0
}
