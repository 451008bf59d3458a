package ads_test

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

func classify(status int, header http.Header, body string) *ads.Error {
	return ads.Classify(ads.NewResponse(status, header, []byte(body)))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClassify(t *testing.T) {
	t.Parallel()

	structured := `{"errors":[{"code":34,"message":"Sorry, that page does not exist"}]}`

	tests := []struct {
		name   string
		status int
		body   string
		kind   ads.ErrorKind
		check  func(error) bool
	}{
		{name: "structured 400", status: 400, body: structured, kind: ads.KindBadRequest, check: ads.IsBadRequest},
		{name: "plain 400", status: 400, body: "bad", kind: ads.KindClientError, check: ads.IsClientError},
		{name: "401", status: 401, body: structured, kind: ads.KindUnauthorized, check: ads.IsUnauthorized},
		{name: "403", status: 403, body: "", kind: ads.KindForbidden, check: ads.IsForbidden},
		{name: "404", status: 404, body: structured, kind: ads.KindNotFound, check: ads.IsNotFound},
		{name: "429", status: 429, body: structured, kind: ads.KindRateLimit, check: ads.IsRateLimit},
		{name: "500", status: 500, body: structured, kind: ads.KindServerError, check: ads.IsServerError},
		{name: "503", status: 503, body: "", kind: ads.KindServerError, check: ads.IsServerError},
		{name: "409", status: 409, body: structured, kind: ads.KindClientError, check: ads.IsClientError},
		{name: "418", status: 418, body: "", kind: ads.KindClientError, check: ads.IsClientError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classify(tt.status, nil, tt.body)

			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.True(t, tt.check(err))
			assert.True(t, ads.IsAPIError(err))
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestError(t *testing.T) {
	t.Parallel()

	t.Run("structured payload", func(t *testing.T) {
		t.Parallel()

		err := classify(http.StatusNotFound, nil,
			`{"errors":[{"code":34,"message":"Sorry, that page does not exist","parameter":"id"},{"code":2,"message":"other"}]}`)

		assert.Equal(t, 34, err.Code)
		assert.Equal(t, "Sorry, that page does not exist", err.Message)
		require.Len(t, err.Errors, 2)
		assert.Equal(t, "id", err.FirstError().Parameter)
		assert.Equal(t, "NotFound (HTTP 404): Sorry, that page does not exist (code: 34)", err.Error())
	})

	t.Run("symbolic codes", func(t *testing.T) {
		t.Parallel()

		err := classify(http.StatusBadRequest, nil,
			`{"errors":[{"code":"INVALID_PARAMETER","message":"bad id"},{"code":"88","message":"numeric string"}]}`)

		require.Len(t, err.Errors, 2)
		assert.Equal(t, "INVALID_PARAMETER", err.Errors[0].Name)
		assert.Equal(t, 0, err.Code)
		assert.Equal(t, "bad id (code: INVALID_PARAMETER)", err.Errors[0].Error())
		assert.Equal(t, 88, err.Errors[1].Code)
		assert.Equal(t, "BadRequest (HTTP 400): bad id", err.Error())
	})

	t.Run("unstructured payloads degrade", func(t *testing.T) {
		t.Parallel()

		err := classify(http.StatusBadGateway, nil, "<html>upstream</html>")
		assert.Equal(t, "<html>upstream</html>", err.Message)
		assert.Nil(t, err.FirstError())

		err = classify(http.StatusInternalServerError, nil, "")
		assert.Equal(t, "unknown error", err.Message)

		err = classify(http.StatusInternalServerError, nil, `{"errors":[{"code":1}]}`)
		assert.Equal(t, "unknown error", err.Message)

		assert.Equal(t, "unknown error", ads.Classify(nil).Message)
	})

	t.Run("retry after seconds", func(t *testing.T) {
		t.Parallel()

		err := classify(http.StatusTooManyRequests, http.Header{"Retry-After": {"30"}}, "")

		assert.Equal(t, 30*time.Second, err.RetryAfter)
		assert.Equal(t, 30, err.RetryAfterSeconds())
		assert.Equal(t, 30*time.Second, ads.RetryAfter(fmt.Errorf("wrapped: %w", err)))
	})

	t.Run("retry after date and reset epoch", func(t *testing.T) {
		t.Parallel()

		at := time.Now().Add(2 * time.Minute).UTC().Format(http.TimeFormat)
		err := classify(http.StatusServiceUnavailable, http.Header{"Retry-After": {at}}, "")
		assert.Greater(t, err.RetryAfter, time.Minute)

		reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
		err = classify(http.StatusTooManyRequests, http.Header{"X-Rate-Limit-Reset": {reset}}, "")
		assert.Greater(t, err.RetryAfter, 50*time.Minute)

		err = classify(http.StatusInternalServerError, http.Header{"Retry-After": {"10"}}, "")
		assert.Zero(t, err.RetryAfter)
	})

	t.Run("kind sentinels", func(t *testing.T) {
		t.Parallel()

		var err error = classify(http.StatusNotFound, nil, "")
		wrapped := fmt.Errorf("loading campaign: %w", err)

		assert.ErrorIs(t, wrapped, ads.ErrNotFound)
		assert.NotErrorIs(t, wrapped, ads.ErrServerError)
		assert.True(t, ads.IsNotFound(wrapped))
		assert.False(t, ads.IsNotFound(errors.New("plain")))
		assert.False(t, ads.IsAPIError(errors.New("plain")))
		assert.Zero(t, ads.RetryAfter(errors.New("plain")))
	})
}
