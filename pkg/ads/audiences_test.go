package ads_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

const (
	audiencesPath = "/12/accounts/a1/tailored_audiences"
	changesPath   = "/12/accounts/a1/tailored_audience_changes"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestTailoredAudience(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create seeds and reloads", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			switch {
			case call.Method == http.MethodPost && call.Path == audiencesPath:
				return http.StatusOK, `{"data":{"id":"ta1","name":"Buyers","list_type":"EMAIL"}}`
			case call.Method == http.MethodPost && call.Path == changesPath:
				return http.StatusOK, `{"data":{"id":"ch1","tailored_audience_id":"ta1","operation":"ADD"}}`
			case call.Method == http.MethodGet && call.Path == audiencesPath+"/ta1":
				return http.StatusOK, `{"data":{"id":"ta1","name":"Buyers","list_type":"EMAIL","targetable":true}}`
			default:
				return unexpected(call)
			}
		})

		audience, err := ads.CreateTailoredAudience(ctx, loadedAccount(t, doer, "a1"),
			"/ta_partner/123/upload.txt", "Buyers", ads.TAListEmail)
		require.NoError(t, err)
		assert.Equal(t, "ta1", audience.ID())
		assert.Equal(t, "Buyers", audience.Name())
		assert.Equal(t, ads.TAListEmail, audience.ListType())
		assert.True(t, audience.Targetable())

		calls := doer.Calls()
		require.Len(t, calls, 3)
		assert.Equal(t, ads.Params{
			"tailored_audience_id": "ta1",
			"input_file_path":      "/ta_partner/123/upload.txt",
			"list_type":            "EMAIL",
			"operation":            "ADD",
		}, calls[1].Req.Params)
	})

	t.Run("failed seeding deletes the audience", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			switch {
			case call.Method == http.MethodPost && call.Path == audiencesPath:
				return http.StatusOK, `{"data":{"id":"ta1","name":"Buyers"}}`
			case call.Method == http.MethodPost && call.Path == changesPath:
				return http.StatusBadRequest, `{"errors":[{"code":"INVALID_PARAMETER","message":"input_file_path is invalid"}]}`
			case call.Method == http.MethodDelete && call.Path == audiencesPath+"/ta1":
				return http.StatusOK, `{"data":{"id":"ta1","deleted":true}}`
			default:
				return unexpected(call)
			}
		})

		audience, err := ads.CreateTailoredAudience(ctx, loadedAccount(t, doer, "a1"),
			"/bad", "Buyers", ads.TAListEmail)
		require.Error(t, err)
		assert.Nil(t, audience)
		assert.True(t, ads.IsBadRequest(err))

		calls := doer.Calls()
		require.Len(t, calls, 3)
		assert.Equal(t, http.MethodDelete, calls[2].Method)
	})

	t.Run("server errors keep the audience", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodPost && call.Path == audiencesPath {
				return http.StatusOK, `{"data":{"id":"ta1"}}`
			}

			return http.StatusInternalServerError, ""
		})

		_, err := ads.CreateTailoredAudience(ctx, loadedAccount(t, doer, "a1"), "/f", "x", ads.TAListEmail)
		assert.True(t, ads.IsServerError(err))
		assert.Len(t, doer.Calls(), 2)
	})

	t.Run("update validates the operation", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(unexpected)
		audience := ads.NewTailoredAudience(loadedAccount(t, doer, "a1"))
		audience.Hydrate(map[string]any{"id": "ta1"})

		err := audience.Update(ctx, "/f", ads.TAListEmail, "MERGE")
		require.ErrorIs(t, err, ads.ErrInvalidAudienceOperation)
		assert.Empty(t, doer.Calls())
	})

	t.Run("status filters changes by audience", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodGet && call.Path == changesPath {
				return http.StatusOK, `{"data":[
					{"id":"ch1","tailored_audience_id":"ta1","state":"COMPLETED"},
					{"id":"ch2","tailored_audience_id":"ta2","state":"PROCESSING"},
					{"id":"ch3","tailored_audience_id":"ta1","state":"PROCESSING"}
				],"next_cursor":null}`
			}

			return unexpected(call)
		})

		audience := ads.NewTailoredAudience(loadedAccount(t, doer, "a1"))
		audience.Hydrate(map[string]any{"id": "ta1"})

		changes, err := audience.Status(ctx)
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, "ch1", changes[0]["id"])
		assert.Equal(t, "ch3", changes[1]["id"])
	})

	t.Run("global opt out", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodPut && call.Path == audiencesPath+"/global_opt_out" {
				return http.StatusOK, `{"data":{"input_file_path":"/opt/out.txt"}}`
			}

			return unexpected(call)
		})

		require.NoError(t, ads.OptOut(ctx, loadedAccount(t, doer, "a1"), "/opt/out.txt", ads.TAListHandle))
		assert.Equal(t, "input_file_path=%2Fopt%2Fout.txt&list_type=HANDLE", doer.Calls()[0].Query)

		require.ErrorIs(t, ads.OptOut(ctx, ads.NewAccount(doer), "/f", ads.TAListHandle), ads.ErrNotLoaded)
	})
}
