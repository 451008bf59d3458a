package ads_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

func TestAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("load and features", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			switch call.Path {
			case "/12/accounts/a1":
				return http.StatusOK, `{"data":{"id":"a1","name":"Acme","timezone":"America/New_York","deleted":false}}`
			case "/12/accounts/a1/features":
				return http.StatusOK, `{"data":["AGE_TARGETING","CPI_CHARGING"]}`
			default:
				return unexpected(call)
			}
		})

		account, err := ads.LoadAccount(ctx, doer, "a1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", account.Name())
		assert.Equal(t, "America/New_York", account.Timezone())
		assert.Same(t, doer, account.Client())

		features, err := account.Features(ctx, "AGE_TARGETING", "CPI_CHARGING")
		require.NoError(t, err)
		assert.Equal(t, []string{"AGE_TARGETING", "CPI_CHARGING"}, features)

		calls := doer.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "feature_keys=AGE_TARGETING%2CCPI_CHARGING", calls[1].Query)
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		_, err := ads.LoadAccount(ctx, newFakeDoer(unexpected), "")
		require.ErrorIs(t, err, ads.ErrNotLoaded)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(recordedCall) (int, string) {
			return http.StatusNotFound, `{"errors":[{"code":34,"message":"Sorry, that page does not exist"}]}`
		})

		_, err := ads.LoadAccount(ctx, doer, "missing")
		assert.True(t, ads.IsNotFound(err))
	})

	t.Run("unloaded account collections", func(t *testing.T) {
		t.Parallel()

		campaigns := ads.NewAccount(nil).Campaigns(ctx, nil)

		_, err := campaigns.Next()
		require.ErrorIs(t, err, ads.ErrNotLoaded)

		_, err = campaigns.At(0)
		require.ErrorIs(t, err, ads.ErrNotLoaded)
		require.NotErrorIs(t, err, ads.ErrNoTransportProvided)

		campaigns.Reset()
		assert.True(t, campaigns.HasNext())
		require.ErrorIs(t, campaigns.Err(), ads.ErrNotLoaded)
		assert.Zero(t, campaigns.Requests())
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestResource_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("operations need a loaded account", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(unexpected)
		campaign := ads.NewCampaign(ads.NewAccount(doer))
		campaign.SetName("Spring")

		require.ErrorIs(t, campaign.Save(ctx), ads.ErrNotLoaded)

		_, err := ads.NewAccount(doer).Campaigns(ctx, nil).Next()
		require.ErrorIs(t, err, ads.ErrNotLoaded)
		assert.Empty(t, doer.Calls())
	})

	t.Run("delete and reload need an id", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(unexpected)
		campaign := ads.NewCampaign(loadedAccount(t, doer, "a1"))

		require.ErrorIs(t, campaign.Delete(ctx), ads.ErrNotLoaded)
		require.ErrorIs(t, campaign.Reload(ctx, nil), ads.ErrNotLoaded)
		assert.Empty(t, doer.Calls())
	})

	t.Run("save creates then updates", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			switch {
			case call.Method == http.MethodPost && call.Path == "/12/accounts/a1/campaigns":
				return http.StatusOK, `{"data":{"id":"c1","name":"Spring","entity_status":"PAUSED","created_at":"2024-01-01T00:00:00Z"}}`
			case call.Method == http.MethodPut && call.Path == "/12/accounts/a1/campaigns/c1":
				return http.StatusOK, `{"data":{"id":"c1","name":"Spring","entity_status":"ACTIVE"}}`
			default:
				return unexpected(call)
			}
		})

		campaign := ads.NewCampaign(loadedAccount(t, doer, "a1"))
		campaign.SetName("Spring")
		campaign.SetFundingInstrumentID("f1")
		campaign.SetEntityStatus(ads.EntityStatusPaused)
		campaign.SetStartTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		campaign.SetDailyBudget(5_000_000)

		require.NoError(t, campaign.Save(ctx))
		assert.Equal(t, "c1", campaign.ID())
		assert.Equal(t, ads.EntityStatusPaused, campaign.EntityStatus())

		campaign.SetEntityStatus(ads.EntityStatusActive)
		require.NoError(t, campaign.Save(ctx))
		assert.Equal(t, ads.EntityStatusActive, campaign.EntityStatus())

		calls := doer.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, ads.Params{
			"name":                            "Spring",
			"funding_instrument_id":           "f1",
			"entity_status":                   "PAUSED",
			"start_time":                      "2024-02-01T00:00:00Z",
			"daily_budget_amount_local_micro": int64(5_000_000),
		}, calls[0].Req.Params)
		assert.NotContains(t, calls[1].Req.Params, "id")
		assert.NotContains(t, calls[1].Req.Params, "created_at")
	})

	t.Run("delete hydrates the tombstone", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			switch {
			case call.Method == http.MethodGet && call.Path == "/12/accounts/a1/line_items/l1":
				return http.StatusOK, `{"data":{"id":"l1","name":"Line","campaign_id":"c1","placements":["ALL_ON_TWITTER"]}}`
			case call.Method == http.MethodDelete && call.Path == "/12/accounts/a1/line_items/l1":
				return http.StatusOK, `{"data":{"id":"l1","deleted":true}}`
			default:
				return unexpected(call)
			}
		})

		lineItem, err := loadedAccount(t, doer, "a1").LineItem(ctx, "l1")
		require.NoError(t, err)
		assert.Equal(t, "c1", lineItem.CampaignID())
		assert.Equal(t, []string{"ALL_ON_TWITTER"}, lineItem.Placements())

		require.NoError(t, lineItem.Delete(ctx))
		assert.True(t, lineItem.Bool("deleted"))
		assert.Empty(t, lineItem.Name())
	})

	t.Run("line item targeting criteria", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Path == "/12/accounts/a1/targeting_criteria" {
				return http.StatusOK, `{"data":[{"id":"t1","line_item_id":"l1","targeting_type":"LOCATION"}],"next_cursor":null}`
			}

			return unexpected(call)
		})

		lineItem := ads.NewLineItem(loadedAccount(t, doer, "a1"))
		lineItem.Hydrate(map[string]any{"id": "l1"})

		criteria, err := lineItem.TargetingCriteria(ctx, ads.Params{"count": 10}).All()
		require.NoError(t, err)
		require.Len(t, criteria, 1)
		assert.Equal(t, "LOCATION", criteria[0].TargetingType())
		assert.Equal(t, "count=10&line_item_ids=l1", doer.Calls()[0].Query)
	})

	t.Run("promote tweets", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodPost && call.Path == "/12/accounts/a1/promoted_tweets" {
				return http.StatusOK, `{"data":[{"id":"p1","line_item_id":"l1","tweet_id":"100"},{"id":"p2","line_item_id":"l1","tweet_id":"200"}]}`
			}

			return unexpected(call)
		})

		account := loadedAccount(t, doer, "a1")

		promoted, err := ads.NewPromotedTweet(account).Promote(ctx, "l1", "100", "200")
		require.NoError(t, err)
		require.Len(t, promoted, 2)
		assert.Equal(t, "200", promoted[1].TweetID())
		assert.Equal(t, "line_item_id=l1&tweet_ids=100%2C200", doer.Calls()[0].Query)

		single := ads.NewPromotedTweet(account)
		single.Hydrate(map[string]any{"line_item_id": "l1", "tweet_id": "100"})
		require.NoError(t, single.Save(ctx))
		assert.Equal(t, "p1", single.ID())
	})
}

func TestAppDownloadCards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	doer := newFakeDoer(func(call recordedCall) (int, string) {
		switch {
		case call.Method == http.MethodPost && call.Path == "/12/accounts/a1/cards/image_app_download":
			return http.StatusOK, `{"data":{"id":"i1","name":"Install","card_uri":"card://i1","media_key":"3_1"}}`
		case call.Method == http.MethodGet && call.Path == "/12/accounts/a1/cards/video_app_download":
			return http.StatusOK, `{"data":[{"id":"v1","video_id":"13","video_url":"https://video.example.com/v1.mp4"}],"next_cursor":null}`
		default:
			return unexpected(call)
		}
	})

	account := loadedAccount(t, doer, "a1")

	image := ads.NewImageAppDownloadCard(account)
	image.SetName("Install")
	image.SetMediaKey("3_1")
	image.SetCountryCode("US")
	image.SetAppCTA("INSTALL")
	image.SetGooglePlayAppID("com.example.app")

	require.NoError(t, image.Save(ctx))
	assert.Equal(t, "i1", image.ID())
	assert.Equal(t, "card://i1", image.CardURI())

	videos, err := account.VideoAppDownloadCards(ctx, nil).All()
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://video.example.com/v1.mp4", videos[0].VideoURL())

	calls := doer.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, ads.Params{
		"name":              "Install",
		"media_key":         "3_1",
		"country_code":      "US",
		"app_cta":           "INSTALL",
		"googleplay_app_id": "com.example.app",
	}, calls[0].Req.Params)

	schema, ok := ads.LookupSchema("video_app_download_card")
	require.True(t, ok)

	prop, ok := schema.Lookup("video_url")
	require.True(t, ok)
	assert.True(t, prop.ReadOnly)
}
