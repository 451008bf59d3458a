package ads_test

import (
	"bytes"
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 15, 42, 7, 0, time.UTC)
}

func quickPolicy(retries uint64) backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), retries)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestAccount_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("default window and options", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodGet && call.Path == "/12/stats/accounts/a1" {
				return http.StatusOK, `{"data":[{"id":"c1","id_data":[{"metrics":{"impressions":[10]}}]}]}`
			}

			return unexpected(call)
		})

		data, err := loadedAccount(t, doer, "a1").Stats(ctx, ads.EntityCampaign, []string{"c1", "c2"},
			[]string{ads.MetricGroupEngagement, ads.MetricGroupBilling}, ads.StatsOptions{Now: fixedNow})
		require.NoError(t, err)
		require.Len(t, data, 1)

		params := doer.Calls()[0].Req.Params.Encode()
		assert.Equal(t, "2024-03-03T15:00:00Z", params.Get("start_time"))
		assert.Equal(t, "2024-03-10T15:00:00Z", params.Get("end_time"))
		assert.Equal(t, "HOUR", params.Get("granularity"))
		assert.Equal(t, "ALL_ON_TWITTER", params.Get("placement"))
		assert.Equal(t, "CAMPAIGN", params.Get("entity"))
		assert.Equal(t, "c1,c2", params.Get("entity_ids"))
		assert.Equal(t, "ENGAGEMENT,BILLING", params.Get("metric_groups"))
		assert.False(t, params.Has("segmentation_type"))
	})

	t.Run("day granularity aligns explicit times", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(recordedCall) (int, string) {
			return http.StatusOK, `{"data":[]}`
		})

		campaign := ads.NewCampaign(loadedAccount(t, doer, "a1"))
		campaign.Hydrate(map[string]any{"id": "c9"})

		_, err := campaign.Stats(ctx, []string{ads.MetricGroupVideo}, ads.StatsOptions{
			StartTime:        time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC),
			EndTime:          time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC),
			Granularity:      ads.GranularityDay,
			Placement:        ads.PlacementPublisherNetwork,
			SegmentationType: "LOCATIONS",
		})
		require.NoError(t, err)

		params := doer.Calls()[0].Req.Params.Encode()
		assert.Equal(t, "2024-01-01T00:00:00Z", params.Get("start_time"))
		assert.Equal(t, "2024-01-05T00:00:00Z", params.Get("end_time"))
		assert.Equal(t, "c9", params.Get("entity_ids"))
		assert.Equal(t, "PUBLISHER_NETWORK", params.Get("placement"))
		assert.Equal(t, "LOCATIONS", params.Get("segmentation_type"))
	})

	t.Run("argument checks", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(unexpected)
		account := loadedAccount(t, doer, "a1")

		_, err := account.Stats(ctx, ads.EntityCampaign, nil, []string{ads.MetricGroupBilling}, ads.StatsOptions{})
		require.ErrorIs(t, err, ads.ErrNoEntityIDs)

		_, err = account.Stats(ctx, ads.EntityCampaign, []string{"c1"}, nil, ads.StatsOptions{})
		require.ErrorIs(t, err, ads.ErrNoMetricGroups)

		_, err = ads.NewCampaign(account).Stats(ctx, []string{ads.MetricGroupBilling}, ads.StatsOptions{})
		require.ErrorIs(t, err, ads.ErrNotLoaded)
		assert.Empty(t, doer.Calls())
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestStatsJob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("queue", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Method == http.MethodPost && call.Path == "/12/stats/jobs/accounts/a1" {
				return http.StatusOK, `{"data":{"id":123,"id_str":"123","status":"QUEUED"}}`
			}

			return unexpected(call)
		})

		job, err := loadedAccount(t, doer, "a1").QueueStatsJob(ctx, ads.EntityLineItem, []string{"l1"},
			[]string{ads.MetricGroupEngagement}, ads.StatsOptions{Now: fixedNow})
		require.NoError(t, err)
		assert.Equal(t, "123", job.JobID())
		assert.Equal(t, ads.JobStatusQueued, job.Status())
		assert.False(t, job.Done())
	})

	t.Run("wait polls until success", func(t *testing.T) {
		t.Parallel()

		var polls atomic.Int32

		doer := newFakeDoer(func(call recordedCall) (int, string) {
			if call.Path != "/12/stats/jobs/accounts/a1" || call.Query != "job_ids=123" {
				return unexpected(call)
			}

			if polls.Add(1) < 3 {
				return http.StatusOK, `{"data":[{"id_str":"123","status":"PROCESSING"}],"next_cursor":null}`
			}

			return http.StatusOK, `{"data":[{"id_str":"123","status":"SUCCESS","url":"https://files.example.com/r/123.json.gz"}],"next_cursor":null}`
		})

		job, err := loadedAccount(t, doer, "a1").WaitForStatsJob(ctx, "123", quickPolicy(5))
		require.NoError(t, err)
		assert.True(t, job.Done())
		assert.Equal(t, "https://files.example.com/r/123.json.gz", job.URL())
		assert.Equal(t, int32(3), polls.Load())
	})

	t.Run("wait gives up", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(recordedCall) (int, string) {
			return http.StatusOK, `{"data":[{"id_str":"123","status":"PROCESSING"}]}`
		})

		_, err := loadedAccount(t, doer, "a1").WaitForStatsJob(ctx, "123", quickPolicy(2))
		require.ErrorIs(t, err, ads.ErrStatsJobNotReady)
		assert.Len(t, doer.Calls(), 3)
	})

	t.Run("failed job stops the wait", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(recordedCall) (int, string) {
			return http.StatusOK, `{"data":[{"id_str":"123","status":"FAILED"}]}`
		})

		job, err := loadedAccount(t, doer, "a1").WaitForStatsJob(ctx, "123", quickPolicy(5))
		require.ErrorIs(t, err, ads.ErrStatsJobFailed)
		require.NotNil(t, job)
		assert.Equal(t, ads.JobStatusFailed, job.Status())
		assert.Len(t, doer.Calls(), 1)
	})

	t.Run("missing job", func(t *testing.T) {
		t.Parallel()

		doer := newFakeDoer(func(recordedCall) (int, string) {
			return http.StatusOK, `{"data":[]}`
		})

		_, err := loadedAccount(t, doer, "a1").WaitForStatsJob(ctx, "404", quickPolicy(5))
		require.ErrorIs(t, err, ads.ErrStatsJobNotFound)
		assert.Len(t, doer.Calls(), 1)
	})

	t.Run("rate limited polls are retried", func(t *testing.T) {
		t.Parallel()

		var polls atomic.Int32

		doer := newFakeDoer(func(recordedCall) (int, string) {
			if polls.Add(1) == 1 {
				return http.StatusTooManyRequests, `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`
			}

			return http.StatusOK, `{"data":[{"id_str":"123","status":"SUCCESS"}]}`
		})

		job, err := loadedAccount(t, doer, "a1").WaitForStatsJob(ctx, "123", quickPolicy(5))
		require.NoError(t, err)
		assert.Equal(t, ads.JobStatusSuccess, job.Status())
	})
}

func gzipped(t *testing.T, payload string) string {
	t.Helper()

	var buf bytes.Buffer

	writer := gzip.NewWriter(&buf)
	_, err := writer.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf.String()
}

func TestStatsJob_Results(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	compressed := gzipped(t, `{"data":[{"id":"c1","id_data":[{"metrics":{"billed_charge_local_micro":[5000]}}]}]}`)

	doer := newFakeDoer(func(call recordedCall) (int, string) {
		switch {
		case call.Path == "/12/stats/jobs/accounts/a1":
			return http.StatusOK, `{"data":[{"id_str":"9","status":"SUCCESS","url":"https://files.example.com/r/9.json.gz?sig=abc"}]}`
		case call.Path == "/r/9.json.gz" && call.Req.Domain == "https://files.example.com":
			return http.StatusOK, compressed
		default:
			return unexpected(call)
		}
	})

	account := loadedAccount(t, doer, "a1")

	job, err := account.StatsJob(ctx, "9")
	require.NoError(t, err)

	results, err := job.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].(map[string]any)["id"])
	assert.Equal(t, "sig=abc", doer.Calls()[1].Query)

	pendingDoer := newFakeDoer(func(recordedCall) (int, string) {
		return http.StatusOK, `{"data":[{"id_str":"10","status":"PROCESSING"}]}`
	})

	pending, err := loadedAccount(t, pendingDoer, "a1").StatsJob(ctx, "10")
	require.NoError(t, err)

	_, err = pending.Results(ctx)
	require.ErrorIs(t, err, ads.ErrStatsJobNotReady)
	assert.Len(t, pendingDoer.Calls(), 1)
}
