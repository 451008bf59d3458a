package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/gzip"

	"github.com/fivetwenty-io/ads-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrStatsJobFailed   = errors.New("stats job failed")
	ErrStatsJobNotFound = errors.New("stats job not found")
	ErrStatsJobNotReady = errors.New("stats job has no result yet")
	ErrNoEntityIDs      = errors.New("at least one entity id is required")
	ErrNoMetricGroups   = errors.New("at least one metric group is required")
)

const (
	statsPath     = "/" + APIVersion + "/stats/accounts/%{account_id}"
	statsJobsPath = "/" + APIVersion + "/stats/jobs/accounts/%{account_id}"
)

// StatsOptions controls an analytics query. Zero values select the defaults:
// a window of seven days ending at the start of the current hour, HOUR
// granularity and the ALL_ON_TWITTER placement.
type StatsOptions struct {
	StartTime   time.Time
	EndTime     time.Time
	Granularity Granularity
	Placement   string
	// SegmentationType breaks results down, e.g. by LOCATIONS.
	SegmentationType string
	// Now is used to derive the default window; defaults to time.Now.
	Now func() time.Time
}

// alignTime truncates t to the granularity boundary in t's location.
func alignTime(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// params renders the query for the given entity and ids.
func (o StatsOptions) params(entity string, ids, metricGroups []string) (Params, error) {
	if len(ids) == 0 {
		return nil, ErrNoEntityIDs
	}

	if len(metricGroups) == 0 {
		return nil, ErrNoMetricGroups
	}

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	end := o.EndTime
	if end.IsZero() {
		end = now().Truncate(time.Hour)
	}

	start := o.StartTime
	if start.IsZero() {
		start = end.Add(-constants.DefaultStatsWindow)
	}

	granularity := o.Granularity
	if granularity == "" {
		granularity = GranularityHour
	}

	placement := o.Placement
	if placement == "" {
		placement = PlacementAllOnTwitter
	}

	params := Params{
		"metric_groups": metricGroups,
		"start_time":    alignTime(start, granularity).Format(time.RFC3339),
		"end_time":      alignTime(end, granularity).Format(time.RFC3339),
		"granularity":   string(granularity),
		"entity":        entity,
		"entity_ids":    ids,
		"placement":     placement,
	}

	if o.SegmentationType != "" {
		params["segmentation_type"] = o.SegmentationType
	}

	return params, nil
}

// Stats fetches synchronous analytics for a set of entities of one type.
// The returned slice is the data member of the response.
func (a *Account) Stats(ctx context.Context, entity string, ids, metricGroups []string, opts StatsOptions) ([]any, error) {
	accountID, err := a.RequireID()
	if err != nil {
		return nil, err
	}

	params, err := opts.params(entity, ids, metricGroups)
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodGet, statsPath,
		WithPathParams(map[string]string{"account_id": accountID}), WithParams(params))

	resp, err := req.Perform(ctx, a.client)
	if err != nil {
		return nil, err
	}

	data, err := resp.Data()
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	items, _ := data.([]any)

	return items, nil
}

func entityStats(ctx context.Context, e *entity, entityType string, metricGroups []string, opts StatsOptions) ([]any, error) {
	id, err := e.RequireID()
	if err != nil {
		return nil, err
	}

	if e.account == nil {
		return nil, fmt.Errorf("%w: %s has no account", ErrNotLoaded, e.schema.name)
	}

	return e.account.Stats(ctx, entityType, []string{id}, metricGroups, opts)
}

// StatsJobSchema declares the async analytics job properties.
var StatsJobSchema = RegisterSchema(NewSchema("stats_job",
	Plain("id").Immutable(),
	Plain("id_str").Immutable(),
	Plain("status").Immutable(),
	Plain("url").Immutable(),
	Plain("entity").Immutable(),
	Plain("entity_ids").Immutable(),
	Plain("metric_groups").Immutable(),
	Plain("granularity").Immutable(),
	Plain("placement").Immutable(),
	Plain("segmentation_type").Immutable(),
	Time("start_time").Immutable(),
	Time("end_time").Immutable(),
	Time("expires_at").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
))

// StatsJob is an asynchronous analytics query.
type StatsJob struct {
	Object

	account *Account
}

func newStatsJob(account *Account) *StatsJob {
	return &StatsJob{Object: NewObject(StatsJobSchema), account: account}
}

// JobID returns the string form of the job id.
func (j *StatsJob) JobID() string {
	if id := j.String("id_str"); id != "" {
		return id
	}

	return j.ID()
}

// Status returns the job state.
func (j *StatsJob) Status() string { return j.String("status") }

// URL returns the result location once the job succeeded.
func (j *StatsJob) URL() string { return j.String("url") }

// Done reports whether the job reached a terminal state.
func (j *StatsJob) Done() bool {
	status := j.Status()

	return status == JobStatusSuccess || status == JobStatusFailed
}

// QueueStatsJob starts an asynchronous analytics query.
func (a *Account) QueueStatsJob(ctx context.Context, entity string, ids, metricGroups []string, opts StatsOptions) (*StatsJob, error) {
	accountID, err := a.RequireID()
	if err != nil {
		return nil, err
	}

	params, err := opts.params(entity, ids, metricGroups)
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodPost, statsJobsPath,
		WithPathParams(map[string]string{"account_id": accountID}), WithParams(params))

	resp, err := req.Perform(ctx, a.client)
	if err != nil {
		return nil, err
	}

	data, err := resp.DataObject()
	if err != nil {
		return nil, fmt.Errorf("reading stats job: %w", err)
	}

	job := newStatsJob(a)
	job.Hydrate(data)

	return job, nil
}

// StatsJobs lists the account's async analytics jobs.
func (a *Account) StatsJobs(ctx context.Context, params Params) *Cursor[*StatsJob] {
	accountID, err := a.RequireID()
	if err != nil {
		return failedCursor[*StatsJob](err)
	}

	req := NewRequest(http.MethodGet, statsJobsPath,
		WithPathParams(map[string]string{"account_id": accountID}), WithParams(params))

	return NewCursor(ctx, a.client, req, func(item map[string]any) (*StatsJob, error) {
		job := newStatsJob(a)
		job.Hydrate(item)

		return job, nil
	})
}

// StatsJob loads one async analytics job.
func (a *Account) StatsJob(ctx context.Context, id string) (*StatsJob, error) {
	cursor := a.StatsJobs(ctx, Params{"job_ids": id})
	if !cursor.HasNext() {
		return nil, fmt.Errorf("%w: %s", ErrStatsJobNotFound, id)
	}

	return cursor.Next()
}

// WaitForStatsJob polls a job until it succeeds or fails. A nil policy
// selects an exponential backoff bounded by the default job poll timeout.
// Rate limited polls are retried; other API errors stop the wait.
func (a *Account) WaitForStatsJob(ctx context.Context, id string, policy backoff.BackOff) (*StatsJob, error) {
	if policy == nil {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = constants.DefaultJobPollInterval
		exp.MaxInterval = constants.MaxJobPollInterval
		exp.MaxElapsedTime = constants.DefaultJobPollTimeout
		policy = exp
	}

	operation := func() (*StatsJob, error) {
		job, err := a.StatsJob(ctx, id)
		if err != nil {
			if IsRateLimit(err) || IsServerError(err) {
				return nil, err
			}

			return nil, backoff.Permanent(err)
		}

		switch job.Status() {
		case JobStatusSuccess:
			return job, nil
		case JobStatusFailed:
			return job, backoff.Permanent(fmt.Errorf("%w: %s", ErrStatsJobFailed, id))
		default:
			return nil, fmt.Errorf("%w: %s is %s", ErrStatsJobNotReady, id, job.Status())
		}
	}

	job, err := backoff.RetryWithData(operation, backoff.WithContext(policy, ctx))
	if err != nil {
		return job, fmt.Errorf("waiting for stats job %s: %w", id, err)
	}

	return job, nil
}

// Results downloads and decodes the data of a finished job. The result file
// lives outside the API domain, so its body is redacted in traces.
func (j *StatsJob) Results(ctx context.Context) ([]any, error) {
	if j.Status() != JobStatusSuccess || j.URL() == "" {
		return nil, fmt.Errorf("%w: %s", ErrStatsJobNotReady, j.JobID())
	}

	location, err := url.Parse(j.URL())
	if err != nil {
		return nil, fmt.Errorf("parsing stats job url: %w", err)
	}

	params := Params{}
	for key, values := range location.Query() {
		params[key] = strings.Join(values, ",")
	}

	req := NewRequest(http.MethodGet, location.EscapedPath(),
		WithDomain(location.Scheme+"://"+location.Host), WithParams(params))

	resp, err := req.Perform(ctx, j.account.client)
	if err != nil {
		return nil, err
	}

	payload, err := gunzip(resp.RawBody())
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []any `json:"data"`
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding stats job results: %w", err)
	}

	return result.Data, nil
}

// gunzip inflates gzip payloads. Anything else passes through unchanged.
func gunzip(raw []byte) ([]byte, error) {
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		return raw, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening stats job results: %w", err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading stats job results: %w", err)
	}

	return payload, nil
}
