package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

const dateLayout = "2006-01-02"

// statsFlags are the query flags shared by stats sync and stats queue.
type statsFlags struct {
	entity       string
	ids          []string
	metricGroups []string
	granularity  string
	placement    string
	segmentation string
	start        string
	end          string
}

func (f *statsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entity, "entity", ads.EntityCampaign, "entity type, e.g. CAMPAIGN or LINE_ITEM")
	cmd.Flags().StringSliceVar(&f.ids, "ids", nil, "entity ids")
	cmd.Flags().StringSliceVar(&f.metricGroups, "metric-groups", []string{ads.MetricGroupEngagement}, "metric groups")
	cmd.Flags().StringVar(&f.granularity, "granularity", string(ads.GranularityHour), "HOUR, DAY or TOTAL")
	cmd.Flags().StringVar(&f.placement, "placement", ads.PlacementAllOnTwitter, "placement")
	cmd.Flags().StringVar(&f.segmentation, "segmentation", "", "segmentation type")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (RFC3339 or YYYY-MM-DD, default 7 days before end)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (RFC3339 or YYYY-MM-DD, default start of the current hour)")
	_ = cmd.MarkFlagRequired("ids")
}

func (f *statsFlags) options() (ads.StatsOptions, error) {
	opts := ads.StatsOptions{
		Placement:        f.placement,
		SegmentationType: f.segmentation,
	}

	switch granularity := ads.Granularity(strings.ToUpper(f.granularity)); granularity {
	case ads.GranularityHour, ads.GranularityDay, ads.GranularityTotal:
		opts.Granularity = granularity
	default:
		return opts, fmt.Errorf("%w: %s", constants.ErrInvalidGranularity, f.granularity)
	}

	var err error

	if opts.StartTime, err = parseTimeFlag(f.start); err != nil {
		return opts, err
	}

	if opts.EndTime, err = parseTimeFlag(f.end); err != nil {
		return opts, err
	}

	return opts, nil
}

func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: time %q", constants.ErrInvalidParam, value)
}

// NewStatsCommand creates the stats command group.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"analytics"},
		Short:   "Fetch analytics",
		Long:    "Fetch synchronous analytics or run asynchronous stats jobs for the selected account",
	}

	cmd.AddCommand(newStatsSyncCommand())
	cmd.AddCommand(newStatsQueueCommand())
	cmd.AddCommand(newStatsWaitCommand())

	return cmd
}

func newStatsSyncCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch analytics synchronously",
		Long:  "Fetch analytics for up to 20 entities over a window of at most 7 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)

			account, err := currentAccount(ctx, client)
			if err != nil {
				return err
			}

			data, err := account.Stats(ctx, strings.ToUpper(flags.entity), flags.ids, flags.metricGroups, opts)
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), data, statsColumns, statsRows(data))
		},
	}

	flags.register(cmd)

	return cmd
}

func newStatsQueueCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue an asynchronous stats job",
		Long:  "Queue an asynchronous stats job; use 'ads stats wait' to collect the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)

			account, err := currentAccount(ctx, client)
			if err != nil {
				return err
			}

			job, err := account.QueueStatsJob(ctx, strings.ToUpper(flags.entity), flags.ids, flags.metricGroups, opts)
			if err != nil {
				return fmt.Errorf("failed to queue stats job: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), job, []string{"property", "value"}, propertyRows(&job.Object))
		},
	}

	flags.register(cmd)

	return cmd
}

func newStatsWaitCommand() *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
		noFetch  bool
	)

	cmd := &cobra.Command{
		Use:   "wait JOB_ID",
		Short: "Wait for a stats job",
		Long:  "Poll a stats job until it finishes, then download and display its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)

			account, err := currentAccount(ctx, client)
			if err != nil {
				return err
			}

			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = interval
			policy.MaxInterval = constants.MaxJobPollInterval
			policy.MaxElapsedTime = timeout

			job, err := account.WaitForStatsJob(ctx, args[0], policy)
			if err != nil {
				return err
			}

			if noFetch {
				return writeOutput(cmd.OutOrStdout(), job, []string{"property", "value"}, propertyRows(&job.Object))
			}

			data, err := job.Results(ctx)
			if err != nil {
				return fmt.Errorf("failed to download stats job results: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), data, statsColumns, statsRows(data))
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", constants.DefaultJobPollTimeout, "maximum time to wait")
	cmd.Flags().DurationVar(&interval, "interval", constants.DefaultJobPollInterval, "first polling interval")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "print the finished job instead of its results")

	return cmd
}

var statsColumns = []string{"id", "segment", "metric", "total"}

// statsRows flattens analytics data into one row per entity, segment and
// metric, summing the metric's time series.
func statsRows(data []any) [][]string {
	var rows [][]string

	for _, raw := range data {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		id := fmt.Sprint(entry["id"])
		segments, _ := entry["id_data"].([]any)

		for _, rawSegment := range segments {
			segment, ok := rawSegment.(map[string]any)
			if !ok {
				continue
			}

			segmentName := constants.NotAvailable
			if info, ok := segment["segment"].(map[string]any); ok {
				segmentName = fmt.Sprint(info["segment_name"])
			}

			metrics, _ := segment["metrics"].(map[string]any)

			names := make([]string, 0, len(metrics))
			for name := range metrics {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				rows = append(rows, []string{id, segmentName, name, sumSeries(metrics[name])})
			}
		}
	}

	return rows
}

// sumSeries totals a metric series; nested series such as conversion
// breakdowns are summed recursively and null series render as N/A.
func sumSeries(series any) string {
	total, ok := seriesTotal(series)
	if !ok {
		return constants.NotAvailable
	}

	return fmt.Sprintf("%g", total)
}

func seriesTotal(series any) (float64, bool) {
	switch v := series.(type) {
	case []any:
		var (
			total float64
			found bool
		)

		for _, item := range v {
			if n, ok := seriesTotal(item); ok {
				total += n
				found = true
			}
		}

		return total, found
	case map[string]any:
		var (
			total float64
			found bool
		)

		for _, item := range v {
			if n, ok := seriesTotal(item); ok {
				total += n
				found = true
			}
		}

		return total, found
	case interface{ Float64() (float64, error) }:
		n, err := v.Float64()

		return n, err == nil
	case float64:
		return v, true
	default:
		return 0, false
	}
}
