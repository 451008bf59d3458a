package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
	"github.com/fivetwenty-io/ads-client/pkg/adsclient"
	"github.com/fivetwenty-io/ads-client/pkg/adslog"
)

// Configuration keys shared by viper, the config file and ADS_* variables.
const (
	keyConsumerKey       = "consumer_key"
	keyConsumerSecret    = "consumer_secret"
	keyAccessToken       = "access_token"
	keyAccessTokenSecret = "access_token_secret"
	keyAccount           = "account"
	keySandbox           = "sandbox"
	keyTrace             = "trace"
	keyEndpoint          = "endpoint"
	keySandboxEndpoint   = "sandbox_endpoint"
	keyTimeout           = "timeout"
	keyRetryMax          = "retry_max"
	keyRateLimit         = "rate_limit"
	keyRateBurst         = "rate_burst"
	keyNATSURL           = "nats_url"
	keyNATSSubject       = "nats_subject"
	keyOutput            = "output"
	keyVerbose           = "verbose"
)

// valueGetter is implemented by every resource through its embedded Object.
type valueGetter interface {
	String(name string) string
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// clientConfig builds the library configuration from viper.
func clientConfig() (*ads.Config, error) {
	config := &ads.Config{
		ConsumerKey:       viper.GetString(keyConsumerKey),
		ConsumerSecret:    viper.GetString(keyConsumerSecret),
		AccessToken:       viper.GetString(keyAccessToken),
		AccessTokenSecret: viper.GetString(keyAccessTokenSecret),
		Sandbox:           viper.GetBool(keySandbox),
		Trace:             viper.GetBool(keyTrace),
		Endpoint:          viper.GetString(keyEndpoint),
		SandboxEndpoint:   viper.GetString(keySandboxEndpoint),
		HTTPTimeout:       viper.GetDuration(keyTimeout),
		RetryMax:          viper.GetInt(keyRetryMax),
		RateLimit:         viper.GetFloat64(keyRateLimit),
		RateBurst:         viper.GetInt(keyRateBurst),
	}

	if config.ConsumerKey == "" && config.AccessToken == "" {
		return nil, constants.ErrNoCredentials
	}

	return config, nil
}

// traceLogger returns the logger for --trace: stdr on w, fanned out to NATS
// when a server is configured. The returned function closes the NATS
// connection.
func traceLogger(w io.Writer) (ads.Logger, func(), error) {
	std := adslog.NewStd(w, "ads ")
	if viper.GetBool(keyVerbose) {
		adslog.SetVerbosity(1)
	}

	url := viper.GetString(keyNATSURL)
	if url == "" {
		return std, func() {}, nil
	}

	sink, err := adslog.ConnectNATS(url, viper.GetString(keyNATSSubject))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace sink: %w", err)
	}

	closeFn := func() {
		if failures, lastErr := sink.Failures(); failures > 0 {
			std.Warn("trace entries were not published", map[string]interface{}{
				"failures": failures,
				"error":    lastErr,
			})
		}

		_ = sink.Close()
	}

	return adslog.Multi(std, sink), closeFn, nil
}

// newClient creates an authenticated client. The returned function releases
// trace resources and must be called once the command finishes.
func newClient(cmd *cobra.Command) (ads.Client, func(), error) {
	config, err := clientConfig()
	if err != nil {
		return nil, nil, err
	}

	release := func() {}

	if config.Trace {
		logger, closeFn, err := traceLogger(cmd.ErrOrStderr())
		if err != nil {
			return nil, nil, err
		}

		config.Logger = logger
		release = closeFn
	}

	client, err := adsclient.New(commandContext(cmd), config)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, release, nil
}

// currentAccount loads the account selected with --account or the config.
func currentAccount(ctx context.Context, client ads.Client) (*ads.Account, error) {
	id := viper.GetString(keyAccount)
	if id == "" {
		return nil, constants.ErrNoAccountSelected
	}

	account, err := client.Account(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", id, err)
	}

	return account, nil
}

// parseParams converts key=value arguments into query parameters.
func parseParams(pairs []string) (ads.Params, error) {
	params := ads.Params{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParam, pair)
		}

		params[strings.TrimSpace(key)] = value
	}

	return params, nil
}

// collect drains up to limit items from a cursor; zero means all.
func collect[T any](cursor *ads.Cursor[T], limit int) ([]T, error) {
	var items []T

	for item, err := range cursor.Items() {
		if err != nil {
			return items, err
		}

		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, nil
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString(keyOutput))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// writeOutput renders value as JSON or YAML, or renders rows as a table.
func writeOutput(w io.Writer, value any, headers []string, rows [][]string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()

		return encoder.Encode(value)
	default:
		return renderTable(w, headers, rows)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)

	labels := make([]any, len(headers))
	for i, header := range headers {
		labels[i] = headerLabel(header)
	}

	table.Header(labels...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}

		_ = table.Append(cells...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// headerLabel turns a property name such as entity_status into "Entity Status".
func headerLabel(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// objectRows renders the named properties of each item.
func objectRows[T valueGetter](items []T, columns []string) [][]string {
	rows := make([][]string, 0, len(items))

	for _, item := range items {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = item.String(column)
			if row[i] == "" {
				row[i] = constants.NotAvailable
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// propertyRows renders one object as name/value pairs in schema order.
func propertyRows(obj *ads.Object) [][]string {
	var rows [][]string

	for _, name := range obj.Schema().Names() {
		if _, ok := obj.Get(name); !ok {
			continue
		}

		rows = append(rows, []string{name, obj.String(name)})
	}

	return rows
}

// maskSecret hides all but the last few characters of a secret.
func maskSecret(secret string) string {
	if len(secret) <= constants.SecretVisibleChars {
		return constants.MaskedSecret
	}

	return constants.MaskedSecret + secret[len(secret)-constants.SecretVisibleChars:]
}
