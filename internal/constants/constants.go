package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API domains.
const (
	// ProductionDomain is the base URL of the Ads API.
	ProductionDomain = "https://ads-api.twitter.com"

	// SandboxDomain is the base URL of the Ads API sandbox.
	SandboxDomain = "https://ads-api-sandbox.twitter.com"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are opt-in; these apply once enabled.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Async stats job polling.
const (
	// DefaultJobPollInterval is the first wait between job status checks.
	DefaultJobPollInterval = 5 * time.Second

	// MaxJobPollInterval caps the wait between job status checks.
	MaxJobPollInterval = time.Minute

	// DefaultJobPollTimeout bounds the total time spent waiting for a job.
	DefaultJobPollTimeout = 15 * time.Minute
)

// Analytics defaults.
const (
	// DefaultStatsWindow is the span of a stats request without a start time.
	DefaultStatsWindow = 7 * 24 * time.Hour
)

// Logging.
const (
	// RedactedBody replaces bodies of requests to non-API domains in traces.
	RedactedBody = "**OMITTED**"

	// DefaultNATSSubject is the subject trace entries are published on.
	DefaultNATSSubject = "ads.trace"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Display constants.
const (
	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// SecretVisibleChars is the number of trailing characters shown of a masked secret.
	SecretVisibleChars = 4
)
