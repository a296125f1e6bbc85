// Package constants provides shared constants for the capital-longevity application.
package constants

// Numeric constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// StepTolerance absorbs floating point error when matching values to range steps
	StepTolerance = 1e-9

	// MaxRangePoints caps how many values a stepped range may enumerate
	MaxRangePoints = 100000
)

// Input control defaults
const (
	// DefaultCapitalMin is the smallest capital offered by the capital dropdown
	DefaultCapitalMin = 100000.0

	// DefaultCapitalMax is the largest capital offered by the capital dropdown
	DefaultCapitalMax = 500000.0

	// DefaultCapitalStep is the spacing between capital dropdown entries
	DefaultCapitalStep = 1000.0

	// DefaultCapital is the initially selected capital
	DefaultCapital = 250000.0

	// DefaultWithdrawalMin is the smallest withdrawal offered by the withdrawal dropdown
	DefaultWithdrawalMin = 10000.0

	// DefaultWithdrawalMax is the largest withdrawal offered by the withdrawal dropdown
	DefaultWithdrawalMax = 30000.0

	// DefaultWithdrawalStep is the spacing between withdrawal dropdown entries
	DefaultWithdrawalStep = 250.0

	// DefaultWithdrawal is the initially selected annual withdrawal
	DefaultWithdrawal = 22000.0

	// DefaultRatePercent is the initial real rate of return in percent
	DefaultRatePercent = 5.0

	// DefaultRateStep is the granularity of the rate input in percent
	DefaultRateStep = 0.1
)

// Sweep defaults
const (
	// DefaultCapitalSweepStep is the capital spacing used by the capital chart
	DefaultCapitalSweepStep = 5000.0

	// DefaultWithdrawalSweepStep is the withdrawal spacing used by the withdrawal chart
	DefaultWithdrawalSweepStep = 500.0
)

// Display constants
const (
	// InfinitySymbol is shown when capital is never depleted
	InfinitySymbol = "∞"

	// UndefinedDisplay is shown when the formula has no defined value
	UndefinedDisplay = "nan"

	// NoComparison is shown when no delta can be computed
	NoComparison = "–"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default dashboard configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of dashboard configuration
	EnvPrefix = "LONGEVITY"

	// PortEnvVar is the hosting platform variable naming the port to bind
	PortEnvVar = "PORT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultSessionBackend keeps previous results in process memory
	DefaultSessionBackend = "memory"

	// RedisSessionBackend keeps previous results in Redis
	RedisSessionBackend = "redis"

	// DefaultSessionTTL is how long a previous result is remembered
	DefaultSessionTTL = "24h"

	// DefaultRateLimitRequests is the number of API requests allowed per window
	DefaultRateLimitRequests = 120

	// DefaultRateLimitWindow is the refill window of the API rate limiter
	DefaultRateLimitWindow = "1m"

	// SessionCookieName carries the session identifier of a browser
	SessionCookieName = "longevity_session"

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds = 10
)
