// Package constants provides shared configuration values used across the syslogdash application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "syslogdash.yaml"

	// DefaultAPIAddress is the default collector address for client connections
	DefaultAPIAddress = "http://127.0.0.1:8080"

	// EnvAPIAddress overrides api.url when set
	EnvAPIAddress = "SYSLOGDASH_ADDR"

	// DefaultDemoAddress is the listen address for the built-in demo collector
	DefaultDemoAddress = "127.0.0.1:8514"
)

// Timeout and duration defaults
const (
	// DefaultRequestTimeout is the default timeout for API requests
	DefaultRequestTimeout = 10 * time.Second

	// ReconnectDelay is the wait between a stream close and the next dial
	ReconnectDelay = 3 * time.Second

	// StatsInterval is the period of the stats poll
	StatsInterval = 5 * time.Second

	// DefaultAutoRefresh is the default auto-refresh period
	DefaultAutoRefresh = 10 * time.Second

	// SearchDebounce is the quiet period before a search edit is applied
	SearchDebounce = 300 * time.Millisecond

	// NotificationDuration is how long a transient notification stays visible
	NotificationDuration = 3 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of the demo collector and logger
	DefaultShutdownTimeout = 2 * time.Second
)

// Log window configuration
const (
	// MaxRetainedEntries is the number of entries the dashboard keeps in memory
	MaxRetainedEntries = 1000

	// PageSize is the number of entries shown per page
	PageSize = 50

	// DefaultInitialLimit is the number of entries requested on first load
	DefaultInitialLimit = 100

	// MaxFetchLimit is the largest limit the collector honours
	MaxFetchLimit = 1000

	// MaxStoredEntries is the demo collector's storage cap; it drops the oldest
	// half when the cap is reached
	MaxStoredEntries = 10000

	// MaxRecentSources is the number of source addresses reported in stats
	MaxRecentSources = 10

	// DefaultSubscriptionBuffer is the channel size for each stream subscriber
	DefaultSubscriptionBuffer = 100
)

// AutoRefreshPresets are the intervals cycled by the +/- keys; zero disables.
var AutoRefreshPresets = []time.Duration{
	0,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

// ExportTimestampLayout is the CSV timestamp format (ISO 8601, millisecond, UTC)
const ExportTimestampLayout = "2006-01-02T15:04:05.000Z"
