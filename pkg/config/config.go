package config

import "time"

// Config is the root configuration structure for Saturn.
// It contains all configuration sections: the rate limit rule table,
// the decision journal, and telemetry settings.
type Config struct {
	// Limits contains the rate limit rule table and the default rule
	// applied to resources without an explicit entry.
	Limits LimitsConfig `yaml:"limits"`

	// Journal contains configuration for decision journaling including
	// backend selection and retention.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LimitsConfig contains the rate limit rule table.
type LimitsConfig struct {
	// Default is the rule applied to resources without an explicit entry
	// in Resources. When nil, unknown resources are not limited.
	Default *RuleConfig `yaml:"default"`

	// Resources maps resource names to their rate limit rules.
	// Keys are caller-chosen identifiers (e.g., "api-key-1", "tenant:acme").
	Resources map[string]RuleConfig `yaml:"resources"`

	// Watch enables automatic rule reloading when the configuration
	// file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// RuleConfig defines one sliding-window rate limit rule.
type RuleConfig struct {
	// Rate is the maximum number of admitted calls per window.
	// Must be positive.
	Rate int `yaml:"rate"`

	// Period is the window length.
	// Must be positive (e.g., "1s", "1m", "1h").
	Period time.Duration `yaml:"period"`
}

// JournalConfig contains configuration for the decision journal.
type JournalConfig struct {
	// Enabled controls whether admission decisions are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the storage backend for decision records.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// BufferSize is the size of the async write channel buffer.
	// Records are dropped (and counted) when the buffer is full.
	// Default: 1024
	BufferSize int `yaml:"buffer_size"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 1
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain decision records.
	// Records older than this are eligible for deletion.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the Prometheus endpoint is served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address and port for the metrics endpoint.
	// Format: "host:port" (e.g., "127.0.0.1:9090").
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
