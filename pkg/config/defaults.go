package config

import "time"

// Default values for configuration fields.
const (
	// Journal defaults
	DefaultJournalBackend           = "memory"
	DefaultJournalBufferSize        = 1024
	DefaultJournalSQLitePath        = "data/journal.db"
	DefaultJournalSQLiteDriver      = "sqlite"
	DefaultJournalSQLiteMaxConns    = 1
	DefaultJournalSQLiteWALMode     = true
	DefaultJournalSQLiteBusyTimeout = 5 * time.Second
	DefaultRetentionDays            = 30
	DefaultRetentionMaxRecords      = int64(0)
	DefaultRetentionSchedule        = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
)

// DefaultConfig returns a fully populated configuration with all defaults
// applied. This is the configuration used when no file is given: no rules,
// no default rule, journaling disabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
//
// The enable flags (journal.enabled, metrics.enabled, limits.watch) keep
// their zero value false; enabling them is always an explicit choice in
// the file or environment.
func ApplyDefaults(cfg *Config) {
	// Journal defaults
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.BufferSize == 0 {
		cfg.Journal.BufferSize = DefaultJournalBufferSize
	}
	if cfg.Journal.SQLite.Path == "" {
		cfg.Journal.SQLite.Path = DefaultJournalSQLitePath
	}
	if cfg.Journal.SQLite.Driver == "" {
		cfg.Journal.SQLite.Driver = DefaultJournalSQLiteDriver
	}
	if cfg.Journal.SQLite.MaxOpenConns == 0 {
		cfg.Journal.SQLite.MaxOpenConns = DefaultJournalSQLiteMaxConns
	}
	if !cfg.Journal.SQLite.WALMode {
		cfg.Journal.SQLite.WALMode = DefaultJournalSQLiteWALMode
	}
	if cfg.Journal.SQLite.BusyTimeout == 0 {
		cfg.Journal.SQLite.BusyTimeout = DefaultJournalSQLiteBusyTimeout
	}
	if cfg.Journal.Retention.Days == 0 {
		cfg.Journal.Retention.Days = DefaultRetentionDays
	}
	if cfg.Journal.Retention.Schedule == "" {
		cfg.Journal.Retention.Schedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
