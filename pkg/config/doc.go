// Package config provides configuration management for Saturn.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SATURN_SECTION_FIELD.
// For example:
//
//   - SATURN_JOURNAL_BACKEND overrides journal.backend
//   - SATURN_LIMITS_DEFAULT_RATE overrides limits.default.rate
//   - SATURN_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// The Watcher reacts to changes of the configuration file and invokes a
// reload callback after a debounce interval. A failed reload keeps the
// previous configuration active:
//
//	watcher, err := config.NewWatcher(&config.WatcherConfig{Path: path}, logger)
//	if err != nil {
//	    return err
//	}
//	go watcher.Watch(ctx, func() error {
//	    cfg, err := config.LoadConfigWithEnvOverrides(path)
//	    if err != nil {
//	        return err
//	    }
//	    return manager.Reload(limits.RulesFromConfig(&cfg.Limits))
//	})
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Rule checks (rate and period must be positive)
//   - Enum validation (journal backend, logging level and format)
//   - Format validation (cron schedule, metrics listen address)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - limits.resources.api-key-1.rate: rate must be positive, got 0
//	  - journal.backend: unsupported backend "postgres" (options: memory, sqlite)
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	limits:
//	  default:
//	    rate: 100
//	    period: "1m"
//	  resources:
//	    api.export:
//	      rate: 5
//	      period: "1h"
//
//	journal:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/journal.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
