// Package logging builds the structured loggers used across Saturn.
//
// # Overview
//
// The logging package configures Go's standard log/slog package:
//   - JSON and logfmt-style text formats for machine consumption
//   - A colored console format for interactive terminals
//   - Configurable minimum level (debug, info, warn, error)
//   - Optional file:line source annotations
//   - Context helpers for carrying resource names and request IDs
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("admission decision",
//	    "resource", "api-key-1",
//	    "decision", "admitted",
//	)
//
//	// Or install as the process-wide default:
//	if err := logging.SetDefault(logging.Config{Level: "debug", Format: "console"}); err != nil {
//	    return err
//	}
//
// # Context Fields
//
// Request-scoped values travel on the context and can be folded into a
// logger at the boundary where they are known:
//
//	ctx = logging.WithResource(ctx, "api-key-1")
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger = logger.With(logging.Fields(ctx)...)
//
// The console format detects whether the output is a terminal and disables
// color when writing to a pipe or file.
package logging
