// Package telemetry provides observability for Saturn.
//
// # Overview
//
// The telemetry package holds the ambient observability concerns that sit
// beside the admission path: structured logging and its level/format
// plumbing. Admission metrics themselves live with the code they observe:
// the limits package holds the Prometheus collectors, and the saturn bench
// command serves the /metrics endpoint that exposes them.
//
// # Components
//
//   - logging: Structured slog logging with text, JSON, and colorized
//     terminal handlers
//
// # Usage
//
//	logging.SetDefault(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: os.Stderr,
//	})
//
//	slog.Info("admission checked", "resource", "payments-api", "decision", "admitted")
package telemetry
