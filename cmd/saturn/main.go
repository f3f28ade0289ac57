// Saturn is a sliding-window call rate limiter with a decision journal.
//
// The saturn command wraps the library packages with operational tooling:
//   - Config validation with per-field error reporting
//   - An in-process load driver for sizing rate limit rules
//   - Decision journal queries for admission forensics
//
// Usage:
//
//	# Validate a configuration file
//	saturn validate --config /path/to/config.yaml
//
//	# Show version information
//	saturn version
//
//	# Drive load through the admission path for 30 seconds
//	saturn bench --workers 8 --duration 30s
//
//	# Query recent rejections from the decision journal
//	saturn inspect --decision rejected --since 1h
//
// For complete documentation, see: https://github.com/mercator-hq/saturn
package main

func main() {
	Execute()
}
