package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/journal"
	"mercator-hq/saturn/pkg/journal/storage"
)

var inspectFlags struct {
	backend   string
	resource  string
	decision  string
	since     time.Duration
	timeRange string
	limit     int
	offset    int
	order     string
	format    string
	output    string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Query the decision journal",
	Long: `Query recorded admission decisions from the journal backend.

The journal keeps one record per admission check: the resource, the
decision, the window occupancy at the time, and the retry hint for
rejections. The inspect command filters and prints those records, newest
first by default.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-21T00:00:00Z/2026-08-22T00:00:00Z"

Examples:
  # Last 50 decisions
  saturn inspect --limit 50

  # Rejections for one resource over the past hour
  saturn inspect --resource api-key-1 --decision rejected --since 1h

  # Specific time range, oldest first
  saturn inspect --time-range "2026-08-21T00:00:00Z/2026-08-22T00:00:00Z" --order asc

  # Export to JSON file
  saturn inspect --format json --output decisions.json`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
	inspectCmd.Flags().StringVar(&inspectFlags.resource, "resource", "", "filter by resource name")
	inspectCmd.Flags().StringVar(&inspectFlags.decision, "decision", "", "filter by decision (admitted, rejected)")
	inspectCmd.Flags().DurationVar(&inspectFlags.since, "since", 0, "only decisions newer than this (e.g. 1h, 30m)")
	inspectCmd.Flags().StringVar(&inspectFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	inspectCmd.Flags().IntVar(&inspectFlags.limit, "limit", 20, "max results")
	inspectCmd.Flags().IntVar(&inspectFlags.offset, "offset", 0, "pagination offset")
	inspectCmd.Flags().StringVar(&inspectFlags.order, "order", "desc", "sort by timestamp: asc, desc")
	inspectCmd.Flags().StringVar(&inspectFlags.format, "format", "text", "output format: text, json")
	inspectCmd.Flags().StringVarP(&inspectFlags.output, "output", "o", "", "output file (default: stdout)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(inspectFlags.format)
	if err != nil {
		return err
	}

	query, err := buildInspectQuery(time.Now())
	if err != nil {
		return err
	}

	// Load config to get backend settings
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Determine backend from flag or config
	backendType := inspectFlags.backend
	if backendType == "" {
		backendType = cfg.Journal.Backend
	}

	var store journal.Storage
	switch backendType {
	case "sqlite":
		sqliteConfig := &storage.SQLiteConfig{
			Path:         cfg.Journal.SQLite.Path,
			Driver:       cfg.Journal.SQLite.Driver,
			MaxOpenConns: cfg.Journal.SQLite.MaxOpenConns,
			WALMode:      cfg.Journal.SQLite.WALMode,
			BusyTimeout:  cfg.Journal.SQLite.BusyTimeout,
		}
		store, err = storage.NewSQLiteStorage(sqliteConfig)
		if err != nil {
			return cli.NewCommandError("inspect", fmt.Errorf("failed to create SQLite storage: %w", err))
		}
	case "memory":
		store = storage.NewMemoryStorage()
	default:
		return fmt.Errorf("unsupported backend: %s (supported: sqlite, memory)", backendType)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("inspect", fmt.Errorf("query failed: %w", err))
	}

	// Total matches regardless of limit/offset, for the pagination footer
	countQuery := *query
	countQuery.Limit = 0
	countQuery.Offset = 0
	total, err := store.Count(ctx, &countQuery)
	if err != nil {
		return cli.NewCommandError("inspect", fmt.Errorf("count failed: %w", err))
	}

	var output *os.File
	if inspectFlags.output != "" {
		output, err = os.Create(inspectFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if format == cli.FormatJSON {
		return writeInspectJSON(output, records, total)
	}
	return writeInspectText(output, records, query, total)
}

// buildInspectQuery translates the inspect flags into a journal query.
// now anchors the --since window.
func buildInspectQuery(now time.Time) (*journal.Query, error) {
	switch inspectFlags.decision {
	case "", "admitted", "rejected":
	default:
		return nil, fmt.Errorf("invalid decision %q (options: admitted, rejected)", inspectFlags.decision)
	}
	switch inspectFlags.order {
	case "", "asc", "desc":
	default:
		return nil, fmt.Errorf("invalid order %q (options: asc, desc)", inspectFlags.order)
	}
	if inspectFlags.since < 0 {
		return nil, fmt.Errorf("since must not be negative, got %v", inspectFlags.since)
	}
	if inspectFlags.since > 0 && inspectFlags.timeRange != "" {
		return nil, fmt.Errorf("--since and --time-range are mutually exclusive")
	}

	query := &journal.Query{
		Resource:  inspectFlags.resource,
		Decision:  inspectFlags.decision,
		Limit:     inspectFlags.limit,
		Offset:    inspectFlags.offset,
		SortOrder: inspectFlags.order,
	}

	if inspectFlags.since > 0 {
		start := now.Add(-inspectFlags.since)
		query.StartTime = &start
	}

	if inspectFlags.timeRange != "" {
		parts := strings.Split(inspectFlags.timeRange, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time range format (expected: start/end)")
		}

		startTime, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		query.StartTime = &startTime

		endTime, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		query.EndTime = &endTime
	}

	return query, nil
}

func writeInspectText(w io.Writer, records []*journal.Record, query *journal.Query, total int64) error {
	fmt.Fprintln(w, "Querying decision journal...")
	fmt.Fprintln(w)

	if query.StartTime != nil && query.EndTime != nil {
		fmt.Fprintf(w, "Time range: %s to %s\n",
			query.StartTime.Format(time.RFC3339),
			query.EndTime.Format(time.RFC3339))
	} else if query.StartTime != nil {
		fmt.Fprintf(w, "Since: %s\n", query.StartTime.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Matching records: %d\n", total)
	fmt.Fprintln(w)

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Record ID: %s\n", record.ID)
		fmt.Fprintf(w, "Timestamp: %s\n", record.Timestamp.Format(time.RFC3339Nano))
		fmt.Fprintf(w, "Resource: %s\n", record.Resource)
		fmt.Fprintf(w, "Decision: %s\n", record.Decision)
		if record.Rate > 0 {
			fmt.Fprintf(w, "Window: %d/%d used (%d/%v rule)\n",
				record.Occupancy, record.Rate, record.Rate, record.Period)
		} else {
			fmt.Fprintln(w, "Window: unlimited")
		}
		if record.RetryAfter > 0 {
			fmt.Fprintf(w, "Retry After: %v\n", record.RetryAfter)
		}
	}

	if int64(len(records)) < total {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Showing %d of %d records.\n", len(records), total)
		fmt.Fprintf(w, "Use --limit and --offset for pagination.\n")
	}

	return nil
}

func writeInspectJSON(w io.Writer, records []*journal.Record, total int64) error {
	result := map[string]interface{}{
		"total_records": total,
		"returned":      len(records),
		"records":       records,
	}

	formatter := &cli.JSONFormatter{Indent: true}
	return formatter.FormatTo(w, result)
}
