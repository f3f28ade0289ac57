package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/journal"
	"mercator-hq/saturn/pkg/journal/storage"
	"mercator-hq/saturn/pkg/limits"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

var benchFlags struct {
	resource string
	workers  int
	duration time.Duration
	rate     int
	listen   string
	format   string
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Load test the admission path",
	Long: `Drive synthetic load through the admission path.

The bench command builds a limits manager from the configuration file and
spawns worker goroutines issuing guarded no-op calls against one resource
for the requested duration. It reports admitted/rejected counts and
throughput, which is the quickest way to see how a rule behaves under a
given call pattern before deploying it.

Journaling follows the configuration: with journal.enabled the run writes
real decision records, so 'saturn inspect' works on the result.

Examples:
  # Hammer the default rule as fast as possible for 10 seconds
  saturn bench

  # 8 workers against one resource for a minute
  saturn bench --resource api-key-1 --workers 8 --duration 1m

  # Pace the workers at 200 calls/second overall
  saturn bench --rate 200 --duration 30s

  # Watch admission metrics live while the run is going
  saturn bench --duration 5m --listen 127.0.0.1:9090`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVar(&benchFlags.resource, "resource", "bench", "resource name to issue calls against")
	benchCmd.Flags().IntVar(&benchFlags.workers, "workers", 4, "concurrent workers")
	benchCmd.Flags().DurationVar(&benchFlags.duration, "duration", 10*time.Second, "run duration")
	benchCmd.Flags().IntVar(&benchFlags.rate, "rate", 0, "calls per second across all workers (0 = unthrottled)")
	benchCmd.Flags().StringVar(&benchFlags.listen, "listen", "", "serve Prometheus metrics on this address during the run")
	benchCmd.Flags().StringVar(&benchFlags.format, "format", "text", "output format: text, json")
}

// benchResults is the outcome of one load run.
type benchResults struct {
	Resource   string  `json:"resource"`
	Rule       string  `json:"rule,omitempty"`
	Workers    int     `json:"workers"`
	Duration   float64 `json:"duration_seconds"`
	Calls      int64   `json:"calls"`
	Admitted   int64   `json:"admitted"`
	Rejected   int64   `json:"rejected"`
	Throughput float64 `json:"throughput_per_second"`
	AdmitRate  float64 `json:"admit_rate_percent"`
	Journaled  bool    `json:"journaled"`
	Dropped    int64   `json:"journal_dropped,omitempty"`
}

func runBench(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(benchFlags.format)
	if err != nil {
		return err
	}
	if benchFlags.workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", benchFlags.workers)
	}
	if benchFlags.duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", benchFlags.duration)
	}

	// Load configuration
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Logs go to stderr so the report on stdout stays parseable
	logLevel := cfg.Telemetry.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	if err := logging.SetDefault(logging.Config{
		Level:     logLevel,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Output:    os.Stderr,
	}); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	rules, def := limits.RulesFromConfig(&cfg.Limits)

	// Initialize decision journaling (if enabled)
	var recorder *journal.Recorder
	if cfg.Journal.Enabled {
		var journalStorage journal.Storage
		switch cfg.Journal.Backend {
		case "sqlite":
			sqliteConfig := &storage.SQLiteConfig{
				Path:         cfg.Journal.SQLite.Path,
				Driver:       cfg.Journal.SQLite.Driver,
				MaxOpenConns: cfg.Journal.SQLite.MaxOpenConns,
				WALMode:      cfg.Journal.SQLite.WALMode,
				BusyTimeout:  cfg.Journal.SQLite.BusyTimeout,
			}
			journalStorage, err = storage.NewSQLiteStorage(sqliteConfig)
			if err != nil {
				return cli.NewCommandError("bench", fmt.Errorf("failed to create SQLite storage: %w", err))
			}
		case "memory":
			journalStorage = storage.NewMemoryStorage()
		default:
			return fmt.Errorf("unsupported journal backend: %s", cfg.Journal.Backend)
		}
		defer journalStorage.Close()

		recorder = journal.NewRecorder(journalStorage, &journal.Config{
			Enabled:     true,
			AsyncBuffer: cfg.Journal.BufferSize,
		})
		defer recorder.Close()
	}

	// Serve admission metrics during the run (if requested)
	var metrics *limits.Metrics
	if benchFlags.listen != "" {
		registry := prometheus.NewRegistry()
		metrics = limits.NewMetricsWithRegisterer(registry)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: benchFlags.listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
			}
		}()
		defer srv.Close()
	}

	manager, err := limits.NewManager(&limits.ManagerConfig{
		Rules:   rules,
		Default: def,
		Metrics: metrics,
		Journal: recorder,
	})
	if err != nil {
		return cli.NewCommandError("bench", err)
	}
	defer manager.Close()

	printBenchBanner(cfg)

	results := runLoadDriver(manager)

	if recorder != nil {
		results.Journaled = true
		results.Dropped = recorder.Dropped()
	}
	if rule, ok := manager.Rule(benchFlags.resource); ok {
		results.Rule = rule.String()
	} else if def := manager.DefaultRule(); def != nil {
		results.Rule = def.String() + " (default)"
	}

	return writeBenchReport(os.Stdout, format, results)
}

func printBenchBanner(cfg *config.Config) {
	if benchFlags.format != "text" {
		return
	}
	fmt.Println("Saturn Bench")
	fmt.Println("============")
	fmt.Printf("Config: %s\n", cfgFile)
	fmt.Printf("Resource: %s\n", benchFlags.resource)
	fmt.Printf("Workers: %d\n", benchFlags.workers)
	fmt.Printf("Duration: %s\n", benchFlags.duration)
	if benchFlags.rate > 0 {
		fmt.Printf("Rate: %d call/s\n", benchFlags.rate)
	} else {
		fmt.Println("Rate: unthrottled")
	}
	fmt.Printf("Journal: %s\n", journalSummary(cfg))
	if benchFlags.listen != "" {
		fmt.Printf("Metrics: http://%s/metrics\n", benchFlags.listen)
	}
	fmt.Println()
}

// runLoadDriver spawns the workers and drives guarded calls until the
// duration elapses or a signal arrives.
func runLoadDriver(manager *limits.Manager) *benchResults {
	sigCtx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	ctx, cancel := context.WithTimeout(sigCtx, benchFlags.duration)
	defer cancel()

	var calls, admitted atomic.Int64

	guarded := manager.Guard(benchFlags.resource, func() error { return nil })

	// Pacing ticker shared by all workers; nil means unthrottled
	var pace *time.Ticker
	if benchFlags.rate > 0 {
		pace = time.NewTicker(time.Second / time.Duration(benchFlags.rate))
		defer pace.Stop()
	}

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(benchFlags.duration)

	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < benchFlags.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				if pace != nil {
					select {
					case <-ctx.Done():
						return
					case <-pace.C:
					}
				}
				calls.Add(1)
				if err := guarded(); err == nil {
					admitted.Add(1)
				}
			}
		}()
	}

	// Refresh the bar until the workers stop
	refresh := time.NewTicker(200 * time.Millisecond)
	defer refresh.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-refresh.C:
				progress.Update(calls.Load(), admitted.Load())
			}
		}
	}()

	wg.Wait()
	elapsed := time.Since(start)

	progress.Update(calls.Load(), admitted.Load())
	progress.Finish()

	results := &benchResults{
		Resource: benchFlags.resource,
		Workers:  benchFlags.workers,
		Duration: elapsed.Seconds(),
		Calls:    calls.Load(),
		Admitted: admitted.Load(),
		Rejected: calls.Load() - admitted.Load(),
	}
	if elapsed > 0 {
		results.Throughput = float64(results.Calls) / elapsed.Seconds()
	}
	if results.Calls > 0 {
		results.AdmitRate = float64(results.Admitted) / float64(results.Calls) * 100
	}

	return results
}

func writeBenchReport(w io.Writer, format cli.OutputFormat, results *benchResults) error {
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(w, results)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w, "--------")
	fmt.Fprintf(w, "Calls:       %d total, %d admitted, %d rejected\n",
		results.Calls, results.Admitted, results.Rejected)
	fmt.Fprintf(w, "Duration:    %.1fs\n", results.Duration)
	fmt.Fprintf(w, "Throughput:  %.1f call/s\n", results.Throughput)
	if results.Rule != "" {
		fmt.Fprintf(w, "Rule:        %s\n", results.Rule)
	}
	fmt.Fprintf(w, "Admit rate:  %.1f%%\n", results.AdmitRate)
	if results.Journaled {
		fmt.Fprintln(w)
		if results.Dropped > 0 {
			fmt.Fprintf(w, "Journal: %d decisions dropped (buffer full); raise journal.buffer_size\n", results.Dropped)
		} else {
			fmt.Fprintln(w, "Journal: all decisions recorded")
		}
	}

	return nil
}
