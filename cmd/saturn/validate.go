package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults and environment overrides,
and validate the result.

All field errors are collected and reported together, so one pass shows
everything that needs fixing. On success the command prints a summary of
the configured rate limit rules and the journal and telemetry settings.

Examples:
  # Validate the default config file
  saturn validate

  # Validate a specific file
  saturn validate --config /etc/saturn/config.yaml

  # Machine-readable report
  saturn validate --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// validationReport is the machine-readable result of saturn validate.
type validationReport struct {
	Valid  bool              `json:"valid"`
	File   string            `json:"file"`
	Errors []fieldErrorEntry `json:"errors,omitempty"`

	Resources map[string]string `json:"resources,omitempty"`
	Default   string            `json:"default,omitempty"`
	Watch     bool              `json:"watch,omitempty"`
	Journal   string            `json:"journal,omitempty"`
	Metrics   string            `json:"metrics,omitempty"`
	Logging   string            `json:"logging,omitempty"`
}

type fieldErrorEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			if rerr := reportInvalid(os.Stdout, format, verr); rerr != nil {
				return rerr
			}
			return cli.NewConfigError("", fmt.Sprintf("%d validation errors", len(verr.Errors)))
		}
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	return reportValid(os.Stdout, format, cfg)
}

func reportInvalid(w io.Writer, format cli.OutputFormat, verr config.ValidationError) error {
	if format == cli.FormatJSON {
		report := validationReport{
			Valid: false,
			File:  cfgFile,
		}
		for _, fe := range verr.Errors {
			report.Errors = append(report.Errors, fieldErrorEntry{
				Field:   fe.Field,
				Message: fe.Message,
			})
		}
		return cli.NewFormatter(format).FormatTo(w, report)
	}

	fmt.Fprintf(w, "Validating %s...\n", cfgFile)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✗ Configuration invalid (%d errors):\n", len(verr.Errors))
	for _, fe := range verr.Errors {
		fmt.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message)
	}
	return nil
}

func reportValid(w io.Writer, format cli.OutputFormat, cfg *config.Config) error {
	if format == cli.FormatJSON {
		report := validationReport{
			Valid:     true,
			File:      cfgFile,
			Resources: make(map[string]string, len(cfg.Limits.Resources)),
			Watch:     cfg.Limits.Watch,
			Journal:   journalSummary(cfg),
			Metrics:   metricsSummary(cfg),
			Logging:   fmt.Sprintf("%s/%s", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format),
		}
		for name, rule := range cfg.Limits.Resources {
			report.Resources[name] = fmt.Sprintf("%d/%v", rule.Rate, rule.Period)
		}
		if cfg.Limits.Default != nil {
			report.Default = fmt.Sprintf("%d/%v", cfg.Limits.Default.Rate, cfg.Limits.Default.Period)
		}
		return cli.NewFormatter(format).FormatTo(w, report)
	}

	fmt.Fprintf(w, "Validating %s...\n", cfgFile)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "✓ Configuration valid")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Limits:")
	if cfg.Limits.Default != nil {
		fmt.Fprintf(w, "  default: %d/%v\n", cfg.Limits.Default.Rate, cfg.Limits.Default.Period)
	} else {
		fmt.Fprintln(w, "  default: none (unknown resources are unlimited)")
	}

	names := make([]string, 0, len(cfg.Limits.Resources))
	for name := range cfg.Limits.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rule := cfg.Limits.Resources[name]
		fmt.Fprintf(w, "  %s: %d/%v\n", name, rule.Rate, rule.Period)
	}
	fmt.Fprintf(w, "  (%d resources, watch %s)\n", len(names), enabledWord(cfg.Limits.Watch))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Journal: %s\n", journalSummary(cfg))
	fmt.Fprintf(w, "Metrics: %s\n", metricsSummary(cfg))
	fmt.Fprintf(w, "Logging: %s/%s\n", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)

	return nil
}

func journalSummary(cfg *config.Config) string {
	if !cfg.Journal.Enabled {
		return "disabled"
	}
	if cfg.Journal.Backend == "sqlite" {
		return fmt.Sprintf("enabled (sqlite, %s)", cfg.Journal.SQLite.Path)
	}
	return fmt.Sprintf("enabled (%s)", cfg.Journal.Backend)
}

func metricsSummary(cfg *config.Config) string {
	if !cfg.Telemetry.Metrics.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("enabled (%s%s)", cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
}

func enabledWord(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
