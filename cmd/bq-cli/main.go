package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bttex/bq-cli/internal/config"
	"github.com/bttex/bq-cli/internal/dataset"
	"github.com/bttex/bq-cli/internal/metrics"
	"github.com/bttex/bq-cli/internal/metrics/datadog"
	"github.com/bttex/bq-cli/internal/metrics/prompush"

	// register all backends with the warehouse factory.
	// flags specify which to use but we build in support for all of them.
	_ "github.com/bttex/bq-cli/internal/warehouse/all"
)

// jobName labels every metric emitted by a run.
const jobName = "bq-cli"

// main is the entry point for the loader binary. It assembles the invocation
// config from flags and environment fallbacks, lints it, optionally
// initializes a metrics backend, and executes the run.
func main() {
	var (
		csvPath     string
		tableID     string
		projectID   string
		datasetName string
		tableName   string
		modeFlg     string
		sepFlg      string
		encodingFlg string
		credentials string
		replace     bool
		printSQL    bool

		backendFlg    string
		dsnFlg        string
		nullTokensFlg string

		metricsBackendFlg string
		pushGatewayURLFlg string
		datadogAddrFlg    string
	)

	flag.StringVar(&csvPath, "csv", "", "path to the source CSV file (required)")
	flag.StringVar(&csvPath, "c", "", "shorthand for --csv")
	flag.StringVar(&tableID, "table-id", "", "destination table as [project.]dataset.table")
	flag.StringVar(&tableID, "t", "", "shorthand for --table-id")
	flag.StringVar(&projectID, "project-id", "", "project for identifiers that omit it (default: the client's ambient project)")
	flag.StringVar(&datasetName, "dataset", "", "dataset, when --table-id is omitted or carries no dataset segment")
	flag.StringVar(&tableName, "table-name", "", "table name, when --table-id is omitted")
	flag.StringVar(&modeFlg, "mode", "both", "phases to run: create, upload or both")
	flag.StringVar(&sepFlg, "sep", ";", "CSV field separator (one character)")
	flag.StringVar(&encodingFlg, "encoding", "utf-8-sig", "source text encoding")
	flag.StringVar(&credentials, "credentials", "", "credentials file for the destination (default: ambient discovery)")
	flag.BoolVar(&replace, "replace", false, "replace the table instead of strict create")
	flag.BoolVar(&printSQL, "print-sql", false, "print the creation statement and exit without touching the destination")

	flag.StringVar(&backendFlg, "backend", "", "destination backend: bigquery, postgres or mssql (overrides env WAREHOUSE_BACKEND; default bigquery)")
	flag.StringVar(&dsnFlg, "dsn", "", "connection string for the SQL backends (overrides env WAREHOUSE_DSN)")
	flag.StringVar(&nullTokensFlg, "null-tokens", strings.Join(dataset.DefaultNullTokens, ","), "comma-separated cell values that load as NULL")

	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (e.g. pushgateway, datadog, none; overrides env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&datadogAddrFlg, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg := config.Config{
		CSVPath:     csvPath,
		TableID:     tableID,
		ProjectID:   projectID,
		Dataset:     datasetName,
		TableName:   tableName,
		Mode:        config.Mode(modeFlg),
		Sep:         sepFlg,
		Encoding:    encodingFlg,
		Credentials: credentials,
		Replace:     replace,
		PrintSQL:    printSQL,

		Backend:    pick(backendFlg, os.Getenv("WAREHOUSE_BACKEND"), "bigquery"),
		DSN:        pick(dsnFlg, os.Getenv("WAREHOUSE_DSN")),
		NullTokens: config.SplitNullTokens(nullTokensFlg),

		MetricsBackend: pick(metricsBackendFlg, os.Getenv("METRICS_BACKEND"), "none"),
		PushgatewayURL: pick(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		DatadogAddr:    pick(datadogAddrFlg, os.Getenv("DD_AGENT_ADDR"), "127.0.0.1:8125"),

		Verbose: *verbose,
	}

	// Lint the invocation. Errors block with the usage exit code; warnings
	// only print.
	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: --%s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		os.Exit(exitUsage)
	}

	initMetrics(cfg)

	start := time.Now()
	code := run(context.Background(), cfg)
	if cfg.Verbose && code == exitOK {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}

	// Flush explicitly: os.Exit would skip a deferred flush.
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
	os.Exit(code)
}

// initMetrics decides the metrics backend from the config. Failures never
// block a run; the no-op backend stays installed.
func initMetrics(cfg config.Config) {
	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(jobName, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%v url=%v job_name=%v", cfg.MetricsBackend, cfg.PushgatewayURL, jobName)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  "bqcli.",
			GlobalTags: []string{"service:" + jobName},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%v addr=%v job_name=%v", cfg.MetricsBackend, cfg.DatadogAddr, jobName)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains
		if cfg.Verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.MetricsBackend)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}
}

// pick chooses the first non-empty value; it backs the flag → env → default
// resolution for flags that have an environment fallback.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
