// Package config defines the resolved invocation model for the loader CLI.
//
// This file adds a lightweight linter/validator for Config values. It
// performs static checks over an assembled Config and returns a list of
// issues (errors and warnings) that callers can surface in the CLI or tests.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Config.
//
// Path names the flag the finding is about (e.g. "csv", "sep"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at --%s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation / linting of a Config.
//
// It deliberately stops at usage-level checks. Whether the destination
// accepts the DSN, or the identifier resolves against the client's ambient
// project, is decided later with its own failure signal, so those conditions
// surface here as warnings at most.
//
// Example:
//
//	issues := config.Validate(cfg)
//	for _, iss := range issues {
//	    fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func Validate(c Config) []Issue {
	var issues []Issue

	issues = append(issues, validateSource(c)...)
	issues = append(issues, validateFormat(c)...)
	issues = append(issues, validateDestination(c)...)
	issues = append(issues, validateMetrics(c)...)

	return issues
}

// validateSource validates the source-file settings.
func validateSource(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.CSVPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "csv",
			Message:  "csv path must not be empty; every mode reads the source file",
		})
	}
	if strings.TrimSpace(c.Encoding) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "encoding",
			Message:  "no encoding given; the source will be read as plain UTF-8",
		})
	}

	return issues
}

// validateFormat validates the mode and parsing settings.
func validateFormat(c Config) []Issue {
	var issues []Issue

	if _, err := ParseMode(string(c.Mode)); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mode",
			Message:  err.Error(),
		})
	}
	if utf8.RuneCountInString(c.Sep) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sep",
			Message:  fmt.Sprintf("separator %q must be exactly one character", c.Sep),
		})
	}
	if c.TableID != "" && c.TableName != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "table-name",
			Message:  "table-name is ignored when table-id is given",
		})
	}

	return issues
}

// validateDestination validates the backend selection and its inputs.
func validateDestination(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Backend) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "backend",
			Message:  "backend must not be empty",
		})
		return issues
	}

	// Known backend kinds. Unknown kinds are warnings (for forward
	// compatibility); the registry rejects them with its own message.
	known := map[string]struct{}{
		"bigquery": {},
		"postgres": {},
		"mssql":    {},
	}
	if _, ok := known[c.Backend]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "backend",
			Message:  fmt.Sprintf("unknown backend kind %q; ensure a matching backend is registered", c.Backend),
		})
	}

	// Kind-specific hints. Client construction enforces these for real;
	// the lint only points at the fix earlier.
	switch c.Backend {
	case "postgres", "mssql":
		if strings.TrimSpace(c.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "dsn",
				Message:  fmt.Sprintf("the %s backend needs a connection string; set --dsn or WAREHOUSE_DSN", c.Backend),
			})
		}
		if c.Credentials != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "credentials",
				Message:  fmt.Sprintf("credentials file is ignored by the %s backend", c.Backend),
			})
		}
	case "bigquery":
		if c.DSN != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "dsn",
				Message:  "dsn is ignored by the bigquery backend",
			})
		}
	}

	return issues
}

// validateMetrics validates the optional metrics settings.
func validateMetrics(c Config) []Issue {
	var issues []Issue

	switch c.MetricsBackend {
	case "", "none":
		// metrics disabled; nothing to check.
	case "pushgateway":
		if strings.TrimSpace(c.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "pushgateway-url",
				Message:  "no Pushgateway URL; metrics will be disabled",
			})
		}
	case "datadog":
		if strings.TrimSpace(c.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "datadog-addr",
				Message:  "no DogStatsD address; metrics will be disabled",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics-backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", c.MetricsBackend),
		})
	}

	return issues
}
