// Package config defines the resolved invocation model for the loader CLI.
// It is intentionally small, explicit, and dependency-free: the entrypoint
// assembles a Config from flags and environment fallbacks and passes it
// through the program without additional glue code.
//
// Design goals:
//
//  1. Plain data: a Config carries no handles, so tests can build
//     invocations directly without going through flag parsing.
//  2. Clarity: field names mirror the command-line surface (--csv,
//     --table-id, --mode, ...).
//  3. Minimalism: no third-party config libraries; flag parsing is done by
//     the standard library, with Validate as a separate lint pass.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Mode selects which phases of a run execute.
type Mode string

const (
	// ModeCreate provisions the destination table and stops.
	ModeCreate Mode = "create"
	// ModeUpload appends the source rows to an existing table.
	ModeUpload Mode = "upload"
	// ModeBoth creates the table, then uploads into it.
	ModeBoth Mode = "both"
)

// ParseMode checks a mode string from the command line against the closed
// set of modes.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeCreate, ModeUpload, ModeBoth:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q: want create, upload or both", s)
}

// Creates reports whether the mode includes the table-creation phase.
func (m Mode) Creates() bool { return m == ModeCreate || m == ModeBoth }

// Uploads reports whether the mode includes the upload phase.
func (m Mode) Uploads() bool { return m == ModeUpload || m == ModeBoth }

// Config describes one invocation of the loader.
type Config struct {
	// CSVPath is the source file. Required in every mode; create reads
	// only its header line.
	CSVPath string

	// TableID is the combined destination identifier, up to three dotted
	// segments ([project.][dataset.]table).
	TableID string
	// ProjectID and Dataset fill segments TableID omits. Together with
	// TableName they also address the destination without any TableID.
	ProjectID string
	Dataset   string
	TableName string

	// Mode picks the phases to run.
	Mode Mode
	// Sep is the field separator, exactly one character.
	Sep string
	// Encoding names the source text encoding, e.g. "utf-8-sig".
	Encoding string

	// Credentials is an optional credentials file path for the
	// destination. Empty means ambient discovery.
	Credentials string
	// Replace switches strict create to replace-create.
	Replace bool
	// PrintSQL prints the creation statement and exits without touching
	// the destination.
	PrintSQL bool

	// Backend is the destination kind, e.g. "bigquery".
	Backend string
	// DSN is the connection string consumed by the SQL backends.
	DSN string
	// NullTokens are cell values that load as NULL.
	NullTokens []string

	// MetricsBackend, PushgatewayURL and DatadogAddr configure optional
	// run metrics; see internal/metrics.
	MetricsBackend string
	PushgatewayURL string
	DatadogAddr    string

	// Verbose enables progress logging.
	Verbose bool
}

// Comma returns the separator as the rune handed to the CSV reader. Validate
// guarantees Sep holds exactly one character; an empty Sep falls back to ';'.
func (c Config) Comma() rune {
	if c.Sep == "" {
		return ';'
	}
	r, _ := utf8.DecodeRuneInString(c.Sep)
	return r
}

// SplitNullTokens parses a comma-separated token list from the command line.
// Tokens match cell text exactly, so they are not trimmed; empty segments
// are dropped because the empty cell is always treated as NULL anyway.
func SplitNullTokens(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, ",") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
