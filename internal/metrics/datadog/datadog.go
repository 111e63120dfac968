// Package datadog implements a DogStatsD backend for the metrics package.
//
// It adapts the generic metrics.Backend interface to Datadog's statsd
// protocol: counters become Count metrics, duration observations become
// Histogram metrics, and labels become "key:value" tags. The job label is
// not forwarded per metric; service identity travels once in the global
// tags, the same way the Pushgateway backend carries the job as a grouping
// key instead of a series label.
//
// All Datadog-specific dependencies stay in this package so the rest of the
// program depends only on the metrics.Backend abstraction.
package datadog

import (
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/bttex/bq-cli/internal/metrics"
)

// Config holds DogStatsD backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or
	// "unix:///path/to/socket".
	Addr string

	// Namespace is an optional prefix added to all metric names, e.g. "bqcli.".
	Namespace string

	// GlobalTags are tags applied to every metric emitted by this backend,
	// e.g. []string{"env:prod", "service:bq-cli"}.
	GlobalTags []string
}

// Backend is a DogStatsD implementation of metrics.Backend. A single
// instance is installed for the process lifetime via metrics.SetBackend.
type Backend struct {
	client *statsd.Client
}

// Ensure Backend satisfies metrics.Backend at compile time.
var _ metrics.Backend = (*Backend)(nil)

// NewBackend constructs a DogStatsD metrics backend. The Addr field is
// required; when empty, NewBackend returns an error.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}

	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}
	return &Backend{client: c}, nil
}

// IncCounter implements metrics.Backend using a Count metric. Send errors
// are dropped; statsd is fire-and-forget and a dead agent must not fail a
// load.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	// DogStatsD counts are integral; the loader only emits whole deltas.
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

// ObserveHistogram implements metrics.Backend using a Histogram metric.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	_ = b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush implements metrics.Backend by closing the client, which flushes any
// buffered datagrams. The backend is flushed exactly once, at process exit.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// labelsToTags converts labels to "key:value" tags, sorted for stable
// output. The job label is skipped; see the package comment.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		if k == "job" {
			continue
		}
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
