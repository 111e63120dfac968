// Package warehouse defines the destination-side contract of the loader and
// a small factory registry for concrete backends.
//
// A backend (BigQuery, Postgres, MSSQL) registers itself under a kind string
// in an init function; importing internal/warehouse/all pulls every backend
// into the binary. The rest of the program depends only on Client and on the
// sentinel errors in this package, never on a driver.
package warehouse

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bttex/bq-cli/internal/dataset"
	"github.com/bttex/bq-cli/internal/tableref"
)

// Config carries everything a backend factory may need. Fields not relevant
// to a backend are ignored by it.
type Config struct {
	// Kind selects the backend, e.g. "bigquery".
	Kind string
	// Project is the explicit destination project (BigQuery) or database
	// (SQL backends). Empty means the backend's ambient default.
	Project string
	// Credentials is a path to a credentials file. Empty means ambient
	// credential discovery.
	Credentials string
	// DSN is the connection string for SQL backends.
	DSN string
}

// Client is a connected destination. All blocking calls take a context; none
// of them retries.
type Client interface {
	// Project reports the effective default project the client is bound
	// to. It backs identifier resolution when --project-id is absent.
	Project() string

	// BuildCreateTable renders the creation statement for the backend's
	// dialect, declaring every column with the universal text type. It is
	// purely local; failures here never involve the destination.
	BuildCreateTable(ref tableref.Ref, columns []string, replace bool) (string, error)

	// CreateTable submits a statement produced by BuildCreateTable.
	CreateTable(ctx context.Context, stmt string) error

	// TableColumns performs the existence-and-describe call: it returns
	// the destination table's column names in table order, or an error
	// wrapping ErrNotFound when the table does not exist.
	TableColumns(ctx context.Context, ref tableref.Ref) ([]string, error)

	// Append bulk-appends an aligned dataset and reports the number of
	// rows the destination accepted. Rejections caused by the submitted
	// data wrap ErrBadRequest; other failures are plain errors.
	Append(ctx context.Context, ref tableref.Ref, ds dataset.Dataset) (int64, error)

	Close() error
}

// Factory builds a Client from a Config.
type Factory func(ctx context.Context, cfg Config) (Client, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under the given kind. Re-registering a
// kind overrides the previous factory (useful for tests).
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New constructs a Client for cfg.Kind.
func New(ctx context.Context, cfg Config) (Client, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported warehouse.kind=%s (have: %v)", cfg.Kind, ListKinds())
	}
	return fn(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted, as a snapshot copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
