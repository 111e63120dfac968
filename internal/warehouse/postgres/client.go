// Package postgres implements a Postgres-backed warehouse.Client using pgx v5.
// The project segment of a table identifier maps onto the connected database:
// Postgres statements cannot cross databases, so references naming a different
// project than the connection's database are rejected up front. Appends go
// through the native COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bttex/bq-cli/internal/dataset"
	gddl "github.com/bttex/bq-cli/internal/ddl"
	"github.com/bttex/bq-cli/internal/tableref"
	"github.com/bttex/bq-cli/internal/warehouse"
	pgddl "github.com/bttex/bq-cli/internal/warehouse/postgres/ddl"
)

// pgConn is the subset of *pgx.Conn the client uses. The seam allows
// hermetic tests with a fake connection.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close(ctx context.Context) error
}

// connect is a test hook that points to pgx.Connect by default.
var connect = func(ctx context.Context, dsn string) (pgConn, error) {
	return pgx.Connect(ctx, dsn)
}

// Client is a Postgres-backed warehouse client.
type Client struct {
	conn     pgConn
	database string
}

// Ensure Client satisfies warehouse.Client at compile time.
var _ warehouse.Client = (*Client)(nil)

// init registers the "postgres" backend with the warehouse factory.
func init() {
	warehouse.Register("postgres", New)
}

// New connects to the database named by cfg.DSN and resolves the connected
// database name, which serves as this backend's ambient project.
func New(ctx context.Context, cfg warehouse.Config) (warehouse.Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: dsn is required (set --dsn or WAREHOUSE_DSN)")
	}
	conn, err := connect(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	var database string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("postgres: resolve database: %w", err)
	}
	return &Client{conn: conn, database: database}, nil
}

// Project returns the connected database name.
func (c *Client) Project() string { return c.database }

// checkRef rejects references that address a database other than the one the
// client is connected to.
func (c *Client) checkRef(ref tableref.Ref) error {
	if ref.Project != c.database {
		return fmt.Errorf("postgres: project %q does not match connected database %q", ref.Project, c.database)
	}
	return nil
}

// BuildCreateTable renders the CREATE TABLE statement for the Postgres
// dialect. The statement addresses schema.table only, so the reference's
// project must match the connected database for a statement to exist at all.
func (c *Client) BuildCreateTable(ref tableref.Ref, columns []string, replace bool) (string, error) {
	if err := c.checkRef(ref); err != nil {
		return "", err
	}
	def := gddl.TableDef{FQN: ref.Dataset + "." + ref.Table, Columns: columns}
	return pgddl.BuildCreateTableSQL(def, replace)
}

// CreateTable executes the statement under the simple query protocol so that
// replace statements, which carry a DROP and a CREATE, run as one batch.
func (c *Client) CreateTable(ctx context.Context, stmt string) error {
	if _, err := c.conn.Exec(ctx, stmt, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// TableColumns returns the table's column names in ordinal order. Existence
// is probed through to_regclass so a missing table is distinguishable from an
// empty result.
func (c *Client) TableColumns(ctx context.Context, ref tableref.Ref) ([]string, error) {
	if err := c.checkRef(ref); err != nil {
		return nil, err
	}

	var reg *string
	if err := c.conn.QueryRow(ctx, "SELECT to_regclass($1)::text", pgFQN(ref)).Scan(&reg); err != nil {
		return nil, fmt.Errorf("postgres: describe %s: %w", ref.FQN(), err)
	}
	if reg == nil {
		return nil, fmt.Errorf("postgres: table %s: %w", ref.FQN(), warehouse.ErrNotFound)
	}

	const q = `SELECT coalesce(array_agg(column_name::text ORDER BY ordinal_position), '{}')
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2`
	var cols []string
	if err := c.conn.QueryRow(ctx, q, ref.Dataset, ref.Table).Scan(&cols); err != nil {
		return nil, fmt.Errorf("postgres: describe %s: %w", ref.FQN(), err)
	}
	return cols, nil
}

// Append bulk-copies the dataset into the target table via COPY FROM.
func (c *Client) Append(ctx context.Context, ref tableref.Ref, ds dataset.Dataset) (int64, error) {
	if err := c.checkRef(ref); err != nil {
		return 0, err
	}
	if len(ds.Rows) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		row := make([]any, len(ds.Columns))
		for i, col := range ds.Columns {
			row[i] = r[col]
		}
		rows = append(rows, row)
	}

	n, err := c.conn.CopyFrom(ctx, pgx.Identifier{ref.Dataset, ref.Table}, ds.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, classifyAppend(ref, err)
	}
	return n, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close(context.Background()) }

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN renders the schema-qualified name with each segment quoted, in the
// form to_regclass expects.
func pgFQN(ref tableref.Ref) string {
	return pgIdent(ref.Dataset) + "." + pgIdent(ref.Table)
}

// isBadRequest reports whether err is the server rejecting the data or the
// request shape itself: data exceptions (class 22), integrity constraint
// violations (class 23), or an undefined column (42703).
func isBadRequest(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23") {
		return true
	}
	return pgErr.Code == "42703"
}

// classifyAppend wraps a COPY failure so callers can split invalid-request
// rejections from other errors with errors.Is.
func classifyAppend(ref tableref.Ref, err error) error {
	if isBadRequest(err) {
		return fmt.Errorf("postgres: append to %s: %w: %w", ref.FQN(), warehouse.ErrBadRequest, err)
	}
	return fmt.Errorf("postgres: append to %s: %w", ref.FQN(), err)
}
