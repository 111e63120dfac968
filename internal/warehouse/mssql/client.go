// Package mssql implements a SQL Server-backed warehouse.Client using
// go-mssqldb. SQL Server addresses tables across databases natively, so the
// project segment maps onto the database name and every statement uses the
// three-part [database].[schema].[table] form. Appends go through the
// driver's bulk copy API inside a single transaction.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/bttex/bq-cli/internal/dataset"
	gddl "github.com/bttex/bq-cli/internal/ddl"
	"github.com/bttex/bq-cli/internal/tableref"
	"github.com/bttex/bq-cli/internal/warehouse"
	msddl "github.com/bttex/bq-cli/internal/warehouse/mssql/ddl"
)

// Client is a SQL Server-backed warehouse client.
type Client struct {
	db       *sql.DB
	database string
}

// Ensure Client satisfies warehouse.Client at compile time.
var _ warehouse.Client = (*Client)(nil)

// init registers the "mssql" backend with the warehouse factory.
func init() {
	warehouse.Register("mssql", New)
}

// New validates and opens the DSN, pings the server, and resolves the
// connected database, which serves as this backend's ambient project.
func New(ctx context.Context, cfg warehouse.Config) (warehouse.Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mssql: dsn is required (set --dsn or WAREHOUSE_DSN)")
	}
	// Validate the DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql: dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	var database string
	if err := db.QueryRowContext(ctx, "SELECT DB_NAME()").Scan(&database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: resolve database: %w", err)
	}
	return &Client{db: db, database: database}, nil
}

// Project returns the connected database name.
func (c *Client) Project() string { return c.database }

// BuildCreateTable renders the CREATE TABLE statement for the SQL Server
// dialect. It never contacts the server.
func (c *Client) BuildCreateTable(ref tableref.Ref, columns []string, replace bool) (string, error) {
	return msddl.BuildCreateTableSQL(gddl.TableDef{FQN: ref.FQN(), Columns: columns}, replace)
}

// CreateTable executes the statement as a single T-SQL batch.
func (c *Client) CreateTable(ctx context.Context, stmt string) error {
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: create table: %w", err)
	}
	return nil
}

// TableColumns returns the table's column names in ordinal order. Existence
// is probed through OBJECT_ID so a missing table is distinguishable from an
// empty result.
func (c *Client) TableColumns(ctx context.Context, ref tableref.Ref) ([]string, error) {
	var objectID sql.NullInt64
	if err := c.db.QueryRowContext(ctx, "SELECT OBJECT_ID(@p1)", msFQN(ref)).Scan(&objectID); err != nil {
		return nil, fmt.Errorf("mssql: describe %s: %w", ref.FQN(), err)
	}
	if !objectID.Valid {
		return nil, fmt.Errorf("mssql: table %s: %w", ref.FQN(), warehouse.ErrNotFound)
	}

	// INFORMATION_SCHEMA is per database, so the view itself is addressed
	// through the reference's project segment.
	q := fmt.Sprintf(
		"SELECT COLUMN_NAME FROM %s.INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION",
		msIdent(ref.Project),
	)
	rows, err := c.db.QueryContext(ctx, q, ref.Dataset, ref.Table)
	if err != nil {
		return nil, fmt.Errorf("mssql: describe %s: %w", ref.FQN(), err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("mssql: describe %s: %w", ref.FQN(), err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mssql: describe %s: %w", ref.FQN(), err)
	}
	return cols, nil
}

// Append bulk-copies the dataset into the target table inside a single
// transaction and returns the number of rows the server accepted.
func (c *Client) Append(ctx context.Context, ref tableref.Ref, ds dataset.Dataset) (int64, error) {
	if len(ds.Rows) == 0 {
		return 0, nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(msFQN(ref), mssql.BulkOptions{}, ds.Columns...))
	if err != nil {
		rollback()
		return 0, classifyAppend(ref, err)
	}
	for i, r := range ds.Rows {
		row := make([]any, len(ds.Columns))
		for j, col := range ds.Columns {
			row[j] = r[col]
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, classifyAppend(ref, fmt.Errorf("bulk row %d: %w", i, err))
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, classifyAppend(ref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (c *Client) Close() error { return c.db.Close() }

// msIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// msFQN renders the three-part [database].[schema].[table] name.
func msFQN(ref tableref.Ref) string {
	return msIdent(ref.Project) + "." + msIdent(ref.Dataset) + "." + msIdent(ref.Table)
}

// badRequestNumbers are server error numbers that mark the request or data
// shape as invalid: conversion failures (245, 257), NULL into a NOT NULL
// column (515), constraint violations (547), and string truncation (2628,
// 8152).
var badRequestNumbers = map[int32]bool{
	245:  true,
	257:  true,
	515:  true,
	547:  true,
	2628: true,
	8152: true,
}

// isBadRequest reports whether err carries a server error number from the
// invalid-request class.
func isBadRequest(err error) bool {
	var srvErr mssql.Error
	return errors.As(err, &srvErr) && badRequestNumbers[srvErr.Number]
}

// classifyAppend wraps a bulk-copy failure so callers can split
// invalid-request rejections from other errors with errors.Is.
func classifyAppend(ref tableref.Ref, err error) error {
	if isBadRequest(err) {
		return fmt.Errorf("mssql: append to %s: %w: %w", ref.FQN(), warehouse.ErrBadRequest, err)
	}
	return fmt.Errorf("mssql: append to %s: %w", ref.FQN(), err)
}
