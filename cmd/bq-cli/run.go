// Package main wires the CSV-to-warehouse loader end-to-end. This file keeps
// the CLI layer thin: it sequences the create and upload phases over the
// storage-agnostic warehouse.Client and maps every failure onto the fixed
// exit-code table. It never imports database drivers or backend-specific
// packages directly.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/bttex/bq-cli/internal/config"
	"github.com/bttex/bq-cli/internal/csvsource"
	"github.com/bttex/bq-cli/internal/dataset"
	"github.com/bttex/bq-cli/internal/metrics"
	"github.com/bttex/bq-cli/internal/tableref"
	"github.com/bttex/bq-cli/internal/warehouse"
)

// Exit codes are the CLI contract; schedulers and wrapper scripts match on
// them, so their meaning is fixed.
const (
	exitOK         = 0 // run completed
	exitClient     = 1 // could not construct the destination client
	exitUsage      = 2 // flag errors and unresolvable table identifiers
	exitHeader     = 3 // could not read the CSV header
	exitBuildSQL   = 4 // could not build the creation statement
	exitCreate     = 5 // destination rejected the creation call
	exitNoTable    = 6 // destination table does not exist
	exitRead       = 7 // could not read the full CSV
	exitBadRequest = 8 // destination rejected the submitted rows
	exitAppend     = 9 // data submission failed with another API error
)

// exitError pairs a failure with the exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// fail builds an exitError with a formatted cause.
func fail(code int, format string, a ...any) *exitError {
	return &exitError{code: code, err: fmt.Errorf(format, a...)}
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newClientFn = warehouse.New

	stdout io.Writer = os.Stdout
)

// run executes one invocation and returns its exit code.
//
// The order of the fallible steps mirrors the CLI contract: the client is
// constructed before the identifier resolves because the ambient project
// default comes from the client; the dry run prints the creation statement
// and stops before any destination call; both phases run strictly in
// sequence and the first failure aborts.
func run(ctx context.Context, cfg config.Config) int {
	client, err := newClientFn(ctx, warehouse.Config{
		Kind:        cfg.Backend,
		Project:     cfg.ProjectID,
		Credentials: cfg.Credentials,
		DSN:         cfg.DSN,
	})
	if err != nil {
		log.Printf("failed to construct %s client: %v", cfg.Backend, err)
		return exitClient
	}
	defer client.Close()

	ref, err := resolveRef(cfg, client)
	if err != nil {
		log.Printf("%v", err)
		return exitUsage
	}
	if cfg.Verbose {
		log.Printf("run: backend=%s table=%s mode=%s csv=%s", cfg.Backend, ref.FQN(), cfg.Mode, cfg.CSVPath)
	}

	if cfg.PrintSQL {
		if e := printCreateSQL(cfg, client, ref); e != nil {
			log.Printf("%v", e)
			return e.code
		}
		return exitOK
	}

	if cfg.Mode.Creates() {
		if e := runCreate(ctx, cfg, client, ref); e != nil {
			log.Printf("%v", e)
			return e.code
		}
	}
	if cfg.Mode.Uploads() {
		if e := runUpload(ctx, cfg, client, ref); e != nil {
			log.Printf("%v", e)
			return e.code
		}
	}
	return exitOK
}

// resolveRef produces the destination identifier. The combined --table-id
// wins when given; otherwise the discrete flags assemble the identifier
// directly. Either way the project defaults to --project-id, then to the
// client's ambient project.
func resolveRef(cfg config.Config, client warehouse.Client) (tableref.Ref, error) {
	defaultProject := pick(cfg.ProjectID, client.Project())
	if cfg.TableID != "" {
		return tableref.Resolve(cfg.TableID, defaultProject, cfg.Dataset)
	}
	if cfg.Dataset == "" || cfg.TableName == "" {
		return tableref.Ref{}, errors.New("no destination: set --table-id, or --dataset and --table-name")
	}
	if defaultProject == "" {
		return tableref.Ref{}, fmt.Errorf("no project for %s.%s: %w (set --project-id)", cfg.Dataset, cfg.TableName, tableref.ErrMissingProject)
	}
	return tableref.Ref{Project: defaultProject, Dataset: cfg.Dataset, Table: cfg.TableName}, nil
}

// readOptions maps the config onto the CSV reader options.
func readOptions(cfg config.Config) csvsource.Options {
	return csvsource.Options{Comma: cfg.Comma(), Encoding: cfg.Encoding}
}

// printCreateSQL is the dry-run path: build the creation statement from the
// CSV header and print it. It makes no destination call, in any mode.
func printCreateSQL(cfg config.Config, client warehouse.Client, ref tableref.Ref) *exitError {
	columns, err := csvsource.ReadHeader(cfg.CSVPath, readOptions(cfg))
	if err != nil {
		return fail(exitHeader, "read csv header: %v", err)
	}
	stmt, err := client.BuildCreateTable(ref, columns, cfg.Replace)
	if err != nil {
		return fail(exitBuildSQL, "build create statement: %v", err)
	}
	fmt.Fprintln(stdout, stmt)
	return nil
}

// runCreate provisions the destination table: header-only read, statement
// build, live execution. The statement always goes to stdout before it runs,
// so the run log shows the DDL that was applied.
func runCreate(ctx context.Context, cfg config.Config, client warehouse.Client, ref tableref.Ref) *exitError {
	start := time.Now()
	columns, err := csvsource.ReadHeader(cfg.CSVPath, readOptions(cfg))
	metrics.RecordStep(jobName, "read_header", err, time.Since(start))
	if err != nil {
		return fail(exitHeader, "read csv header: %v", err)
	}

	start = time.Now()
	stmt, err := client.BuildCreateTable(ref, columns, cfg.Replace)
	metrics.RecordStep(jobName, "build_statement", err, time.Since(start))
	if err != nil {
		return fail(exitBuildSQL, "build create statement: %v", err)
	}
	fmt.Fprintln(stdout, stmt)

	start = time.Now()
	err = client.CreateTable(ctx, stmt)
	metrics.RecordStep(jobName, "create_table", err, time.Since(start))
	if err != nil {
		return fail(exitCreate, "create table %s: %v", ref.FQN(), err)
	}
	log.Printf("created table %s (%d columns)", ref.FQN(), len(columns))
	return nil
}

// runUpload appends the source rows: describe the destination, read the full
// file, align it to the destination's column set, bulk append.
func runUpload(ctx context.Context, cfg config.Config, client warehouse.Client, ref tableref.Ref) *exitError {
	start := time.Now()
	dstCols, err := client.TableColumns(ctx, ref)
	metrics.RecordStep(jobName, "describe_table", err, time.Since(start))
	if errors.Is(err, warehouse.ErrNotFound) {
		return fail(exitNoTable, "%s", notFoundMessage(cfg, ref))
	}
	if err != nil {
		return fail(exitAppend, "describe table %s: %v", ref.FQN(), err)
	}

	start = time.Now()
	src, err := csvsource.Read(cfg.CSVPath, readOptions(cfg))
	metrics.RecordStep(jobName, "read_rows", err, time.Since(start))
	if err != nil {
		return fail(exitRead, "read csv: %v", err)
	}
	metrics.RecordRows(jobName, "read", int64(len(src.Rows)))

	aligned := dataset.Align(dstCols, src, cfg.NullTokens)
	if cfg.Verbose {
		log.Printf("aligned %d source columns to %d destination columns, %d rows",
			len(src.Columns), len(dstCols), len(aligned.Rows))
	}

	start = time.Now()
	n, err := client.Append(ctx, ref, aligned)
	metrics.RecordStep(jobName, "append", err, time.Since(start))
	if err != nil {
		if errors.Is(err, warehouse.ErrBadRequest) {
			return fail(exitBadRequest, "append to %s: %v", ref.FQN(), err)
		}
		return fail(exitAppend, "append to %s: %v", ref.FQN(), err)
	}
	metrics.RecordRows(jobName, "appended", n)
	log.Printf("loaded %d rows into %s", n, ref.FQN())
	return nil
}

// notFoundMessage explains a missing destination per mode: under both, the
// create phase was expected to have provisioned it; under upload, the hint
// points at --mode both.
func notFoundMessage(cfg config.Config, ref tableref.Ref) string {
	if cfg.Mode == config.ModeBoth {
		return fmt.Sprintf("table %s does not exist; the create phase was expected to have provisioned it", ref.FQN())
	}
	return fmt.Sprintf("table %s does not exist; run with --mode both to create and load in one go", ref.FQN())
}
