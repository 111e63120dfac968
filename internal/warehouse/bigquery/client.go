// Package bigquery implements a BigQuery-backed warehouse.Client. Table
// creation runs the generated statement as a query job; appends stream the
// dataset to a newline-delimited JSON load job with an all-STRING schema, so
// nil cells arrive as real NULLs rather than empty strings.
package bigquery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bttex/bq-cli/internal/dataset"
	gddl "github.com/bttex/bq-cli/internal/ddl"
	"github.com/bttex/bq-cli/internal/tableref"
	"github.com/bttex/bq-cli/internal/warehouse"
	bqddl "github.com/bttex/bq-cli/internal/warehouse/bigquery/ddl"
)

// Client wraps the Google Cloud BigQuery API client.
type Client struct {
	api *bq.Client
}

// Ensure Client satisfies warehouse.Client at compile time.
var _ warehouse.Client = (*Client)(nil)

// init registers the "bigquery" backend with the warehouse factory so callers
// can obtain a Client via warehouse.New without importing this package.
func init() {
	warehouse.Register("bigquery", New)
}

// New constructs a Client. When cfg.Project is empty the project is resolved
// from the ambient environment (ADC project, GOOGLE_CLOUD_PROJECT, metadata
// server); cfg.Credentials, when set, names a service-account key file that
// overrides application default credentials.
func New(ctx context.Context, cfg warehouse.Config) (warehouse.Client, error) {
	project := cfg.Project
	if project == "" {
		project = bq.DetectProjectID
	}
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	api, err := bq.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery: new client: %w", err)
	}
	return &Client{api: api}, nil
}

// Project returns the project the client was resolved against.
func (c *Client) Project() string { return c.api.Project() }

// BuildCreateTable renders the CREATE TABLE statement for the BigQuery
// dialect. It never contacts the API.
func (c *Client) BuildCreateTable(ref tableref.Ref, columns []string, replace bool) (string, error) {
	return bqddl.BuildCreateTableSQL(gddl.TableDef{FQN: ref.FQN(), Columns: columns}, replace)
}

// CreateTable executes a DDL statement as a query job and waits for it.
func (c *Client) CreateTable(ctx context.Context, stmt string) error {
	job, err := c.api.Query(stmt).Run(ctx)
	if err != nil {
		return fmt.Errorf("bigquery: run ddl: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("bigquery: wait for ddl job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("bigquery: ddl job: %w", err)
	}
	return nil
}

// TableColumns fetches the table metadata and returns the schema's column
// names in table order. A missing table reports warehouse.ErrNotFound.
func (c *Client) TableColumns(ctx context.Context, ref tableref.Ref) ([]string, error) {
	md, err := c.api.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table).Metadata(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("bigquery: table %s: %w", ref.FQN(), warehouse.ErrNotFound)
		}
		return nil, fmt.Errorf("bigquery: describe %s: %w", ref.FQN(), err)
	}
	cols := make([]string, 0, len(md.Schema))
	for _, f := range md.Schema {
		cols = append(cols, f.Name)
	}
	return cols, nil
}

// Append loads the dataset into the target table with WRITE_APPEND
// disposition and returns the number of rows the load job reported. Empty
// datasets short-circuit; the API rejects load jobs with no content.
func (c *Client) Append(ctx context.Context, ref tableref.Ref, ds dataset.Dataset) (int64, error) {
	if len(ds.Rows) == 0 {
		return 0, nil
	}
	payload, err := encodeRows(ds)
	if err != nil {
		return 0, fmt.Errorf("bigquery: encode rows: %w", err)
	}

	src := bq.NewReaderSource(bytes.NewReader(payload))
	src.SourceFormat = bq.JSON
	src.Schema = textSchema(ds.Columns)

	loader := c.api.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table).LoaderFrom(src)
	loader.WriteDisposition = bq.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		return 0, classifyAppend(ref, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, classifyAppend(ref, err)
	}
	if err := status.Err(); err != nil {
		return 0, classifyAppend(ref, err)
	}
	if status.Statistics != nil {
		if st, ok := status.Statistics.Details.(*bq.LoadStatistics); ok && st != nil {
			return st.OutputRows, nil
		}
	}
	return int64(len(ds.Rows)), nil
}

// Close releases the underlying API client.
func (c *Client) Close() error { return c.api.Close() }

// encodeRows serializes the dataset as newline-delimited JSON, one object per
// row in column order. Absent and nil cells both become JSON nulls.
func encodeRows(ds dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, row := range ds.Rows {
		obj := make(map[string]any, len(ds.Columns))
		for _, col := range ds.Columns {
			obj[col] = row[col]
		}
		if err := enc.Encode(obj); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// textSchema builds an explicit all-STRING schema so the load job never
// attempts type inference on the incoming values.
func textSchema(columns []string) bq.Schema {
	schema := make(bq.Schema, 0, len(columns))
	for _, c := range columns {
		schema = append(schema, &bq.FieldSchema{Name: c, Type: bq.StringFieldType})
	}
	return schema
}

// isNotFound reports whether err is an HTTP 404 from the BigQuery API.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// badRequestReasons are job error reasons that mark the request itself as
// malformed, matching the API's invalid-input class for non-HTTP failures.
var badRequestReasons = map[string]bool{
	"invalid":      true,
	"invalidQuery": true,
	"badRequest":   true,
}

// isBadRequest reports whether err describes a request the service rejected
// as invalid: an HTTP 400, or a job error with an invalid-input reason.
func isBadRequest(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return true
	}
	var jobErr *bq.Error
	if errors.As(err, &jobErr) && badRequestReasons[jobErr.Reason] {
		return true
	}
	return false
}

// classifyAppend wraps a load failure so callers can split invalid-request
// rejections from other API errors with errors.Is.
func classifyAppend(ref tableref.Ref, err error) error {
	if isBadRequest(err) {
		return fmt.Errorf("bigquery: append to %s: %w: %w", ref.FQN(), warehouse.ErrBadRequest, err)
	}
	return fmt.Errorf("bigquery: append to %s: %w", ref.FQN(), err)
}
