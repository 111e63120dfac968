// Package all wires all built-in warehouse backends into the warehouse
// factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete backend to run, which in
// turn register their factories with the warehouse package.
//
// In other words, importing this package makes the following warehouse kinds
// available at runtime:
//
//   - "bigquery" (internal/warehouse/bigquery)
//   - "postgres" (internal/warehouse/postgres)
//   - "mssql"    (internal/warehouse/mssql)
//
// Typical usage (in cmd/bq-cli or a similar wiring layer):
//
//	import (
//	    _ "github.com/bttex/bq-cli/internal/warehouse/all" // enable all backends
//
//	    "github.com/bttex/bq-cli/internal/warehouse"
//	)
//
//	client, err := warehouse.New(ctx, warehouse.Config{Kind: "bigquery", ...})
//
// This keeps backend-specific wiring in a single, small package and allows
// the rest of the application to depend only on the warehouse abstraction
// rather than individual backends. A binary that supports only a subset of
// backends can define an alternative wiring package that imports just the
// required ones.
package all

import (
	_ "github.com/bttex/bq-cli/internal/warehouse/bigquery"
	_ "github.com/bttex/bq-cli/internal/warehouse/mssql"
	_ "github.com/bttex/bq-cli/internal/warehouse/postgres"
)
