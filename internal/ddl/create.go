// Package ddl defines the backend-agnostic model for the table-creation
// statement and the shared rendering core.
//
// The package stays generic: it does not quote identifiers and does not know
// any dialect's text type. The warehouse backends each carry a ddl subpackage
// (e.g. internal/warehouse/bigquery/ddl) that validates a TableDef here,
// applies its own quoting, and renders through Render, so every dialect emits
// the same statement shape:
//
//	<VERB> <fqn> (
//	  <col> <TYPE>,
//	  <col> <TYPE>
//	);
package ddl

import (
	"fmt"
	"strings"
)

// Validate reports the statement-construction failures that are detectable
// without contacting a destination: an empty table name, an empty column
// list, or a column with an empty name. Dialect builders call this before
// rendering so these failures stay distinct from execution-time rejections.
func (t TableDef) Validate() error {
	if strings.TrimSpace(t.FQN) == "" {
		return fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ddl: at least one column is required")
	}
	for _, c := range t.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
	}
	return nil
}

// Render assembles a creation statement from a verb, an already-quoted table
// name, and already-quoted column definitions.
func Render(verb, fqn string, columnDefs []string) string {
	return fmt.Sprintf(
		"%s %s (\n  %s\n);",
		verb,
		fqn,
		strings.Join(columnDefs, ",\n  "),
	)
}
