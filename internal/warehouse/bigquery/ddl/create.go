// Package ddl renders GoogleSQL CREATE TABLE statements for BigQuery from
// the generic ddl.TableDef model. Identifiers are backquoted; the dotted
// project.dataset.table path is quoted as a single unit, which GoogleSQL
// accepts and which keeps the statement byte-compatible with what the tool
// has always printed.
package ddl

import (
	"strings"

	gddl "github.com/bttex/bq-cli/internal/ddl"
)

// textType is the universal column type: every created column is a STRING.
const textType = "STRING"

// BuildCreateTableSQL returns a BigQuery CREATE TABLE statement of the form:
//
//	CREATE TABLE `p.d.t` (
//	  `col1` STRING,
//	  `col2` STRING
//	);
//
// With orReplace the verb becomes CREATE OR REPLACE TABLE; otherwise the
// statement fails server-side when the table already exists.
func BuildCreateTableSQL(t gddl.TableDef, orReplace bool) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	verb := "CREATE TABLE"
	if orReplace {
		verb = "CREATE OR REPLACE TABLE"
	}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " " + textType
	}
	return gddl.Render(verb, quoteIdent(t.FQN), cols), nil
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "\\`") + "`"
}
