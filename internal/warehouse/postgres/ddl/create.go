// Package ddl renders table-creation statements for the Postgres dialect.
package ddl

import (
	"strings"

	gddl "github.com/bttex/bq-cli/internal/ddl"
)

// textType is the column type every column gets. All values arrive as text.
const textType = "TEXT"

// BuildCreateTableSQL renders the creation statement for a table definition.
// The definition's FQN is the unquoted schema-qualified name ("schema.table");
// each segment is double-quoted separately. Postgres has no CREATE OR REPLACE
// TABLE, so orReplace prepends a DROP TABLE IF EXISTS, making the result a
// two-command string that must run under the simple query protocol.
func BuildCreateTableSQL(t gddl.TableDef, orReplace bool) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, quoteIdent(c)+" "+textType)
	}

	fqn := quoteFQN(t.FQN)
	stmt := gddl.Render("CREATE TABLE", fqn, cols)
	if orReplace {
		stmt = "DROP TABLE IF EXISTS " + fqn + ";\n" + stmt
	}
	return stmt, nil
}

// quoteIdent safely quotes a single identifier segment, escaping embedded
// double quotes.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// quoteFQN quotes a dotted name segment by segment, skipping empty segments.
func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, quoteIdent(p))
	}
	return strings.Join(quoted, ".")
}
