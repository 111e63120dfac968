package ddl

// TableDef holds the destination table name in the form the dialect expects
// (dotted, unquoted) and the ordered column names. Every column is created
// with the dialect's universal text type, so no per-column type information
// is carried here.
type TableDef struct {
	FQN     string
	Columns []string
}
