// Package dataset holds the in-memory tabular model shared by the CSV reader
// and the warehouse backends, plus the alignment step that reshapes a source
// dataset to a destination table's column set.
//
// Values are either a string or nil; nil is the null marker and is distinct
// from the empty string. The reader and Align are the only producers of rows,
// and both guarantee that no other value types appear.
package dataset

import (
	"fmt"
)

// DefaultNullTokens is the textual null set applied during alignment. Cells
// whose exact text matches one of these load as NULL rather than as literals.
var DefaultNullTokens = []string{"Nan", "NaN", "nan", "None"}

// Row maps a column name to its value: a string, or nil for NULL.
type Row map[string]any

// Dataset is an ordered set of rows together with the column order they were
// produced under. Columns has no duplicates; every row's keys are a subset of
// Columns.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy. Align never mutates its input; callers that need
// to hold both shapes can rely on that, but Clone is available when a caller
// wants to mutate a dataset it does not own.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, len(d.Rows)),
	}
	for i, r := range d.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// toText coerces a value to its text form or to nil. nil stays nil; strings
// pass through; anything else renders via fmt. The empty string and every
// configured null token reduce to nil.
func toText(v any, tokens map[string]struct{}) any {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return nil
	}
	if _, null := tokens[s]; null {
		return nil
	}
	return s
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
