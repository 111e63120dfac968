package dataset

// Align reshapes src so its columns exactly match dst, in dst's order, and
// returns the result as a new Dataset. src is never mutated.
//
// The steps run in a fixed order:
//
//  1. Columns in dst but not in src are added to every row as NULL.
//  2. Columns in src but not in dst are dropped from every row.
//  3. Row columns are reordered to dst's order (implied by the output
//     Columns slice; rows are keyed by name).
//  4. Every remaining value is coerced to text and null-normalized against
//     nullTokens (nil for the token set's zero-length slice falls back to
//     DefaultNullTokens).
//
// Coercion runs last so it sees the final column membership. Row count is
// always preserved, and aligning an already-aligned dataset against the same
// dst returns an equal dataset.
func Align(dst []string, src Dataset, nullTokens []string) Dataset {
	if nullTokens == nil {
		nullTokens = DefaultNullTokens
	}
	tokens := tokenSet(nullTokens)

	out := Dataset{
		Columns: append([]string(nil), dst...),
		Rows:    make([]Row, len(src.Rows)),
	}
	for i, r := range src.Rows {
		nr := make(Row, len(dst))
		for _, col := range dst {
			v, ok := r[col]
			if !ok {
				// Missing in the source: NULL-filled.
				nr[col] = nil
				continue
			}
			nr[col] = toText(v, tokens)
		}
		// Columns absent from dst are simply not carried over.
		out.Rows[i] = nr
	}
	return out
}
