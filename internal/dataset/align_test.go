package dataset

import (
	"reflect"
	"testing"
)

// TestAlign_MissingColumnsNullFilled verifies that destination columns absent
// from the source are added to every row as NULL, in destination order.
func TestAlign_MissingColumnsNullFilled(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"id", "name"},
		Rows: []Row{
			{"id": "1", "name": "ana"},
			{"id": "2", "name": "bob"},
		},
	}
	dst := []string{"id", "name", "email"}

	got := Align(dst, src, nil)

	if !reflect.DeepEqual(got.Columns, dst) {
		t.Fatalf("Columns = %v, want %v", got.Columns, dst)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(got.Rows))
	}
	for i, r := range got.Rows {
		if v, ok := r["email"]; !ok || v != nil {
			t.Fatalf("row %d email = %v (present=%v), want NULL", i, v, ok)
		}
	}
	if got.Rows[0]["name"] != "ana" || got.Rows[1]["name"] != "bob" {
		t.Fatalf("existing values were not preserved: %v", got.Rows)
	}
}

// TestAlign_ExtraColumnsDropped verifies that source columns unknown to the
// destination are removed entirely.
func TestAlign_ExtraColumnsDropped(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"id", "name", "extra_col"},
		Rows: []Row{
			{"id": "1", "name": "ana", "extra_col": "x"},
		},
	}
	dst := []string{"id", "name"}

	got := Align(dst, src, nil)

	if !reflect.DeepEqual(got.Columns, dst) {
		t.Fatalf("Columns = %v, want %v", got.Columns, dst)
	}
	if _, ok := got.Rows[0]["extra_col"]; ok {
		t.Fatalf("extra_col survived alignment: %v", got.Rows[0])
	}
	want := Row{"id": "1", "name": "ana"}
	if !reflect.DeepEqual(got.Rows[0], want) {
		t.Fatalf("row = %v, want %v", got.Rows[0], want)
	}
}

// TestAlign_Reorder verifies the output column order always equals the
// destination order regardless of the source order.
func TestAlign_Reorder(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"b", "a", "c"},
		Rows:    []Row{{"a": "1", "b": "2", "c": "3"}},
	}
	dst := []string{"a", "b", "c"}

	got := Align(dst, src, nil)
	if !reflect.DeepEqual(got.Columns, dst) {
		t.Fatalf("Columns = %v, want %v", got.Columns, dst)
	}
}

// TestAlign_NullNormalization verifies the default token set, the empty cell,
// and true absence all reduce to the null marker, while ordinary text and
// near-miss tokens survive.
func TestAlign_NullNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "Nan token", in: "Nan", want: nil},
		{name: "NaN token", in: "NaN", want: nil},
		{name: "nan token", in: "nan", want: nil},
		{name: "None token", in: "None", want: nil},
		{name: "empty cell", in: "", want: nil},
		{name: "already null", in: nil, want: nil},
		{name: "plain text", in: "hello", want: "hello"},
		{name: "case mismatch survives", in: "NONE", want: "NONE"},
		{name: "padded token survives", in: " nan", want: " nan"},
		{name: "numeric text unchanged", in: "42", want: "42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := Dataset{Columns: []string{"v"}, Rows: []Row{{"v": tc.in}}}
			got := Align([]string{"v"}, src, nil)
			if got.Rows[0]["v"] != tc.want {
				t.Fatalf("Align value %#v = %#v, want %#v", tc.in, got.Rows[0]["v"], tc.want)
			}
		})
	}
}

// TestAlign_CustomTokens verifies an overridden token set replaces the default
// one rather than extending it.
func TestAlign_CustomTokens(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"v", "w"},
		Rows:    []Row{{"v": "N/A", "w": "None"}},
	}
	got := Align([]string{"v", "w"}, src, []string{"N/A"})

	if got.Rows[0]["v"] != nil {
		t.Fatalf("custom token N/A not normalized: %#v", got.Rows[0]["v"])
	}
	if got.Rows[0]["w"] != "None" {
		t.Fatalf("default token applied despite override: %#v", got.Rows[0]["w"])
	}
}

// TestAlign_RowCountPreserved verifies no row is dropped or merged.
func TestAlign_RowCountPreserved(t *testing.T) {
	t.Parallel()

	src := Dataset{Columns: []string{"a"}, Rows: make([]Row, 50)}
	for i := range src.Rows {
		src.Rows[i] = Row{"a": "x"}
	}
	got := Align([]string{"a", "b"}, src, nil)
	if len(got.Rows) != len(src.Rows) {
		t.Fatalf("row count = %d, want %d", len(got.Rows), len(src.Rows))
	}
}

// TestAlign_Idempotent verifies aligning an aligned dataset against the same
// destination is a fixed point.
func TestAlign_Idempotent(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"x", "z"},
		Rows: []Row{
			{"x": "1", "z": "nan"},
			{"x": "", "z": "keep"},
		},
	}
	dst := []string{"x", "y"}

	once := Align(dst, src, nil)
	twice := Align(dst, once, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Align not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}

// TestAlign_SourceNotMutated verifies the source dataset is left untouched.
func TestAlign_SourceNotMutated(t *testing.T) {
	t.Parallel()

	src := Dataset{
		Columns: []string{"a", "extra"},
		Rows:    []Row{{"a": "nan", "extra": "x"}},
	}
	snapshot := src.Clone()

	_ = Align([]string{"a", "b"}, src, nil)

	if !reflect.DeepEqual(src, snapshot) {
		t.Fatalf("source mutated by Align:\n got: %+v\nwant: %+v", src, snapshot)
	}
}

// TestClone verifies Clone produces an independent deep copy.
func TestClone(t *testing.T) {
	t.Parallel()

	d := Dataset{Columns: []string{"a"}, Rows: []Row{{"a": "1"}}}
	c := d.Clone()
	c.Rows[0]["a"] = "2"
	c.Columns[0] = "b"

	if d.Rows[0]["a"] != "1" || d.Columns[0] != "a" {
		t.Fatalf("Clone shares memory with original: %+v", d)
	}
}
