package tableref

import (
	"errors"
	"testing"
)

// TestResolve covers the three accepted identifier forms and their default
// injection rules.
func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tableID    string
		defProject string
		defDataset string
		want       Ref
		wantErr    bool
		missing    bool // expect ErrMissingProject
	}{
		{
			name:    "three segments literal",
			tableID: "p.d.t",
			want:    Ref{Project: "p", Dataset: "d", Table: "t"},
		},
		{
			name:       "three segments ignore defaults",
			tableID:    "p.d.t",
			defProject: "other",
			defDataset: "elsewhere",
			want:       Ref{Project: "p", Dataset: "d", Table: "t"},
		},
		{
			name:       "two segments use default project",
			tableID:    "d.t",
			defProject: "p2",
			want:       Ref{Project: "p2", Dataset: "d", Table: "t"},
		},
		{
			name:    "two segments without default project",
			tableID: "d.t",
			wantErr: true,
			missing: true,
		},
		{
			name:       "one segment uses both defaults",
			tableID:    "t",
			defProject: "p",
			defDataset: "d",
			want:       Ref{Project: "p", Dataset: "d", Table: "t"},
		},
		{
			name:       "one segment without default dataset",
			tableID:    "t",
			defProject: "p",
			wantErr:    true,
			missing:    true,
		},
		{
			name:       "one segment without default project",
			tableID:    "t",
			defDataset: "d",
			wantErr:    true,
			missing:    true,
		},
		{
			name:    "four segments invalid",
			tableID: "a.b.c.d",
			wantErr: true,
		},
		{
			name:    "empty identifier",
			tableID: "",
			wantErr: true,
		},
		{
			name:    "empty segment",
			tableID: "p..t",
			wantErr: true,
		},
		{
			name:    "trailing dot",
			tableID: "d.t.",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tc.tableID, tc.defProject, tc.defDataset)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) = %+v, want error", tc.tableID, got)
				}
				if tc.missing && !errors.Is(err, ErrMissingProject) {
					t.Fatalf("Resolve(%q) error = %v, want ErrMissingProject", tc.tableID, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tc.tableID, err)
			}
			if got != tc.want {
				t.Fatalf("Resolve(%q) = %+v, want %+v", tc.tableID, got, tc.want)
			}
		})
	}
}

// TestRefFQN verifies dotted rendering round-trips the resolved parts.
func TestRefFQN(t *testing.T) {
	t.Parallel()

	r := Ref{Project: "proj", Dataset: "ds", Table: "tbl"}
	if got, want := r.FQN(), "proj.ds.tbl"; got != want {
		t.Fatalf("FQN() = %q, want %q", got, want)
	}
}
