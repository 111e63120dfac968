// Package tableref resolves destination table identifiers.
//
// A destination is addressed as project.dataset.table. Callers may provide the
// identifier as a single dotted string with one, two, or three segments;
// segments omitted from the string are filled from defaults (typically the
// --project-id flag or the client's ambient project, and the --dataset flag).
package tableref

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingProject reports that an identifier could not be completed because
// no project (or dataset, in the bare-table form) was available, neither in
// the identifier itself nor as a default.
var ErrMissingProject = errors.New("missing project")

// Ref is a fully resolved destination table identifier. All three fields are
// non-empty after a successful Resolve.
type Ref struct {
	Project string
	Dataset string
	Table   string
}

// FQN renders the identifier in dotted form: "project.dataset.table".
func (r Ref) FQN() string {
	return r.Project + "." + r.Dataset + "." + r.Table
}

// Resolve parses tableID and completes it with the given defaults.
//
// Accepted forms:
//   - "project.dataset.table": taken literally; the combined string wins over
//     any defaults.
//   - "dataset.table": project comes from defaultProject; if defaultProject is
//     empty the resolution fails with ErrMissingProject.
//   - "table": project and dataset come from the defaults; if either is empty
//     the resolution fails with ErrMissingProject.
//
// Any other segment count, and any empty segment, is an invalid identifier.
func Resolve(tableID, defaultProject, defaultDataset string) (Ref, error) {
	parts := strings.Split(tableID, ".")
	for _, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("invalid table identifier %q: empty segment", tableID)
		}
	}
	switch len(parts) {
	case 3:
		return Ref{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	case 2:
		if defaultProject == "" {
			return Ref{}, fmt.Errorf("table identifier %q has form dataset.table: %w (set --project-id)", tableID, ErrMissingProject)
		}
		return Ref{Project: defaultProject, Dataset: parts[0], Table: parts[1]}, nil
	case 1:
		if defaultProject == "" || defaultDataset == "" {
			return Ref{}, fmt.Errorf("table identifier %q has form table: %w (set --project-id and --dataset)", tableID, ErrMissingProject)
		}
		return Ref{Project: defaultProject, Dataset: defaultDataset, Table: parts[0]}, nil
	}
	return Ref{}, fmt.Errorf("invalid table identifier %q: want [project.]dataset.table", tableID)
}
