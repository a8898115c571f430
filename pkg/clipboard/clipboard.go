package clipboard

import (
	"context"
	"errors"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// ErrEmpty is returned by [Port.Read] when nothing has been copied yet.
var ErrEmpty = errors.New("clipboard is empty")

// Bundle is the clipboard interchange format: the copied jobs plus the edges
// between them. Connections are restricted to edges with both endpoints
// inside the copied set; edges to outside jobs are dropped on copy, which is
// what makes a pasted bundle self-contained.
type Bundle struct {
	Jobs        []workflow.Job  `json:"jobs"`
	Connections []workflow.Edge `json:"connections,omitempty"`
}

// MakeBundle builds a bundle from a workflow and a set of job IDs. Jobs are
// deep-copied and their dependency lists filtered down to in-set references,
// so the bundle stays valid however the source workflow changes afterwards.
// Unknown IDs are skipped.
func MakeBundle(w *workflow.Workflow, ids []string) Bundle {
	inSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}

	var b Bundle
	for _, id := range w.JobIDs() {
		if !inSet[id] {
			continue
		}
		src, _ := w.Job(id)
		j := src.Clone()
		j.Dependencies = nil
		for _, dep := range src.Dependencies {
			if inSet[dep] {
				j.Dependencies = append(j.Dependencies, dep)
				b.Connections = append(b.Connections, workflow.Edge{From: dep, To: id})
			}
		}
		b.Jobs = append(b.Jobs, j)
	}
	return b
}

// Port is the clipboard abstraction injected into the editor. Implementations
// range from a process-local buffer to shared storage; the editor never knows
// which.
type Port interface {
	// Write replaces the clipboard contents.
	Write(ctx context.Context, b Bundle) error

	// Read returns the current contents, or ErrEmpty.
	Read(ctx context.Context) (Bundle, error)
}
