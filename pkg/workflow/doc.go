// Package workflow holds the editable model of a job-dependency workflow:
// jobs with 2-D canvas positions, their dependency lists, and the derived
// edge and adjacency views the layout algorithms consume.
//
// # Model
//
// A [Job] stores its inbound edges as a list of dependency IDs; an [Edge]
// From→To is derived, existing exactly when To depends on From. Mutations
// that could break referential integrity cascade: [Workflow.RemoveJob] scrubs
// the deleted ID from every dependency list and [Workflow.RenameJob] rewrites
// every reference, so no edge can dangle.
//
// # Determinism
//
// Jobs iterate in insertion order everywhere (Jobs, JobIDs, Edges,
// BuildGraph), which makes layout output and serialization reproducible and
// gives shift-range selection a stable "list order".
//
// # Usage
//
//	w := workflow.New(nil)
//	w.AddJob(workflow.Job{ID: "extract"})
//	w.AddJob(workflow.Job{ID: "load", Dependencies: []string{"extract"}})
//	g := w.BuildGraph() // adjacency snapshot for layout
package workflow
