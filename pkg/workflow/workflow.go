package workflow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidJobID is returned by [Workflow.AddJob] and [Workflow.RenameJob]
	// when the job ID is empty. All jobs must have non-empty identifiers.
	ErrInvalidJobID = errors.New("job ID must not be empty")

	// ErrDuplicateJobID is returned by [Workflow.AddJob] and [Workflow.RenameJob]
	// when a job with the same ID already exists. Job IDs must be unique.
	ErrDuplicateJobID = errors.New("duplicate job ID")

	// ErrUnknownJob is returned when an operation references a job ID that does
	// not exist in the workflow.
	ErrUnknownJob = errors.New("unknown job")

	// ErrSelfDependency is returned by [Workflow.AddDependency] when a job would
	// depend on itself.
	ErrSelfDependency = errors.New("job cannot depend on itself")

	// ErrDuplicateDependency is returned by [Workflow.AddDependency] when the
	// dependency already exists.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrDanglingReference is returned by [Workflow.Validate] when a dependency
	// list names a job that does not exist. Delete cascades are supposed to
	// prevent this; seeing it indicates corrupted input.
	ErrDanglingReference = errors.New("dependency references unknown job")
)

// Job is a single node on the canvas: a named unit of work with the IDs of the
// jobs it depends on and a 2-D position in world units. Fields other than ID,
// Dependencies, X and Y are carried for external collaborators (forms, file
// I/O) and never interpreted by the engine.
//
// The zero value is not usable - ID must be set before adding to a Workflow.
type Job struct {
	ID           string         `json:"id" bson:"id"`
	Command      string         `json:"command,omitempty" bson:"command,omitempty"`
	Description  string         `json:"description,omitempty" bson:"description,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	X            float64        `json:"x,omitempty" bson:"x,omitempty"`
	Y            float64        `json:"y,omitempty" bson:"y,omitempty"`
	Meta         map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Clone returns a deep copy of the job. Dependency slices and metadata maps
// are copied so mutating the clone never aliases the original.
func (j Job) Clone() Job {
	c := j
	c.Dependencies = slices.Clone(j.Dependencies)
	if j.Meta != nil {
		c.Meta = make(map[string]any, len(j.Meta))
		for k, v := range j.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

// DependsOn reports whether the job lists id as a direct dependency.
func (j *Job) DependsOn(id string) bool {
	return slices.Contains(j.Dependencies, id)
}

// Edge is a derived dependency connection. An edge From→To exists exactly when
// To's dependency list contains From. Edges are never stored independently;
// they are recomputed from the jobs so they can never dangle on their own.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Workflow holds the editable job set plus the application-level config object
// that external collaborators carry alongside it. The engine reads and writes
// jobs; the config blob is opaque and only participates in history snapshots.
//
// Iteration order over jobs is insertion order, which keeps layout, range
// selection and serialization deterministic.
//
// Workflow is not safe for concurrent use. The interaction model is a single
// UI thread; see the editor package.
type Workflow struct {
	jobs   map[string]*Job
	order  []string
	config map[string]any
}

// New creates an empty workflow with an optional app-level config.
// A nil config is replaced with an empty map.
func New(config map[string]any) *Workflow {
	if config == nil {
		config = map[string]any{}
	}
	return &Workflow{
		jobs:   make(map[string]*Job),
		config: config,
	}
}

// Config returns the app-level config object. The engine never interprets it.
func (w *Workflow) Config() map[string]any { return w.config }

// SetConfig replaces the app-level config object.
func (w *Workflow) SetConfig(config map[string]any) {
	if config == nil {
		config = map[string]any{}
	}
	w.config = config
}

// AddJob adds a job to the workflow. Returns ErrInvalidJobID for an empty ID
// or ErrDuplicateJobID if the ID is taken. Dependencies are not required to
// exist yet - collaborators load jobs in arbitrary order - but [Validate]
// checks them afterwards.
func (w *Workflow) AddJob(j Job) error {
	if j.ID == "" {
		return ErrInvalidJobID
	}
	if _, exists := w.jobs[j.ID]; exists {
		return ErrDuplicateJobID
	}
	job := j.Clone()
	w.jobs[j.ID] = &job
	w.order = append(w.order, j.ID)
	return nil
}

// RemoveJob deletes a job and cascades: every other job's dependency list is
// scrubbed of the ID so no edge or reference can dangle. Returns ErrUnknownJob
// if the ID does not exist.
//
// Callers holding a selection must drop the ID themselves; the editor package
// does this on every delete.
func (w *Workflow) RemoveJob(id string) error {
	if _, ok := w.jobs[id]; !ok {
		return ErrUnknownJob
	}
	delete(w.jobs, id)
	w.order = slices.DeleteFunc(w.order, func(s string) bool { return s == id })
	for _, j := range w.jobs {
		j.Dependencies = slices.DeleteFunc(j.Dependencies, func(s string) bool { return s == id })
	}
	return nil
}

// RenameJob changes a job's ID and rewrites every dependency list that
// referenced the old ID. Returns ErrInvalidJobID, ErrUnknownJob, or
// ErrDuplicateJobID; on error the workflow is unchanged.
func (w *Workflow) RenameJob(oldID, newID string) error {
	if newID == "" {
		return ErrInvalidJobID
	}
	job, ok := w.jobs[oldID]
	if !ok {
		return ErrUnknownJob
	}
	if oldID == newID {
		return nil
	}
	if _, exists := w.jobs[newID]; exists {
		return ErrDuplicateJobID
	}

	job.ID = newID
	delete(w.jobs, oldID)
	w.jobs[newID] = job

	for i, id := range w.order {
		if id == oldID {
			w.order[i] = newID
		}
	}
	for _, j := range w.jobs {
		for i, dep := range j.Dependencies {
			if dep == oldID {
				j.Dependencies[i] = newID
			}
		}
	}
	return nil
}

// AddDependency records that job to depends on job from, creating the edge
// from→to. Self-loops and duplicate edges are rejected, matching the
// connection gesture contract (a failed connection simply creates nothing).
func (w *Workflow) AddDependency(from, to string) error {
	if from == to {
		return ErrSelfDependency
	}
	if _, ok := w.jobs[from]; !ok {
		return ErrUnknownJob
	}
	target, ok := w.jobs[to]
	if !ok {
		return ErrUnknownJob
	}
	if target.DependsOn(from) {
		return ErrDuplicateDependency
	}
	target.Dependencies = append(target.Dependencies, from)
	return nil
}

// RemoveDependency removes the edge from→to if present. Removing a missing
// edge is not an error.
func (w *Workflow) RemoveDependency(from, to string) error {
	target, ok := w.jobs[to]
	if !ok {
		return ErrUnknownJob
	}
	target.Dependencies = slices.DeleteFunc(target.Dependencies, func(s string) bool { return s == from })
	return nil
}

// HasEdge reports whether the edge from→to exists.
func (w *Workflow) HasEdge(from, to string) bool {
	target, ok := w.jobs[to]
	return ok && target.DependsOn(from)
}

// Job returns the job with the given ID and true, or nil and false. The
// pointer refers to the live job; position and display fields may be mutated
// directly, but use RenameJob for ID changes.
func (w *Workflow) Job(id string) (*Job, bool) {
	j, ok := w.jobs[id]
	return j, ok
}

// Jobs returns the live jobs in insertion order.
func (w *Workflow) Jobs() []*Job {
	out := make([]*Job, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.jobs[id])
	}
	return out
}

// JobIDs returns the job IDs in insertion order. This is the "list order" used
// by shift-range selection.
func (w *Workflow) JobIDs() []string { return slices.Clone(w.order) }

// Count returns the number of jobs.
func (w *Workflow) Count() int { return len(w.jobs) }

// Edges returns the derived edge set in deterministic order: target jobs in
// insertion order, dependencies in list order.
func (w *Workflow) Edges() []Edge {
	var edges []Edge
	for _, id := range w.order {
		for _, dep := range w.jobs[id].Dependencies {
			edges = append(edges, Edge{From: dep, To: id})
		}
	}
	return edges
}

// Validate scans every dependency list for references to jobs that do not
// exist and returns ErrDanglingReference on the first hit. A freshly edited
// workflow always passes: delete cascades remove references proactively, so a
// failure here means the input came from outside already corrupted.
func (w *Workflow) Validate() error {
	for _, id := range w.order {
		for _, dep := range w.jobs[id].Dependencies {
			if _, ok := w.jobs[dep]; !ok {
				return ErrDanglingReference
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the workflow: jobs, dependency lists, metadata
// and the config object. Used for history snapshots, which must be structural
// copies with no shared references.
func (w *Workflow) Clone() *Workflow {
	c := New(cloneConfig(w.config))
	for _, id := range w.order {
		job := w.jobs[id].Clone()
		c.jobs[id] = &job
		c.order = append(c.order, id)
	}
	return c
}

// Restore replaces the receiver's jobs and config with deep copies of src.
// The receiver's identity is preserved so observers holding the pointer keep
// seeing the current state; undo/redo restores through this.
func (w *Workflow) Restore(src *Workflow) {
	c := src.Clone()
	w.jobs = c.jobs
	w.order = c.order
	w.config = c.config
}

// cloneConfig structurally copies an app-level config object. Values are
// copied one level deep plus nested maps and slices, which covers everything
// a JSON-shaped config can hold.
func cloneConfig(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneConfig(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
