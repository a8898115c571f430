package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shwetalj/jobcanvas/pkg/canvas"
	"github.com/shwetalj/jobcanvas/pkg/clipboard"
	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// Default paste/duplicate placement offset in world units, so a copy never
// lands exactly on its source.
const DefaultPasteOffset = 40.0

// Options configures an Editor. The zero value is usable: an in-memory
// clipboard, default history tuning, default node geometry.
type Options struct {
	History  HistoryOptions
	Viewport canvas.Options

	// Clipboard is the injected paste buffer; nil gets a process-local one.
	Clipboard clipboard.Port

	// Node box geometry in world units, used for pointer hit testing.
	NodeWidth  float64
	NodeHeight float64

	// PasteOffset shifts pasted and duplicated jobs from their source
	// positions.
	PasteOffset float64
}

// SetDefaults fills unset fields. Idempotent.
func (o *Options) SetDefaults() {
	o.History.SetDefaults()
	o.Viewport.SetDefaults()
	if o.Clipboard == nil {
		o.Clipboard = clipboard.NewMemory()
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	if o.PasteOffset == 0 {
		o.PasteOffset = DefaultPasteOffset
	}
}

// Editor owns the editable state of one open workflow: the job graph, the
// selection, the viewport transform and the undo history, plus the injected
// clipboard port. All mutation by frontends goes through its methods so
// settled changes are committed to history and emitted through the
// observability hooks exactly once.
//
// Editor is single-threaded by contract: one interaction goroutine drives it,
// matching the event-driven model it was built for.
type Editor struct {
	w    *workflow.Workflow
	sel  *Selection
	hist *History
	view *canvas.Viewport
	clip clipboard.Port
	opts Options
}

// New creates an editor over a workflow. The workflow's current state becomes
// the initial history snapshot.
func New(w *workflow.Workflow, opts Options) *Editor {
	opts.SetDefaults()
	return &Editor{
		w:    w,
		sel:  NewSelection(),
		hist: NewHistory(w, opts.History),
		view: canvas.New(opts.Viewport),
		clip: opts.Clipboard,
		opts: opts,
	}
}

// Workflow returns the live workflow.
func (e *Editor) Workflow() *workflow.Workflow { return e.w }

// Selection returns the live selection controller.
func (e *Editor) Selection() *Selection { return e.sel }

// History returns the undo/redo stack.
func (e *Editor) History() *History { return e.hist }

// Viewport returns the pan/zoom transform.
func (e *Editor) Viewport() *canvas.Viewport { return e.view }

// =============================================================================
// Job Lifecycle
// =============================================================================

// AddJob adds a job, selects it, and commits.
func (e *Editor) AddJob(j workflow.Job) error {
	if err := e.w.AddJob(j); err != nil {
		return err
	}
	e.sel.Replace(j.ID)
	e.hist.Commit()
	return nil
}

// DeleteJob removes one job with full cascade: dependency references, derived
// edges, and selection membership all drop it.
func (e *Editor) DeleteJob(id string) error {
	if err := e.w.RemoveJob(id); err != nil {
		return err
	}
	e.sel.Remove(id)
	observability.Editor().OnNodeDeleted(id)
	e.hist.Commit()
	return nil
}

// DeleteSelection removes every selected job. No-op on an empty selection.
func (e *Editor) DeleteSelection() {
	ids := e.sel.IDs(e.w.JobIDs())
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		e.w.RemoveJob(id)
		e.sel.Remove(id)
		observability.Editor().OnNodeDeleted(id)
	}
	e.hist.Commit()
}

// Rename changes a job's ID, rewriting every edge and dependency list that
// referenced the old one and keeping selection membership intact. The rename
// gesture reverts on error; this method just reports it.
func (e *Editor) Rename(oldID, newID string) error {
	if err := e.w.RenameJob(oldID, newID); err != nil {
		return err
	}
	if oldID == newID {
		return nil
	}
	e.sel.Rename(oldID, newID)
	observability.Editor().OnNodeRenamed(oldID, newID)
	e.hist.Commit()
	return nil
}

// Inspect signals the frontend to open its detail editor for the primary
// selection. No-op when zero or several jobs are selected.
func (e *Editor) Inspect() {
	if id := e.sel.Primary(); id != "" {
		observability.Editor().OnInspect(id)
	}
}

// =============================================================================
// Edges
// =============================================================================

// Connect creates the dependency edge from→to. Self-loops, duplicates and
// unknown endpoints are errors; the connection gesture swallows them so a
// failed connection simply creates nothing.
func (e *Editor) Connect(from, to string) error {
	if err := e.w.AddDependency(from, to); err != nil {
		return err
	}
	observability.Editor().OnEdgeAdded(from, to)
	e.hist.Commit()
	return nil
}

// Disconnect removes the edge from→to if present.
func (e *Editor) Disconnect(from, to string) error {
	if !e.w.HasEdge(from, to) {
		return nil
	}
	if err := e.w.RemoveDependency(from, to); err != nil {
		return err
	}
	observability.Editor().OnEdgeRemoved(from, to)
	e.hist.Commit()
	return nil
}

// =============================================================================
// Movement
// =============================================================================

// MoveSelectionBy shifts every selected job by a world-space delta without
// committing. Drag gestures call this on every pointer move; the gesture's
// settle path commits once.
func (e *Editor) MoveSelectionBy(dx, dy float64) {
	for _, id := range e.sel.IDs(e.w.JobIDs()) {
		if j, ok := e.w.Job(id); ok {
			j.X += dx
			j.Y += dy
		}
	}
}

// Nudge shifts the selection by a world-space delta and schedules a debounced
// commit, so holding an arrow key produces one undo step, not fifty.
func (e *Editor) Nudge(dx, dy float64) {
	if e.sel.Count() == 0 {
		return
	}
	e.MoveSelectionBy(dx, dy)
	e.emitPositions(e.sel.IDs(e.w.JobIDs()))
	e.hist.DebouncedCommit()
}

// SettleMove commits after a drag release and emits the settled position
// batch for the given jobs.
func (e *Editor) SettleMove(ids []string) {
	e.emitPositions(ids)
	e.hist.Commit()
}

func (e *Editor) emitPositions(ids []string) {
	if len(ids) == 0 {
		return
	}
	updates := make([]observability.PositionUpdate, 0, len(ids))
	for _, id := range ids {
		if j, ok := e.w.Job(id); ok {
			updates = append(updates, observability.PositionUpdate{ID: id, X: j.X, Y: j.Y})
		}
	}
	observability.Editor().OnPositionsChanged(updates)
}

// =============================================================================
// Selection Shortcuts
// =============================================================================

// SelectAll selects every job.
func (e *Editor) SelectAll() {
	e.sel.SetAll(e.w.JobIDs())
}

// =============================================================================
// Clipboard
// =============================================================================

// Copy writes the selected subgraph to the clipboard. Edges with an endpoint
// outside the selection are dropped; the bundle is self-contained.
func (e *Editor) Copy(ctx context.Context) error {
	ids := e.sel.IDs(e.w.JobIDs())
	if len(ids) == 0 {
		return nil
	}
	return e.clip.Write(ctx, clipboard.MakeBundle(e.w, ids))
}

// Cut copies the selection and then deletes it.
func (e *Editor) Cut(ctx context.Context) error {
	if e.sel.Count() == 0 {
		return nil
	}
	if err := e.Copy(ctx); err != nil {
		return err
	}
	e.DeleteSelection()
	return nil
}

// Paste inserts the clipboard bundle, remapping any job ID that collides with
// an existing one and rewriting the bundle's internal references to match.
// Pasted jobs land offset from their copied positions and become the new
// selection. An empty clipboard is a silent no-op.
func (e *Editor) Paste(ctx context.Context) error {
	b, err := e.clip.Read(ctx)
	if err != nil {
		if errors.Is(err, clipboard.ErrEmpty) {
			return nil
		}
		return err
	}
	if len(b.Jobs) == 0 {
		return nil
	}

	remap := make(map[string]string, len(b.Jobs))
	for _, j := range b.Jobs {
		remap[j.ID] = e.freeID(j.ID)
	}

	pasted := make([]string, 0, len(b.Jobs))
	for _, j := range b.Jobs {
		nj := j.Clone()
		nj.ID = remap[j.ID]
		nj.X += e.opts.PasteOffset
		nj.Y += e.opts.PasteOffset
		nj.Dependencies = nil
		for _, dep := range j.Dependencies {
			// MakeBundle already restricted dependencies to the copied set,
			// so every one of them has a remapped ID.
			if mapped, ok := remap[dep]; ok {
				nj.Dependencies = append(nj.Dependencies, mapped)
			}
		}
		if err := e.w.AddJob(nj); err != nil {
			return fmt.Errorf("failed to paste job %q: %w", nj.ID, err)
		}
		pasted = append(pasted, nj.ID)
	}

	e.sel.SetAll(pasted)
	observability.Editor().OnNodesPasted(pasted)
	e.hist.Commit()
	return nil
}

// Duplicate clones the selected subgraph in place: same remapping rules as
// paste, without touching the clipboard.
func (e *Editor) Duplicate() {
	ids := e.sel.IDs(e.w.JobIDs())
	if len(ids) == 0 {
		return
	}
	b := clipboard.MakeBundle(e.w, ids)

	remap := make(map[string]string, len(b.Jobs))
	for _, j := range b.Jobs {
		remap[j.ID] = e.freeID(j.ID)
	}

	created := make([]string, 0, len(b.Jobs))
	for _, j := range b.Jobs {
		nj := j.Clone()
		nj.ID = remap[j.ID]
		nj.X += e.opts.PasteOffset
		nj.Y += e.opts.PasteOffset
		nj.Dependencies = nil
		for _, dep := range j.Dependencies {
			if mapped, ok := remap[dep]; ok {
				nj.Dependencies = append(nj.Dependencies, mapped)
			}
		}
		e.w.AddJob(nj)
		created = append(created, nj.ID)
	}

	e.sel.SetAll(created)
	observability.Editor().OnNodesPasted(created)
	e.hist.Commit()
}

// freeID returns id if unused, otherwise id with a random suffix. The suffix
// is a UUID fragment rather than a counter so concurrent sessions pasting
// into the same stored workflow cannot race to the same name.
func (e *Editor) freeID(id string) string {
	if _, exists := e.w.Job(id); !exists {
		return id
	}
	for {
		candidate := fmt.Sprintf("%s-%s", id, uuid.NewString()[:8])
		if _, exists := e.w.Job(candidate); !exists {
			return candidate
		}
	}
}

// =============================================================================
// Layout & Viewport Convenience
// =============================================================================

// Arrange runs auto-layout over the whole workflow and commits on success. On
// error (a cyclic graph) positions and history are untouched.
func (e *Editor) Arrange(opts layout.Options) error {
	if opts.NodeWidth == 0 {
		opts.NodeWidth = e.opts.NodeWidth
	}
	if opts.NodeHeight == 0 {
		opts.NodeHeight = e.opts.NodeHeight
	}
	if err := layout.Arrange(e.w, opts); err != nil {
		return err
	}
	e.emitPositions(e.w.JobIDs())
	e.hist.Commit()
	return nil
}

// FitToContent fits the viewport to the bounding box of all jobs, padded by
// half a node box. No-op on an empty workflow.
func (e *Editor) FitToContent(screenW, screenH float64) {
	jobs := e.w.Jobs()
	if len(jobs) == 0 {
		return
	}
	xs := make([]float64, len(jobs))
	ys := make([]float64, len(jobs))
	for i, j := range jobs {
		xs[i], ys[i] = j.X, j.Y
	}
	b, _ := canvas.BoundsOf(xs, ys)
	b = b.Expand(e.opts.NodeWidth / 2)
	e.view.FitToContent(b, screenW, screenH)
}

// Undo steps history back one snapshot.
func (e *Editor) Undo() bool { return e.hist.Undo() }

// Redo steps history forward one snapshot.
func (e *Editor) Redo() bool { return e.hist.Redo() }
