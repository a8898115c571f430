package editor

import (
	"reflect"
	"sync"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// Default history tuning. Capacity bounds memory for long sessions; the
// debounce window coalesces a burst of rapid edits (arrow-key nudges,
// mid-drag updates) into one undoable step.
const (
	DefaultHistoryCapacity = 50
	DefaultHistoryDebounce = 400 * time.Millisecond
)

// HistoryOptions configures a History. The zero value is usable.
type HistoryOptions struct {
	Capacity int           `json:"capacity,omitempty"`
	Debounce time.Duration `json:"debounce,omitempty"`
}

// SetDefaults fills unset fields. Idempotent.
func (o *HistoryOptions) SetDefaults() {
	if o.Capacity <= 0 {
		o.Capacity = DefaultHistoryCapacity
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultHistoryDebounce
	}
}

// History is a linear undo/redo stack of deep workflow snapshots.
//
// Snapshots are full structural copies (jobs, dependencies, config), never
// diffs, so restoring one cannot leave partial state behind. Committing from
// a non-tip index truncates the redo tail; exceeding capacity evicts the
// oldest entry. A commit whose snapshot is structurally identical to the
// current one is skipped, so no-op edits cannot grow the stack.
//
// The editor itself is single-threaded, but the debounce timer fires on its
// own goroutine, so History carries a mutex.
type History struct {
	mu        sync.Mutex
	target    *workflow.Workflow
	snaps     []*workflow.Workflow
	idx       int
	opts      HistoryOptions
	timer     *time.Timer
	pending   bool
	suspended bool
}

// NewHistory creates a history over target and records the initial state as
// the first snapshot.
func NewHistory(target *workflow.Workflow, opts HistoryOptions) *History {
	opts.SetDefaults()
	return &History{
		target: target,
		snaps:  []*workflow.Workflow{target.Clone()},
		opts:   opts,
	}
}

// Commit snapshots the current state immediately. It reports whether a new
// snapshot was pushed; structurally identical states and commits issued while
// a restore is in progress are skipped.
func (h *History) Commit() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commitLocked()
}

// DebouncedCommit schedules a commit after the configured quiet period,
// resetting the countdown if one is already scheduled. Use it for bursty
// mutations where each individual change is not worth an undo step.
func (h *History) DebouncedCommit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.suspended {
		return
	}
	h.pending = true
	if h.timer == nil {
		h.timer = time.AfterFunc(h.opts.Debounce, h.debounceFired)
		return
	}
	h.timer.Reset(h.opts.Debounce)
}

func (h *History) debounceFired() {
	h.mu.Lock()
	defer h.mu.Unlock()
	// A Flush or Undo may have consumed the pending commit between the timer
	// firing and the lock being acquired.
	if !h.pending {
		return
	}
	h.pending = false
	h.commitLocked()
}

// Flush commits any pending debounced change immediately. Tests and shutdown
// paths use it to make the debounce deterministic.
func (h *History) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushLocked()
}

func (h *History) flushLocked() {
	if !h.pending {
		return
	}
	h.pending = false
	if h.timer != nil {
		h.timer.Stop()
	}
	h.commitLocked()
}

func (h *History) commitLocked() bool {
	if h.suspended {
		return false
	}
	snap := h.target.Clone()
	if reflect.DeepEqual(snap, h.snaps[h.idx]) {
		return false
	}

	h.snaps = append(h.snaps[:h.idx+1], snap)
	if len(h.snaps) > h.opts.Capacity {
		h.snaps = h.snaps[1:]
	}
	h.idx = len(h.snaps) - 1

	observability.Editor().OnCommit(len(h.snaps))
	return true
}

// Undo steps back one snapshot and restores it into the target workflow,
// reporting whether a step was taken. A pending debounced change is flushed
// first so the burst being typed is itself undoable.
//
// Observation is suspended during the restore: the restoration must not be
// recorded as a new edit.
func (h *History) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushLocked()

	if h.idx == 0 {
		return false
	}
	h.idx--
	h.restoreLocked()
	observability.Editor().OnUndo(h.idx)
	return true
}

// Redo steps forward one snapshot, reporting whether a step was taken.
func (h *History) Redo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushLocked()

	if h.idx >= len(h.snaps)-1 {
		return false
	}
	h.idx++
	h.restoreLocked()
	observability.Editor().OnRedo(h.idx)
	return true
}

func (h *History) restoreLocked() {
	h.suspended = true
	h.target.Restore(h.snaps[h.idx])
	h.suspended = false
}

// CanUndo reports whether a snapshot exists behind the current index.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.idx > 0 || h.pending
}

// CanRedo reports whether a snapshot exists ahead of the current index.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.idx < len(h.snaps)-1
}

// Len returns the number of snapshots on the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snaps)
}
