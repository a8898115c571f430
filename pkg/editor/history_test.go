package editor

import (
	"testing"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

func newHistoryFixture(t *testing.T) (*workflow.Workflow, *History) {
	t.Helper()
	w := workflow.New(nil)
	if err := w.AddJob(workflow.Job{ID: "seed"}); err != nil {
		t.Fatalf("AddJob(seed) = %v", err)
	}
	return w, NewHistory(w, HistoryOptions{})
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	w, h := newHistoryFixture(t)

	const n = 5
	for i := 0; i < n; i++ {
		w.AddJob(workflow.Job{ID: string(rune('a' + i))})
		if !h.Commit() {
			t.Fatalf("Commit %d = false, want true", i)
		}
	}

	for i := 0; i < n; i++ {
		if !h.Undo() {
			t.Fatalf("Undo %d = false", i)
		}
	}
	if w.Count() != 1 {
		t.Errorf("after %d undos: %d jobs, want the initial 1", n, w.Count())
	}
	if h.Undo() {
		t.Error("Undo past the initial snapshot succeeded")
	}

	for i := 0; i < n; i++ {
		if !h.Redo() {
			t.Fatalf("Redo %d = false", i)
		}
	}
	if w.Count() != 1+n {
		t.Errorf("after %d redos: %d jobs, want %d", n, w.Count(), 1+n)
	}
	if h.Redo() {
		t.Error("Redo past the tip succeeded")
	}
}

func TestHistory_NoOpCommitSkipped(t *testing.T) {
	_, h := newHistoryFixture(t)

	if h.Commit() {
		t.Error("Commit with unchanged state pushed a snapshot")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistory_RedoTailTruncatedOnCommit(t *testing.T) {
	w, h := newHistoryFixture(t)

	w.AddJob(workflow.Job{ID: "a"})
	h.Commit()
	w.AddJob(workflow.Job{ID: "b"})
	h.Commit()

	h.Undo() // back to [seed a]
	w.AddJob(workflow.Job{ID: "c"})
	h.Commit()

	if h.Redo() {
		t.Error("Redo succeeded after committing from a non-tip index")
	}
	if _, ok := w.Job("b"); ok {
		t.Error("truncated branch state leaked back")
	}
	if _, ok := w.Job("c"); !ok {
		t.Error("new branch state missing")
	}
}

func TestHistory_CapacityEvictsOldest(t *testing.T) {
	w := workflow.New(nil)
	h := NewHistory(w, HistoryOptions{Capacity: 3})

	for i := 0; i < 6; i++ {
		w.AddJob(workflow.Job{ID: string(rune('a' + i))})
		h.Commit()
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want capacity 3", h.Len())
	}

	// Only two steps of undo remain; the rest were evicted.
	steps := 0
	for h.Undo() {
		steps++
	}
	if steps != 2 {
		t.Errorf("undo steps = %d, want 2", steps)
	}
	if w.Count() != 4 {
		t.Errorf("oldest surviving snapshot has %d jobs, want 4", w.Count())
	}
}

func TestHistory_DebouncedCommitCoalesces(t *testing.T) {
	w := workflow.New(nil)
	h := NewHistory(w, HistoryOptions{Debounce: time.Hour})

	for i := 0; i < 10; i++ {
		w.AddJob(workflow.Job{ID: string(rune('a' + i))})
		h.DebouncedCommit()
	}
	if h.Len() != 1 {
		t.Fatalf("Len() = %d before flush, want 1 (nothing committed yet)", h.Len())
	}

	h.Flush()
	if h.Len() != 2 {
		t.Errorf("Len() = %d after flush, want 2 (burst coalesced into one)", h.Len())
	}
}

func TestHistory_FlushWithoutPendingNoOps(t *testing.T) {
	_, h := newHistoryFixture(t)
	h.Flush()
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistory_UndoFlushesPendingBurst(t *testing.T) {
	w := workflow.New(nil)
	h := NewHistory(w, HistoryOptions{Debounce: time.Hour})

	w.AddJob(workflow.Job{ID: "a"})
	h.DebouncedCommit()

	// The burst becomes its own undo step; undoing lands before it.
	if !h.Undo() {
		t.Fatal("Undo() = false with a pending burst")
	}
	if w.Count() != 0 {
		t.Errorf("Count() = %d after undo, want 0", w.Count())
	}
	if !h.Redo() {
		t.Fatal("Redo() = false")
	}
	if _, ok := w.Job("a"); !ok {
		t.Error("redo did not restore the flushed burst")
	}
}

func TestHistory_RestoreNotRecorded(t *testing.T) {
	w, h := newHistoryFixture(t)

	w.AddJob(workflow.Job{ID: "a"})
	h.Commit()
	h.Undo()

	// The restore itself must not have produced a new snapshot.
	if h.Len() != 2 {
		t.Errorf("Len() = %d after undo, want 2", h.Len())
	}
	// And committing the restored (unchanged) state is still a no-op.
	if h.Commit() {
		t.Error("Commit after undo pushed a snapshot for unchanged state")
	}
}

func TestHistory_SnapshotsAreDeepCopies(t *testing.T) {
	w, h := newHistoryFixture(t)

	j, _ := w.Job("seed")
	j.X = 100
	h.Commit()

	j.X = 999 // mutate live state without committing
	h.Undo()
	h.Redo()

	restored, _ := w.Job("seed")
	if restored.X != 100 {
		t.Errorf("X = %g after redo, want the committed 100", restored.X)
	}
}
