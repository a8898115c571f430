package editor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/clipboard"
	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

func newEditorFixture(t *testing.T, jobs ...workflow.Job) *Editor {
	t.Helper()
	w := workflow.New(nil)
	for _, j := range jobs {
		if err := w.AddJob(j); err != nil {
			t.Fatalf("AddJob(%s) = %v", j.ID, err)
		}
	}
	return New(w, Options{})
}

func TestEditor_DeleteSelectionCascades(t *testing.T) {
	ed := newEditorFixture(t,
		workflow.Job{ID: "a"},
		workflow.Job{ID: "b", Dependencies: []string{"a"}},
		workflow.Job{ID: "c", Dependencies: []string{"a", "b"}},
	)
	ed.Selection().Replace("a")

	ed.DeleteSelection()

	w := ed.Workflow()
	if _, ok := w.Job("a"); ok {
		t.Fatal("deleted job still present")
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v after delete, want no dangling references", err)
	}
	for _, e := range w.Edges() {
		if e.From == "a" || e.To == "a" {
			t.Errorf("dangling edge survived: %+v", e)
		}
	}
	if ed.Selection().Count() != 0 {
		t.Errorf("selection count = %d after delete, want 0", ed.Selection().Count())
	}
	if !ed.Undo() {
		t.Fatal("delete was not undoable")
	}
	if _, ok := w.Job("a"); !ok {
		t.Error("undo did not restore the deleted job")
	}
}

func TestEditor_RenameRewritesEdges(t *testing.T) {
	ed := newEditorFixture(t,
		workflow.Job{ID: "a"},
		workflow.Job{ID: "x", Dependencies: []string{"a"}},
	)

	if err := ed.Rename("x", "y"); err != nil {
		t.Fatalf("Rename() = %v", err)
	}

	w := ed.Workflow()
	if !w.HasEdge("a", "y") {
		t.Error("edge a→y missing after rename")
	}
	for _, e := range w.Edges() {
		if e.From == "x" || e.To == "x" {
			t.Errorf("edge still references old ID: %+v", e)
		}
	}
}

func TestEditor_CopyPasteRemapsIDs(t *testing.T) {
	ctx := context.Background()
	ed := newEditorFixture(t,
		workflow.Job{ID: "a", X: 10, Y: 10},
		workflow.Job{ID: "b", X: 10, Y: 100, Dependencies: []string{"a"}},
	)
	ed.SelectAll()

	if err := ed.Copy(ctx); err != nil {
		t.Fatalf("Copy() = %v", err)
	}
	if err := ed.Paste(ctx); err != nil {
		t.Fatalf("Paste() = %v", err)
	}

	w := ed.Workflow()
	if w.Count() != 4 {
		t.Fatalf("Count() = %d after paste, want 4", w.Count())
	}

	pasted := ed.Selection().IDs(w.JobIDs())
	if len(pasted) != 2 {
		t.Fatalf("selection after paste = %v, want the 2 pasted jobs", pasted)
	}
	for _, id := range pasted {
		if id == "a" || id == "b" {
			t.Errorf("pasted job kept a colliding ID: %q", id)
		}
		j, _ := w.Job(id)
		if j.X != 10+DefaultPasteOffset {
			t.Errorf("pasted job %s at X=%g, want offset %g", id, j.X, 10+DefaultPasteOffset)
		}
	}

	// The internal edge must connect the two remapped copies, not the originals.
	var pa, pb string
	for _, id := range pasted {
		if strings.HasPrefix(id, "a-") {
			pa = id
		}
		if strings.HasPrefix(id, "b-") {
			pb = id
		}
	}
	if pa == "" || pb == "" || !w.HasEdge(pa, pb) {
		t.Errorf("remapped internal edge missing: pasted=%v", pasted)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v after paste", err)
	}
}

func TestEditor_PasteWithoutCollisionKeepsIDs(t *testing.T) {
	ctx := context.Background()
	port := clipboard.NewMemory()

	src := newEditorFixture(t, workflow.Job{ID: "a"}, workflow.Job{ID: "b", Dependencies: []string{"a"}})
	src.opts.Clipboard = port
	src.clip = port
	src.SelectAll()
	if err := src.Copy(ctx); err != nil {
		t.Fatalf("Copy() = %v", err)
	}

	dst := New(workflow.New(nil), Options{Clipboard: port})
	if err := dst.Paste(ctx); err != nil {
		t.Fatalf("Paste() = %v", err)
	}

	if _, ok := dst.Workflow().Job("a"); !ok {
		t.Error("paste into an empty workflow renamed a non-colliding job")
	}
	if !dst.Workflow().HasEdge("a", "b") {
		t.Error("internal edge lost across clipboards")
	}
}

func TestEditor_PasteEmptyClipboardNoOps(t *testing.T) {
	ed := newEditorFixture(t, workflow.Job{ID: "a"})
	if err := ed.Paste(context.Background()); err != nil {
		t.Fatalf("Paste(empty) = %v, want nil", err)
	}
	if ed.Workflow().Count() != 1 {
		t.Errorf("Count() = %d, want 1", ed.Workflow().Count())
	}
}

func TestEditor_CutRemovesOriginals(t *testing.T) {
	ctx := context.Background()
	ed := newEditorFixture(t, workflow.Job{ID: "a"}, workflow.Job{ID: "b"})
	ed.Selection().Replace("a")

	if err := ed.Cut(ctx); err != nil {
		t.Fatalf("Cut() = %v", err)
	}
	if _, ok := ed.Workflow().Job("a"); ok {
		t.Error("cut job still present")
	}

	if err := ed.Paste(ctx); err != nil {
		t.Fatalf("Paste() = %v", err)
	}
	if _, ok := ed.Workflow().Job("a"); !ok {
		t.Error("paste after cut did not restore the job under its free ID")
	}
}

func TestEditor_DuplicateSelectsCopies(t *testing.T) {
	ed := newEditorFixture(t,
		workflow.Job{ID: "a", X: 0, Y: 0},
		workflow.Job{ID: "b", X: 0, Y: 100, Dependencies: []string{"a"}},
	)
	ed.SelectAll()

	ed.Duplicate()

	w := ed.Workflow()
	if w.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", w.Count())
	}
	for _, id := range ed.Selection().IDs(w.JobIDs()) {
		if id == "a" || id == "b" {
			t.Errorf("duplicate selected an original: %q", id)
		}
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v after duplicate", err)
	}
}

func TestEditor_NudgeCoalescesIntoOneUndoStep(t *testing.T) {
	w := workflow.New(nil)
	w.AddJob(workflow.Job{ID: "a", X: 0, Y: 0})
	ed := New(w, Options{History: HistoryOptions{Debounce: time.Hour}})
	ed.Selection().Replace("a")

	for i := 0; i < 8; i++ {
		ed.Nudge(1, 0)
	}
	ed.History().Flush()

	j, _ := w.Job("a")
	if j.X != 8 {
		t.Fatalf("X = %g after 8 nudges, want 8", j.X)
	}
	if !ed.Undo() {
		t.Fatal("Undo() = false")
	}
	j, _ = w.Job("a")
	if j.X != 0 {
		t.Errorf("X = %g after one undo, want the whole burst reverted to 0", j.X)
	}
}

func TestEditor_ConnectRejections(t *testing.T) {
	ed := newEditorFixture(t,
		workflow.Job{ID: "a"},
		workflow.Job{ID: "b", Dependencies: []string{"a"}},
	)

	if err := ed.Connect("a", "a"); err == nil {
		t.Error("Connect(a, a) = nil, want self-loop error")
	}
	if err := ed.Connect("a", "b"); err == nil {
		t.Error("Connect duplicate = nil, want error")
	}
	if err := ed.Connect("a", "ghost"); err == nil {
		t.Error("Connect to unknown job = nil, want error")
	}
	if ed.History().Len() != 1 {
		t.Errorf("History.Len() = %d, failed connects must not commit", ed.History().Len())
	}
}

func TestEditor_ArrangeCommitsAndUndoRestores(t *testing.T) {
	ed := newEditorFixture(t,
		workflow.Job{ID: "a", X: 5, Y: 5},
		workflow.Job{ID: "b", X: 7, Y: 7, Dependencies: []string{"a"}},
	)

	if err := ed.Arrange(layout.Options{Strategy: layout.StrategyLayered}); err != nil {
		t.Fatalf("Arrange() = %v", err)
	}
	a, _ := ed.Workflow().Job("a")
	if a.X == 5 && a.Y == 5 {
		t.Fatal("Arrange left positions untouched")
	}

	if !ed.Undo() {
		t.Fatal("Undo() = false after arrange")
	}
	a, _ = ed.Workflow().Job("a")
	if a.X != 5 || a.Y != 5 {
		t.Errorf("position = (%g, %g) after undo, want (5, 5)", a.X, a.Y)
	}
}

func TestEditor_FreeIDAvoidsCollisions(t *testing.T) {
	ed := newEditorFixture(t, workflow.Job{ID: "job"})

	free := ed.freeID("job")
	if free == "job" {
		t.Fatal("freeID returned the colliding ID")
	}
	if !strings.HasPrefix(free, "job-") {
		t.Errorf("freeID = %q, want a job- prefix", free)
	}
	if got := ed.freeID("untaken"); got != "untaken" {
		t.Errorf("freeID(untaken) = %q, want unchanged", got)
	}
}
