package editor

import (
	"reflect"
	"testing"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// newCanvasFixture builds an editor with jobs at known positions and a 1:1
// viewport, so screen and world coordinates coincide in gesture tests.
func newCanvasFixture(t *testing.T, jobs ...workflow.Job) (*Editor, *Interaction) {
	t.Helper()
	w := workflow.New(nil)
	for _, j := range jobs {
		if err := w.AddJob(j); err != nil {
			t.Fatalf("AddJob(%s) = %v", j.ID, err)
		}
	}
	ed := New(w, Options{})
	return ed, NewInteraction(ed)
}

func TestInteraction_DragMovesAndCommits(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.PointerDown(PointerEvent{X: 100, Y: 100})
	if in.Mode() != ModeDraggingNodes {
		t.Fatalf("Mode() = %q, want draggingNodes", in.Mode())
	}
	in.PointerMove(PointerEvent{X: 150, Y: 120})
	in.PointerUp(PointerEvent{X: 150, Y: 120})

	j, _ := ed.Workflow().Job("a")
	if j.X != 150 || j.Y != 120 {
		t.Errorf("position = (%g, %g), want (150, 120)", j.X, j.Y)
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %q after pointer-up, want idle", in.Mode())
	}
	if ed.History().Len() != 2 {
		t.Errorf("History.Len() = %d, want 2 (drag settles into one commit)", ed.History().Len())
	}
}

func TestInteraction_DragSelectedMovesWholeSelection(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)
	ed.SelectAll()

	in.PointerDown(PointerEvent{X: 100, Y: 100})
	in.PointerMove(PointerEvent{X: 110, Y: 130})
	in.PointerUp(PointerEvent{X: 110, Y: 130})

	a, _ := ed.Workflow().Job("a")
	b, _ := ed.Workflow().Job("b")
	if a.X != 110 || a.Y != 130 || b.X != 410 || b.Y != 130 {
		t.Errorf("a=(%g,%g) b=(%g,%g), want both shifted by (10, 30)", a.X, a.Y, b.X, b.Y)
	}
}

func TestInteraction_DragUnselectedSelectsOnlyIt(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)
	ed.Selection().Replace("b")

	in.PointerDown(PointerEvent{X: 100, Y: 100}) // press a
	if ed.Selection().Has("b") || !ed.Selection().Has("a") {
		t.Errorf("selection after press = %v, want only a", ed.Selection().IDs(ed.Workflow().JobIDs()))
	}
	in.PointerMove(PointerEvent{X: 120, Y: 100})
	in.PointerUp(PointerEvent{X: 120, Y: 100})

	b, _ := ed.Workflow().Job("b")
	if b.X != 400 {
		t.Errorf("unselected node moved: b.X = %g", b.X)
	}
}

func TestInteraction_EscapeCancelsDrag(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.PointerDown(PointerEvent{X: 100, Y: 100})
	in.PointerMove(PointerEvent{X: 300, Y: 300})
	in.Escape()

	j, _ := ed.Workflow().Job("a")
	if j.X != 100 || j.Y != 100 {
		t.Errorf("position = (%g, %g) after Escape, want restored (100, 100)", j.X, j.Y)
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %q, want idle", in.Mode())
	}
	if ed.History().Len() != 1 {
		t.Errorf("History.Len() = %d, cancelled drag must not commit", ed.History().Len())
	}
}

func TestInteraction_PlainClickCollapsesSelection(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)
	ed.SelectAll()

	in.PointerDown(PointerEvent{X: 100, Y: 100})
	in.PointerUp(PointerEvent{X: 100, Y: 100}) // no movement: a click

	sel := ed.Selection()
	if sel.Count() != 1 || !sel.Has("a") {
		t.Errorf("selection = %v, want only the clicked node", sel.IDs(ed.Workflow().JobIDs()))
	}
}

func TestInteraction_CtrlClickToggles(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)
	ed.Selection().Replace("a")

	in.PointerDown(PointerEvent{X: 400, Y: 100, Mods: ModCtrl})
	in.PointerUp(PointerEvent{X: 400, Y: 100, Mods: ModCtrl})

	sel := ed.Selection()
	if !sel.Has("a") || !sel.Has("b") {
		t.Errorf("ctrl-click selection = %v, want [a b]", sel.IDs(ed.Workflow().JobIDs()))
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %q, ctrl-click must not start a drag", in.Mode())
	}
}

func TestInteraction_LassoOrderIndependent(t *testing.T) {
	run := func(x1, y1, x2, y2 float64) []string {
		ed, in := newCanvasFixture(t,
			workflow.Job{ID: "a", X: 100, Y: 100},
			workflow.Job{ID: "b", X: 200, Y: 240},
			workflow.Job{ID: "far", X: 900, Y: 900},
		)
		in.PointerDown(PointerEvent{X: x1, Y: y1})
		if in.Mode() != ModeLassoing {
			t.Fatalf("Mode() = %q, want lassoing", in.Mode())
		}
		in.PointerMove(PointerEvent{X: x2, Y: y2})
		in.PointerUp(PointerEvent{X: x2, Y: y2})
		return ed.Selection().IDs(ed.Workflow().JobIDs())
	}

	forward := run(40, 30, 300, 320)
	backward := run(300, 320, 40, 30)

	want := []string{"a", "b"}
	if !reflect.DeepEqual(forward, want) {
		t.Errorf("forward lasso = %v, want %v", forward, want)
	}
	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("lasso direction matters: %v vs %v", forward, backward)
	}
}

func TestInteraction_LassoAdditive(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 600, Y: 600},
	)
	ed.Selection().Replace("b")

	in.PointerDown(PointerEvent{X: 40, Y: 30, Mods: ModShift})
	in.PointerMove(PointerEvent{X: 200, Y: 200})
	in.PointerUp(PointerEvent{X: 200, Y: 200})

	sel := ed.Selection()
	if !sel.Has("a") || !sel.Has("b") {
		t.Errorf("additive lasso = %v, want [a b]", sel.IDs(ed.Workflow().JobIDs()))
	}
}

func TestInteraction_EscapeCancelsLasso(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 600, Y: 600},
	)
	ed.Selection().Replace("b")

	in.PointerDown(PointerEvent{X: 40, Y: 30})
	in.PointerMove(PointerEvent{X: 200, Y: 200}) // live preview now selects a
	in.Escape()

	sel := ed.Selection()
	if !sel.Has("b") || sel.Has("a") {
		t.Errorf("selection after Escape = %v, want gesture-start [b]", sel.IDs(ed.Workflow().JobIDs()))
	}
}

func TestInteraction_MiddleButtonPans(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.PointerDown(PointerEvent{X: 500, Y: 500, Button: ButtonMiddle})
	if in.Mode() != ModePanning {
		t.Fatalf("Mode() = %q, want panning", in.Mode())
	}
	in.PointerMove(PointerEvent{X: 530, Y: 460})
	in.PointerUp(PointerEvent{X: 530, Y: 460})

	x, y := ed.Viewport().Pan()
	if x != 30 || y != -40 {
		t.Errorf("Pan() = (%g, %g), want (30, -40)", x, y)
	}
	j, _ := ed.Workflow().Job("a")
	if j.X != 100 || j.Y != 100 {
		t.Error("panning moved a node")
	}
}

func TestInteraction_SpaceDragPans(t *testing.T) {
	_, in := newCanvasFixture(t)
	in.PointerDown(PointerEvent{X: 10, Y: 10, Mods: ModSpace})
	if in.Mode() != ModePanning {
		t.Errorf("Mode() = %q with space held, want panning", in.Mode())
	}
	in.PointerUp(PointerEvent{X: 10, Y: 10})
}

func TestInteraction_ConnectCreatesEdge(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)

	// Output connectors sit at the bottom-center of each node box.
	in.PointerDown(PointerEvent{X: 100, Y: 130})
	if in.Mode() != ModeConnecting {
		t.Fatalf("Mode() = %q, want connecting", in.Mode())
	}
	in.PointerMove(PointerEvent{X: 250, Y: 150})
	if from, _, _, ok := in.ConnectionLine(); !ok || from != "a" {
		t.Errorf("ConnectionLine() = %q, %v; want a, true", from, ok)
	}
	in.PointerUp(PointerEvent{X: 400, Y: 130})

	if !ed.Workflow().HasEdge("a", "b") {
		t.Error("edge a→b not created")
	}
	if ed.History().Len() != 2 {
		t.Errorf("History.Len() = %d, want 2", ed.History().Len())
	}
}

func TestInteraction_ConnectRejectsSelfLoop(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.PointerDown(PointerEvent{X: 100, Y: 130})
	in.PointerUp(PointerEvent{X: 100, Y: 130})

	if len(ed.Workflow().Edges()) != 0 {
		t.Error("self-loop connection created an edge")
	}
	if ed.History().Len() != 1 {
		t.Errorf("History.Len() = %d, failed connection must not commit", ed.History().Len())
	}
}

func TestInteraction_ConnectRejectsDuplicate(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100, Dependencies: []string{"a"}},
	)

	in.PointerDown(PointerEvent{X: 100, Y: 130})
	in.PointerUp(PointerEvent{X: 400, Y: 130})

	if got := len(ed.Workflow().Edges()); got != 1 {
		t.Errorf("edge count = %d after duplicate gesture, want 1", got)
	}
	if ed.History().Len() != 1 {
		t.Errorf("History.Len() = %d, duplicate connection must not commit", ed.History().Len())
	}
}

func TestInteraction_ConnectReleaseOnEmptyVanishes(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.PointerDown(PointerEvent{X: 100, Y: 130})
	in.PointerUp(PointerEvent{X: 700, Y: 700})

	if len(ed.Workflow().Edges()) != 0 {
		t.Error("releasing over empty canvas created an edge")
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %q, want idle", in.Mode())
	}
}

func TestInteraction_RenameConfirm(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "x", X: 100, Y: 100},
		workflow.Job{ID: "a", X: 400, Y: 100, Dependencies: []string{"x"}},
	)

	in.DoubleClick(PointerEvent{X: 100, Y: 100})
	if in.Mode() != ModeRenaming {
		t.Fatalf("Mode() = %q, want renaming", in.Mode())
	}
	if id, buf, _ := in.RenameState(); id != "x" || buf != "x" {
		t.Fatalf("RenameState() = %q, %q; want x, x", id, buf)
	}

	in.SetRenameBuffer("y")
	if err := in.ConfirmRename(); err != nil {
		t.Fatalf("ConfirmRename() = %v", err)
	}

	if _, ok := ed.Workflow().Job("y"); !ok {
		t.Error("renamed job missing")
	}
	if !ed.Workflow().HasEdge("y", "a") || ed.Workflow().HasEdge("x", "a") {
		t.Error("edge not rewritten to the new ID")
	}
}

func TestInteraction_RenameDuplicateReverts(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)

	in.StartRename("a")
	in.SetRenameBuffer("b")
	if err := in.ConfirmRename(); err == nil {
		t.Fatal("ConfirmRename() = nil for duplicate ID, want error")
	}

	if _, ok := ed.Workflow().Job("a"); !ok {
		t.Error("failed rename lost the original ID")
	}
	if in.Mode() != ModeIdle {
		t.Errorf("Mode() = %q after failed confirm, want idle", in.Mode())
	}
}

func TestInteraction_RenameEscapeReverts(t *testing.T) {
	ed, in := newCanvasFixture(t, workflow.Job{ID: "a", X: 100, Y: 100})

	in.StartRename("a")
	in.SetRenameBuffer("something-else")
	in.Escape()

	if _, ok := ed.Workflow().Job("a"); !ok {
		t.Error("Escape applied the rename")
	}
	if ed.History().Len() != 1 {
		t.Errorf("History.Len() = %d, cancelled rename must not commit", ed.History().Len())
	}
}

func TestInteraction_PointerDownConfirmsPendingRename(t *testing.T) {
	ed, in := newCanvasFixture(t,
		workflow.Job{ID: "a", X: 100, Y: 100},
		workflow.Job{ID: "b", X: 400, Y: 100},
	)

	in.StartRename("a")
	in.SetRenameBuffer("renamed")
	in.PointerDown(PointerEvent{X: 400, Y: 100}) // click elsewhere confirms

	if _, ok := ed.Workflow().Job("renamed"); !ok {
		t.Error("click-away did not confirm the rename")
	}
	if in.Mode() != ModeDraggingNodes {
		t.Errorf("Mode() = %q, want the new gesture to proceed", in.Mode())
	}
}

func TestInteraction_HitTestTopmostWins(t *testing.T) {
	_, in := newCanvasFixture(t,
		workflow.Job{ID: "under", X: 100, Y: 100},
		workflow.Job{ID: "over", X: 110, Y: 100},
	)

	id, region := in.HitTest(105, 100)
	if id != "over" || region != RegionBody {
		t.Errorf("HitTest() = %q, %v; want over (later insertion draws on top)", id, region)
	}
}
