package editor

import (
	"math"

	"github.com/shwetalj/jobcanvas/pkg/canvas"
)

// Mode is the active interaction gesture. Modes are mutually exclusive: one
// gesture at a time, and every gesture ends back at ModeIdle on pointer-up or
// Escape.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModePanning       Mode = "panning"
	ModeLassoing      Mode = "lassoing"
	ModeDraggingNodes Mode = "draggingNodes"
	ModeConnecting    Mode = "connecting"
	ModeRenaming      Mode = "renaming"
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Mods is the modifier-key bitmask carried on pointer events. ModSpace means
// the space bar is held, the keyboard way to turn a drag into a pan.
type Mods uint8

const (
	ModCtrl Mods = 1 << iota
	ModShift
	ModAlt
	ModSpace
)

// Has reports whether all bits of f are set.
func (m Mods) Has(f Mods) bool { return m&f == f }

// PointerEvent is an abstract pointer sample in screen coordinates. Frontends
// translate their native input (mouse, touch, terminal cells) into these;
// the state machine never sees a rendering surface.
type PointerEvent struct {
	X, Y   float64
	Button Button
	Mods   Mods
}

// Region is the part of a node a pointer event landed on.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionConnector
)

type point struct{ x, y float64 }

// Interaction is the pointer-event state machine driving an Editor. It owns
// the gesture-scoped state (drag origins, lasso rectangle, pending
// connection, rename buffer) and guarantees that partial gestures never
// commit: history sees a change only when a gesture settles.
type Interaction struct {
	ed   *Editor
	mode Mode

	// Last screen position, for pan deltas.
	lastX, lastY float64

	// Gesture anchor and current point in world units.
	startW point
	curW   point

	// draggingNodes state. dragStart holds pre-gesture positions so Escape
	// can restore them.
	pressedID string
	dragIDs   []string
	dragStart map[string]point
	dragMoved bool

	// lassoing state: the selection captured at gesture start.
	lassoBase     []string
	lassoAdditive bool

	// connecting state.
	connectFrom string

	// renaming state.
	renameID  string
	renameBuf string
}

// NewInteraction creates an idle state machine over an editor.
func NewInteraction(ed *Editor) *Interaction {
	return &Interaction{ed: ed, mode: ModeIdle}
}

// Mode returns the active gesture mode.
func (in *Interaction) Mode() Mode { return in.mode }

// Editing reports whether an inline text edit is active. Frontends must
// route keystrokes to the rename buffer instead of canvas shortcuts while
// this is true.
func (in *Interaction) Editing() bool { return in.mode == ModeRenaming }

// =============================================================================
// Hit Testing
// =============================================================================

// connectorRadius is the world-unit hit radius of the output connector,
// which sits at the bottom-center of the node box.
const connectorRadius = 12.0

// HitTest returns the topmost job under a world point and which region of it
// was hit. Later jobs in insertion order draw on top, so the scan runs in
// reverse.
func (in *Interaction) HitTest(wx, wy float64) (string, Region) {
	jobs := in.ed.Workflow().Jobs()
	halfW := in.ed.opts.NodeWidth / 2
	halfH := in.ed.opts.NodeHeight / 2

	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		if math.Hypot(wx-j.X, wy-(j.Y+halfH)) <= connectorRadius {
			return j.ID, RegionConnector
		}
		if math.Abs(wx-j.X) <= halfW && math.Abs(wy-j.Y) <= halfH {
			return j.ID, RegionBody
		}
	}
	return "", RegionNone
}

// =============================================================================
// Pointer Events
// =============================================================================

// PointerDown starts a gesture. Events arriving while a gesture is already
// active are ignored; renaming is the exception, where a click outside the
// edited node confirms the pending rename first.
func (in *Interaction) PointerDown(ev PointerEvent) {
	if in.mode == ModeRenaming {
		in.ConfirmRename()
	}
	if in.mode != ModeIdle {
		return
	}

	in.lastX, in.lastY = ev.X, ev.Y
	wx, wy := in.ed.Viewport().ScreenToWorld(ev.X, ev.Y)
	in.startW = point{wx, wy}
	in.curW = in.startW

	id, region := in.HitTest(wx, wy)
	switch {
	case region == RegionConnector:
		in.mode = ModeConnecting
		in.connectFrom = id

	case region == RegionBody:
		in.pointerDownOnNode(id, ev.Mods)

	case ev.Button == ButtonMiddle || ev.Mods.Has(ModSpace):
		in.mode = ModePanning

	default:
		in.mode = ModeLassoing
		in.lassoBase = in.ed.Selection().IDs(in.ed.Workflow().JobIDs())
		in.lassoAdditive = ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModShift)
	}
}

func (in *Interaction) pointerDownOnNode(id string, mods Mods) {
	sel := in.ed.Selection()
	switch {
	case mods.Has(ModCtrl):
		// Toggle is a click gesture, never a drag.
		sel.Toggle(id)
		return
	case mods.Has(ModShift):
		sel.Range(id, in.ed.Workflow().JobIDs())
		return
	}

	// Plain press: drag the whole selection when the pressed node is already
	// part of it, otherwise drag just that node.
	if !sel.Has(id) {
		sel.Replace(id)
	}

	in.mode = ModeDraggingNodes
	in.pressedID = id
	in.dragIDs = sel.IDs(in.ed.Workflow().JobIDs())
	in.dragMoved = false
	in.dragStart = make(map[string]point, len(in.dragIDs))
	for _, did := range in.dragIDs {
		if j, ok := in.ed.Workflow().Job(did); ok {
			in.dragStart[did] = point{j.X, j.Y}
		}
	}
}

// PointerMove advances the active gesture. Position updates apply in arrival
// order and are idempotent: each move rewrites absolute state derived from
// the current pointer, so replays and duplicate events are harmless.
func (in *Interaction) PointerMove(ev PointerEvent) {
	dxScreen, dyScreen := ev.X-in.lastX, ev.Y-in.lastY
	in.lastX, in.lastY = ev.X, ev.Y

	wx, wy := in.ed.Viewport().ScreenToWorld(ev.X, ev.Y)
	in.curW = point{wx, wy}

	switch in.mode {
	case ModePanning:
		in.ed.Viewport().PanBy(dxScreen, dyScreen)

	case ModeDraggingNodes:
		if dxScreen == 0 && dyScreen == 0 {
			return
		}
		in.dragMoved = true
		zoom := in.ed.Viewport().Zoom()
		in.ed.MoveSelectionBy(dxScreen/zoom, dyScreen/zoom)

	case ModeLassoing:
		in.applyLasso()
	}
}

// PointerUp settles the active gesture and returns to idle.
func (in *Interaction) PointerUp(ev PointerEvent) {
	// Renaming is not a pointer gesture: the release of the double-click
	// that started it must not tear it down.
	if in.mode == ModeRenaming {
		return
	}

	wx, wy := in.ed.Viewport().ScreenToWorld(ev.X, ev.Y)
	in.curW = point{wx, wy}

	switch in.mode {
	case ModeDraggingNodes:
		if in.dragMoved {
			in.ed.SettleMove(in.dragIDs)
		} else {
			// A press-and-release without movement is a plain click: collapse
			// any multi-selection onto the clicked node.
			in.ed.Selection().Replace(in.pressedID)
			in.ed.Inspect()
		}

	case ModeConnecting:
		if id, region := in.HitTest(wx, wy); region == RegionConnector && id != in.connectFrom {
			// Self-loops and duplicates come back as errors; a failed
			// connection simply creates nothing.
			_ = in.ed.Connect(in.connectFrom, id)
		}

	case ModeLassoing:
		in.applyLasso()
	}

	in.resetGesture()
}

// Escape aborts the active gesture without committing partial state. Dragged
// nodes snap back, an in-progress lasso restores the gesture-start selection,
// a pending connection or rename is discarded.
func (in *Interaction) Escape() {
	switch in.mode {
	case ModeDraggingNodes:
		for id, p := range in.dragStart {
			if j, ok := in.ed.Workflow().Job(id); ok {
				j.X, j.Y = p.x, p.y
			}
		}

	case ModeLassoing:
		in.ed.Selection().SetLasso(nil, in.lassoBase, true)

	case ModeRenaming:
		// Revert: the buffer is discarded, the job keeps its ID.
	}

	in.resetGesture()
}

func (in *Interaction) resetGesture() {
	in.mode = ModeIdle
	in.pressedID = ""
	in.dragIDs = nil
	in.dragStart = nil
	in.dragMoved = false
	in.lassoBase = nil
	in.lassoAdditive = false
	in.connectFrom = ""
	in.renameID = ""
	in.renameBuf = ""
}

// =============================================================================
// Lasso
// =============================================================================

// LassoRect returns the current lasso rectangle in world units and whether a
// lasso is active. Renderers draw it; the selection logic below consumes it.
func (in *Interaction) LassoRect() (canvas.Bounds, bool) {
	if in.mode != ModeLassoing {
		return canvas.Bounds{}, false
	}
	return normalizedRect(in.startW, in.curW), true
}

// normalizedRect orders the two corners, making lasso selection independent
// of drag direction.
func normalizedRect(a, b point) canvas.Bounds {
	return canvas.Bounds{
		MinX: math.Min(a.x, b.x),
		MinY: math.Min(a.y, b.y),
		MaxX: math.Max(a.x, b.x),
		MaxY: math.Max(a.y, b.y),
	}
}

func (in *Interaction) applyLasso() {
	rect := normalizedRect(in.startW, in.curW)
	var hit []string
	for _, j := range in.ed.Workflow().Jobs() {
		if j.X >= rect.MinX && j.X <= rect.MaxX && j.Y >= rect.MinY && j.Y <= rect.MaxY {
			hit = append(hit, j.ID)
		}
	}
	in.ed.Selection().SetLasso(hit, in.lassoBase, in.lassoAdditive)
}

// =============================================================================
// Connecting
// =============================================================================

// ConnectionLine returns the rubber-band line of an in-progress connection:
// source job ID and the current endpoint in world units.
func (in *Interaction) ConnectionLine() (from string, x, y float64, ok bool) {
	if in.mode != ModeConnecting {
		return "", 0, 0, false
	}
	return in.connectFrom, in.curW.x, in.curW.y, true
}

// =============================================================================
// Renaming
// =============================================================================

// StartRename enters inline rename for a job (double-click or F2). Only
// reachable from idle.
func (in *Interaction) StartRename(id string) {
	if in.mode != ModeIdle {
		return
	}
	if _, ok := in.ed.Workflow().Job(id); !ok {
		return
	}
	in.mode = ModeRenaming
	in.renameID = id
	in.renameBuf = id
}

// DoubleClick starts a rename when the event lands on a node body.
func (in *Interaction) DoubleClick(ev PointerEvent) {
	if in.mode != ModeIdle {
		return
	}
	wx, wy := in.ed.Viewport().ScreenToWorld(ev.X, ev.Y)
	if id, region := in.HitTest(wx, wy); region == RegionBody {
		in.StartRename(id)
	}
}

// RenameState returns the job being renamed and the edit buffer.
func (in *Interaction) RenameState() (id, buffer string, ok bool) {
	if in.mode != ModeRenaming {
		return "", "", false
	}
	return in.renameID, in.renameBuf, true
}

// SetRenameBuffer replaces the edit buffer as the user types.
func (in *Interaction) SetRenameBuffer(s string) {
	if in.mode == ModeRenaming {
		in.renameBuf = s
	}
}

// ConfirmRename applies the buffered rename. An empty or duplicate ID reverts
// to the prior one; either way the machine returns to idle. The error is
// informational for frontends that surface a hint.
func (in *Interaction) ConfirmRename() error {
	if in.mode != ModeRenaming {
		return nil
	}
	oldID, newID := in.renameID, in.renameBuf
	in.resetGesture()
	if newID == oldID {
		return nil
	}
	return in.ed.Rename(oldID, newID)
}
