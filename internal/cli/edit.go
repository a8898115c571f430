package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shwetalj/jobcanvas/pkg/config"
	"github.com/shwetalj/jobcanvas/pkg/editor"
	"github.com/shwetalj/jobcanvas/pkg/store"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// editCommand creates the edit command for the interactive canvas.
func (c *CLI) editCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "edit [workflow.json]",
		Short: "Open a workflow on the interactive canvas",
		Long: `Open a workflow on the interactive canvas.

Pass a file path, or --name to edit a workflow in the configured store. A
missing file or name starts an empty canvas; ctrl+s writes it out. The canvas
supports the full editing gesture set:

  mouse        drag nodes, lasso-select empty space, drag a node's bottom
               connector onto another node to add a dependency, middle-drag
               to pan, wheel to zoom, double-click to rename
  n            add a job
  d / delete   delete the selection
  r            rename the selected job
  c / x / v    copy, cut, paste
  D            duplicate the selection
  a            select all
  l            auto-arrange
  f            fit the view to the content
  z / y        undo, redo
  arrows       nudge the selection
  esc          abort the current gesture`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (name != "") {
				return fmt.Errorf("pass either a workflow file or --name, not both")
			}
			if name != "" {
				return c.runEditStored(cmd.Context(), name)
			}
			return c.runEdit(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "edit a workflow in the configured store instead of a file")

	return cmd
}

// runEdit opens a workflow file on the canvas.
func (c *CLI) runEdit(ctx context.Context, path string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var w *workflow.Workflow
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		w = workflow.New(nil)
	} else {
		w, err = workflow.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load workflow %s: %w", path, err)
		}
	}

	save := func(w *workflow.Workflow) error {
		return workflow.WriteFile(w, path)
	}
	return c.runCanvas(ctx, cfg, w, path, save)
}

// runEditStored opens a store-backed workflow on the canvas.
func (c *CLI) runEditStored(ctx context.Context, name string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	s, closeStore, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var w *workflow.Workflow
	rec, err := s.Load(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		w = workflow.New(nil)
	case err != nil:
		return fmt.Errorf("load workflow %q: %w", name, err)
	default:
		w, err = workflow.FromDocument(rec.Document)
		if err != nil {
			return fmt.Errorf("load workflow %q: %w", name, err)
		}
	}

	save := func(w *workflow.Workflow) error {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Save(saveCtx, name, workflow.ToDocument(w))
	}
	return c.runCanvas(ctx, cfg, w, name, save)
}

// runCanvas builds the editor session and hands the terminal to bubbletea.
func (c *CLI) runCanvas(ctx context.Context, cfg config.Config, w *workflow.Workflow, target string, save func(*workflow.Workflow) error) error {
	clip, closeClip := c.newClipboard(cfg)
	defer closeClip()

	opts := cfg.EditorOptions()
	opts.Clipboard = clip
	ed := editor.New(w, opts)

	m := newCanvasModel(ed, target, save, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if fm, ok := final.(*canvasModel); ok && fm.isDirty() {
		printWarning("Unsaved changes discarded (use ctrl+s before quitting)")
	}
	return nil
}

// =============================================================================
// Canvas Model
// =============================================================================

// doubleClickWindow is how close two left presses must be, in time, to count
// as a double-click.
const doubleClickWindow = 400 * time.Millisecond

// canvasModel is the bubbletea model wrapping an editor session. All editing
// semantics live in the editor packages; this model only translates terminal
// input into pointer events and key commands, and renders the result.
type canvasModel struct {
	ed     *editor.Editor
	in     *editor.Interaction
	target string
	saveFn func(*workflow.Workflow) error
	cfg    config.Config

	nodeW, nodeH float64

	width, height int
	status        string

	// Double-click detection for left presses.
	lastClick     time.Time
	lastClickX    int
	lastClickY    int
	swallowNextUp bool

	// lastSaved is the document as of the last write, for dirty tracking.
	lastSaved workflow.Document
}

func newCanvasModel(ed *editor.Editor, target string, save func(*workflow.Workflow) error, cfg config.Config) *canvasModel {
	return &canvasModel{
		ed:        ed,
		in:        editor.NewInteraction(ed),
		target:    target,
		saveFn:    save,
		cfg:       cfg,
		nodeW:     cfg.Canvas.NodeWidth,
		nodeH:     cfg.Canvas.NodeHeight,
		width:     80,
		height:    24,
		lastSaved: workflow.ToDocument(ed.Workflow()),
	}
}

func (m *canvasModel) Init() tea.Cmd {
	return nil
}

func (m *canvasModel) isDirty() bool {
	return !reflect.DeepEqual(workflow.ToDocument(m.ed.Workflow()), m.lastSaved)
}

func (m *canvasModel) save() {
	m.ed.History().Flush()
	if err := m.saveFn(m.ed.Workflow()); err != nil {
		m.status = err.Error()
		return
	}
	m.lastSaved = workflow.ToDocument(m.ed.Workflow())
	m.status = "saved " + m.target
}

func (m *canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

// =============================================================================
// Keyboard
// =============================================================================

func (m *canvasModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.in.Editing() {
		m.handleRenameKey(msg)
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.ed.History().Flush()
		return m, tea.Quit

	case "ctrl+s":
		m.save()

	case "n":
		m.addJob()

	case "d", "delete":
		m.ed.DeleteSelection()

	case "r", "f2":
		if id := m.ed.Selection().Primary(); id != "" {
			m.in.StartRename(id)
		}

	case "c":
		m.runClipboard("copy", m.ed.Copy)
	case "x":
		m.runClipboard("cut", m.ed.Cut)
	case "v":
		m.runClipboard("paste", m.ed.Paste)
	case "D":
		m.ed.Duplicate()

	case "a":
		m.ed.SelectAll()

	case "l":
		if err := m.ed.Arrange(m.cfg.LayoutOptions()); err != nil {
			m.status = err.Error()
		} else {
			m.status = "arranged"
		}

	case "f":
		m.ed.FitToContent(float64(m.width)*cellWidth, float64(m.canvasRows())*cellHeight)

	case "z":
		if !m.ed.Undo() {
			m.status = "nothing to undo"
		}
	case "y":
		if !m.ed.Redo() {
			m.status = "nothing to redo"
		}

	case "+", "=":
		m.zoomAtCenter(1.25)
	case "-":
		m.zoomAtCenter(1 / 1.25)

	case "up":
		m.ed.Nudge(0, -nudgeStep)
	case "down":
		m.ed.Nudge(0, nudgeStep)
	case "left":
		m.ed.Nudge(-nudgeStep, 0)
	case "right":
		m.ed.Nudge(nudgeStep, 0)

	case "esc":
		m.in.Escape()
		m.status = ""
	}
	return m, nil
}

// nudgeStep is the arrow-key move distance in world units.
const nudgeStep = 10.0

func (m *canvasModel) handleRenameKey(msg tea.KeyMsg) {
	_, buf, _ := m.in.RenameState()

	switch msg.Type {
	case tea.KeyEnter:
		if err := m.in.ConfirmRename(); err != nil {
			m.status = err.Error()
		}
	case tea.KeyEscape:
		m.in.Escape()
	case tea.KeyBackspace:
		if len(buf) > 0 {
			m.in.SetRenameBuffer(buf[:len(buf)-1])
		}
	case tea.KeySpace:
		m.in.SetRenameBuffer(buf + " ")
	case tea.KeyRunes:
		m.in.SetRenameBuffer(buf + string(msg.Runes))
	}
}

func (m *canvasModel) addJob() {
	// Place the new job at the center of the visible canvas.
	cx, cy := m.ed.Viewport().ScreenToWorld(
		float64(m.width)*cellWidth/2,
		float64(m.canvasRows())*cellHeight/2,
	)

	for i := m.ed.Workflow().Count() + 1; ; i++ {
		id := fmt.Sprintf("job-%d", i)
		err := m.ed.AddJob(workflow.Job{ID: id, X: cx, Y: cy})
		if err == nil {
			m.status = "added " + id
			return
		}
		if !errors.Is(err, workflow.ErrDuplicateJobID) {
			m.status = err.Error()
			return
		}
	}
}

func (m *canvasModel) runClipboard(name string, op func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			m.status = name + ": clipboard timeout"
		} else {
			m.status = err.Error()
		}
		return
	}
	m.status = name
}

func (m *canvasModel) zoomAtCenter(factor float64) {
	m.ed.Viewport().ZoomAt(factor,
		float64(m.width)*cellWidth/2,
		float64(m.canvasRows())*cellHeight/2,
	)
}

// =============================================================================
// Mouse
// =============================================================================

func (m *canvasModel) handleMouse(msg tea.MouseMsg) {
	// Map the pressed cell to its center in screen space, offset past the
	// title row, so every cell of a drawn node border falls inside the hit
	// region it renders.
	ev := editor.PointerEvent{
		X: (float64(msg.X) + 0.5) * cellWidth,
		Y: (float64(msg.Y-canvasTop) + 0.5) * cellHeight,
	}
	if msg.Ctrl {
		ev.Mods |= editor.ModCtrl
	}
	if msg.Shift {
		ev.Mods |= editor.ModShift
	}
	if msg.Alt {
		ev.Mods |= editor.ModAlt
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ed.Viewport().ZoomAt(1.1, ev.X, ev.Y)
		return
	case tea.MouseButtonWheelDown:
		m.ed.Viewport().ZoomAt(1/1.1, ev.X, ev.Y)
		return
	case tea.MouseButtonMiddle:
		ev.Button = editor.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = editor.ButtonRight
	default:
		ev.Button = editor.ButtonLeft
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if ev.Button == editor.ButtonLeft && m.isDoubleClick(msg.X, msg.Y) {
			m.in.DoubleClick(ev)
			// The release of the second press must not end the rename
			// gesture the double-click may have started.
			m.swallowNextUp = true
			return
		}
		m.lastClick = time.Now()
		m.lastClickX, m.lastClickY = msg.X, msg.Y
		m.in.PointerDown(ev)

	case tea.MouseActionMotion:
		m.in.PointerMove(ev)

	case tea.MouseActionRelease:
		if m.swallowNextUp {
			m.swallowNextUp = false
			return
		}
		m.in.PointerUp(ev)
	}
}

func (m *canvasModel) isDoubleClick(x, y int) bool {
	return time.Since(m.lastClick) < doubleClickWindow &&
		x == m.lastClickX && y == m.lastClickY
}
