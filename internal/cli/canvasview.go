package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal cells are not square: a column spans far fewer pixels than a row.
// These factors map abstract screen pixels onto the cell grid so the default
// 120x60 node renders as a 12x3 box at zoom 1.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// canvasTop is the terminal row where the canvas grid starts; the title line
// occupies row 0.
const canvasTop = 1

// Cell style classes for the canvas grid.
const (
	cellPlain uint8 = iota
	cellEdge
	cellNode
	cellNodeSelected
	cellLasso
	cellConnect
)

var cellStyles = map[uint8]lipgloss.Style{
	cellPlain:        lipgloss.NewStyle(),
	cellEdge:         lipgloss.NewStyle().Foreground(colorDim),
	cellNode:         lipgloss.NewStyle().Foreground(colorWhite),
	cellNodeSelected: lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	cellLasso:        lipgloss.NewStyle().Foreground(colorYellow),
	cellConnect:      lipgloss.NewStyle().Foreground(colorGreen),
}

// canvasRows is the grid height left after the title, status, and help rows.
func (m *canvasModel) canvasRows() int {
	rows := m.height - 3
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m *canvasModel) View() string {
	var b strings.Builder

	info := fmt.Sprintf("%s  ·  %.0f%%  ·  %d jobs  ·  %s",
		m.target, m.ed.Viewport().Zoom()*100, m.ed.Workflow().Count(), m.in.Mode())
	b.WriteString(StyleTitle.Render(appName) + "  " + StyleDim.Render(info))
	b.WriteString("\n")

	b.WriteString(m.renderCanvas())

	status := m.status
	if id, buf, ok := m.in.RenameState(); ok {
		status = fmt.Sprintf("rename %s: %s▌  (enter confirm, esc revert)", id, buf)
	}
	b.WriteString(StyleValue.Render(status))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("n add · d del · r rename · c/x/v clipboard · D dup · a all · l arrange · f fit · z/y undo/redo · ctrl+s save · q quit"))

	return b.String()
}

// =============================================================================
// Grid Renderer
// =============================================================================

// renderCanvas rasterizes the workflow onto a character grid: edges first,
// node boxes on top, then gesture overlays (lasso, pending connection).
func (m *canvasModel) renderCanvas() string {
	cols, rows := m.width, m.canvasRows()
	if cols < 10 {
		cols = 10
	}

	grid := make([][]rune, rows)
	st := make([][]uint8, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		st[y] = make([]uint8, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	plot := func(cx, cy int, r rune, style uint8) {
		if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
			return
		}
		grid[cy][cx] = r
		st[cy][cx] = style
	}

	v := m.ed.Viewport()
	toCell := func(wx, wy float64) (int, int) {
		sx, sy := v.WorldToScreen(wx, wy)
		return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
	}
	// toCellMax maps a world point on a box's far edge into the last cell the
	// box covers, so an edge landing exactly on a cell boundary does not spill
	// one cell past the drawn border.
	toCellMax := func(wx, wy float64) (int, int) {
		sx, sy := v.WorldToScreen(wx, wy)
		return int(math.Ceil(sx/cellWidth)) - 1, int(math.Ceil(sy/cellHeight)) - 1
	}

	// Job coordinates are box centers, matching the editor's hit testing.
	halfW, halfH := m.nodeW/2, m.nodeH/2
	nodeCells := func(x, y float64) (x0, y0, x1, y1 int) {
		x0, y0 = toCell(x-halfW, y-halfH)
		x1, y1 = toCellMax(x+halfW, y+halfH)
		if x1 < x0+3 {
			x1 = x0 + 3
		}
		if y1 < y0+2 {
			y1 = y0 + 2
		}
		return x0, y0, x1, y1
	}

	// Edges: elbow from the source's bottom connector to the target's top.
	for _, e := range m.ed.Workflow().Edges() {
		from, ok := m.ed.Workflow().Job(e.From)
		if !ok {
			continue
		}
		to, ok := m.ed.Workflow().Job(e.To)
		if !ok {
			continue
		}
		fx, _ := toCell(from.X, from.Y)
		_, _, _, fy1 := nodeCells(from.X, from.Y)
		tx, _ := toCell(to.X, to.Y)
		_, ty0, _, _ := nodeCells(to.X, to.Y)
		drawElbow(plot, fx, fy1+1, tx, ty0-1)
	}

	// Nodes, in insertion order so later jobs draw on top like HitTest sees them.
	renameID, renameBuf, renaming := m.in.RenameState()
	for _, j := range m.ed.Workflow().Jobs() {
		x0, y0, x1, y1 := nodeCells(j.X, j.Y)

		style := cellNode
		if m.ed.Selection().Has(j.ID) {
			style = cellNodeSelected
		}

		label := j.ID
		if renaming && j.ID == renameID {
			label = renameBuf + "▌"
		}
		drawBox(plot, x0, y0, x1, y1, label, style)

		// Output connector handle at the bottom center, where HitTest has it.
		ccx, _ := toCell(j.X, j.Y)
		plot(ccx, y1, 'o', style)
	}

	// Lasso rectangle.
	if r, ok := m.in.LassoRect(); ok {
		x0, y0 := toCell(r.MinX, r.MinY)
		x1, y1 := toCell(r.MaxX, r.MaxY)
		for x := x0; x <= x1; x++ {
			plot(x, y0, '·', cellLasso)
			plot(x, y1, '·', cellLasso)
		}
		for y := y0; y <= y1; y++ {
			plot(x0, y, '·', cellLasso)
			plot(x1, y, '·', cellLasso)
		}
	}

	// Pending connection: mark the cursor end of the rubber band.
	if _, wx, wy, ok := m.in.ConnectionLine(); ok {
		cx, cy := toCell(wx, wy)
		plot(cx, cy, '+', cellConnect)
	}

	return flattenGrid(grid, st)
}

// drawElbow plots a vertical-horizontal-vertical dependency line.
func drawElbow(plot func(int, int, rune, uint8), fx, fy, tx, ty int) {
	midY := (fy + ty) / 2

	for y := min(fy, midY); y <= max(fy, midY); y++ {
		plot(fx, y, '│', cellEdge)
	}
	for x := min(fx, tx); x <= max(fx, tx); x++ {
		plot(x, midY, '─', cellEdge)
	}
	for y := min(midY, ty); y <= max(midY, ty); y++ {
		plot(tx, y, '│', cellEdge)
	}
	plot(tx, ty, '▾', cellEdge)
}

// drawBox plots a bordered node box spanning cells (x0,y0)..(x1,y1) with a
// centered, truncated label.
func drawBox(plot func(int, int, rune, uint8), x0, y0, x1, y1 int, label string, style uint8) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r := ' '
			switch {
			case y == y0 && x == x0:
				r = '┌'
			case y == y0 && x == x1:
				r = '┐'
			case y == y1 && x == x0:
				r = '└'
			case y == y1 && x == x1:
				r = '┘'
			case y == y0 || y == y1:
				r = '─'
			case x == x0 || x == x1:
				r = '│'
			}
			plot(x, y, r, style)
		}
	}

	// Label, truncated and centered on the middle row.
	w := x1 - x0 + 1
	runes := []rune(label)
	if len(runes) > w-2 {
		runes = runes[:w-2]
	}
	lx := x0 + (w-len(runes))/2
	ly := (y0 + y1) / 2
	for i, r := range runes {
		plot(lx+i, ly, r, style)
	}
}

// flattenGrid joins the grid into styled terminal lines, batching runs of
// equal style to keep the escape-sequence overhead down.
func flattenGrid(grid [][]rune, st [][]uint8) string {
	var b strings.Builder
	for y := range grid {
		x := 0
		for x < len(grid[y]) {
			style := st[y][x]
			start := x
			for x < len(grid[y]) && st[y][x] == style {
				x++
			}
			run := string(grid[y][start:x])
			if style == cellPlain {
				b.WriteString(run)
			} else {
				b.WriteString(cellStyles[style].Render(run))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
