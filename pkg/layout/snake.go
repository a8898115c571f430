package layout

import "github.com/shwetalj/jobcanvas/pkg/workflow"

// snakePositions lays out chains (fan-in and fan-out at most 1) in row-major
// "snake" order: left to right, drop a row, right to left, and so on. This
// bounds the canvas width for long pipelines instead of producing one
// enormous horizontal line.
//
// Chains are walked from their heads in workflow order; nodes unreachable
// from any head (a pure cycle ring is legal under the fan-in/out test) are
// appended afterwards in workflow order so every job gets a slot.
func snakePositions(g workflow.Graph, opts Options) map[string]Point {
	cols := int(opts.Width / opts.MinSpacing)
	if cols < 1 {
		cols = 1
	}

	order := make([]string, 0, len(g.IDs))
	seen := make(map[string]bool, len(g.IDs))
	walk := func(id string) {
		for id != "" && !seen[id] {
			seen[id] = true
			order = append(order, id)
			next := ""
			if succs := g.Succs[id]; len(succs) > 0 {
				next = succs[0]
			}
			id = next
		}
	}
	for _, root := range g.Roots() {
		walk(root)
	}
	for _, id := range g.IDs {
		walk(id)
	}

	pos := make(map[string]Point, len(order))
	for i, id := range order {
		row, col := i/cols, i%cols
		if row%2 == 1 {
			col = cols - 1 - col
		}
		pos[id] = Point{
			X: opts.MinSpacing/2 + float64(col)*opts.MinSpacing,
			Y: opts.LayerSpacing/2 + float64(row)*opts.LayerSpacing,
		}
	}
	return pos
}
