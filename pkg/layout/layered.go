package layout

import (
	"math"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// layeredPositions implements the Sugiyama-style layout: longest-path layers,
// barycenter crossing reduction, then per-row horizontal distribution.
//
// Row spacing expands to fill the frame width (width/(n+1) gaps) but never
// drops below MinSpacing - a crowded row overflows the visible frame rather
// than overlapping. Convergence jobs (in-degree > 1) are nudged toward the
// horizontal mean of their predecessors when that does not bring them within
// MinSpacing of a row sibling.
func layeredPositions(g workflow.Graph, opts Options) (map[string]Point, error) {
	layers, err := AssignLayers(g)
	if err != nil {
		return nil, err
	}
	rows := ReduceCrossings(g, RowsFromLayers(g, layers), opts.OrderingIterations)

	pos := make(map[string]Point, len(g.IDs))
	for li, row := range rows {
		spacing := opts.Width / float64(len(row)+1)
		if spacing < opts.MinSpacing {
			spacing = opts.MinSpacing
		}
		y := opts.LayerSpacing/2 + float64(li)*opts.LayerSpacing
		for i, id := range row {
			pos[id] = Point{X: spacing * float64(i+1), Y: y}
		}
	}

	nudgeConvergences(g, rows, pos, opts.MinSpacing)
	return pos, nil
}

// nudgeConvergences moves each multi-parent job toward the mean X of its
// predecessors, skipping the move when it would land within minSpacing of
// another job in the same row.
func nudgeConvergences(g workflow.Graph, rows [][]string, pos map[string]Point, minSpacing float64) {
	for _, row := range rows {
		for _, id := range row {
			preds := g.Preds[id]
			if len(preds) < 2 {
				continue
			}
			sum := 0.0
			for _, dep := range preds {
				sum += pos[dep].X
			}
			candidate := sum / float64(len(preds))

			clear := true
			for _, other := range row {
				if other == id {
					continue
				}
				if math.Abs(candidate-pos[other].X) < minSpacing {
					clear = false
					break
				}
			}
			if clear {
				p := pos[id]
				pos[id] = Point{X: candidate, Y: p.Y}
			}
		}
	}
}
