package layout

import "github.com/shwetalj/jobcanvas/pkg/workflow"

// treePositions lays out a forest (max fan-in 1) with the classic balanced
// tree algorithm: children are placed first, a node's subtree width is the
// sum of its children's widths (one spacing unit for a leaf), and each parent
// is centered over the combined extent of its children. Multiple roots sit
// side by side, each given its whole subtree extent.
//
// When horizontal is true, depth grows along X and siblings spread along Y.
//
// A visited guard makes the traversal terminate even on malformed input
// (fan-in 1 permits a cycle ring); such nodes are simply never placed and the
// caller's clamp pass ignores them.
func treePositions(g workflow.Graph, opts Options, horizontal bool) map[string]Point {
	unit := opts.MinSpacing
	widths := make(map[string]float64, len(g.IDs))
	visited := make(map[string]bool, len(g.IDs))

	var subtreeWidth func(id string) float64
	subtreeWidth = func(id string) float64 {
		if w, ok := widths[id]; ok {
			return w
		}
		widths[id] = unit // placeholder breaks accidental cycles
		total := 0.0
		for _, child := range g.Succs[id] {
			total += subtreeWidth(child)
		}
		if total == 0 {
			total = unit
		}
		widths[id] = total
		return total
	}

	pos := make(map[string]Point, len(g.IDs))
	var place func(id string, left float64, depth int)
	place = func(id string, left float64, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true

		across := left + widths[id]/2
		along := opts.LayerSpacing/2 + float64(depth)*opts.LayerSpacing
		if horizontal {
			pos[id] = Point{X: along, Y: across}
		} else {
			pos[id] = Point{X: across, Y: along}
		}

		childLeft := left
		for _, child := range g.Succs[id] {
			place(child, childLeft, depth+1)
			childLeft += widths[child]
		}
	}

	left := 0.0
	for _, root := range g.Roots() {
		w := subtreeWidth(root)
		place(root, left, 0)
		left += w
	}
	return pos
}
