package layout

import (
	"errors"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// ErrCyclicGraph is returned by [AssignLayers] (and by [Arrange] for layered
// strategies) when the dependency graph contains a cycle. The layout operation
// fails as a whole and positions are left untouched; silently producing wrong
// layers is never acceptable.
var ErrCyclicGraph = errors.New("workflow contains a dependency cycle")

// AssignLayers computes longest-path layers: a job's layer is one more than
// the maximum layer of all of its dependency predecessors, with roots (no
// incoming edges) at layer 0. This guarantees layer[v] > layer[u] for every
// edge u→v, which a breadth-first sweep from the roots does not - a node must
// sit strictly below all of its dependencies, not just the first one reached.
//
// The recursion is memoized, so each node is resolved once and the total cost
// is O(V+E). A recursion-stack guard detects cycles: revisiting a node that is
// still being resolved fails immediately with ErrCyclicGraph instead of
// recursing forever.
func AssignLayers(g workflow.Graph) (map[string]int, error) {
	const (
		unvisited = iota
		onStack
		resolved
	)

	layers := make(map[string]int, len(g.IDs))
	state := make(map[string]int, len(g.IDs))

	var resolve func(id string) (int, error)
	resolve = func(id string) (int, error) {
		switch state[id] {
		case onStack:
			return 0, ErrCyclicGraph
		case resolved:
			return layers[id], nil
		}
		state[id] = onStack

		layer := 0
		for _, dep := range g.Preds[id] {
			dl, err := resolve(dep)
			if err != nil {
				return 0, err
			}
			if dl+1 > layer {
				layer = dl + 1
			}
		}

		state[id] = resolved
		layers[id] = layer
		return layer, nil
	}

	for _, id := range g.IDs {
		if _, err := resolve(id); err != nil {
			return nil, err
		}
	}
	return layers, nil
}

// RowsFromLayers groups jobs into ordered rows, one per layer, with jobs in
// workflow insertion order within each row. The result indexes row r at
// position r even when some layers are empty (they cannot be: longest-path
// layering never skips a rank).
func RowsFromLayers(g workflow.Graph, layers map[string]int) [][]string {
	maxLayer := -1
	for _, id := range g.IDs {
		if l := layers[id]; l > maxLayer {
			maxLayer = l
		}
	}
	rows := make([][]string, maxLayer+1)
	for _, id := range g.IDs {
		l := layers[id]
		rows[l] = append(rows[l], id)
	}
	return rows
}
