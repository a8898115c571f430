package workflow

// Graph is an adjacency snapshot of a workflow, built on demand for layout.
// It is rebuilt wholesale rather than maintained incrementally: layout runs on
// explicit auto-arrange or load, never on the hot interaction path, so the
// O(V+E) rebuild is cheap relative to the layout work it feeds.
//
// IDs preserves workflow insertion order so every algorithm downstream is
// deterministic for a given input.
type Graph struct {
	IDs       []string
	Preds     map[string][]string // edges into a node: its dependency list
	Succs     map[string][]string // edges out of a node: jobs depending on it
	InDegree  map[string]int
	OutDegree map[string]int
}

// BuildGraph derives the adjacency snapshot from the current job set.
// Dependencies referencing unknown jobs are skipped; run [Workflow.Validate]
// first when that matters.
func (w *Workflow) BuildGraph() Graph {
	g := Graph{
		IDs:       w.JobIDs(),
		Preds:     make(map[string][]string, len(w.order)),
		Succs:     make(map[string][]string, len(w.order)),
		InDegree:  make(map[string]int, len(w.order)),
		OutDegree: make(map[string]int, len(w.order)),
	}
	for _, id := range w.order {
		for _, dep := range w.jobs[id].Dependencies {
			if _, ok := w.jobs[dep]; !ok {
				continue
			}
			g.Preds[id] = append(g.Preds[id], dep)
			g.Succs[dep] = append(g.Succs[dep], id)
			g.InDegree[id]++
			g.OutDegree[dep]++
		}
	}
	return g
}

// EdgeCount returns the number of edges in the snapshot.
func (g Graph) EdgeCount() int {
	n := 0
	for _, preds := range g.Preds {
		n += len(preds)
	}
	return n
}

// Roots returns the IDs with no incoming edges, in ID order.
func (g Graph) Roots() []string {
	var roots []string
	for _, id := range g.IDs {
		if g.InDegree[id] == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// MaxFanIn returns the largest in-degree in the snapshot.
func (g Graph) MaxFanIn() int {
	m := 0
	for _, id := range g.IDs {
		if d := g.InDegree[id]; d > m {
			m = d
		}
	}
	return m
}

// MaxFanOut returns the largest out-degree in the snapshot.
func (g Graph) MaxFanOut() int {
	m := 0
	for _, id := range g.IDs {
		if d := g.OutDegree[id]; d > m {
			m = d
		}
	}
	return m
}
