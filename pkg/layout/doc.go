// Package layout computes canvas positions for workflow graphs.
//
// The package composes three primitives into named strategies:
//
//   - [AssignLayers]: longest-path layer assignment with cycle detection
//   - [ReduceCrossings]: iterative barycenter ordering within layers
//   - [ResolveOverlaps]: bounded force relaxation separating node boxes
//
// Strategies cover the shapes a job editor actually sees: [StrategyLayered]
// for general DAGs, [StrategyTree] and [StrategyHorizontalTree] for forests,
// [StrategySnake] for simple pipelines, [StrategyScatter] for edge-free sets,
// and [StrategySmart], which classifies the graph with [Classify] and picks
// one of the others.
//
// Every algorithm is deterministic for a given input and seed. Layout is not
// on the hot interaction path - it runs on load or explicit auto-arrange -
// so all of it works from a fresh [workflow.Graph] snapshot.
//
//	w, _ := workflow.ReadFile("etl.json")
//	if err := layout.Arrange(w, layout.Options{}); err != nil {
//	    // cyclic graph: positions unchanged
//	}
package layout
