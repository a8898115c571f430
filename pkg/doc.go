// Package pkg provides the core libraries for the jobcanvas workflow editor.
//
// # Overview
//
// Jobcanvas edits job-dependency workflows on an infinite 2D canvas. The pkg
// directory is organized into five main areas:
//
//  1. [workflow] - The domain model (jobs, dependencies, serialization)
//  2. [editor] - Editing semantics (selection, history, gestures, clipboard ops)
//  3. [canvas] / [layout] - Geometry (viewport math, auto-arrange strategies)
//  4. [store] / [clipboard] - Persistence backends (file, memory, mongo, redis)
//  5. [render] - Diagram export via Graphviz (DOT, SVG, PNG)
//
// # Architecture
//
// The typical data flow through jobcanvas:
//
//	workflow JSON file / store record
//	         ↓
//	    [workflow] package (graph model + validation)
//	         ↓
//	    [editor] package (selection, undo history, pointer gestures)
//	         ↓
//	    [canvas] package (world ↔ screen mapping)
//	         ↓
//	    terminal canvas / HTTP API / [render] export
//
// # Quick Start
//
// Open a workflow and arrange it:
//
//	import (
//	    "github.com/shwetalj/jobcanvas/pkg/editor"
//	    "github.com/shwetalj/jobcanvas/pkg/layout"
//	    "github.com/shwetalj/jobcanvas/pkg/workflow"
//	)
//
//	// 1. Load the workflow
//	w, _ := workflow.ReadFile("pipeline.json")
//
//	// 2. Wrap it in an editor session
//	ed := editor.New(w, editor.Options{})
//
//	// 3. Auto-arrange and fit the view
//	_ = ed.Arrange(layout.Options{Strategy: layout.StrategySmart})
//	ed.FitToContent(1200, 800)
//
//	// 4. Save
//	_ = workflow.WriteFile(w, "pipeline.json")
//
// # Main Packages
//
// [workflow] - Jobs with dependency edges, insertion-ordered iteration,
// deep-copy snapshots, and the JSON document format shared by the file store,
// the mongo store, and the HTTP API.
//
// [editor] - The editing engine: selection with anchor-based range semantics,
// a debounced snapshot undo history, clipboard copy/cut/paste with ID
// remapping, and the pointer-gesture state machine (drag, lasso, connect,
// rename, pan).
//
// [canvas] - Viewport math: zoom clamping, anchored wheel zoom, pan, and
// fit-to-content.
//
// [layout] - Auto-arrange strategies (layered, tree, snake, scatter) plus a
// shape classifier that picks one automatically.
//
// [store] - Named workflow persistence: file, memory, and mongo backends
// behind one interface.
//
// [clipboard] - The copy/paste transport: in-process memory backend and a
// redis backend that shares the clipboard across editor processes.
//
// [render] - Deterministic Graphviz DOT export with SVG and PNG rasterization.
//
// [config] - TOML configuration layered over working defaults.
//
// [errors] - Structured errors with machine-readable codes, surfaced as HTTP
// statuses by the API.
//
// [observability] - Pluggable hooks for editor, layout, and store events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/editor/...    # Specific package
//
// [workflow]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/workflow
// [editor]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/editor
// [canvas]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/canvas
// [layout]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/layout
// [store]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/store
// [clipboard]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/clipboard
// [render]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/render
// [config]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/config
// [errors]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/shwetalj/jobcanvas/pkg/observability
package pkg
