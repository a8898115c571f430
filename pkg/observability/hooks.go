// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Frontends register hooks
// at startup to receive events about editor mutations, layout runs, and
// store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries), keeps the engine dependency-free from observability frameworks,
// and allows different backends.
//
// The editor hooks double as the engine's outward event surface described in
// the external interface contract: position batches, edge add/remove, node
// lifecycle, and the selection-driven "open editor" signal all arrive here.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    // ... run application
//	}
package observability

import (
	"sync"
	"time"
)

// PositionUpdate is one entry of a batched node-position change.
type PositionUpdate struct {
	ID string
	X  float64
	Y  float64
}

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from committed editor mutations. Events fire
// after the mutation has settled (pointer-up, rename confirm), never
// mid-gesture.
type EditorHooks interface {
	// OnPositionsChanged reports a settled batch of node moves.
	OnPositionsChanged(updates []PositionUpdate)

	// Edge lifecycle.
	OnEdgeAdded(from, to string)
	OnEdgeRemoved(from, to string)

	// Node lifecycle.
	OnNodeDeleted(id string)
	OnNodeRenamed(oldID, newID string)
	OnNodesPasted(ids []string)

	// OnInspect asks the frontend to open its side-panel editor for a node.
	OnInspect(id string)

	// History events.
	OnCommit(stackDepth int)
	OnUndo(stackIndex int)
	OnRedo(stackIndex int)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout runs.
type LayoutHooks interface {
	OnArrangeStart(strategy string, nodeCount int)
	OnArrangeComplete(strategy string, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from workflow store operations.
type StoreHooks interface {
	OnLoad(name string, err error)
	OnSave(name string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnPositionsChanged([]PositionUpdate) {}
func (NoopEditorHooks) OnEdgeAdded(string, string)          {}
func (NoopEditorHooks) OnEdgeRemoved(string, string)        {}
func (NoopEditorHooks) OnNodeDeleted(string)                {}
func (NoopEditorHooks) OnNodeRenamed(string, string)        {}
func (NoopEditorHooks) OnNodesPasted([]string)              {}
func (NoopEditorHooks) OnInspect(string)                    {}
func (NoopEditorHooks) OnCommit(int)                        {}
func (NoopEditorHooks) OnUndo(int)                          {}
func (NoopEditorHooks) OnRedo(int)                          {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnArrangeStart(string, int)                     {}
func (NoopLayoutHooks) OnArrangeComplete(string, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(string, error)      {}
func (NoopStoreHooks) OnSave(string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
}
