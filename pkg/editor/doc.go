// Package editor implements the interactive canvas engine: selection,
// pointer-gesture state machine, clipboard operations, and snapshot-based
// undo/redo over a [workflow.Workflow].
//
// The design is a pure state machine over abstract input. Frontends translate
// native events into [PointerEvent] values and key calls; nothing in here
// knows about a rendering surface. Everything runs on a single interaction
// goroutine - the one concession to concurrency is the history debounce
// timer, which History locks against.
//
// The gesture rules in [Interaction] enforce the settled-commit contract:
// history records a snapshot when a gesture completes (pointer-up, rename
// confirm), never mid-gesture, and Escape aborts any gesture without leaving
// partial state behind.
package editor
