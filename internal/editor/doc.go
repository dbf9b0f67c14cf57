// Package editor is the graph controller: it turns user intents into new
// node and edge snapshots and keeps both undo timelines moving together.
//
// Every intent follows the same path:
//
//  1. compute the new snapshot(s) with the pure operations in package graph
//  2. cascade edge removal when ports or nodes were removed
//  3. push the affected timeline(s)
//  4. journal the resolved intent and hand a fresh View to OnChange
//
// Loading a document skips the per-field path and resets both timelines,
// so a load is never undoable.
//
// Targets that do not exist (unknown node id, out-of-range port index,
// missing connection endpoint) are silent no-ops: nothing is pushed,
// journaled or notified.
package editor
