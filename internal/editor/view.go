package editor

import "github.com/roach88/nodeweave/internal/graph"

// SnapGridSize is the grid step, in canvas units, used when snap-to-grid
// is on. Snapping itself is done by the renderer.
const SnapGridSize = 15

// View is the state handed to the renderer.
// Its slices are immutable snapshots and stay valid after later intents.
type View struct {
	Nodes      graph.Nodes
	Edges      graph.Edges
	CanUndo    bool
	CanRedo    bool
	SnapToGrid bool
	LineStyle  graph.LineStyle

	// Revision counts the intents that changed state, starting at 0 for a
	// new editor. Views delivered to OnChange carry distinct, increasing
	// revisions in application order.
	Revision uint64
}

// Document returns the nodes and edges of the view.
func (v View) Document() graph.Document {
	return graph.Document{Nodes: v.Nodes, Edges: v.Edges}
}
