package editor

import (
	"context"

	"github.com/roach88/nodeweave/internal/graph"
)

// The methods below are the control surface and renderer hooks. Each one
// builds an Intent and applies it, so they journal and notify exactly like
// Apply does.

func (e *Editor) do(in Intent) Result {
	res, err := e.Apply(context.Background(), in)
	if err != nil {
		e.logger.Debug("intent rejected", "kind", in.Kind, "error", err)
	}
	return res
}

// AddNode creates a node and returns its id.
// Returns "" if init.Color is not a valid hex color.
func (e *Editor) AddNode(init graph.NodeInit) string {
	return e.do(Intent{
		Kind:        KindAddNode,
		X:           init.Position.X,
		Y:           init.Position.Y,
		Label:       init.Label,
		Description: init.Description,
		Color:       init.Color,
	}).NodeID
}

// MoveNode records a node position reported by the renderer.
func (e *Editor) MoveNode(id string, pos graph.Position) bool {
	return e.do(Intent{Kind: KindMoveNode, NodeID: id, X: pos.X, Y: pos.Y}).Changed
}

// SetLabel renames a node.
func (e *Editor) SetLabel(id, label string) bool {
	return e.do(Intent{Kind: KindSetLabel, NodeID: id, Label: label}).Changed
}

// SetDescription replaces a node's description.
func (e *Editor) SetDescription(id, description string) bool {
	return e.do(Intent{Kind: KindSetDescription, NodeID: id, Description: description}).Changed
}

// SetColor recolors a node. Returns an *IntentError for an invalid color.
func (e *Editor) SetColor(id, color string) (bool, error) {
	res, err := e.Apply(context.Background(), Intent{Kind: KindSetColor, NodeID: id, Color: color})
	return res.Changed, err
}

// DeleteNode removes a node and every edge touching it.
func (e *Editor) DeleteNode(id string) bool {
	return e.do(Intent{Kind: KindDeleteNode, NodeID: id}).Changed
}

// AddInput appends an input port to a node.
func (e *Editor) AddInput(id string) (graph.Port, bool) {
	res := e.do(Intent{Kind: KindAddInput, NodeID: id})
	return res.Port, res.Changed
}

// AddOutput appends an output port to a node.
func (e *Editor) AddOutput(id string) (graph.Port, bool) {
	res := e.do(Intent{Kind: KindAddOutput, NodeID: id})
	return res.Port, res.Changed
}

// RemoveInput removes the input at index and the edges that used it.
func (e *Editor) RemoveInput(id string, index int) bool {
	return e.do(Intent{Kind: KindRemoveInput, NodeID: id, Index: index}).Changed
}

// RemoveOutput removes the output at index and the edges that used it.
func (e *Editor) RemoveOutput(id string, index int) bool {
	return e.do(Intent{Kind: KindRemoveOutput, NodeID: id, Index: index}).Changed
}

// RenameInput renames the input at index.
func (e *Editor) RenameInput(id string, index int, name string) bool {
	return e.do(Intent{Kind: KindRenameInput, NodeID: id, Index: index, Name: name}).Changed
}

// RenameOutput renames the output at index.
func (e *Editor) RenameOutput(id string, index int, name string) bool {
	return e.do(Intent{Kind: KindRenameOutput, NodeID: id, Index: index, Name: name}).Changed
}

// Connect wires an output to an input using the current line style and
// returns the new edge id. Returns "", false if an endpoint is missing.
func (e *Editor) Connect(c graph.Connection) (string, bool) {
	res := e.do(Intent{
		Kind:         KindConnect,
		Source:       c.Source,
		SourceHandle: c.SourceHandle,
		Target:       c.Target,
		TargetHandle: c.TargetHandle,
	})
	return res.EdgeID, res.Changed
}

// Disconnect removes an edge.
func (e *Editor) Disconnect(id string) bool {
	return e.do(Intent{Kind: KindDisconnect, EdgeID: id}).Changed
}

// SetLineStyle selects the line style for new edges and restyles every
// existing edge.
func (e *Editor) SetLineStyle(style graph.LineStyle) error {
	_, err := e.Apply(context.Background(), Intent{Kind: KindSetLineStyle, LineStyle: string(style)})
	return err
}

// ToggleSnapToGrid flips snap-to-grid and returns the new setting.
func (e *Editor) ToggleSnapToGrid() bool {
	e.do(Intent{Kind: KindToggleSnapToGrid})
	return e.View().SnapToGrid
}

// Undo steps both timelines back. Returns false if neither moved.
func (e *Editor) Undo() bool {
	return e.do(Intent{Kind: KindUndo}).Changed
}

// Redo steps both timelines forward. Returns false if neither moved.
func (e *Editor) Redo() bool {
	return e.do(Intent{Kind: KindRedo}).Changed
}
