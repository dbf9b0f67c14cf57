package graph

import "fmt"

// Position is a node's location on the canvas.
// The renderer owns layout; the core only stores what it is told.
type Position struct {
	X float64
	Y float64
}

// Node is a single graph node with ordered input and output ports.
type Node struct {
	ID          string
	Position    Position
	Label       string
	Description string
	Color       string
	Inputs      []Port
	Outputs     []Port
}

// Ports returns the node's ports of the given kind.
func (n Node) Ports(kind PortKind) []Port {
	if kind == PortOutput {
		return n.Outputs
	}
	return n.Inputs
}

// PortIDs returns the ids of every input and output port on the node.
func (n Node) PortIDs() []string {
	ids := make([]string, 0, len(n.Inputs)+len(n.Outputs))
	for _, p := range n.Inputs {
		ids = append(ids, p.ID)
	}
	for _, p := range n.Outputs {
		ids = append(ids, p.ID)
	}
	return ids
}

// NodeInit holds the optional initial fields for AddNode.
// Zero values fall back to defaults.
type NodeInit struct {
	Position    Position
	Label       string
	Description string
	Color       string
}

// NodePatch is a partial update merged into a node by UpdateNode.
// Nil fields are left unchanged. Inputs and Outputs replace the whole list
// when non-nil.
type NodePatch struct {
	Position    *Position
	Label       *string
	Description *string
	Color       *string
	Inputs      []Port
	Outputs     []Port
}

// Nodes is an immutable snapshot of the node store, in insertion order.
type Nodes []Node

// Find returns the node with the given id.
func (ns Nodes) Find(id string) (Node, bool) {
	if i := ns.index(id); i >= 0 {
		return ns[i], true
	}
	return Node{}, false
}

// AddNode appends a node with the given id.
// Defaults: label "Node <n+1>", white color, no ports.
func (ns Nodes) AddNode(id string, init NodeInit) Nodes {
	label := init.Label
	if label == "" {
		label = fmt.Sprintf("Node %d", len(ns)+1)
	}
	color := init.Color
	if color == "" {
		color = DefaultColor
	}
	out := make(Nodes, len(ns), len(ns)+1)
	copy(out, ns)
	return append(out, Node{
		ID:          id,
		Position:    init.Position,
		Label:       label,
		Description: init.Description,
		Color:       color,
		Inputs:      []Port{},
		Outputs:     []Port{},
	})
}

// UpdateNode merges patch into the node with the given id.
// Returns false (and the receiver unchanged) if the id is absent.
func (ns Nodes) UpdateNode(id string, patch NodePatch) (Nodes, bool) {
	i := ns.index(id)
	if i < 0 {
		return ns, false
	}
	n := ns[i]
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	if patch.Color != nil {
		n.Color = *patch.Color
	}
	if patch.Inputs != nil {
		n.Inputs = patch.Inputs
	}
	if patch.Outputs != nil {
		n.Outputs = patch.Outputs
	}
	out := make(Nodes, len(ns))
	copy(out, ns)
	out[i] = n
	return out, true
}

// DeleteNode removes the node with the given id and returns it, so the
// caller can cascade every port it owned into the edge store.
func (ns Nodes) DeleteNode(id string) (Nodes, Node, bool) {
	i := ns.index(id)
	if i < 0 {
		return ns, Node{}, false
	}
	out := make(Nodes, 0, len(ns)-1)
	out = append(out, ns[:i]...)
	out = append(out, ns[i+1:]...)
	return out, ns[i], true
}

// AddInput appends a new input port to the node.
func (ns Nodes) AddInput(id string) (Nodes, Port, bool) {
	return ns.addPort(id, PortInput)
}

// AddOutput appends a new output port to the node.
func (ns Nodes) AddOutput(id string) (Nodes, Port, bool) {
	return ns.addPort(id, PortOutput)
}

// RemoveInput drops the input at index and reports the removed port ids.
func (ns Nodes) RemoveInput(id string, index int) (Nodes, []string, bool) {
	return ns.removePort(id, PortInput, index)
}

// RemoveOutput drops the output at index and reports the removed port ids.
func (ns Nodes) RemoveOutput(id string, index int) (Nodes, []string, bool) {
	return ns.removePort(id, PortOutput, index)
}

// RenameInput changes the display name of the input at index.
func (ns Nodes) RenameInput(id string, index int, name string) (Nodes, bool) {
	return ns.renamePort(id, PortInput, index, name)
}

// RenameOutput changes the display name of the output at index.
func (ns Nodes) RenameOutput(id string, index int, name string) (Nodes, bool) {
	return ns.renamePort(id, PortOutput, index, name)
}

func (ns Nodes) addPort(id string, kind PortKind) (Nodes, Port, bool) {
	n, ok := ns.Find(id)
	if !ok {
		return ns, Port{}, false
	}
	ports := n.Ports(kind)
	port := CreatePort(kind, len(ports))
	next := make([]Port, len(ports), len(ports)+1)
	copy(next, ports)
	next = append(next, port)
	out, _ := ns.UpdateNode(id, portPatch(kind, next))
	return out, port, true
}

func (ns Nodes) removePort(id string, kind PortKind, index int) (Nodes, []string, bool) {
	n, ok := ns.Find(id)
	if !ok {
		return ns, nil, false
	}
	next, removed, ok := RemovePort(n.Ports(kind), index)
	if !ok {
		return ns, nil, false
	}
	out, _ := ns.UpdateNode(id, portPatch(kind, next))
	return out, []string{removed.ID}, true
}

func (ns Nodes) renamePort(id string, kind PortKind, index int, name string) (Nodes, bool) {
	n, ok := ns.Find(id)
	if !ok {
		return ns, false
	}
	next, ok := RenamePort(n.Ports(kind), index, name)
	if !ok {
		return ns, false
	}
	return ns.UpdateNode(id, portPatch(kind, next))
}

func portPatch(kind PortKind, ports []Port) NodePatch {
	if kind == PortOutput {
		return NodePatch{Outputs: ports}
	}
	return NodePatch{Inputs: ports}
}

func (ns Nodes) index(id string) int {
	for i := range ns {
		if ns[i].ID == id {
			return i
		}
	}
	return -1
}
