package graph

import "fmt"

// LineStyle is the drawing style of a connection line.
type LineStyle string

const (
	LineStep       LineStyle = "step"
	LineBezier     LineStyle = "bezier"
	LineSmoothStep LineStyle = "smoothstep"
	LineStraight   LineStyle = "straight"
)

// DefaultLineStyle is used when no style has been selected.
const DefaultLineStyle = LineBezier

// LineStyles lists every supported style in selector order.
var LineStyles = []LineStyle{LineStep, LineBezier, LineSmoothStep, LineStraight}

// ParseLineStyle validates a line style name.
func ParseLineStyle(s string) (LineStyle, error) {
	for _, ls := range LineStyles {
		if string(ls) == s {
			return ls, nil
		}
	}
	return "", fmt.Errorf("unknown line style %q", s)
}

// Connection names the two endpoints of an edge.
// Source is always an output port, Target always an input port.
type Connection struct {
	Source       string
	SourceHandle string
	Target       string
	TargetHandle string
}

// Edge is a directed connection from an output port to an input port.
type Edge struct {
	ID           string
	Source       string
	SourceHandle string
	Target       string
	TargetHandle string
	LineStyle    LineStyle
	Selectable   bool
}

// Touches reports whether either endpoint is (nodeID, portID).
func (e Edge) Touches(nodeID, portID string) bool {
	return (e.Source == nodeID && e.SourceHandle == portID) ||
		(e.Target == nodeID && e.TargetHandle == portID)
}

// Edges is an immutable snapshot of the edge store, in creation order.
type Edges []Edge

// Find returns the edge with the given id.
func (es Edges) Find(id string) (Edge, bool) {
	for _, e := range es {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// Connect appends a new edge.
//
// Connect is deliberately permissive: duplicate endpoints and self-loops
// are accepted and each call produces its own edge id.
func (es Edges) Connect(id string, c Connection, style LineStyle) Edges {
	out := make(Edges, len(es), len(es)+1)
	copy(out, es)
	return append(out, Edge{
		ID:           id,
		Source:       c.Source,
		SourceHandle: c.SourceHandle,
		Target:       c.Target,
		TargetHandle: c.TargetHandle,
		LineStyle:    style,
		Selectable:   true,
	})
}

// Disconnect removes the edge with the given id.
func (es Edges) Disconnect(id string) (Edges, bool) {
	removed := false
	out := es.filter(func(e Edge) bool {
		if e.ID == id {
			removed = true
			return false
		}
		return true
	})
	if !removed {
		return es, false
	}
	return out, true
}

// CascadeRemovePorts drops every edge bound to (nodeID, portID) for any
// port id in portIDs.
func (es Edges) CascadeRemovePorts(nodeID string, portIDs []string) Edges {
	if len(portIDs) == 0 {
		return es.filter(func(Edge) bool { return true })
	}
	return es.filter(func(e Edge) bool {
		for _, pid := range portIDs {
			if e.Touches(nodeID, pid) {
				return false
			}
		}
		return true
	})
}

// CascadeRemoveNode drops every edge with nodeID at either end, whatever
// handle it is bound to.
func (es Edges) CascadeRemoveNode(nodeID string) Edges {
	return es.filter(func(e Edge) bool {
		return e.Source != nodeID && e.Target != nodeID
	})
}

// RestyleAll sets the line style of every edge.
func (es Edges) RestyleAll(style LineStyle) Edges {
	out := make(Edges, len(es))
	copy(out, es)
	for i := range out {
		out[i].LineStyle = style
	}
	return out
}

func (es Edges) filter(keep func(Edge) bool) Edges {
	out := make(Edges, 0, len(es))
	for _, e := range es {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
