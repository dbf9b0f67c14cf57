package codec

import "github.com/roach88/nodeweave/internal/graph"

// NodeType is the renderer node type written for every node.
const NodeType = "custom"

type wireDocument struct {
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

type wireNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position wirePosition `json:"position"`
	Data     wireNodeData `json:"data"`
}

type wirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireNodeData struct {
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Inputs      []wirePort `json:"inputs"`
	Outputs     []wirePort `json:"outputs"`
}

type wirePort struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
	Type         string `json:"type"`
	// Selectable is a pointer so an absent key can default to true.
	Selectable *bool `json:"selectable"`
}

func toWire(doc graph.Document) wireDocument {
	w := wireDocument{
		Nodes: make([]wireNode, 0, len(doc.Nodes)),
		Edges: make([]wireEdge, 0, len(doc.Edges)),
	}
	for _, n := range doc.Nodes {
		w.Nodes = append(w.Nodes, wireNode{
			ID:       n.ID,
			Type:     NodeType,
			Position: wirePosition{X: n.Position.X, Y: n.Position.Y},
			Data: wireNodeData{
				Label:       n.Label,
				Description: n.Description,
				Color:       n.Color,
				Inputs:      portsToWire(n.Inputs),
				Outputs:     portsToWire(n.Outputs),
			},
		})
	}
	for _, e := range doc.Edges {
		selectable := e.Selectable
		w.Edges = append(w.Edges, wireEdge{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			TargetHandle: e.TargetHandle,
			Type:         string(e.LineStyle),
			Selectable:   &selectable,
		})
	}
	return w
}

func fromWire(w wireDocument) graph.Document {
	doc := graph.Document{
		Nodes: make(graph.Nodes, 0, len(w.Nodes)),
		Edges: make(graph.Edges, 0, len(w.Edges)),
	}
	for _, n := range w.Nodes {
		doc.Nodes = append(doc.Nodes, graph.Node{
			ID:          n.ID,
			Position:    graph.Position{X: n.Position.X, Y: n.Position.Y},
			Label:       n.Data.Label,
			Description: n.Data.Description,
			Color:       n.Data.Color,
			Inputs:      portsFromWire(n.Data.Inputs),
			Outputs:     portsFromWire(n.Data.Outputs),
		})
	}
	for _, e := range w.Edges {
		selectable := true
		if e.Selectable != nil {
			selectable = *e.Selectable
		}
		doc.Edges = append(doc.Edges, graph.Edge{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			TargetHandle: e.TargetHandle,
			LineStyle:    lineStyleFromWire(e.Type),
			Selectable:   selectable,
		})
	}
	return doc
}

// lineStyleFromWire maps unknown or missing types to the default style.
// Renderers write "default" for bezier edges.
func lineStyleFromWire(s string) graph.LineStyle {
	ls, err := graph.ParseLineStyle(s)
	if err != nil {
		return graph.DefaultLineStyle
	}
	return ls
}

func portsToWire(ports []graph.Port) []wirePort {
	out := make([]wirePort, 0, len(ports))
	for _, p := range ports {
		out = append(out, wirePort{ID: p.ID, Name: p.Name})
	}
	return out
}

func portsFromWire(ports []wirePort) []graph.Port {
	out := make([]graph.Port, 0, len(ports))
	for _, p := range ports {
		out = append(out, graph.Port{ID: p.ID, Name: p.Name})
	}
	return out
}
