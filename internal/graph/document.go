package graph

import "fmt"

// Document is the unit of save and load: every node and edge, in order.
type Document struct {
	Nodes Nodes
	Edges Edges
}

// ProblemCode categorizes a document integrity problem.
type ProblemCode string

const (
	ProblemDuplicateNode ProblemCode = "DUPLICATE_NODE"
	ProblemDuplicateEdge ProblemCode = "DUPLICATE_EDGE"
	ProblemDuplicatePort ProblemCode = "DUPLICATE_PORT"
	ProblemDanglingEdge  ProblemCode = "DANGLING_EDGE"
)

// Problem describes one integrity violation found by Check.
type Problem struct {
	Code    ProblemCode `json:"code"`
	Message string      `json:"message"`
}

// Warning reports whether p is a condition the editor's own operations can
// produce. Edges on either port of a duplicated id resolve to the first
// match and are removed together when either port is removed.
func (p Problem) Warning() bool {
	return p.Code == ProblemDuplicatePort
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Code, p.Message)
}

// Check reports integrity problems: duplicate node or edge ids, duplicate
// port ids within a node's inputs (or outputs), and edges whose endpoints
// do not resolve to an existing output/input port.
//
// The only problem the editor itself can produce is DUPLICATE_PORT, after a
// port other than the last is removed and another one added (see
// CreatePort). Problem.Warning marks it so tools can tell the two apart.
func (d Document) Check() []Problem {
	var problems []Problem

	nodes := make(map[string]Node, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := nodes[n.ID]; dup {
			problems = append(problems, Problem{
				Code:    ProblemDuplicateNode,
				Message: fmt.Sprintf("node id %q appears more than once", n.ID),
			})
			continue
		}
		nodes[n.ID] = n
		problems = append(problems, duplicatePorts(n, PortInput)...)
		problems = append(problems, duplicatePorts(n, PortOutput)...)
	}

	edges := make(map[string]bool, len(d.Edges))
	for _, e := range d.Edges {
		if edges[e.ID] {
			problems = append(problems, Problem{
				Code:    ProblemDuplicateEdge,
				Message: fmt.Sprintf("edge id %q appears more than once", e.ID),
			})
		}
		edges[e.ID] = true

		src, ok := nodes[e.Source]
		if !ok || !HasPort(src.Outputs, e.SourceHandle) {
			problems = append(problems, Problem{
				Code:    ProblemDanglingEdge,
				Message: fmt.Sprintf("edge %q source %s/%s does not exist", e.ID, e.Source, e.SourceHandle),
			})
		}
		dst, ok := nodes[e.Target]
		if !ok || !HasPort(dst.Inputs, e.TargetHandle) {
			problems = append(problems, Problem{
				Code:    ProblemDanglingEdge,
				Message: fmt.Sprintf("edge %q target %s/%s does not exist", e.ID, e.Target, e.TargetHandle),
			})
		}
	}

	return problems
}

func duplicatePorts(n Node, kind PortKind) []Problem {
	var problems []Problem
	seen := make(map[string]bool)
	for _, p := range n.Ports(kind) {
		if seen[p.ID] {
			problems = append(problems, Problem{
				Code:    ProblemDuplicatePort,
				Message: fmt.Sprintf("node %q has %s id %q more than once", n.ID, kind, p.ID),
			})
		}
		seen[p.ID] = true
	}
	return problems
}
