package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/nodeweave/internal/graph"
)

// createTestStore opens a fresh database in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// twoNodeDocument is two nodes wired output-0 -> input-0.
func twoNodeDocument() graph.Document {
	ns := graph.Nodes{}.
		AddNode("a", graph.NodeInit{}).
		AddNode("b", graph.NodeInit{Position: graph.Position{X: 200}})
	ns, _, _ = ns.AddOutput("a")
	ns, _, _ = ns.AddInput("b")
	es := graph.Edges{}.Connect("e1", graph.Connection{
		Source: "a", SourceHandle: "output-0", Target: "b", TargetHandle: "input-0",
	}, graph.DefaultLineStyle)
	return graph.Document{Nodes: ns, Edges: es}
}
