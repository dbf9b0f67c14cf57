package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
)

// pairDocument is two nodes joined by one edge.
func pairDocument() graph.Document {
	ns := graph.Nodes{}.
		AddNode("a", graph.NodeInit{Label: "Source"}).
		AddNode("b", graph.NodeInit{Label: "Sink", Position: graph.Position{X: 200}})
	ns, _, _ = ns.AddOutput("a")
	ns, _, _ = ns.AddInput("b")
	es := graph.Edges{}.Connect("e1", graph.Connection{
		Source: "a", SourceHandle: "output-0", Target: "b", TargetHandle: "input-0",
	}, graph.LineBezier)
	return graph.Document{Nodes: ns, Edges: es}
}

// writeDocument encodes doc into a temp file and returns its path.
func writeDocument(t *testing.T, doc graph.Document) string {
	t.Helper()
	data, err := codec.EncodeIndent(doc)
	require.NoError(t, err)
	return writeFile(t, "doc.json", string(data)+"\n")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns stdout and the error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse parses a JSON CLIResponse and re-decodes its data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}
