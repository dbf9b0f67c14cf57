package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
)

// Snapshot renders a run as canonical JSON: the scenario name, the trace,
// the final document in wire form and the undo/redo flags.
func Snapshot(name string, result *Result) ([]byte, error) {
	docJSON, err := codec.Encode(result.Document)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(docJSON))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}

	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		m := map[string]any{
			"seq":     event.Seq,
			"kind":    event.Kind,
			"changed": event.Changed,
		}
		if event.NodeID != "" {
			m["node_id"] = event.NodeID
		}
		if event.EdgeID != "" {
			m["edge_id"] = event.EdgeID
		}
		if event.Error != "" {
			m["error"] = event.Error
		}
		trace[i] = m
	}

	return graph.MarshalCanonical(map[string]any{
		"scenario": name,
		"trace":    trace,
		"document": doc,
		"can_undo": result.CanUndo,
		"can_redo": result.CanRedo,
	})
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
