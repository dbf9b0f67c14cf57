package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/harness"
)

const wiringScenario = `name: wiring
description: "Wire two nodes, including a rejected step"
steps:
  - kind: add_node
    node_id: a
  - kind: add_node
    node_id: b
    x: 200
  - kind: add_output
    node_id: a
  - kind: add_input
    node_id: b
  - kind: connect
    edge_id: e1
    source: a
    source_handle: output-0
    target: b
    target_handle: input-0
  - kind: set_color
    node_id: a
    color: not-a-color
    expect_error: INVALID_INTENT
  - kind: move_node
    node_id: ghost
    x: 1
    expect_noop: true
assertions:
  - type: edge_count
    count: 1
`

func recordWiring(t *testing.T, db string, extra ...string) RecordResult {
	t.Helper()
	path := writeFile(t, "wiring.yaml", wiringScenario)

	args := append([]string{"--db", db}, extra...)
	out, err := execute(NewRecordCommand(&RootOptions{Format: "json"}), append(args, path)...)
	require.NoError(t, err, out)

	var result RecordResult
	decodeResponse(t, out, &result)
	return result
}

func TestRecordCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")

	result := recordWiring(t, db)
	assert.Equal(t, "wiring", result.Session)
	assert.Equal(t, 5, result.Applied)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
}

func TestRecordCommandPackagedScenario(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	path := filepath.Join("..", "harness", "testdata", "scenarios", "connect_pair.yaml")

	out, err := execute(NewRecordCommand(&RootOptions{Format: "json"}), "--db", db, path)
	require.NoError(t, err, out)

	var result RecordResult
	decodeResponse(t, out, &result)
	assert.Equal(t, 7, result.Applied)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)

	out, err = execute(NewReplayCommand(&RootOptions{Format: "json"}), "--db", db, "--session", "connect_pair")
	require.NoError(t, err, out)

	var replayed ReplayResult
	decodeResponse(t, out, &replayed)
	require.Len(t, replayed.Sessions, 1)
	assert.Equal(t, 1, replayed.Sessions[0].Edges)
	assert.True(t, replayed.AllDeterministic)
}

func TestRecordCommandAllPackagedScenarios(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	files, err := harness.FindScenarios(filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		out, err := execute(NewRecordCommand(&RootOptions{Format: "json"}), "--db", db, file)
		require.NoError(t, err, "%s: %s", file, out)
	}

	_, err = execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
}

func TestRecordCommandUndeclaredNoop(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	path := writeFile(t, "noop.yaml", `name: noop
description: "A step aimed at a node that does not exist"
steps:
  - kind: add_node
  - kind: set_label
    node_id: node-9
    label: Ghost
assertions:
  - type: node_count
    count: 1
`)

	out, err := execute(NewRecordCommand(&RootOptions{Format: "json"}), "--db", db, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRecord, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "steps[1] set_label: unexpected no-op")
}

func TestRecordCommandRefusesExistingSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	recordWiring(t, db)

	path := writeFile(t, "wiring.yaml", wiringScenario)
	_, err := execute(NewRecordCommand(&RootOptions{Format: "text"}), "--db", db, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "already recorded")
}

func TestRecordCommandSavesDocument(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	result := recordWiring(t, db, "--session", "demo", "--save", "demo-doc")
	assert.Equal(t, "demo", result.Session)
	assert.Equal(t, "demo-doc", result.SavedAs)

	out, err := execute(NewExportCommand(&RootOptions{Format: "text"}), "--db", db, "--name", "demo-doc")
	require.NoError(t, err)
	doc, err := codec.Decode([]byte(out))
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Edges, 1)
}

func TestReplayCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	recordWiring(t, db)
	recordWiring(t, db, "--session", "second")

	out, err := execute(NewReplayCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err, out)

	var result ReplayResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.AllDeterministic)
	require.Len(t, result.Sessions, 2)

	first := result.Sessions[0]
	assert.Equal(t, "second", first.Session)
	assert.Equal(t, 5, first.Intents)
	assert.Equal(t, 2, first.Nodes)
	assert.Equal(t, 1, first.Edges)
	assert.True(t, first.CanUndo)
	assert.False(t, first.CanRedo)
	assert.Equal(t, first.Digest, result.Sessions[1].Digest)
}

func TestReplayCommandText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")
	recordWiring(t, db)

	out, err := execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "wiring")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ wiring: 5 intents, 2 nodes, 1 edges")
	assert.Contains(t, out, "replayed deterministically")
}

func TestReplayCommandWritesDocument(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nodeweave.db")
	target := filepath.Join(dir, "replayed.json")
	recordWiring(t, db)

	_, err := execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "wiring", "--out", target)
	require.NoError(t, err)

	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), target)
	require.NoError(t, err)
	assert.Contains(t, out, "valid (2 nodes, 1 edges)")
}

func TestReplayCommandOutRequiresSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")

	_, err := execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db, "--out", "x.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommandUnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")

	_, err := execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), `no session named "missing"`)
}

func TestReplayCommandEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nodeweave.db")

	out, err := execute(NewReplayCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}
