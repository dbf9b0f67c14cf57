package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
	"github.com/roach88/nodeweave/internal/testutil"
)

func newTestEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	if opts.NodeIDs == nil {
		opts.NodeIDs = testutil.NewSequenceSource("node")
	}
	if opts.EdgeIDs == nil {
		opts.EdgeIDs = testutil.NewSequenceSource("edge")
	}
	return New(opts)
}

// wirePair adds a source with one output and a sink with one input, then
// connects them. Five intents: four node pushes and one edge push.
func wirePair(t *testing.T, e *Editor) (src, dst, edge string) {
	t.Helper()
	src = e.AddNode(graph.NodeInit{Label: "Source"})
	dst = e.AddNode(graph.NodeInit{Label: "Sink", Position: graph.Position{X: 200}})
	_, ok := e.AddOutput(src)
	require.True(t, ok)
	_, ok = e.AddInput(dst)
	require.True(t, ok)
	edge, ok = e.Connect(graph.Connection{Source: src, SourceHandle: "output-0", Target: dst, TargetHandle: "input-0"})
	require.True(t, ok)
	return src, dst, edge
}

func TestNew_EmptyState(t *testing.T) {
	e := New(Options{})
	v := e.View()

	assert.Empty(t, v.Nodes)
	assert.Empty(t, v.Edges)
	assert.False(t, v.CanUndo)
	assert.False(t, v.CanRedo)
	assert.False(t, v.SnapToGrid)
	assert.Equal(t, graph.DefaultLineStyle, v.LineStyle)
}

func TestAddNode_Defaults(t *testing.T) {
	e := newTestEditor(t, Options{})

	id := e.AddNode(graph.NodeInit{})
	assert.Equal(t, "node-1", id)

	n, ok := e.View().Nodes.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Node 1", n.Label)
	assert.Equal(t, graph.DefaultColor, n.Color)
	assert.Empty(t, n.Inputs)
	assert.Empty(t, n.Outputs)
	assert.True(t, e.CanUndo())
}

func TestAddNode_DefaultUUIDs(t *testing.T) {
	e := New(Options{})

	a := e.AddNode(graph.NodeInit{})
	b := e.AddNode(graph.NodeInit{})
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestAddNode_InvalidColor(t *testing.T) {
	e := newTestEditor(t, Options{})

	_, err := e.Apply(context.Background(), Intent{Kind: KindAddNode, Color: "red"})
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidIntent, IntentErrorCodeOf(err))
	assert.Empty(t, e.View().Nodes)
}

func TestAddNode_DuplicateID(t *testing.T) {
	e := newTestEditor(t, Options{})
	ctx := context.Background()

	_, err := e.Apply(ctx, Intent{Kind: KindAddNode, NodeID: "n"})
	require.NoError(t, err)
	_, err = e.Apply(ctx, Intent{Kind: KindAddNode, NodeID: "n"})
	assert.Equal(t, ErrCodeInvalidIntent, IntentErrorCodeOf(err))
	assert.Len(t, e.View().Nodes, 1)
}

func TestNodeFieldEdits(t *testing.T) {
	e := newTestEditor(t, Options{})
	id := e.AddNode(graph.NodeInit{})

	assert.True(t, e.MoveNode(id, graph.Position{X: 30, Y: -15}))
	assert.True(t, e.SetLabel(id, "Mixer"))
	assert.True(t, e.SetDescription(id, "blends inputs"))
	changed, err := e.SetColor(id, "#FFAA00")
	require.NoError(t, err)
	assert.True(t, changed)

	n, _ := e.View().Nodes.Find(id)
	assert.Equal(t, graph.Position{X: 30, Y: -15}, n.Position)
	assert.Equal(t, "Mixer", n.Label)
	assert.Equal(t, "blends inputs", n.Description)
	assert.Equal(t, "#ffaa00", n.Color)
}

func TestSetColor_Invalid(t *testing.T) {
	e := newTestEditor(t, Options{})
	id := e.AddNode(graph.NodeInit{})

	changed, err := e.SetColor(id, "#12345")
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, IsIntentError(err))

	n, _ := e.View().Nodes.Find(id)
	assert.Equal(t, graph.DefaultColor, n.Color)
}

func TestNotFound_IsSilentNoOp(t *testing.T) {
	journal := &MemoryJournal{}
	changes := 0
	e := newTestEditor(t, Options{Journal: journal, OnChange: func(View) { changes++ }})
	id := e.AddNode(graph.NodeInit{})
	before := e.View()
	beforeChanges := changes

	assert.False(t, e.MoveNode("missing", graph.Position{X: 1}))
	assert.False(t, e.SetLabel("missing", "x"))
	assert.False(t, e.DeleteNode("missing"))
	_, ok := e.AddInput("missing")
	assert.False(t, ok)
	assert.False(t, e.RemoveInput(id, 0), "no inputs yet")
	assert.False(t, e.RenameOutput(id, 3, "x"))
	assert.False(t, e.Disconnect("missing"))

	assert.Equal(t, before, e.View())
	assert.Equal(t, beforeChanges, changes)
	assert.Len(t, journal.Intents, 1)

	past, _ := e.nodes.Depth()
	assert.Equal(t, 1, past, "no-ops push nothing")
}

func TestMissingNodeID_IsInvalid(t *testing.T) {
	e := newTestEditor(t, Options{})

	for _, kind := range []IntentKind{KindMoveNode, KindSetLabel, KindDeleteNode, KindAddInput, KindRemoveOutput, KindRenameInput} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := e.Apply(context.Background(), Intent{Kind: kind})
			assert.Equal(t, ErrCodeInvalidIntent, IntentErrorCodeOf(err))
		})
	}
}

func TestApply_UnknownKind(t *testing.T) {
	e := newTestEditor(t, Options{})

	_, err := e.Apply(context.Background(), Intent{Kind: "explode"})
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnknownIntent, IntentErrorCodeOf(err))
	assert.Contains(t, err.Error(), "kind=explode")
}

func TestPorts_AddRenameRemove(t *testing.T) {
	e := newTestEditor(t, Options{})
	id := e.AddNode(graph.NodeInit{})

	p0, ok := e.AddInput(id)
	require.True(t, ok)
	p1, _ := e.AddInput(id)
	out, _ := e.AddOutput(id)

	assert.Equal(t, graph.Port{ID: "input-0", Name: "Input 1"}, p0)
	assert.Equal(t, graph.Port{ID: "input-1", Name: "Input 2"}, p1)
	assert.Equal(t, graph.Port{ID: "output-0", Name: "Output 1"}, out)

	assert.True(t, e.RenameInput(id, 1, "gain"))
	assert.True(t, e.RemoveInput(id, 0))

	n, _ := e.View().Nodes.Find(id)
	assert.Equal(t, []graph.Port{{ID: "input-1", Name: "gain"}}, n.Inputs, "remaining ids are never repacked")
	assert.Equal(t, []graph.Port{{ID: "output-0", Name: "Output 1"}}, n.Outputs)
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, _ := wirePair(t, e)
	other := e.AddNode(graph.NodeInit{})
	e.AddInput(other)
	_, ok := e.Connect(graph.Connection{Source: src, SourceHandle: "output-0", Target: other, TargetHandle: "input-0"})
	require.True(t, ok)
	require.Len(t, e.View().Edges, 2)

	assert.True(t, e.DeleteNode(src))

	v := e.View()
	assert.Len(t, v.Nodes, 2)
	assert.Empty(t, v.Edges)
	assert.Empty(t, v.Document().Check())

	// Both timelines were pushed, so one undo restores node and edges.
	assert.True(t, e.Undo())
	v = e.View()
	assert.Len(t, v.Nodes, 3)
	assert.Len(t, v.Edges, 2)
	_, ok = v.Nodes.Find(dst)
	assert.True(t, ok)
}

func TestRemovePort_CascadesOnlyThatPort(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, _ := wirePair(t, e)
	e.AddOutput(src)
	second, ok := e.Connect(graph.Connection{Source: src, SourceHandle: "output-1", Target: dst, TargetHandle: "input-0"})
	require.True(t, ok)

	assert.True(t, e.RemoveOutput(src, 0))

	v := e.View()
	require.Len(t, v.Edges, 1)
	assert.Equal(t, second, v.Edges[0].ID)
	assert.Empty(t, v.Document().Check())

	assert.True(t, e.RemoveInput(dst, 0))
	assert.Empty(t, e.View().Edges)
}

func TestConnect_Permissive(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, first := wirePair(t, e)
	c := graph.Connection{Source: src, SourceHandle: "output-0", Target: dst, TargetHandle: "input-0"}

	second, ok := e.Connect(c)
	require.True(t, ok)
	assert.NotEqual(t, first, second)

	e.AddInput(src)
	loop, ok := e.Connect(graph.Connection{Source: src, SourceHandle: "output-0", Target: src, TargetHandle: "input-0"})
	require.True(t, ok, "self-loops are accepted")

	v := e.View()
	assert.Len(t, v.Edges, 3)
	_, ok = v.Edges.Find(loop)
	assert.True(t, ok)
}

func TestConnect_MissingEndpointIsNoOp(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, _ := wirePair(t, e)

	tests := []struct {
		name string
		c    graph.Connection
	}{
		{"unknown source node", graph.Connection{Source: "ghost", SourceHandle: "output-0", Target: dst, TargetHandle: "input-0"}},
		{"unknown source port", graph.Connection{Source: src, SourceHandle: "output-9", Target: dst, TargetHandle: "input-0"}},
		{"input used as source", graph.Connection{Source: dst, SourceHandle: "input-0", Target: dst, TargetHandle: "input-0"}},
		{"unknown target port", graph.Connection{Source: src, SourceHandle: "output-0", Target: dst, TargetHandle: "input-4"}},
		{"output used as target", graph.Connection{Source: src, SourceHandle: "output-0", Target: src, TargetHandle: "output-0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := e.Connect(tt.c)
			assert.False(t, ok)
			assert.Empty(t, id)
			assert.Len(t, e.View().Edges, 1)
		})
	}
}

func TestConnect_IncompleteIsInvalid(t *testing.T) {
	e := newTestEditor(t, Options{})

	_, err := e.Apply(context.Background(), Intent{Kind: KindConnect, Source: "a"})
	assert.Equal(t, ErrCodeInvalidIntent, IntentErrorCodeOf(err))
}

func TestDisconnect(t *testing.T) {
	e := newTestEditor(t, Options{})
	_, _, edge := wirePair(t, e)

	assert.True(t, e.Disconnect(edge))
	assert.Empty(t, e.View().Edges)
	assert.False(t, e.Disconnect(edge))
}

func TestSetLineStyle_RestylesAndAppliesToNewEdges(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, _ := wirePair(t, e)

	require.NoError(t, e.SetLineStyle(graph.LineStep))
	v := e.View()
	assert.Equal(t, graph.LineStep, v.LineStyle)
	assert.Equal(t, graph.LineStep, v.Edges[0].LineStyle)

	id, ok := e.Connect(graph.Connection{Source: src, SourceHandle: "output-0", Target: dst, TargetHandle: "input-0"})
	require.True(t, ok)
	edge, _ := e.View().Edges.Find(id)
	assert.Equal(t, graph.LineStep, edge.LineStyle)

	err := e.SetLineStyle("wavy")
	assert.Equal(t, ErrCodeInvalidIntent, IntentErrorCodeOf(err))
	assert.Equal(t, graph.LineStep, e.View().LineStyle)
}

func TestToggleSnapToGrid(t *testing.T) {
	e := newTestEditor(t, Options{})

	assert.True(t, e.ToggleSnapToGrid())
	assert.False(t, e.ToggleSnapToGrid())
	assert.False(t, e.CanUndo(), "snap-to-grid is not part of history")
}

func TestHistory_Lockstep(t *testing.T) {
	e := newTestEditor(t, Options{})
	initial := e.Document()
	wirePair(t, e)
	e.SetLabel("node-1", "Renamed")
	final := e.Document()
	const k = 6

	// The node timeline holds five pushes and the edge timeline one, so
	// the sixth undo and redo are no-ops. k steps still cover both.
	for i := 0; i < k; i++ {
		e.Undo()
	}
	assert.Equal(t, initial, e.Document())
	assert.False(t, e.CanUndo())
	assert.False(t, e.Undo())

	for i := 0; i < k; i++ {
		e.Redo()
	}
	assert.Equal(t, final, e.Document())
	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())
}

func TestHistory_RedoBranchDiscarded(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.AddNode(graph.NodeInit{})
	e.AddNode(graph.NodeInit{})

	require.True(t, e.Undo())
	require.True(t, e.CanRedo())

	e.AddNode(graph.NodeInit{Label: "branch"})
	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())

	v := e.View()
	require.Len(t, v.Nodes, 2)
	assert.Equal(t, "branch", v.Nodes[1].Label)
}

func TestHistory_SkipAheadQuirk(t *testing.T) {
	e := newTestEditor(t, Options{})
	_, dst, _ := wirePair(t, e)

	// The last intent only pushed edges, but undo steps both timelines:
	// the edge goes away and so does the sink's input port.
	require.True(t, e.Undo())

	v := e.View()
	assert.Empty(t, v.Edges)
	n, _ := v.Nodes.Find(dst)
	assert.Empty(t, n.Inputs)
}

func TestHistory_Limit(t *testing.T) {
	e := newTestEditor(t, Options{HistoryLimit: 2})
	for i := 0; i < 4; i++ {
		e.AddNode(graph.NodeInit{})
	}

	assert.True(t, e.Undo())
	assert.True(t, e.Undo())
	assert.False(t, e.Undo())
	assert.Len(t, e.View().Nodes, 2)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	e := newTestEditor(t, Options{})
	src, dst, edge := wirePair(t, e)
	e.RenameOutput(src, 0, "signal")

	data, err := e.Save()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	loaded := New(Options{})
	require.NoError(t, loaded.Load(data))

	v := loaded.View()
	require.Len(t, v.Nodes, 2)
	require.Len(t, v.Edges, 1)
	assert.Equal(t, e.Document(), v.Document())

	n, _ := v.Nodes.Find(src)
	assert.Equal(t, "signal", n.Outputs[0].Name)
	n, _ = v.Nodes.Find(dst)
	assert.Equal(t, "Input 1", n.Inputs[0].Name)
	assert.Equal(t, edge, v.Edges[0].ID)

	assert.False(t, v.CanUndo, "load is not undoable")
	assert.False(t, v.CanRedo)
}

func TestLoad_ReplacesHistory(t *testing.T) {
	e := newTestEditor(t, Options{})
	wirePair(t, e)
	e.Undo()
	require.True(t, e.CanRedo())

	require.NoError(t, e.Load([]byte(`{"nodes":[{"id":"x","data":{"label":"X"}}]}`)))

	v := e.View()
	assert.False(t, v.CanUndo)
	assert.False(t, v.CanRedo)
	require.Len(t, v.Nodes, 1)
	assert.Equal(t, "X", v.Nodes[0].Label)
	assert.Empty(t, v.Edges)
}

func TestLoad_InvalidLeavesStateUntouched(t *testing.T) {
	var notices []Notice
	journal := &MemoryJournal{}
	e := newTestEditor(t, Options{
		Journal:  journal,
		Notifier: NotifierFunc(func(n Notice) { notices = append(notices, n) }),
	})
	wirePair(t, e)
	before := e.View()

	err := e.Load([]byte(`{"nodes": [`))
	require.Error(t, err)
	assert.True(t, codec.IsParseError(err))

	assert.Equal(t, before, e.View())
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeInvalidJSON, notices[0].Message)
	assert.Equal(t, NoticeError, notices[0].Level)
	assert.Len(t, journal.Intents, 5, "failed load is not journaled")

	err = e.Load([]byte(`null`))
	require.Error(t, err)
	assert.True(t, codec.IsParseError(err))
	assert.Equal(t, before, e.View())
	require.Len(t, notices, 2)
	assert.Equal(t, NoticeInvalidJSON, notices[1].Message)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestLoadFrom(t *testing.T) {
	e := newTestEditor(t, Options{})
	wirePair(t, e)
	before := e.View()

	err := e.LoadFrom(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, before, e.View())

	require.NoError(t, e.LoadFrom(strings.NewReader(`{}`)))
	assert.Empty(t, e.View().Nodes)
}

func TestOnChange(t *testing.T) {
	var views []View
	var e *Editor
	e = newTestEditor(t, Options{OnChange: func(v View) {
		// Calling back in must not deadlock.
		_ = e.CanUndo()
		views = append(views, v)
	}})

	id := e.AddNode(graph.NodeInit{})
	e.SetLabel(id, "A")
	e.SetLabel("missing", "B")
	e.Undo()

	require.Len(t, views, 3)
	assert.Equal(t, "A", views[1].Nodes[0].Label)
	assert.Equal(t, "Node 1", views[2].Nodes[0].Label)
	assert.True(t, views[2].CanRedo)
}

func TestViewSnapshotsAreStable(t *testing.T) {
	e := newTestEditor(t, Options{})
	id := e.AddNode(graph.NodeInit{Label: "before"})
	held := e.View()

	e.SetLabel(id, "after")
	e.AddInput(id)

	assert.Equal(t, "before", held.Nodes[0].Label)
	assert.Empty(t, held.Nodes[0].Inputs)
}

func TestConcurrentIntents(t *testing.T) {
	e := New(Options{})
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				e.AddNode(graph.NodeInit{})
			}
		}()
	}
	wg.Wait()

	v := e.View()
	assert.Len(t, v.Nodes, workers*perWorker)
	assert.Empty(t, v.Document().Check())
}

func TestOnChange_Revisions(t *testing.T) {
	var revisions []uint64
	e := newTestEditor(t, Options{OnChange: func(v View) { revisions = append(revisions, v.Revision) }})
	assert.Zero(t, e.View().Revision)

	id := e.AddNode(graph.NodeInit{})
	e.SetLabel("missing", "x")
	e.SetLabel(id, "A")
	e.Undo()
	e.Undo()

	assert.Equal(t, []uint64{1, 2, 3}, revisions, "no-ops do not advance the revision")
	assert.Equal(t, uint64(3), e.View().Revision)
}

func TestOnChange_ConcurrentRevisionsAreDistinct(t *testing.T) {
	const workers = 6
	const perWorker = 20

	var mu sync.Mutex
	nodesAt := make(map[uint64]int)
	e := newTestEditor(t, Options{OnChange: func(v View) {
		mu.Lock()
		defer mu.Unlock()
		_, dup := nodesAt[v.Revision]
		assert.False(t, dup, "revision %d delivered twice", v.Revision)
		nodesAt[v.Revision] = len(v.Nodes)
	}})

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				e.AddNode(graph.NodeInit{})
			}
		}()
	}
	wg.Wait()

	// Whatever the delivery order, revision n is the state after n adds.
	require.Len(t, nodesAt, workers*perWorker)
	for rev := uint64(1); rev <= workers*perWorker; rev++ {
		assert.Equal(t, int(rev), nodesAt[rev], "revision %d", rev)
	}
	assert.Equal(t, uint64(workers*perWorker), e.View().Revision)
}
