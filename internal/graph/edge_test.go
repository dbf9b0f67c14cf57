package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conn(src, srcPort, dst, dstPort string) Connection {
	return Connection{Source: src, SourceHandle: srcPort, Target: dst, TargetHandle: dstPort}
}

func TestConnect(t *testing.T) {
	es := Edges{}.Connect("e1", conn("a", "output-0", "b", "input-0"), LineStep)

	require.Len(t, es, 1)
	assert.Equal(t, Edge{
		ID:           "e1",
		Source:       "a",
		SourceHandle: "output-0",
		Target:       "b",
		TargetHandle: "input-0",
		LineStyle:    LineStep,
		Selectable:   true,
	}, es[0])
}

func TestConnectIsPermissive(t *testing.T) {
	c := conn("a", "output-0", "a", "input-0")
	es := Edges{}.Connect("e1", c, LineBezier).Connect("e2", c, LineBezier)

	require.Len(t, es, 2, "self-loop and duplicate endpoints are both accepted")
	assert.NotEqual(t, es[0].ID, es[1].ID)
}

func TestDisconnect(t *testing.T) {
	es := Edges{}.
		Connect("e1", conn("a", "output-0", "b", "input-0"), LineBezier).
		Connect("e2", conn("a", "output-0", "c", "input-0"), LineBezier)

	out, ok := es.Disconnect("e1")
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "e2", out[0].ID)

	_, ok = out.Disconnect("e1")
	assert.False(t, ok)
	assert.Len(t, es, 2, "original snapshot unchanged")
}

func TestCascadeRemovePorts(t *testing.T) {
	es := Edges{}.
		Connect("e1", conn("a", "output-0", "b", "input-0"), LineBezier).
		Connect("e2", conn("a", "output-1", "b", "input-1"), LineBezier).
		Connect("e3", conn("c", "output-0", "a", "input-0"), LineBezier)

	out := es.CascadeRemovePorts("b", []string{"input-0"})
	require.Len(t, out, 2)
	for _, e := range out {
		assert.False(t, e.Touches("b", "input-0"))
	}

	// Same port id on a different node is not touched
	out = es.CascadeRemovePorts("c", []string{"input-0"})
	assert.Len(t, out, 3)

	out = es.CascadeRemovePorts("a", []string{"output-0", "output-1", "input-0"})
	assert.Empty(t, out)
}

func TestCascadeRemoveNode(t *testing.T) {
	es := Edges{}.
		Connect("e1", conn("a", "output-0", "b", "input-0"), LineBezier).
		Connect("e2", conn("b", "output-0", "c", "input-0"), LineBezier).
		Connect("e3", conn("c", "output-0", "d", "input-0"), LineBezier)

	out := es.CascadeRemoveNode("b")
	require.Len(t, out, 1)
	assert.Equal(t, "e3", out[0].ID)
	for _, e := range out {
		assert.NotEqual(t, "b", e.Source)
		assert.NotEqual(t, "b", e.Target)
	}
}

func TestRestyleAll(t *testing.T) {
	es := Edges{}.
		Connect("e1", conn("a", "output-0", "b", "input-0"), LineBezier).
		Connect("e2", conn("a", "output-0", "c", "input-0"), LineStep)

	out := es.RestyleAll(LineStraight)
	for _, e := range out {
		assert.Equal(t, LineStraight, e.LineStyle)
	}
	assert.Equal(t, LineBezier, es[0].LineStyle, "original snapshot unchanged")
}

func TestParseLineStyle(t *testing.T) {
	for _, ls := range LineStyles {
		got, err := ParseLineStyle(string(ls))
		require.NoError(t, err)
		assert.Equal(t, ls, got)
	}

	_, err := ParseLineStyle("curly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "curly")
}
