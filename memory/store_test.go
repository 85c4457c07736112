package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/meikuraledutech/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozen(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(flow.DefaultRegistry(), WithClock(frozen(1700000000000)))
}

func outgoing(edges []flow.Edge, source string) []flow.Edge {
	var out []flow.Edge
	for _, e := range edges {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

func TestAddNodeDefaults(t *testing.T) {
	s := newStore(t)

	n := s.AddNode(flow.TypeMessage, flow.Position{X: 100, Y: 200})

	assert.Equal(t, "message-1700000000000", n.ID)
	assert.Equal(t, flow.TypeMessage, n.Type)
	assert.Equal(t, flow.Position{X: 100, Y: 200}, n.Position)
	assert.Equal(t, flow.MessageData{Label: "text message"}, n.Data)
	assert.Len(t, s.ListNodes(), 1)
}

func TestAddNodeUnknownType(t *testing.T) {
	s := newStore(t)

	n := s.AddNode("condition", flow.Position{})

	assert.Equal(t, "condition", n.Type)
	assert.Equal(t, flow.GenericData{"label": "New Node"}, n.Data)
}

func TestAddNodeIDsUniqueUnderFrozenClock(t *testing.T) {
	s := newStore(t)

	seen := map[string]bool{}
	for range 50 {
		n := s.AddNode(flow.TypeMessage, flow.Position{})
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	assert.Len(t, s.ListNodes(), 50)
}

func TestUpdateNodeDataMerges(t *testing.T) {
	s := newStore(t)
	n := s.AddNode(flow.TypeMessage, flow.Position{})

	require.NoError(t, s.UpdateNodeData(n.ID, flow.Patch{"label": "hi"}))
	require.NoError(t, s.UpdateNodeData(n.ID, flow.Patch{"label": "bye"}))

	got, ok := s.GetNode(n.ID)
	require.True(t, ok)
	assert.Equal(t, flow.MessageData{Label: "bye"}, got.Data)
}

func TestUpdateNodeDataKeepsOtherKeys(t *testing.T) {
	s := newStore(t)
	n := s.AddNode("custom", flow.Position{})

	require.NoError(t, s.UpdateNodeData(n.ID, flow.Patch{"weight": 2}))
	require.NoError(t, s.UpdateNodeData(n.ID, flow.Patch{"label": "bye"}))

	got, _ := s.GetNode(n.ID)
	assert.Equal(t, flow.GenericData{"label": "bye", "weight": 2}, got.Data)
}

func TestUpdateNodeDataMissingNodeIsNoop(t *testing.T) {
	s := newStore(t)
	s.AddNode(flow.TypeMessage, flow.Position{})
	before := s.Snapshot()

	require.NoError(t, s.UpdateNodeData("stale", flow.Patch{"label": "x"}))

	assert.Equal(t, before, s.Snapshot())
}

func TestUpdateNodeDataBadPatchLeavesNode(t *testing.T) {
	s := newStore(t)
	n := s.AddNode(flow.TypeMessage, flow.Position{})

	err := s.UpdateNodeData(n.ID, flow.Patch{"label": 42})
	require.Error(t, err)

	got, _ := s.GetNode(n.ID)
	assert.Equal(t, flow.MessageData{Label: "text message"}, got.Data)
}

func TestConnectIsIdempotent(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})

	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Connect(a.ID, b.ID)
	require.NoError(t, err)

	edges := s.ListEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, a.ID, edges[0].Source)
	assert.Equal(t, b.ID, edges[0].Target)
}

func TestConnectReplacesOutgoingEdge(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	c := s.AddNode(flow.TypeMessage, flow.Position{})

	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Connect(a.ID, c.ID)
	require.NoError(t, err)

	edges := s.ListEdges()
	out := outgoing(edges, a.ID)
	require.Len(t, out, 1)
	assert.Equal(t, c.ID, out[0].Target)
	assert.NotContains(t, edges, flow.NewEdge(a.ID, b.ID))
}

func TestConnectAllowsFanIn(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	c := s.AddNode(flow.TypeMessage, flow.Position{})

	_, err := s.Connect(a.ID, c.ID)
	require.NoError(t, err)
	_, err = s.Connect(b.ID, c.ID)
	require.NoError(t, err)

	assert.Len(t, s.ListEdges(), 2)
}

func TestConnectAllowsSelfLoop(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})

	e, err := s.Connect(a.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, e.Target)
}

func TestConnectUnknownNode(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})

	_, err := s.Connect(a.ID, "ghost")
	assert.True(t, errors.Is(err, flow.ErrNodeNotFound))
	_, err = s.Connect("ghost", a.ID)
	assert.True(t, errors.Is(err, flow.ErrNodeNotFound))
	assert.Empty(t, s.ListEdges())
}

func TestRemoveEdgesFrom(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Connect(b.ID, a.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, s.RemoveEdgesFrom(a.ID))
	assert.Equal(t, 0, s.RemoveEdgesFrom(a.ID))
	assert.Equal(t, []flow.Edge{flow.NewEdge(b.ID, a.ID)}, s.ListEdges())
}

func TestApplyNodeChanges(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	c := s.AddNode(flow.TypeMessage, flow.Position{})
	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Connect(b.ID, c.ID)
	require.NoError(t, err)

	s.ApplyNodeChanges([]flow.NodeChange{
		{Type: flow.ChangePosition, ID: a.ID, Position: &flow.Position{X: 5, Y: 6}},
		{Type: flow.ChangePosition, ID: c.ID},
		{Type: flow.ChangeSelect, ID: c.ID, Selected: true},
		{Type: flow.ChangeRemove, ID: b.ID},
		{Type: flow.ChangeRemove, ID: "ghost"},
	})

	got := s.ListNodes()
	require.Len(t, got, 2)
	assert.Equal(t, flow.Position{X: 5, Y: 6}, got[0].Position)
	assert.Equal(t, flow.Position{}, got[1].Position)
	assert.True(t, got[1].Selected)
	assert.Empty(t, s.ListEdges(), "edges touching a removed node go with it")
}

func TestApplyEdgeChanges(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	c := s.AddNode(flow.TypeMessage, flow.Position{})
	ab, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	bc, err := s.Connect(b.ID, c.ID)
	require.NoError(t, err)

	s.ApplyEdgeChanges([]flow.EdgeChange{
		{Type: flow.ChangeSelect, ID: bc.ID, Selected: true},
		{Type: flow.ChangeRemove, ID: ab.ID},
	})

	edges := s.ListEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, bc.ID, edges[0].ID)
	assert.True(t, edges[0].Selected)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := New(flow.DefaultRegistry())
	s.AddNode("custom", flow.Position{})

	snap := s.Snapshot()
	snap.Nodes[0].Data.(flow.GenericData)["label"] = "mutated"
	snap.Nodes[0].Position.X = 99

	got := s.ListNodes()
	assert.Equal(t, "New Node", got[0].Data.(flow.GenericData)["label"])
	assert.Equal(t, 0.0, got[0].Position.X)
}

func TestScenarioThreeNodesSingleOutgoing(t *testing.T) {
	s := newStore(t)
	a := s.AddNode(flow.TypeMessage, flow.Position{})
	b := s.AddNode(flow.TypeMessage, flow.Position{})
	c := s.AddNode(flow.TypeMessage, flow.Position{})

	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Connect(a.ID, c.ID)
	require.NoError(t, err)

	g := s.Snapshot()
	assert.Len(t, outgoing(g.Edges, a.ID), 1)
	assert.False(t, flow.IsValid(g.Nodes, g.Edges), "a and b both lack incoming edges")
}
