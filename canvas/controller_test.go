package canvas

import (
	"testing"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/internal/logging"
	"github.com/meikuraledutech/flow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	reg := flow.DefaultRegistry()
	return NewController(memory.New(reg), reg, WithLogger(logging.NewNop()))
}

func drop(t *testing.T, c *Controller, x, y float64) flow.Node {
	t.Helper()
	n, ok := c.OnDrop(flow.DragPayload(flow.TypeMessage), flow.Position{X: x, Y: y})
	require.True(t, ok)
	return n
}

func TestDropBeforeInitIsNoop(t *testing.T) {
	c := newController(t)

	_, ok := c.OnDrop(flow.DragPayload(flow.TypeMessage), flow.Position{X: 1, Y: 1})

	assert.False(t, ok)
	assert.Empty(t, c.Store().ListNodes())
}

func TestDropEmptyPayloadIsNoop(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})

	_, ok := c.OnDrop(flow.DataTransfer{}, flow.Position{})

	assert.False(t, ok)
	assert.Empty(t, c.Store().ListNodes())
}

func TestDropMessageTemplate(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})

	n := drop(t, c, 100, 200)

	assert.Equal(t, flow.TypeMessage, n.Type)
	assert.Equal(t, flow.Position{X: 100, Y: 200}, n.Position)
	assert.Equal(t, flow.MessageData{Label: "text message"}, n.Data)
}

func TestDropConvertsScreenPosition(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{X: 50, Y: -20, Zoom: 2})

	n := drop(t, c, 250, 180)

	assert.Equal(t, flow.Position{X: 100, Y: 100}, n.Position)
}

func TestDropUnknownTypeIsAccepted(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})

	n, ok := c.OnDrop(flow.DragPayload("condition"), flow.Position{})

	require.True(t, ok)
	assert.Equal(t, flow.GenericData{"label": "New Node"}, n.Data)
}

func TestConnectDrag(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)
	b := drop(t, c, 10, 0)

	c.OnConnectStart(a.ID)
	_, err := c.OnConnect(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.OnConnectEnd(false))
	assert.Equal(t, "", c.OnConnectEnd(true), "drag state resets after end")

	assert.Len(t, c.Store().ListEdges(), 1)
}

func TestConnectEndOnPaneCreatesNothing(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)

	c.OnConnectStart(a.ID)
	assert.Equal(t, a.ID, c.OnConnectEnd(true))

	assert.Len(t, c.Store().ListNodes(), 1)
	assert.Empty(t, c.Store().ListEdges())
}

func TestSelectionTransitions(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)

	c.OnNodeClick(a.ID)
	id, ok := c.Selection().Selected()
	require.True(t, ok)
	assert.Equal(t, a.ID, id)

	c.OnPaneClick()
	_, ok = c.Selection().Selected()
	assert.False(t, ok)

	c.OnNodeClick(a.ID)
	c.Inspector().Close()
	_, ok = c.Selection().Selected()
	assert.False(t, ok)

	c.OnNodeClick("ghost")
	_, ok = c.Selection().Selected()
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)
	b := drop(t, c, 10, 0)

	st := c.Render()
	assert.False(t, st.Valid)
	assert.Len(t, st.Nodes, 2)
	assert.Equal(t, map[string]string{flow.TypeMessage: "textNode"}, st.NodeTypes)

	_, err := c.OnConnect(a.ID, b.ID)
	require.NoError(t, err)
	c.OnNodeClick(b.ID)

	st = c.Render()
	assert.True(t, st.Valid)
	assert.Equal(t, b.ID, st.SelectedNodeID)
	require.Len(t, st.Edges, 1)
	assert.Equal(t, flow.EdgeColor, st.Edges[0].Style.Stroke)
}

func TestNodeRemovalByChangeEvent(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)
	b := drop(t, c, 10, 0)
	_, err := c.OnConnect(a.ID, b.ID)
	require.NoError(t, err)

	c.OnNodesChange([]flow.NodeChange{{Type: flow.ChangeRemove, ID: b.ID}})

	st := c.Render()
	assert.Len(t, st.Nodes, 1)
	assert.Empty(t, st.Edges)
}

func TestRemovingSelectedNodeClearsSelection(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 100, 200)
	c.OnNodeClick(a.ID)

	c.OnNodesChange([]flow.NodeChange{{Type: flow.ChangeRemove, ID: a.ID}})

	st := c.Render()
	assert.Empty(t, st.Nodes)
	assert.Empty(t, st.SelectedNodeID)
	_, ok := c.Selection().Selected()
	assert.False(t, ok)
}

func TestRenderDropsSelectionOfVanishedNode(t *testing.T) {
	c := newController(t)
	c.OnInit(Viewport{Zoom: 1})
	a := drop(t, c, 0, 0)
	c.OnNodeClick(a.ID)

	// Removed behind the controller's back.
	c.Store().ApplyNodeChanges([]flow.NodeChange{{Type: flow.ChangeRemove, ID: a.ID}})

	assert.Empty(t, c.Render().SelectedNodeID)
	_, ok := c.Selection().Selected()
	assert.False(t, ok)
}
