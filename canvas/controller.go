// Package canvas adapts the events of a graph canvas to a flow.Store and
// produces what the canvas needs to draw.
package canvas

import (
	"log/slog"
	"sync"

	"github.com/meikuraledutech/flow"
)

// RenderState is everything the canvas draws.
type RenderState struct {
	Nodes []flow.Node `json:"nodes"`
	Edges []flow.Edge `json:"edges"`
	// NodeTypes maps node type to the canvas renderer key.
	NodeTypes      map[string]string `json:"nodeTypes"`
	Valid          bool              `json:"valid"`
	SelectedNodeID string            `json:"selectedNodeId,omitempty"`
}

// Controller handles canvas events for one flow.
type Controller struct {
	store     flow.Store
	registry  *flow.Registry
	selection *Selection
	inspector *Inspector
	logger    *slog.Logger

	mu         sync.Mutex
	viewport   *Viewport
	connecting string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for event diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController wires a Controller to store and registry.
func NewController(store flow.Store, registry *flow.Registry, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		registry:  registry,
		selection: &Selection{},
		logger:    slog.Default(),
	}
	c.inspector = NewInspector(store, registry, c.selection)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the store the controller mutates.
func (c *Controller) Store() flow.Store { return c.store }

// Inspector returns the side panel router bound to this controller's selection.
func (c *Controller) Inspector() *Inspector { return c.inspector }

// Selection returns the current selection.
func (c *Controller) Selection() *Selection { return c.selection }

// OnInit records the canvas viewport. Drops are ignored until it is called.
func (c *Controller) OnInit(v Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = &v
}

// OnDrop creates a node of the dragged type at the drop point.
// It reports false when the payload is empty or the canvas is not initialised.
// Types missing from the registry are accepted with a generic payload.
func (c *Controller) OnDrop(data flow.DataTransfer, screen flow.Position) (flow.Node, bool) {
	nodeType, ok := data.NodeType()
	if !ok {
		return flow.Node{}, false
	}

	c.mu.Lock()
	vp := c.viewport
	c.mu.Unlock()
	if vp == nil {
		c.logger.Debug("drop before canvas init ignored", "type", nodeType)
		return flow.Node{}, false
	}

	if _, known := c.registry.Lookup(nodeType); !known {
		c.logger.Warn("dropping unregistered node type", "type", nodeType)
	}
	n := c.store.AddNode(nodeType, vp.ScreenToFlowPosition(screen))
	c.logger.Debug("node added", "id", n.ID, "type", n.Type)
	return n, true
}

// OnConnect links source to target, replacing source's previous edge.
func (c *Controller) OnConnect(source, target string) (flow.Edge, error) {
	e, err := c.store.Connect(source, target)
	if err != nil {
		return flow.Edge{}, err
	}
	c.logger.Debug("nodes connected", "source", source, "target", target)
	return e, nil
}

// OnConnectStart remembers the node a connection is being dragged from.
func (c *Controller) OnConnectStart(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = nodeID
}

// OnConnectEnd finishes a connection drag and returns the node it started
// from. An empty id means no drag was in progress.
func (c *Controller) OnConnectEnd(targetIsPane bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	source := c.connecting
	c.connecting = ""
	if source != "" && targetIsPane {
		c.logger.Debug("connection dropped on pane", "source", source)
	}
	return source
}

// OnNodeClick selects the clicked node. Unknown ids are ignored.
func (c *Controller) OnNodeClick(nodeID string) {
	if _, ok := c.store.GetNode(nodeID); !ok {
		return
	}
	c.selection.Select(nodeID)
}

// OnPaneClick clears the selection so the palette shows again.
func (c *Controller) OnPaneClick() {
	c.selection.Clear()
}

// OnNodesChange folds node changes from the canvas into the store.
// Removing the selected node clears the selection.
func (c *Controller) OnNodesChange(changes []flow.NodeChange) {
	c.store.ApplyNodeChanges(changes)
	c.pruneSelection()
}

// OnEdgesChange folds edge changes from the canvas into the store.
func (c *Controller) OnEdgesChange(changes []flow.EdgeChange) {
	c.store.ApplyEdgeChanges(changes)
}

// Render returns the current drawing input, validated against the latest graph.
func (c *Controller) Render() RenderState {
	c.pruneSelection()
	g := c.store.Snapshot()
	selected, _ := c.selection.Selected()
	return RenderState{
		Nodes:          g.Nodes,
		Edges:          g.Edges,
		NodeTypes:      c.registry.Renderers(),
		Valid:          flow.IsValid(g.Nodes, g.Edges),
		SelectedNodeID: selected,
	}
}

// pruneSelection clears a selection whose node is gone from the store.
func (c *Controller) pruneSelection() {
	id, ok := c.selection.Selected()
	if !ok {
		return
	}
	if _, ok := c.store.GetNode(id); !ok {
		c.selection.Clear()
	}
}
