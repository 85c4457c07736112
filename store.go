package flow

import "errors"

var (
	ErrInvalidFlow  = errors.New("flow: more than one node has no incoming edge")
	ErrNodeNotFound = errors.New("flow: node not found")
	ErrUnknownField = errors.New("flow: unknown field")
)

// Store owns the nodes and edges of one flow and enforces its structural rules.
// A node is the source of at most one edge; connecting it again replaces
// the previous edge.
type Store interface {
	// Nodes
	AddNode(nodeType string, pos Position) Node
	GetNode(nodeID string) (Node, bool)
	// UpdateNodeData merges patch into the node's payload.
	// Unknown node ids are ignored and return nil. Typed payloads such as
	// MessageData reject keys they do not declare; GenericData keeps them.
	UpdateNodeData(nodeID string, patch Patch) error
	ApplyNodeChanges(changes []NodeChange)
	ListNodes() []Node

	// Edges
	Connect(source, target string) (Edge, error)
	RemoveEdgesFrom(source string) int
	ApplyEdgeChanges(changes []EdgeChange)
	ListEdges() []Edge

	// Snapshot returns a deep copy of the whole graph.
	Snapshot() Graph
}

// ChangeType names the kind of a change event reported by the canvas.
type ChangeType string

const (
	ChangePosition ChangeType = "position"
	ChangeSelect   ChangeType = "select"
	ChangeRemove   ChangeType = "remove"
)

// NodeChange is a change the canvas made to a node (drag, selection, deletion).
type NodeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Position *Position  `json:"position,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// EdgeChange is a change the canvas made to an edge.
type EdgeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Selected bool       `json:"selected,omitempty"`
}
