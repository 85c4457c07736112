package flow

// Graph is a snapshot of a flow: its nodes and the directed edges between them.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a coordinate in canvas space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one step of the flow.
// Data holds the payload of the variant named by Type.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	Selected bool     `json:"selected,omitempty"`
}

// Edge is a directed connection: the flow proceeds from Source to Target.
type Edge struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Style     EdgeStyle `json:"style"`
	MarkerEnd Marker    `json:"markerEnd"`
	Selected  bool      `json:"selected,omitempty"`
}

// EdgeStyle is the stroke used to draw an edge.
type EdgeStyle struct {
	Stroke string `json:"stroke"`
}

// Marker is the arrowhead drawn at the end of an edge.
type Marker struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

// Edge presentation defaults.
const (
	EdgeColor        = "#acacac"
	MarkerArrowClose = "arrowclosed"
	MarkerSize       = 20
)

// NewEdge builds the edge source -> target with the default presentation.
func NewEdge(source, target string) Edge {
	return Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
		Style:  EdgeStyle{Stroke: EdgeColor},
		MarkerEnd: Marker{
			Type:   MarkerArrowClose,
			Width:  MarkerSize,
			Height: MarkerSize,
			Color:  EdgeColor,
		},
	}
}

// EdgeID derives an edge id from its endpoints.
func EdgeID(source, target string) string {
	return "edge-" + source + "-" + target
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, g.Edges)
	return out
}

// Clone returns a copy of the node whose payload is not shared with n.
func (n Node) Clone() Node {
	if n.Data != nil {
		n.Data = n.Data.Clone()
	}
	return n
}
