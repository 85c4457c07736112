package flow

import (
	"fmt"
	"strings"
)

// SaveBlockedMessage is shown to the user when a flow fails validation.
const SaveBlockedMessage = "Cannot save Flow: More than one node has empty target handles"

// ValidationError lists the entry points of a flow that has more than one.
type ValidationError struct {
	Roots []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (roots: %s)", SaveBlockedMessage, strings.Join(e.Roots, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidFlow }

// Roots returns, in node order, the nodes no edge points to.
func Roots(nodes []Node, edges []Edge) []Node {
	targeted := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		targeted[e.Target] = struct{}{}
	}

	roots := []Node{}
	for _, n := range nodes {
		if _, ok := targeted[n.ID]; !ok {
			roots = append(roots, n)
		}
	}
	return roots
}

// IsValid reports whether the flow has a single entry point.
// Flows with zero or one node are always valid.
// Reachability, cycles and dangling edges are not checked.
func IsValid(nodes []Node, edges []Edge) bool {
	if len(nodes) <= 1 {
		return true
	}
	return len(Roots(nodes, edges)) <= 1
}

// Validate is IsValid for a graph, returning a *ValidationError on failure.
func Validate(g Graph) error {
	if IsValid(g.Nodes, g.Edges) {
		return nil
	}
	roots := Roots(g.Nodes, g.Edges)
	ids := make([]string, len(roots))
	for i, n := range roots {
		ids[i] = n.ID
	}
	return &ValidationError{Roots: ids}
}
