package memory

import (
	"fmt"

	"github.com/meikuraledutech/flow"
)

// Connect adds the edge source -> target.
// Any edge already leaving source is removed first, so a node never has more
// than one outgoing edge. Both endpoints must exist. Self-loops are allowed.
func (s *Store) Connect(source, target string) (flow.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{source, target} {
		if s.nodeIndex(id) < 0 {
			return flow.Edge{}, fmt.Errorf("connect %s -> %s: %w: %s", source, target, flow.ErrNodeNotFound, id)
		}
	}

	s.removeEdges(func(e flow.Edge) bool { return e.Source == source })
	e := flow.NewEdge(source, target)
	s.edges = append(s.edges, e)
	return e, nil
}

// RemoveEdgesFrom deletes every edge leaving source and returns how many went.
func (s *Store) RemoveEdgesFrom(source string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeEdges(func(e flow.Edge) bool { return e.Source == source })
}

// ApplyEdgeChanges folds selection and removal events from the canvas into
// the store. Changes for unknown ids are skipped.
func (s *Store) ApplyEdgeChanges(changes []flow.EdgeChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range changes {
		switch c.Type {
		case flow.ChangeSelect:
			for i := range s.edges {
				if s.edges[i].ID == c.ID {
					s.edges[i].Selected = c.Selected
				}
			}
		case flow.ChangeRemove:
			s.removeEdges(func(e flow.Edge) bool { return e.ID == c.ID })
		}
	}
}

// ListEdges returns all edges in render order.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ListEdges() []flow.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]flow.Edge, len(s.edges))
	copy(edges, s.edges)
	return edges
}

// removeEdges drops the edges matching drop, keeping the order of the rest.
// Callers hold the write lock.
func (s *Store) removeEdges(drop func(flow.Edge) bool) int {
	kept := s.edges[:0]
	removed := 0
	for _, e := range s.edges {
		if drop(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return removed
}
