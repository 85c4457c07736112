package memory

import (
	"fmt"

	"github.com/meikuraledutech/flow"
)

// AddNode appends a node of nodeType at pos with the type's default payload.
// The id is "<type>-<unix millis>", bumped forward when the clock has not
// advanced since the previous node so ids never repeat.
func (s *Store) AddNode(nodeType string, pos flow.Position) flow.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := flow.Node{
		ID:       s.nextID(nodeType),
		Type:     nodeType,
		Position: pos,
		Data:     s.registry.NewData(nodeType),
	}
	s.nodes = append(s.nodes, n)
	return n.Clone()
}

// GetNode fetches a single node by its ID.
func (s *Store) GetNode(nodeID string) (flow.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.nodeIndex(nodeID)
	if i < 0 {
		return flow.Node{}, false
	}
	return s.nodes[i].Clone(), true
}

// UpdateNodeData shallow-merges patch into the node's payload.
// A missing node is not an error: edits may race with the node's removal.
// On a patch error the node is left unchanged.
func (s *Store) UpdateNodeData(nodeID string, patch flow.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.nodeIndex(nodeID)
	if i < 0 {
		return nil
	}

	current := s.nodes[i].Data
	if current == nil {
		current = flow.GenericData{}
	}
	merged, err := current.Merge(patch)
	if err != nil {
		return fmt.Errorf("update node %s: %w", nodeID, err)
	}
	s.nodes[i].Data = merged
	return nil
}

// ApplyNodeChanges folds position, selection and removal events from the
// canvas into the store. Removing a node also removes every edge touching it.
// Changes for unknown ids are skipped.
func (s *Store) ApplyNodeChanges(changes []flow.NodeChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range changes {
		i := s.nodeIndex(c.ID)
		if i < 0 {
			continue
		}
		switch c.Type {
		case flow.ChangePosition:
			if c.Position != nil {
				s.nodes[i].Position = *c.Position
			}
		case flow.ChangeSelect:
			s.nodes[i].Selected = c.Selected
		case flow.ChangeRemove:
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			s.removeEdges(func(e flow.Edge) bool {
				return e.Source == c.ID || e.Target == c.ID
			})
		}
	}
}

// ListNodes returns all nodes in render order.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ListNodes() []flow.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]flow.Node, len(s.nodes))
	for i, n := range s.nodes {
		nodes[i] = n.Clone()
	}
	return nodes
}

func (s *Store) nextID(nodeType string) string {
	ms := s.now().UnixMilli()
	if ms <= s.lastMilli {
		ms = s.lastMilli + 1
	}
	s.lastMilli = ms
	return fmt.Sprintf("%s-%d", nodeType, ms)
}

func (s *Store) nodeIndex(nodeID string) int {
	for i, n := range s.nodes {
		if n.ID == nodeID {
			return i
		}
	}
	return -1
}
