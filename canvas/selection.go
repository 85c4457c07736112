package canvas

import "sync"

// Selection tracks the single node open in the inspector.
// It holds the id only; the node itself stays owned by the store.
type Selection struct {
	mu     sync.RWMutex
	nodeID string
}

// Select makes nodeID the selected node.
func (s *Selection) Select(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeID = nodeID
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.Select("")
}

// Selected returns the selected node id, if any.
func (s *Selection) Selected() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodeID, s.nodeID != ""
}
