// Package memory implements flow.Store in process memory.
package memory

import (
	"sync"
	"time"

	"github.com/meikuraledutech/flow"
)

// Store implements flow.Store over ordered in-memory slices.
// Slice order is render order. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes []flow.Node
	edges []flow.Edge

	registry  *flow.Registry
	now       func() time.Time
	lastMilli int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp new node ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store that builds node payloads from registry.
func New(registry *flow.Registry, opts ...Option) *Store {
	s := &Store{
		nodes:    []flow.Node{},
		edges:    []flow.Edge{},
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ flow.Store = (*Store)(nil)

// Snapshot returns a deep copy of the current nodes and edges.
func (s *Store) Snapshot() flow.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flow.Graph{Nodes: s.nodes, Edges: s.edges}.Clone()
}
