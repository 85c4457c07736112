package server

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/canvas"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/save"
)

var ErrSessionNotFound = errors.New("server: session not found")

// Session is one hosted canvas: its store, controller and save gate.
// Events on a session run one at a time.
type Session struct {
	ID         string
	Controller *canvas.Controller
	Gate       *save.Gate

	mu sync.Mutex
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Sessions holds the canvases served by the process.
// Safe for concurrent use.
type Sessions struct {
	registry *flow.Registry
	logger   *slog.Logger
	saver    save.Saver

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty session set. saver may be nil, in which case
// each gate logs its saves.
func NewSessions(registry *flow.Registry, logger *slog.Logger, saver save.Saver) *Sessions {
	return &Sessions{
		registry: registry,
		logger:   logger,
		saver:    saver,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session on an empty flow.
func (m *Sessions) Create() *Session {
	id := uuid.NewString()
	logger := m.logger.With("session", id)
	store := memory.New(m.registry)

	gateOpts := []save.Option{save.WithLogger(logger)}
	if m.saver != nil {
		gateOpts = append(gateOpts, save.WithSaver(m.saver))
	}

	s := &Session{
		ID:         id,
		Controller: canvas.NewController(store, m.registry, canvas.WithLogger(logger)),
		Gate:       save.NewGate(store, gateOpts...),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return s
}

// Get returns the session with the given id.
func (m *Sessions) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session. It reports whether the session existed.
func (m *Sessions) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (m *Sessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
