// Package save gates saving a flow on its validation result.
package save

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meikuraledutech/flow"
)

// SuccessMessage acknowledges a successful save.
const SuccessMessage = "Flow saved successfully!"

// Status is the outcome of the most recent save attempt.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
	StatusInvalid Status = "invalid"
	StatusFailed  Status = "failed"
)

// Result describes a save that went through.
type Result struct {
	Message string `json:"message"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// Gate validates a flow before handing it to a Saver.
// It never mutates the store.
type Gate struct {
	store  flow.Store
	saver  Saver
	logger *slog.Logger

	mu      sync.RWMutex
	seq     uint64
	status  Status
	lastErr error
}

// Option configures a Gate.
type Option func(*Gate)

// WithSaver replaces the default LogSaver.
func WithSaver(s Saver) Option {
	return func(g *Gate) {
		g.saver = s
	}
}

// WithLogger sets the gate logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a Gate reading from store.
func NewGate(store flow.Store, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		logger: slog.Default(),
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.saver == nil {
		g.saver = LogSaver{Logger: g.logger}
	}
	return g
}

// TrySave validates the current flow and saves it.
// An invalid flow returns an error matching flow.ErrInvalidFlow and the
// saver is not called.
func (g *Gate) TrySave(ctx context.Context) (Result, error) {
	seq, snap, err := g.check()
	if err != nil {
		return Result{}, err
	}
	return g.save(ctx, seq, snap)
}

// SaveAsync validates and snapshots the flow now, then saves in the
// background. The outcome is reported by Status, and on the returned channel,
// which receives exactly one value. A background save that finishes after a
// newer attempt started leaves Status to the newer attempt.
func (g *Gate) SaveAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	seq, snap, err := g.check()
	if err != nil {
		done <- err
		return done
	}
	go func() {
		_, err := g.save(ctx, seq, snap)
		done <- err
	}()
	return done
}

// Status returns the outcome of the most recent save attempt and its error,
// if any.
func (g *Gate) Status() (Status, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status, g.lastErr
}

// check starts a new attempt and validates the current flow.
func (g *Gate) check() (uint64, flow.Graph, error) {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	snap := g.store.Snapshot()
	if err := flow.Validate(snap); err != nil {
		g.setStatus(seq, StatusInvalid, err)
		g.logger.Info("save blocked", "err", err)
		return seq, flow.Graph{}, err
	}
	g.setStatus(seq, StatusSaving, nil)
	return seq, snap, nil
}

func (g *Gate) save(ctx context.Context, seq uint64, snap flow.Graph) (Result, error) {
	if err := g.saver.Save(ctx, snap); err != nil {
		err = fmt.Errorf("save flow: %w", err)
		g.setStatus(seq, StatusFailed, err)
		g.logger.Error("save failed", "err", err)
		return Result{}, err
	}
	g.setStatus(seq, StatusSaved, nil)
	return Result{
		Message: SuccessMessage,
		Nodes:   len(snap.Nodes),
		Edges:   len(snap.Edges),
	}, nil
}

// setStatus records the outcome of attempt seq. Outcomes of attempts older
// than the latest one are dropped.
func (g *Gate) setStatus(seq uint64, s Status, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq < g.seq {
		return
	}
	g.status = s
	g.lastErr = err
}
