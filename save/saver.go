package save

import (
	"context"
	"log/slog"

	"github.com/meikuraledutech/flow"
)

// Saver hands a validated flow to whatever keeps it.
type Saver interface {
	Save(ctx context.Context, g flow.Graph) error
}

// LogSaver acknowledges saves by logging them. Nothing is stored.
type LogSaver struct {
	Logger *slog.Logger
}

// Save logs the size of g.
func (s LogSaver) Save(ctx context.Context, g flow.Graph) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "flow saved", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, g flow.Graph) error

func (f SaverFunc) Save(ctx context.Context, g flow.Graph) error { return f(ctx, g) }
