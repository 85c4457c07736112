// Package server exposes canvas sessions over HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/save"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config wires the server's collaborators. Zero fields get defaults.
type Config struct {
	Registry   *flow.Registry
	Logger     *slog.Logger
	Saver      save.Saver
	Prometheus *prometheus.Registry
}

// Server routes HTTP requests to canvas sessions.
type Server struct {
	sessions *Sessions
	registry *flow.Registry
	metrics  *Metrics
	logger   *slog.Logger
}

// New builds the fiber app serving the canvas API.
func New(cfg Config) *fiber.App {
	if cfg.Registry == nil {
		cfg.Registry = flow.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Prometheus == nil {
		cfg.Prometheus = prometheus.NewRegistry()
	}

	s := &Server{
		sessions: NewSessions(cfg.Registry, cfg.Logger, cfg.Saver),
		registry: cfg.Registry,
		metrics:  NewMetrics(cfg.Prometheus),
		logger:   cfg.Logger,
	}

	app := fiber.New(fiber.Config{
		AppName:         "flowd",
		StructValidator: newStructValidator(),
	})
	app.Use(recoverer.New())
	app.Use(cors.New())
	app.Use(requestLogger(cfg.Logger))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Prometheus, promhttp.HandlerOpts{})))
	app.Get("/palette", s.palette)

	// ── Sessions ──────────────────────────────────────────────────────
	app.Post("/sessions", s.createSession)
	app.Get("/sessions/:id", s.render)
	app.Delete("/sessions/:id", s.deleteSession)

	// ── Canvas events ─────────────────────────────────────────────────
	app.Post("/sessions/:id/init", s.initCanvas)
	app.Post("/sessions/:id/drop", s.drop)
	app.Post("/sessions/:id/connect", s.connect)
	app.Post("/sessions/:id/connect/start", s.connectStart)
	app.Post("/sessions/:id/connect/end", s.connectEnd)
	app.Post("/sessions/:id/nodes/changes", s.nodesChange)
	app.Post("/sessions/:id/edges/changes", s.edgesChange)
	app.Post("/sessions/:id/nodes/:nodeId/click", s.nodeClick)
	app.Post("/sessions/:id/pane/click", s.paneClick)
	app.Patch("/sessions/:id/nodes/:nodeId/data", s.updateNodeData)

	// ── Inspector ─────────────────────────────────────────────────────
	app.Get("/sessions/:id/inspector", s.inspector)
	app.Put("/sessions/:id/inspector/fields/:field", s.editField)
	app.Delete("/sessions/:id/inspector", s.closeInspector)

	// ── Validation & save ─────────────────────────────────────────────
	app.Get("/sessions/:id/validation", s.validation)
	app.Post("/sessions/:id/save", s.save)
	app.Get("/sessions/:id/save", s.saveStatus)

	return app
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"took", time.Since(start),
		)
		return err
	}
}
