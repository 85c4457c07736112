package server

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/canvas"
)

type viewportRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom" validate:"gte=0"`
}

type dropRequest struct {
	Data     flow.DataTransfer `json:"data"`
	Position flow.Position     `json:"position"`
}

type connectRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type connectStartRequest struct {
	NodeID string `json:"nodeId" validate:"required"`
}

type connectEndRequest struct {
	TargetIsPane bool `json:"targetIsPane"`
}

type nodeChangesRequest struct {
	Changes []flow.NodeChange `json:"changes" validate:"required"`
}

type edgeChangesRequest struct {
	Changes []flow.EdgeChange `json:"changes" validate:"required"`
}

type fieldRequest struct {
	Value any `json:"value"`
}

func (s *Server) withSession(c fiber.Ctx, fn func(*Session) error) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if errors.Is(err, ErrSessionNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return sess.Do(func() error { return fn(sess) })
}

func invalidBody(c fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
}

// ── Palette & sessions ────────────────────────────────────────────────

func (s *Server) palette(c fiber.Ctx) error {
	return c.JSON(s.registry.Templates())
}

func (s *Server) createSession(c fiber.Ctx) error {
	sess := s.sessions.Create()
	s.metrics.Sessions.Inc()
	s.logger.Info("session created", "session", sess.ID)
	return c.Status(201).JSON(fiber.Map{"id": sess.ID})
}

func (s *Server) render(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		return c.JSON(sess.Controller.Render())
	})
}

func (s *Server) deleteSession(c fiber.Ctx) error {
	if !s.sessions.Delete(c.Params("id")) {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	s.metrics.Sessions.Dec()
	return c.SendStatus(204)
}

// ── Canvas events ─────────────────────────────────────────────────────

func (s *Server) initCanvas(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req viewportRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		sess.Controller.OnInit(canvas.Viewport{X: req.X, Y: req.Y, Zoom: req.Zoom})
		return c.SendStatus(204)
	})
}

func (s *Server) drop(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req dropRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		n, ok := sess.Controller.OnDrop(req.Data, req.Position)
		if !ok {
			return c.SendStatus(204)
		}
		s.metrics.Mutations.WithLabelValues("add_node").Inc()
		return c.Status(201).JSON(n)
	})
}

func (s *Server) connect(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req connectRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		e, err := sess.Controller.OnConnect(req.Source, req.Target)
		if errors.Is(err, flow.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		s.metrics.Mutations.WithLabelValues("connect").Inc()
		return c.Status(201).JSON(e)
	})
}

func (s *Server) connectStart(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req connectStartRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		sess.Controller.OnConnectStart(req.NodeID)
		return c.SendStatus(204)
	})
}

func (s *Server) connectEnd(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req connectEndRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		return c.JSON(fiber.Map{"source": sess.Controller.OnConnectEnd(req.TargetIsPane)})
	})
}

func (s *Server) nodesChange(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req nodeChangesRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		sess.Controller.OnNodesChange(req.Changes)
		s.metrics.Mutations.WithLabelValues("node_changes").Inc()
		return c.JSON(sess.Controller.Render())
	})
}

func (s *Server) edgesChange(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req edgeChangesRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		sess.Controller.OnEdgesChange(req.Changes)
		s.metrics.Mutations.WithLabelValues("edge_changes").Inc()
		return c.JSON(sess.Controller.Render())
	})
}

func (s *Server) nodeClick(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		nodeID := c.Params("nodeId")
		if _, ok := sess.Controller.Store().GetNode(nodeID); !ok {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		sess.Controller.OnNodeClick(nodeID)
		return s.panel(c, sess)
	})
}

func (s *Server) paneClick(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		sess.Controller.OnPaneClick()
		return s.panel(c, sess)
	})
}

func (s *Server) updateNodeData(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var patch flow.Patch
		if err := c.Bind().JSON(&patch); err != nil {
			return invalidBody(c)
		}
		if err := sess.Controller.Store().UpdateNodeData(c.Params("nodeId"), patch); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		s.metrics.Mutations.WithLabelValues("update_node").Inc()
		return c.SendStatus(204)
	})
}

// ── Inspector ─────────────────────────────────────────────────────────

func (s *Server) inspector(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		return s.panel(c, sess)
	})
}

func (s *Server) editField(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		var req fieldRequest
		if err := c.Bind().JSON(&req); err != nil {
			return invalidBody(c)
		}
		if _, ok := sess.Controller.Selection().Selected(); !ok {
			return c.Status(409).JSON(fiber.Map{"error": "no node selected"})
		}
		if err := sess.Controller.Inspector().Edit(c.Params("field"), req.Value); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		s.metrics.Mutations.WithLabelValues("update_node").Inc()
		return s.panel(c, sess)
	})
}

func (s *Server) closeInspector(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		sess.Controller.Inspector().Close()
		return c.SendStatus(204)
	})
}

func (s *Server) panel(c fiber.Ctx, sess *Session) error {
	p, err := sess.Controller.Inspector().Panel()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(p)
}

// ── Validation & save ─────────────────────────────────────────────────

func (s *Server) validation(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		g := sess.Controller.Store().Snapshot()
		roots := []string{}
		for _, n := range flow.Roots(g.Nodes, g.Edges) {
			roots = append(roots, n.ID)
		}
		return c.JSON(fiber.Map{"valid": flow.IsValid(g.Nodes, g.Edges), "roots": roots})
	})
}

func (s *Server) save(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		if async, _ := strconv.ParseBool(c.Query("async")); async {
			return s.saveAsync(c, sess)
		}
		res, err := sess.Gate.TrySave(c.Context())
		s.countSave(err)
		if err != nil {
			return saveError(c, err)
		}
		return c.JSON(res)
	})
}

// saveAsync validates synchronously and answers 202 while the saver runs.
func (s *Server) saveAsync(c fiber.Ctx, sess *Session) error {
	done := sess.Gate.SaveAsync(context.Background())
	select {
	case err := <-done:
		s.countSave(err)
		if err != nil {
			return saveError(c, err)
		}
	default:
		go func() { s.countSave(<-done) }()
	}
	status, _ := sess.Gate.Status()
	return c.Status(202).JSON(fiber.Map{"status": status})
}

func (s *Server) countSave(err error) {
	result := "saved"
	switch {
	case errors.Is(err, flow.ErrInvalidFlow):
		result = "invalid"
	case err != nil:
		result = "failed"
	}
	s.metrics.Saves.WithLabelValues(result).Inc()
}

func saveError(c fiber.Ctx, err error) error {
	var verr *flow.ValidationError
	if errors.As(err, &verr) {
		return c.Status(422).JSON(fiber.Map{"error": flow.SaveBlockedMessage, "roots": verr.Roots})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) saveStatus(c fiber.Ctx) error {
	return s.withSession(c, func(sess *Session) error {
		status, err := sess.Gate.Status()
		body := fiber.Map{"status": status}
		if err != nil {
			body["error"] = err.Error()
		}
		return c.JSON(body)
	})
}
