package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/canvas"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/save"
)

func main() {
	ctx := context.Background()

	registry := flow.DefaultRegistry()

	// Wire the in-memory store behind the Store interface.
	var store flow.Store = memory.New(registry)

	ctrl := canvas.NewController(store, registry)
	gate := save.NewGate(store)

	// ── Canvas ready ──────────────────────────────────────────────────
	ctrl.OnInit(canvas.Viewport{Zoom: 1})

	// ── Drop two messages from the palette ────────────────────────────
	payload := flow.DragPayload(flow.TypeMessage)
	greet, _ := ctrl.OnDrop(payload, flow.Position{X: 100, Y: 200})
	ask, _ := ctrl.OnDrop(payload, flow.Position{X: 400, Y: 200})
	fmt.Println("nodes dropped:")
	printJSON(store.ListNodes())

	// ── Save is blocked: two nodes without incoming edges ─────────────
	if _, err := gate.TrySave(ctx); errors.Is(err, flow.ErrInvalidFlow) {
		fmt.Println("\nsave blocked:", err)
	}

	// ── Edit the first message in the inspector ───────────────────────
	ctrl.OnNodeClick(greet.ID)
	if err := ctrl.Inspector().Edit("label", "Hi! How can I help?"); err != nil {
		log.Fatalf("edit: %v", err)
	}
	panel, err := ctrl.Inspector().Panel()
	if err != nil {
		log.Fatalf("panel: %v", err)
	}
	fmt.Println("\ninspector:")
	printJSON(panel)
	ctrl.OnPaneClick()

	// ── Connect greet → ask ───────────────────────────────────────────
	if _, err := ctrl.OnConnect(greet.ID, ask.ID); err != nil {
		log.Fatalf("connect: %v", err)
	}

	res, err := gate.TrySave(ctx)
	if err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Println("\n" + res.Message)
	printJSON(ctrl.Render())
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
