package canvas

import "github.com/meikuraledutech/flow"

// Viewport is the canvas transform reported when the canvas initialises:
// pan offset in screen pixels and zoom factor.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// ScreenToFlowPosition converts a screen coordinate into canvas space.
// A zero zoom is treated as 1.
func (v Viewport) ScreenToFlowPosition(p flow.Position) flow.Position {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return flow.Position{
		X: (p.X - v.X) / zoom,
		Y: (p.Y - v.Y) / zoom,
	}
}
