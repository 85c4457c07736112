package canvas

import (
	"fmt"
	"math"

	"github.com/meikuraledutech/flow"
)

// PanelKind tells which side panel is showing.
type PanelKind string

const (
	PanelPalette  PanelKind = "palette"
	PanelSettings PanelKind = "settings"
)

// NoSettingsNotice is shown for node types without an editor.
const NoSettingsNotice = "No settings available for this node type."

// Panel is the content of the side panel: the palette when nothing is
// selected, the selected node's settings otherwise.
type Panel struct {
	Kind     PanelKind     `json:"kind"`
	Palette  *PaletteView  `json:"palette,omitempty"`
	Settings *SettingsView `json:"settings,omitempty"`
}

// PaletteView lists the node types that can be dragged onto the canvas.
type PaletteView struct {
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle"`
	Templates []flow.Template `json:"templates"`
	Tip       string          `json:"tip"`
}

// SettingsView is the editor of the selected node.
type SettingsView struct {
	NodeID   string       `json:"nodeId"`
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Icon     string       `json:"icon,omitempty"`
	Position GridPoint    `json:"position"`
	Fields   []FieldValue `json:"fields,omitempty"`
	Hint     string       `json:"hint,omitempty"`
	Notice   string       `json:"notice,omitempty"`
}

// GridPoint is a position rounded for display.
type GridPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FieldValue is an editor field together with the node's current value.
type FieldValue struct {
	flow.Field
	Value any `json:"value"`
}

// Inspector routes the selection to the side panel and writes edits back to
// the store.
type Inspector struct {
	store     flow.Store
	registry  *flow.Registry
	selection *Selection
}

// NewInspector creates an Inspector over store, reading editors from registry.
func NewInspector(store flow.Store, registry *flow.Registry, selection *Selection) *Inspector {
	return &Inspector{store: store, registry: registry, selection: selection}
}

// Panel renders the side panel for the current selection.
// A selection pointing at a node that no longer exists is cleared.
func (i *Inspector) Panel() (Panel, error) {
	id, ok := i.selection.Selected()
	if !ok {
		return i.palette(), nil
	}
	node, ok := i.store.GetNode(id)
	if !ok {
		i.selection.Clear()
		return i.palette(), nil
	}

	view := &SettingsView{
		NodeID: node.ID,
		Type:   node.Type,
		Title:  node.Type,
		Position: GridPoint{
			X: int(math.Round(node.Position.X)),
			Y: int(math.Round(node.Position.Y)),
		},
	}

	tmpl, ok := i.registry.Lookup(node.Type)
	if ok {
		view.Title = tmpl.Label
		view.Icon = tmpl.Icon
	}
	if !ok || tmpl.Editor == nil {
		view.Notice = NoSettingsNotice
		return Panel{Kind: PanelSettings, Settings: view}, nil
	}

	values, err := flow.Fields(node.Data)
	if err != nil {
		return Panel{}, fmt.Errorf("inspect %s: %w", node.ID, err)
	}
	view.Title = tmpl.Editor.Title
	view.Icon = tmpl.Editor.Icon
	view.Hint = tmpl.Editor.Hint
	for _, f := range tmpl.Editor.Fields {
		view.Fields = append(view.Fields, FieldValue{Field: f, Value: values[f.Name]})
	}
	return Panel{Kind: PanelSettings, Settings: view}, nil
}

// Edit writes value into field of the selected node immediately.
// With nothing selected it does nothing.
func (i *Inspector) Edit(field string, value any) error {
	id, ok := i.selection.Selected()
	if !ok {
		return nil
	}
	node, ok := i.store.GetNode(id)
	if !ok {
		return nil
	}
	tmpl, _ := i.registry.Lookup(node.Type)
	if _, ok := tmpl.Editor.Field(field); !ok {
		return fmt.Errorf("edit %s: %w: %q", node.Type, flow.ErrUnknownField, field)
	}
	return i.store.UpdateNodeData(id, flow.Patch{field: value})
}

// Close dismisses the settings panel.
func (i *Inspector) Close() {
	i.selection.Clear()
}

func (i *Inspector) palette() Panel {
	return Panel{
		Kind: PanelPalette,
		Palette: &PaletteView{
			Title:     "Nodes Panel",
			Subtitle:  "Drag and drop nodes to build your flow",
			Templates: i.registry.Templates(),
			Tip:       "Drag nodes onto the canvas to start building your chatbot flow. Connect nodes by dragging from the source handle of one node to the target handle of another.",
		},
	}
}
