package flow

import "sync"

// TypeMessage is the node type that sends a text message.
const TypeMessage = "message"

// DragMIME is the data transfer key carrying the dragged node type.
const DragMIME = "application/reactflow"

// Template describes a node type offered by the palette.
type Template struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	// Renderer is the key the canvas uses to pick a node component.
	Renderer string  `json:"renderer"`
	Editor   *Editor `json:"editor,omitempty"`

	// NewData builds the payload of a freshly dropped node.
	NewData func() NodeData `json:"-"`
}

// Editor describes the settings form of a node type.
type Editor struct {
	Title  string  `json:"title"`
	Icon   string  `json:"icon"`
	Fields []Field `json:"fields"`
	Hint   string  `json:"hint,omitempty"`
}

// Field is one editable key of a node payload.
type Field struct {
	Name        string `json:"name"`
	Caption     string `json:"caption"`
	Placeholder string `json:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	Rows        int    `json:"rows,omitempty"`
}

// Field returns the editor field called name.
func (e *Editor) Field(name string) (Field, bool) {
	if e == nil {
		return Field{}, false
	}
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry maps node types to their templates, in registration order.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	templates map[string]Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// DefaultRegistry returns a registry holding the message node type.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MessageTemplate())
	return r
}

// MessageTemplate is the palette entry of the message node type.
func MessageTemplate() Template {
	return Template{
		Type:        TypeMessage,
		Label:       "Message",
		Icon:        "message-square",
		Description: "Send a text message",
		Renderer:    "textNode",
		NewData:     func() NodeData { return MessageData{Label: DefaultMessageLabel} },
		Editor: &Editor{
			Title: "Message",
			Icon:  "message-square",
			Fields: []Field{{
				Name:        "label",
				Caption:     "Text",
				Placeholder: "Enter your message here...",
				Multiline:   true,
				Rows:        4,
			}},
			Hint: "This message will be sent to users when they reach this node in the flow.",
		},
	}
}

// Register adds a template. A template with the same type is replaced in place.
func (r *Registry) Register(t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.Type]; !ok {
		r.order = append(r.order, t.Type)
	}
	r.templates[t.Type] = t
}

// Lookup returns the template registered for nodeType.
func (r *Registry) Lookup(nodeType string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[nodeType]
	return t, ok
}

// Templates returns every template in registration order.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.order))
	for _, typ := range r.order {
		out = append(out, r.templates[typ])
	}
	return out
}

// NewData builds the default payload for nodeType.
// Unregistered types get a GenericData labelled DefaultGenericLabel.
func (r *Registry) NewData(nodeType string) NodeData {
	if t, ok := r.Lookup(nodeType); ok && t.NewData != nil {
		return t.NewData()
	}
	return GenericData{"label": DefaultGenericLabel}
}

// Renderers maps each registered type to its canvas renderer key.
func (r *Registry) Renderers() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.templates))
	for typ, t := range r.templates {
		out[typ] = t.Renderer
	}
	return out
}

// DataTransfer is the drag payload exchanged between palette and canvas.
type DataTransfer map[string]string

// DragPayload encodes the node type a palette entry starts dragging.
func DragPayload(nodeType string) DataTransfer {
	return DataTransfer{DragMIME: nodeType}
}

// NodeType decodes the dragged node type. It reports false for an empty payload.
func (d DataTransfer) NodeType() (string, bool) {
	t := d[DragMIME]
	return t, t != ""
}
