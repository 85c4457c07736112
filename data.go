package flow

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Patch is a partial payload: keys present overwrite the node's current values,
// absent keys are left alone.
type Patch map[string]any

// NodeData is the payload of a node. Each node type has its own implementation.
type NodeData interface {
	// Merge returns a copy of the payload with patch applied on top.
	// The receiver is not modified.
	Merge(patch Patch) (NodeData, error)
	Clone() NodeData
}

// MessageData is the payload of a message node.
type MessageData struct {
	Label string `json:"label"`
}

// DefaultMessageLabel is the text of a freshly dropped message node.
const DefaultMessageLabel = "text message"

// Merge applies patch to a copy of d. Keys that MessageData does not declare
// and values of the wrong type are rejected.
func (d MessageData) Merge(patch Patch) (NodeData, error) {
	out := d
	if err := decode(patch, &out, true); err != nil {
		return nil, fmt.Errorf("flow: message patch: %w", err)
	}
	return out, nil
}

func (d MessageData) Clone() NodeData { return d }

// GenericData is the open payload given to nodes whose type is not registered.
type GenericData map[string]any

// DefaultGenericLabel labels nodes of unregistered types.
const DefaultGenericLabel = "New Node"

// Merge overlays patch on a copy of d.
func (d GenericData) Merge(patch Patch) (NodeData, error) {
	out := make(GenericData, len(d)+len(patch))
	maps.Copy(out, d)
	maps.Copy(out, patch)
	return out, nil
}

func (d GenericData) Clone() NodeData {
	return maps.Clone(d)
}

// Fields flattens a payload into a key/value map using its json field names.
func Fields(d NodeData) (map[string]any, error) {
	if g, ok := d.(GenericData); ok {
		return maps.Clone(map[string]any(g)), nil
	}
	out := map[string]any{}
	if d == nil {
		return out, nil
	}
	if err := decode(d, &out, false); err != nil {
		return nil, fmt.Errorf("flow: payload fields: %w", err)
	}
	return out, nil
}

func decode(in, out any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: strict,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
