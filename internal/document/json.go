package document

import (
	"encoding/json"
	"fmt"
)

// elementJSON is the wire envelope: shared fields plus the variant payload in data.
type elementJSON struct {
	ID    string          `json:"id"`
	Type  Kind            `json:"type"`
	Layer string          `json:"layer"`
	Color string          `json:"color,omitempty"`
	Data  json.RawMessage `json:"data"`
}

// MarshalJSON encodes the element as {"id","type","layer","color","data"}.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.Geometry == nil {
		return nil, fmt.Errorf("element %s has no geometry", e.ID)
	}
	data, err := json.Marshal(e.Geometry)
	if err != nil {
		return nil, fmt.Errorf("marshal %s geometry: %w", e.Geometry.Kind(), err)
	}
	return json.Marshal(elementJSON{
		ID:    e.ID,
		Type:  e.Geometry.Kind(),
		Layer: e.Layer,
		Color: e.Color,
		Data:  data,
	})
}

// UnmarshalJSON decodes the envelope and dispatches on type.
func (e *Element) UnmarshalJSON(b []byte) error {
	var env elementJSON
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	g, err := decodeGeometry(env.Type, env.Data)
	if err != nil {
		return fmt.Errorf("element %s: %w", env.ID, err)
	}
	layer := env.Layer
	if layer == "" {
		layer = DefaultLayer
	}
	*e = Element{ID: env.ID, Layer: layer, Color: env.Color, Geometry: g}
	return nil
}

func decodeGeometry(kind Kind, data json.RawMessage) (Geometry, error) {
	switch kind {
	case KindLine:
		return decodeAs[Line](data)
	case KindCircle:
		return decodeAs[Circle](data)
	case KindRectangle:
		return decodeAs[Rectangle](data)
	case KindPolyline:
		return decodeAs[Polyline](data)
	case KindArc:
		return decodeAs[Arc](data)
	case KindText:
		return decodeAs[Text](data)
	case KindDimension:
		return decodeAs[Dimension](data)
	case KindEllipse:
		return decodeAs[Ellipse](data)
	case KindGear:
		return decodeAs[Gear](data)
	case KindSpiral:
		return decodeAs[Spiral](data)
	case KindSpring:
		return decodeAs[Spring](data)
	case KindBlock:
		return decodeAs[BlockReference](data)
	default:
		return nil, fmt.Errorf("unknown element type %q", kind)
	}
}

func decodeAs[T Geometry](data json.RawMessage) (Geometry, error) {
	var g T
	if len(data) == 0 {
		return nil, fmt.Errorf("missing %s data", g.Kind())
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid %s data: %w", g.Kind(), err)
	}
	return g, nil
}

// MarshalSet encodes an element set as a JSON array.
func MarshalSet(els []Element) ([]byte, error) {
	if els == nil {
		els = []Element{}
	}
	return json.Marshal(els)
}

// UnmarshalSet decodes a JSON array of elements and checks id uniqueness.
func UnmarshalSet(data []byte) ([]Element, error) {
	var els []Element
	if err := json.Unmarshal(data, &els); err != nil {
		return nil, err
	}
	if err := ValidateSet(els); err != nil {
		return nil, err
	}
	return els, nil
}
