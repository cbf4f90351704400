package tools

import (
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/transform"
)

// Preview is the read-only picture of the gesture in progress, for the
// renderer to draw over the committed set.
type Preview struct {
	Tool   Tool               `json:"tool"`
	State  State              `json:"state"`
	Shapes []document.Element `json:"shapes,omitempty"`
	Box    *geom.Rect         `json:"box,omitempty"`
	Points []geom.Point       `json:"points,omitempty"`
	Center *geom.Point        `json:"center,omitempty"`
	Cursor geom.Point         `json:"cursor"`
}

// ghostIDs names preview geometry, which is never committed.
type ghostIDs struct{}

func (ghostIDs) NewID() string { return "" }

// Preview describes the in-progress gesture. It never changes machine state.
func (m *Machine) Preview() Preview {
	p := Preview{Tool: m.tool, State: m.state, Points: m.Points(), Center: m.center, Cursor: m.current}

	switch m.state {
	case StateDrawing:
		p.Shapes = m.ghosts(m.dragShape())

	case StatePolyline:
		p.Shapes = m.ghosts(document.Polyline{Points: append(m.Points(), m.current)})

	case StateArc:
		switch len(m.points) {
		case 1:
			p.Shapes = m.ghosts(document.Line{Start: m.points[0], End: m.current})
		case 2:
			c, r, start, end, cw, err := geom.ArcThrough3Points(m.points[0], m.points[1], m.current)
			if err != nil {
				p.Shapes = m.ghosts(document.Polyline{Points: append(m.Points(), m.current)})
			} else {
				p.Shapes = m.ghosts(document.Arc{Center: c, Radius: r, StartAngle: start, EndAngle: end, Clockwise: cw})
			}
		}

	case StateDimension:
		switch len(m.points) {
		case 1:
			p.Shapes = m.ghosts(document.Line{Start: m.points[0], End: m.current})
		case 2:
			p.Shapes = m.ghosts(document.Dimension{Start: m.points[0], End: m.points[1], Offset: m.current})
		}

	case StateSelectBox:
		box := geom.RectFromCorners(m.anchor, m.current)
		p.Box = &box

	case StateMoveItems, StateCopyItems:
		p.Shapes = transform.Move(m.targets, m.current.Sub(m.anchor))

	case StateMirrorLine:
		if mirrored, err := transform.Mirror(m.targets, m.anchor, m.current, ghostIDs{}); err == nil {
			p.Shapes = mirrored
		}
		p.Shapes = append(p.Shapes, m.ghost(document.Line{Start: m.anchor, End: m.current}))

	case StateRotateItems:
		if m.armed && m.center != nil {
			p.Shapes = transform.Rotate(m.targets, *m.center, m.rotation())
		}

	case StateMeasure:
		p.Shapes = m.ghosts(document.Line{Start: m.anchor, End: m.current})
	}
	return p
}

func (m *Machine) ghost(g document.Geometry) document.Element {
	layer := m.cfg.Layer
	if layer == "" {
		layer = document.DefaultLayer
	}
	return document.Element{Layer: layer, Color: m.cfg.Color, Geometry: g}
}

func (m *Machine) ghosts(g document.Geometry) []document.Element {
	return []document.Element{m.ghost(g)}
}
