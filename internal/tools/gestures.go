package tools

import (
	"fmt"
	"math"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/hittest"
	"github.com/inamate/draft/internal/transform"
)

func (m *Machine) handleSelect(ev Event, els []document.Element, sel document.Selection) Outcome {
	switch ev.Kind {
	case PointerDown:
		m.anchor, m.current = ev.Point, ev.Point
		m.state = StateSelectBox

	case PointerMove:
		if m.state == StateSelectBox {
			m.current = ev.Point
		}

	case PointerUp:
		if m.state != StateSelectBox {
			return Outcome{}
		}
		m.current = ev.Point
		defer m.Reset()

		if !m.dragged() {
			id, hit := hittest.Top(els, ev.Point, m.cfg.HitTolerance)
			var next document.Selection
			switch {
			case hit && ev.Shift:
				next = sel.Toggle(id)
			case hit:
				next = document.NewSelection(id)
			case ev.Shift:
				next = sel
			}
			return Outcome{Selection: &next}
		}

		ids := hittest.InBox(els, m.anchor, m.current)
		next := document.NewSelection(ids...)
		if ev.Shift {
			next = sel
			for _, id := range ids {
				next = next.With(id)
			}
		}
		return Outcome{Selection: &next}
	}
	return Outcome{}
}

// handleDrag drives the single-drag tools: line, rectangle and circle.
func (m *Machine) handleDrag(ev Event, els []document.Element) Outcome {
	switch ev.Kind {
	case PointerDown:
		m.anchor = m.snapTo(ev.Point, els, nil)
		m.current = m.anchor
		m.state = StateDrawing

	case PointerMove:
		if m.state == StateDrawing {
			m.current = m.snapTo(ev.Point, els, &m.anchor)
		} else {
			m.snapTo(ev.Point, els, nil)
		}

	case PointerUp:
		if m.state != StateDrawing {
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, &m.anchor)
		defer m.Reset()
		if !m.dragged() {
			return Outcome{}
		}
		el := m.newElement(m.dragShape())
		return Outcome{Elements: document.Append(els, el)}
	}
	return Outcome{}
}

func (m *Machine) dragShape() document.Geometry {
	switch m.tool {
	case ToolRectangle:
		return document.Rectangle{
			Origin: m.anchor,
			Width:  m.current.X - m.anchor.X,
			Height: m.current.Y - m.anchor.Y,
		}
	case ToolCircle:
		return document.Circle{Center: m.anchor, Radius: geom.Distance(m.anchor, m.current)}
	default:
		return document.Line{Start: m.anchor, End: m.current}
	}
}

func (m *Machine) handlePolyline(ev Event, els []document.Element) Outcome {
	switch ev.Kind {
	case PointerDown:
		p := m.snapTo(ev.Point, els, m.lastPoint())
		if last := m.lastPoint(); last != nil && last.Equal(p, geom.Epsilon) {
			// A double click lands on the same vertex twice.
			return Outcome{}
		}
		m.points = append(m.points, p)
		m.current = p
		m.state = StatePolyline

	case PointerMove:
		m.current = m.snapTo(ev.Point, els, m.lastPoint())
	}
	return Outcome{}
}

// finish completes an open polyline. It is a no-op for every other state.
func (m *Machine) finish(els []document.Element) Outcome {
	if m.state != StatePolyline {
		return Outcome{}
	}
	pts := m.Points()
	m.Reset()
	if len(pts) < 2 {
		return Outcome{}
	}
	closed := false
	if len(pts) > 3 && pts[0].Equal(pts[len(pts)-1], geom.Epsilon) {
		pts = pts[:len(pts)-1]
		closed = true
	}
	el := m.newElement(document.Polyline{Points: pts, Closed: closed})
	return Outcome{Elements: document.Append(els, el)}
}

func (m *Machine) handleArc(ev Event, els []document.Element) Outcome {
	switch ev.Kind {
	case PointerDown:
		p := m.snapTo(ev.Point, els, m.lastPoint())
		m.points = append(m.points, p)
		m.current = p
		m.state = StateArc
		if len(m.points) < 3 {
			return Outcome{}
		}
		pts := m.Points()
		m.Reset()
		c, r, start, end, cw, err := geom.ArcThrough3Points(pts[0], pts[1], pts[2])
		if err != nil {
			return Outcome{Err: fmt.Errorf("arc: %w", err)}
		}
		el := m.newElement(document.Arc{Center: c, Radius: r, StartAngle: start, EndAngle: end, Clockwise: cw})
		return Outcome{Elements: document.Append(els, el)}

	case PointerMove:
		m.current = m.snapTo(ev.Point, els, m.lastPoint())
	}
	return Outcome{}
}

func (m *Machine) handleDimension(ev Event, els []document.Element) Outcome {
	switch ev.Kind {
	case PointerDown:
		p := m.snapTo(ev.Point, els, m.lastPoint())
		m.points = append(m.points, p)
		m.current = p
		m.state = StateDimension
		if len(m.points) < 3 {
			return Outcome{}
		}
		pts := m.Points()
		m.Reset()
		if geom.Distance(pts[0], pts[1]) < geom.Epsilon {
			return Outcome{Err: fmt.Errorf("dimension endpoints coincide: %w", geom.ErrInvalidGeometry)}
		}
		el := m.newElement(document.Dimension{Start: pts[0], End: pts[1], Offset: pts[2]})
		return Outcome{Elements: document.Append(els, el)}

	case PointerMove:
		m.current = m.snapTo(ev.Point, els, m.lastPoint())
	}
	return Outcome{}
}

// beginTargets captures the selected elements for a transform gesture.
func (m *Machine) beginTargets(els []document.Element, sel document.Selection) error {
	m.targets = sel.Elements(els)
	if len(m.targets) == 0 {
		return transform.ErrEmptyTarget
	}
	return nil
}

func (m *Machine) handleMoveCopy(ev Event, els []document.Element, sel document.Selection) Outcome {
	switch ev.Kind {
	case PointerDown:
		if err := m.beginTargets(els, sel); err != nil {
			m.Reset()
			return Outcome{Err: err}
		}
		m.anchor = m.snapTo(ev.Point, els, nil)
		m.current = m.anchor
		m.state = StateMoveItems
		if m.tool == ToolCopy {
			m.state = StateCopyItems
		}

	case PointerMove:
		if m.state == StateMoveItems || m.state == StateCopyItems {
			m.current = m.snapTo(ev.Point, els, &m.anchor)
		}

	case PointerUp:
		if m.state != StateMoveItems && m.state != StateCopyItems {
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, &m.anchor)
		delta := m.current.Sub(m.anchor)
		targets, copying := m.targets, m.state == StateCopyItems
		m.Reset()
		if delta.Len() < geom.Epsilon {
			return Outcome{}
		}
		if copying {
			copies := transform.Copy(targets, delta, m.cfg.IDs)
			next := document.NewSelection(document.IDs(copies)...)
			return Outcome{Elements: document.Append(els, copies...), Selection: &next}
		}
		return Outcome{Elements: document.Replace(els, transform.Move(targets, delta))}
	}
	return Outcome{}
}

func (m *Machine) handleMirror(ev Event, els []document.Element, sel document.Selection) Outcome {
	switch ev.Kind {
	case PointerDown:
		if err := m.beginTargets(els, sel); err != nil {
			m.Reset()
			return Outcome{Err: err}
		}
		m.anchor = m.snapTo(ev.Point, els, nil)
		m.current = m.anchor
		m.state = StateMirrorLine

	case PointerMove:
		if m.state == StateMirrorLine {
			m.current = m.snapTo(ev.Point, els, &m.anchor)
		}

	case PointerUp:
		if m.state != StateMirrorLine {
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, &m.anchor)
		targets := m.targets
		defer m.Reset()
		if !m.dragged() {
			return Outcome{}
		}
		mirrored, err := transform.Mirror(targets, m.anchor, m.current, m.cfg.IDs)
		if err != nil {
			return Outcome{Err: err}
		}
		next := document.NewSelection(document.IDs(mirrored)...)
		return Outcome{Elements: document.Append(els, mirrored...), Selection: &next}
	}
	return Outcome{}
}

// handleRotate takes two clicks: the first sets the centre, the release of
// the second sets the angle, measured from the +x axis through the centre.
func (m *Machine) handleRotate(ev Event, els []document.Element, sel document.Selection) Outcome {
	switch ev.Kind {
	case PointerDown:
		if m.state != StateRotateItems {
			if err := m.beginTargets(els, sel); err != nil {
				m.Reset()
				return Outcome{Err: err}
			}
			c := m.snapTo(ev.Point, els, nil)
			m.center = &c
			m.current = c
			m.state = StateRotateItems
			return Outcome{}
		}
		m.armed = true
		m.current = m.snapTo(ev.Point, els, m.center)

	case PointerMove:
		if m.state == StateRotateItems {
			m.current = m.snapTo(ev.Point, els, m.center)
		}

	case PointerUp:
		if m.state != StateRotateItems || !m.armed {
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, m.center)
		center, targets := *m.center, m.targets
		if geom.Distance(center, m.current) <= m.cfg.MinDrag {
			// Too close to the centre to define an angle; wait for another click.
			m.armed = false
			return Outcome{}
		}
		angle := m.rotation()
		m.Reset()
		if math.Abs(angle) < geom.Epsilon {
			return Outcome{}
		}
		return Outcome{Elements: document.Replace(els, transform.Rotate(targets, center, angle))}
	}
	return Outcome{}
}

// rotation returns the angle in degrees from the rotate centre to the cursor.
func (m *Machine) rotation() float64 {
	if m.center == nil {
		return 0
	}
	return geom.Degrees(geom.AngleOf(*m.center, m.current))
}

func (m *Machine) handleMeasure(ev Event, els []document.Element) Outcome {
	switch ev.Kind {
	case PointerDown:
		m.anchor = m.snapTo(ev.Point, els, nil)
		m.current = m.anchor
		m.state = StateMeasure
		return Outcome{Measurement: m.measurement()}

	case PointerMove:
		if m.state != StateMeasure {
			m.snapTo(ev.Point, els, nil)
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, &m.anchor)
		return Outcome{Measurement: m.measurement()}

	case PointerUp:
		if m.state != StateMeasure {
			return Outcome{}
		}
		m.current = m.snapTo(ev.Point, els, &m.anchor)
		out := Outcome{Measurement: m.measurement()}
		m.Reset()
		return out
	}
	return Outcome{}
}

func (m *Machine) measurement() *Measurement {
	d := m.current.Sub(m.anchor)
	return &Measurement{
		From:     m.anchor,
		To:       m.current,
		Distance: d.Len(),
		DX:       d.X,
		DY:       d.Y,
		Angle:    geom.NormalizeDegrees(geom.Degrees(math.Atan2(d.Y, d.X))),
	}
}

func (m *Machine) handlePan(ev Event) Outcome {
	switch ev.Kind {
	case PointerDown:
		m.anchor = ev.Point
		m.state = StatePan

	case PointerMove, PointerUp:
		if m.state != StatePan {
			return Outcome{}
		}
		delta := ev.Point.Sub(m.anchor)
		m.anchor = ev.Point
		if ev.Kind == PointerUp {
			m.Reset()
		}
		return Outcome{Pan: delta}
	}
	return Outcome{}
}

func (m *Machine) handleErase(ev Event, els []document.Element, sel document.Selection) Outcome {
	if ev.Kind != PointerDown {
		return Outcome{}
	}
	id, ok := hittest.Top(els, ev.Point, m.cfg.HitTolerance)
	if !ok {
		return Outcome{}
	}
	next := sel.Without(id)
	return Outcome{Elements: document.Remove(els, []string{id}), Selection: &next}
}
