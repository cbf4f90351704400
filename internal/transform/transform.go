// Package transform applies move, copy, rotate and mirror to element sets.
// Every operation returns new elements and leaves its input untouched.
package transform

import (
	"errors"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

// ErrEmptyTarget is returned by callers when an operation that needs a
// selection is invoked without one.
var ErrEmptyTarget = errors.New("no elements to transform")

// Move shifts every element by delta. Ids are kept.
func Move(els []document.Element, delta geom.Point) []document.Element {
	return apply(els, affine{m: geom.Translate(delta.X, delta.Y)})
}

// Copy returns shifted duplicates of els with fresh ids.
func Copy(els []document.Element, delta geom.Point, ids document.IDGenerator) []document.Element {
	return withFreshIDs(Move(els, delta), ids)
}

// Rotate turns every element about center by deg degrees, counter-clockwise.
// Ids are kept.
func Rotate(els []document.Element, center geom.Point, deg float64) []document.Element {
	return apply(els, affine{
		m:     geom.RotateAboutMatrix(center, deg),
		angle: func(a float64) float64 { return geom.NormalizeDegrees(a + deg) },
	})
}

// Mirror reflects els across the infinite line through a and b and returns
// the reflections with fresh ids. A zero-length axis is ErrInvalidGeometry.
func Mirror(els []document.Element, a, b geom.Point, ids document.IDGenerator) ([]document.Element, error) {
	m, err := geom.ReflectMatrix(a, b)
	if err != nil {
		return nil, err
	}
	axis := geom.Degrees(geom.AngleOf(a, b))
	out := apply(els, affine{
		m:       m,
		angle:   func(r float64) float64 { return geom.NormalizeDegrees(2*axis - r) },
		reflect: true,
	})
	return withFreshIDs(out, ids), nil
}

// affine carries a point transform plus how it acts on stored angles.
// angle is nil for pure translations.
type affine struct {
	m       geom.Matrix2D
	angle   func(float64) float64
	reflect bool
}

func (t affine) rot(deg float64) float64 {
	if t.angle == nil {
		return deg
	}
	return t.angle(deg)
}

func apply(els []document.Element, t affine) []document.Element {
	out := make([]document.Element, len(els))
	for i, el := range els {
		out[i] = el.WithGeometry(t.geometry(el.Geometry))
	}
	return out
}

func (t affine) geometry(g document.Geometry) document.Geometry {
	m := t.m
	switch s := g.(type) {
	case document.Line:
		return document.Line{Start: m.Apply(s.Start), End: m.Apply(s.End)}

	case document.Circle:
		s.Center = m.Apply(s.Center)
		return s

	case document.Rectangle:
		if t.reflect {
			// A reflected rectangle keeps its shape but not its winding, so
			// it is stored as the closed outline of its corners.
			return document.Polyline{Points: m.ApplyAll(s.Corners()), Closed: true}
		}
		s.Origin = m.Apply(s.Origin)
		s.Rotation = t.rot(s.Rotation)
		return s

	case document.Polyline:
		return document.Polyline{Points: m.ApplyAll(s.Points), Closed: s.Closed}

	case document.Arc:
		s.Center = m.Apply(s.Center)
		s.StartAngle = t.rot(s.StartAngle)
		s.EndAngle = t.rot(s.EndAngle)
		if t.reflect {
			s.Clockwise = !s.Clockwise
		}
		return s

	case document.Text:
		s.Position = m.Apply(s.Position)
		// Mirrored text stays readable.
		if !t.reflect {
			s.Rotation = t.rot(s.Rotation)
		}
		return s

	case document.Dimension:
		return document.Dimension{Start: m.Apply(s.Start), End: m.Apply(s.End), Offset: m.Apply(s.Offset)}

	case document.Ellipse:
		s.Center = m.Apply(s.Center)
		s.Rotation = t.rot(s.Rotation)
		return s

	case document.Gear:
		s.Center = m.Apply(s.Center)
		s.Points = m.ApplyAll(s.Points)
		return s

	case document.Spiral:
		s.Center = m.Apply(s.Center)
		s.Points = m.ApplyAll(s.Points)
		return s

	case document.Spring:
		s.Start = m.Apply(s.Start)
		s.End = m.Apply(s.End)
		s.Points = m.ApplyAll(s.Points)
		return s

	case document.BlockReference:
		s.Insert = m.Apply(s.Insert)
		s.Rotation = t.rot(s.Rotation)
		if t.reflect {
			s.Mirrored = !s.Mirrored
		}
		return s
	}
	return g
}

func withFreshIDs(els []document.Element, ids document.IDGenerator) []document.Element {
	for i := range els {
		els[i] = els[i].WithID(ids.NewID())
	}
	return els
}
