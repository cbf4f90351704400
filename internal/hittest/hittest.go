// Package hittest answers which element lies under a point and which elements
// fall inside a selection box.
package hittest

import (
	"math"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

// Hit reports whether p lies within tol of the visible stroke of el. Fill is
// never hit: a click inside a circle but away from its rim misses.
func Hit(el document.Element, p geom.Point, tol float64) bool {
	switch g := el.Geometry.(type) {
	case document.Circle:
		return math.Abs(geom.Distance(p, g.Center)-g.Radius) <= tol

	case document.Arc:
		if math.Abs(geom.Distance(p, g.Center)-g.Radius) > tol {
			return false
		}
		return geom.AngleOnArc(geom.Degrees(geom.AngleOf(g.Center, p)), g.StartAngle, g.EndAngle, g.Clockwise)

	case document.Text:
		// Labels are picked by their box.
		b := document.Bounds(g)
		return geom.Rect{X: b.X - tol, Y: b.Y - tol, Width: b.Width + 2*tol, Height: b.Height + 2*tol}.Contains(p)

	case document.BlockReference:
		return geom.Distance(p, g.Insert) <= tol

	case document.Dimension:
		a, b := g.DimensionLine()
		return geom.DistanceToSegment(p, a, b) <= tol ||
			geom.DistanceToSegment(p, g.Start, a) <= tol ||
			geom.DistanceToSegment(p, g.End, b) <= tol

	case nil:
		return false

	default:
		return nearPath(p, document.Outline(g), tol)
	}
}

func nearPath(p geom.Point, pts []geom.Point, tol float64) bool {
	if len(pts) == 1 {
		return geom.Distance(p, pts[0]) <= tol
	}
	for i := 1; i < len(pts); i++ {
		if geom.DistanceToSegment(p, pts[i-1], pts[i]) <= tol {
			return true
		}
	}
	return false
}

// Top returns the id of the topmost element hit at p. Later elements in the
// set are drawn above earlier ones.
func Top(els []document.Element, p geom.Point, tol float64) (string, bool) {
	for i := len(els) - 1; i >= 0; i-- {
		if Hit(els[i], p, tol) {
			return els[i].ID, true
		}
	}
	return "", false
}

// Anchor returns the single point used for box-selection membership.
func Anchor(el document.Element) geom.Point {
	switch g := el.Geometry.(type) {
	case document.Line:
		return g.Start
	case document.Circle:
		return g.Center
	case document.Rectangle:
		return g.Origin
	case document.Polyline:
		if len(g.Points) > 0 {
			return g.Points[0]
		}
	case document.Arc:
		return g.Center
	case document.Text:
		return g.Position
	case document.Dimension:
		return g.Start
	case document.Ellipse:
		return g.Center
	case document.Gear:
		return g.Center
	case document.Spiral:
		return g.Center
	case document.Spring:
		return g.Start
	case document.BlockReference:
		return g.Insert
	}
	return geom.Point{}
}

// InBox returns, in set order, the ids of elements whose anchor lies inside
// the box spanned by corners a and b.
func InBox(els []document.Element, a, b geom.Point) []string {
	box := geom.RectFromCorners(a, b)
	var ids []string
	for _, el := range els {
		if box.Contains(Anchor(el)) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

// Bounds returns the bounding box of one element.
func Bounds(el document.Element) geom.Rect {
	return document.Bounds(el.Geometry)
}

// SelectionBounds returns the union of the bounding boxes of els.
func SelectionBounds(els []document.Element) (geom.Rect, bool) {
	if len(els) == 0 {
		return geom.Rect{}, false
	}
	r := Bounds(els[0])
	for _, el := range els[1:] {
		r = r.Union(Bounds(el))
	}
	return r, true
}
