package snap

import (
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

// Candidates extracts the snap points of one element.
func Candidates(el document.Element) []Candidate {
	var out []Candidate
	add := func(p geom.Point, k CandidateKind) {
		out = append(out, Candidate{Point: p, Kind: k, ElementID: el.ID})
	}

	switch g := el.Geometry.(type) {
	case document.Line:
		add(g.Start, Endpoint)
		add(g.End, Endpoint)
		add(g.Start.Midpoint(g.End), Midpoint)

	case document.Circle:
		add(g.Center, Center)
		for _, q := range quadrants(g.Center, g.Radius, g.Radius, 0) {
			add(q, Quadrant)
		}

	case document.Rectangle:
		corners := g.Corners()
		for i, c := range corners {
			add(c, Endpoint)
			add(c.Midpoint(corners[(i+1)%4]), Midpoint)
		}
		add(g.Center(), Center)

	case document.Polyline:
		for i, p := range g.Points {
			add(p, Endpoint)
			if i > 0 {
				add(g.Points[i-1].Midpoint(p), Midpoint)
			}
		}
		if g.Closed && len(g.Points) > 2 {
			add(g.Points[len(g.Points)-1].Midpoint(g.Points[0]), Midpoint)
		}

	case document.Arc:
		add(g.Center, Center)
		add(g.StartPoint(), Endpoint)
		add(g.EndPoint(), Endpoint)
		add(g.MidPoint(), Midpoint)
		for i, q := range quadrants(g.Center, g.Radius, g.Radius, 0) {
			if geom.AngleOnArc(float64(i)*90, g.StartAngle, g.EndAngle, g.Clockwise) {
				add(q, Quadrant)
			}
		}

	case document.Text:
		add(g.Position, Node)

	case document.Dimension:
		add(g.Start, Endpoint)
		add(g.End, Endpoint)
		a, b := g.DimensionLine()
		add(a.Midpoint(b), Midpoint)

	case document.Ellipse:
		add(g.Center, Center)
		for _, q := range quadrants(g.Center, g.RadiusX, g.RadiusY, g.Rotation) {
			add(q, Quadrant)
		}

	case document.Gear:
		add(g.Center, Center)

	case document.Spiral:
		add(g.Center, Center)
		if n := len(g.Points); n > 0 {
			add(g.Points[0], Endpoint)
			add(g.Points[n-1], Endpoint)
		}

	case document.Spring:
		add(g.Start, Endpoint)
		add(g.End, Endpoint)
		add(g.Start.Midpoint(g.End), Midpoint)

	case document.BlockReference:
		add(g.Insert, Node)
	}
	return out
}

// quadrants returns the 0°, 90°, 180° and 270° points of an ellipse.
func quadrants(c geom.Point, rx, ry, rotationDeg float64) []geom.Point {
	m := geom.RotateAboutMatrix(c, rotationDeg)
	return []geom.Point{
		m.Apply(geom.Pt(c.X+rx, c.Y)),
		m.Apply(geom.Pt(c.X, c.Y+ry)),
		m.Apply(geom.Pt(c.X-rx, c.Y)),
		m.Apply(geom.Pt(c.X, c.Y-ry)),
	}
}
