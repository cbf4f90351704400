package document

import (
	"errors"
	"fmt"
	"math"

	"github.com/inamate/draft/internal/geom"
)

// ErrNotMeasurable is returned when a measurement does not apply to a kind,
// e.g. the area of an open polyline or of a text label.
var ErrNotMeasurable = errors.New("measurement not applicable")

// Segments used when sampling curves into outlines.
const (
	CircleSegments  = 72
	EllipseSegments = 72
)

// Outline returns the visible stroke of g as a point path. Closed shapes
// repeat their first point at the end. Text and block references have no
// stroke outline and return their insertion point only.
func Outline(g Geometry) []geom.Point {
	switch s := g.(type) {
	case Line:
		return []geom.Point{s.Start, s.End}
	case Circle:
		return closePath(geom.EllipsePoints(s.Center, s.Radius, s.Radius, 0, CircleSegments))
	case Rectangle:
		return closePath(s.Corners())
	case Polyline:
		if s.Closed && len(s.Points) > 2 {
			return closePath(s.Points)
		}
		return s.Points
	case Arc:
		segs := int(math.Ceil(s.Sweep() / 5))
		return geom.ArcPoints(s.Center, s.Radius, s.StartAngle, s.EndAngle, s.Clockwise, segs)
	case Dimension:
		a, b := s.DimensionLine()
		return []geom.Point{a, b}
	case Ellipse:
		return closePath(geom.EllipsePoints(s.Center, s.RadiusX, s.RadiusY, s.Rotation, EllipseSegments))
	case Gear:
		return s.Points
	case Spiral:
		return s.Points
	case Spring:
		return s.Points
	case Text:
		return []geom.Point{s.Position}
	case BlockReference:
		return []geom.Point{s.Insert}
	default:
		return nil
	}
}

func closePath(pts []geom.Point) []geom.Point {
	if len(pts) == 0 || pts[0] == pts[len(pts)-1] {
		return pts
	}
	out := make([]geom.Point, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}

// Length returns the stroke length of g: the true value for lines, circles,
// rectangles and arcs, the sampled value for curves.
func Length(g Geometry) (float64, error) {
	switch s := g.(type) {
	case Line:
		return geom.Distance(s.Start, s.End), nil
	case Circle:
		return 2 * math.Pi * s.Radius, nil
	case Rectangle:
		n := s.Normalized()
		return 2 * (n.Width + n.Height), nil
	case Arc:
		return s.Radius * geom.Radians(s.Sweep()), nil
	case Dimension:
		return s.Value(), nil
	case Text, BlockReference:
		return 0, fmt.Errorf("length of %s: %w", g.Kind(), ErrNotMeasurable)
	default:
		return geom.PolygonPerimeter(Outline(g)), nil
	}
}

// Perimeter returns the boundary length of a closed shape; for open paths it
// is the path length.
func Perimeter(g Geometry) (float64, error) {
	return Length(g)
}

// Area returns the enclosed area of a closed shape.
func Area(g Geometry) (float64, error) {
	switch s := g.(type) {
	case Circle:
		return math.Pi * s.Radius * s.Radius, nil
	case Rectangle:
		n := s.Normalized()
		return n.Width * n.Height, nil
	case Ellipse:
		return math.Pi * math.Abs(s.RadiusX*s.RadiusY), nil
	case Polyline:
		if !isClosed(s) {
			return 0, fmt.Errorf("area of open polyline: %w", ErrNotMeasurable)
		}
		return math.Abs(geom.PolygonArea(openPath(s.Points))), nil
	case Gear:
		return math.Abs(geom.PolygonArea(openPath(s.Points))), nil
	default:
		return 0, fmt.Errorf("area of %s: %w", g.Kind(), ErrNotMeasurable)
	}
}

func isClosed(p Polyline) bool {
	if len(p.Points) < 3 {
		return false
	}
	return p.Closed || p.Points[0] == p.Points[len(p.Points)-1]
}

// openPath drops a repeated closing point so the shoelace sum does not count it twice.
func openPath(pts []geom.Point) []geom.Point {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		return pts[:len(pts)-1]
	}
	return pts
}

// Intersections returns the points where the outlines of a and b cross.
// Line/circle pairs use the exact kernel functions, everything else the
// sampled outlines.
func Intersections(a, b Geometry) []geom.Point {
	switch ga := a.(type) {
	case Line:
		if gb, ok := b.(Circle); ok {
			return geom.LineCircleIntersection(ga.Start, ga.End, gb.Center, gb.Radius)
		}
		if gb, ok := b.(Line); ok {
			if p, ok := geom.SegmentIntersection(ga.Start, ga.End, gb.Start, gb.End); ok {
				return []geom.Point{p}
			}
			return nil
		}
	case Circle:
		if gb, ok := b.(Circle); ok {
			return geom.CircleCircleIntersection(ga.Center, ga.Radius, gb.Center, gb.Radius)
		}
		if gb, ok := b.(Line); ok {
			return geom.LineCircleIntersection(gb.Start, gb.End, ga.Center, ga.Radius)
		}
	}
	return geom.PolylineIntersections(Outline(a), Outline(b))
}

// Bounds returns the axis-aligned bounding box of g's outline.
func Bounds(g Geometry) geom.Rect {
	switch s := g.(type) {
	case Circle:
		return geom.Rect{X: s.Center.X - s.Radius, Y: s.Center.Y - s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case Text:
		w := s.Height * 0.6 * float64(len([]rune(s.Content)))
		r := geom.Rect{X: s.Position.X, Y: s.Position.Y, Width: w, Height: s.Height}
		return geom.RotateAboutMatrix(s.Position, s.Rotation).TransformRect(r)
	case Dimension:
		a, b := s.DimensionLine()
		return geom.BoundsOf([]geom.Point{s.Start, s.End, a, b})
	default:
		return geom.BoundsOf(Outline(g))
	}
}
