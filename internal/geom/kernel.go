package geom

import (
	"fmt"
	"math"
)

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Projection is the closest point on a segment together with its parameter.
type Projection struct {
	Point Point
	T     float64 // clamped to [0, 1]
}

// SegmentProjection projects p onto the segment s1-s2. A degenerate segment
// projects everything onto s1 with t = 0.
func SegmentProjection(p, s1, s2 Point) Projection {
	d := s2.Sub(s1)
	l2 := d.Dot(d)
	if l2 == 0 {
		return Projection{Point: s1, T: 0}
	}
	t := p.Sub(s1).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return Projection{Point: s1.Add(d.Scale(t)), T: t}
}

// DistanceToSegment returns the shortest distance from p to the segment s1-s2.
func DistanceToSegment(p, s1, s2 Point) float64 {
	return Distance(p, SegmentProjection(p, s1, s2).Point)
}

// SegmentIntersection returns the intersection of segments a1-a2 and b1-b2.
// ok is false when the segments are parallel or the crossing lies outside
// either segment's [0, 1] parameter range.
func SegmentIntersection(a1, a2, b1, b2 Point) (p Point, ok bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < Epsilon {
		return Point{}, false
	}
	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -Epsilon || t > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return Point{}, false
	}
	return a1.Add(r.Scale(t)), true
}

// LineCircleIntersection returns the points where the segment p1-p2 crosses
// the circle. Only crossings within the segment are reported; a tangent
// segment yields a single point.
func LineCircleIntersection(p1, p2, center Point, radius float64) []Point {
	d := p2.Sub(p1)
	f := p1.Sub(center)
	a := d.Dot(d)
	if a == 0 {
		return nil
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - radius*radius
	disc := b*b - 4*a*c
	if disc < -Epsilon {
		return nil
	}
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	var out []Point
	for i, t := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
		if i == 1 && sq == 0 {
			break
		}
		if t >= -Epsilon && t <= 1+Epsilon {
			out = append(out, p1.Add(d.Scale(t)))
		}
	}
	return out
}

// CircleCircleIntersection returns the 0, 1 or 2 points shared by two circles.
// Concentric circles report no points, even when coincident.
func CircleCircleIntersection(c1 Point, r1 float64, c2 Point, r2 float64) []Point {
	d := Distance(c1, c2)
	if d < Epsilon {
		return nil
	}
	if d > r1+r2+Epsilon || d < math.Abs(r1-r2)-Epsilon {
		return nil
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)
	mid := c1.Add(c2.Sub(c1).Scale(a / d))
	if h < Epsilon {
		return []Point{mid}
	}
	off := Point{-(c2.Y - c1.Y) * h / d, (c2.X - c1.X) * h / d}
	return []Point{mid.Add(off), mid.Sub(off)}
}

// PolygonArea returns the signed shoelace area of pts. Counter-clockwise
// vertex order yields a positive result; callers take the absolute value.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// PolygonPerimeter sums consecutive segment lengths. The path is not closed
// automatically; repeat the first point at the end to include the closing edge.
func PolygonPerimeter(pts []Point) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += Distance(pts[i-1], pts[i])
	}
	return sum
}

// CircleFrom3Points returns the unique circle through three points. Collinear
// or coincident input is reported as ErrInvalidGeometry.
func CircleFrom3Points(p1, p2, p3 Point) (Point, float64, error) {
	det := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	// Threshold scales with the input extent.
	b := BoundsOf([]Point{p1, p2, p3})
	scale := math.Max(1, b.Width+b.Height)
	if math.Abs(det) < 1e-10*scale*scale {
		return Point{}, 0, fmt.Errorf("points are collinear: %w", ErrInvalidGeometry)
	}
	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y
	cx := (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / det
	cy := (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / det
	center := Point{cx, cy}
	return center, Distance(center, p1), nil
}

// ArcThrough3Points fits an arc starting at p1, passing through p2 and ending
// at p3. Angles are returned in degrees on [0, 360). clockwise is set when p2
// is not reached by sweeping counter-clockwise from p1 before p3.
func ArcThrough3Points(p1, p2, p3 Point) (center Point, radius, startDeg, endDeg float64, clockwise bool, err error) {
	center, radius, err = CircleFrom3Points(p1, p2, p3)
	if err != nil {
		return Point{}, 0, 0, 0, false, err
	}
	a1 := AngleOf(center, p1)
	a2 := AngleOf(center, p2)
	a3 := AngleOf(center, p3)
	sweepTo2 := NormalizeRadians(a2 - a1)
	sweepTo3 := NormalizeRadians(a3 - a1)
	clockwise = sweepTo2 > sweepTo3
	return center, radius, NormalizeDegrees(Degrees(a1)), NormalizeDegrees(Degrees(a3)), clockwise, nil
}

// ArcSweep returns the swept angle in degrees, always in (0, 360], going from
// start to end in the given direction.
func ArcSweep(startDeg, endDeg float64, clockwise bool) float64 {
	var sweep float64
	if clockwise {
		sweep = NormalizeDegrees(startDeg - endDeg)
	} else {
		sweep = NormalizeDegrees(endDeg - startDeg)
	}
	if sweep == 0 {
		sweep = 360
	}
	return sweep
}

// AngleOnArc reports whether the angle (degrees) lies on the arc's sweep.
func AngleOnArc(angleDeg, startDeg, endDeg float64, clockwise bool) bool {
	sweep := ArcSweep(startDeg, endDeg, clockwise)
	var offset float64
	if clockwise {
		offset = NormalizeDegrees(startDeg - angleDeg)
	} else {
		offset = NormalizeDegrees(angleDeg - startDeg)
	}
	return offset <= sweep+1e-9
}

// ArcPoints samples an arc into segments+1 points from start to end.
func ArcPoints(center Point, radius, startDeg, endDeg float64, clockwise bool, segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	sweep := ArcSweep(startDeg, endDeg, clockwise)
	if clockwise {
		sweep = -sweep
	}
	pts := make([]Point, segments+1)
	for i := 0; i <= segments; i++ {
		a := Radians(startDeg + sweep*float64(i)/float64(segments))
		pts[i] = Polar(center, radius, a)
	}
	return pts
}

// PolylineIntersections returns every crossing between the segments of two
// point paths.
func PolylineIntersections(a, b []Point) []Point {
	var out []Point
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			if p, ok := SegmentIntersection(a[i-1], a[i], b[j-1], b[j]); ok {
				out = appendUnique(out, p)
			}
		}
	}
	return out
}

func appendUnique(pts []Point, p Point) []Point {
	for _, q := range pts {
		if q.Equal(p, 1e-7) {
			return pts
		}
	}
	return append(pts, p)
}
