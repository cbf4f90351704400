package geom

import (
	"fmt"
	"math"
)

// Parametric generators. Each returns a sampled point sequence approximating
// the true curve; measurement and export work on the sampled polyline.

// RegularPolygon returns the vertices of an N-gon inscribed in a circle of the
// given radius. rotationDeg rotates the first vertex away from the +X axis.
// The polygon is not closed; the caller marks the polyline closed.
func RegularPolygon(center Point, radius float64, sides int, rotationDeg float64) ([]Point, error) {
	if sides < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 sides, got %d: %w", sides, ErrInvalidGeometry)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("polygon radius must be positive: %w", ErrInvalidGeometry)
	}
	pts := make([]Point, sides)
	start := Radians(rotationDeg)
	step := 2 * math.Pi / float64(sides)
	for i := range pts {
		pts[i] = Polar(center, radius, start+step*float64(i))
	}
	return pts, nil
}

// EllipsePoints samples a full ellipse into segments points (not closed).
func EllipsePoints(center Point, rx, ry, rotationDeg float64, segments int) []Point {
	if segments < 4 {
		segments = 4
	}
	m := RotateAboutMatrix(center, rotationDeg)
	pts := make([]Point, segments)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = m.Apply(Point{center.X + rx*math.Cos(t), center.Y + ry*math.Sin(t)})
	}
	return pts
}

// ArchimedeanSpiral samples r = startRadius + (endRadius-startRadius)·t over
// the given number of turns, counter-clockwise from the +X axis.
func ArchimedeanSpiral(center Point, startRadius, endRadius, turns float64, segments int) ([]Point, error) {
	if turns <= 0 {
		return nil, fmt.Errorf("spiral needs a positive number of turns: %w", ErrInvalidGeometry)
	}
	if startRadius < 0 || endRadius < 0 || startRadius == endRadius {
		return nil, fmt.Errorf("spiral radii must be non-negative and distinct: %w", ErrInvalidGeometry)
	}
	if segments < 8 {
		segments = int(math.Ceil(turns * 32))
	}
	pts := make([]Point, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		r := startRadius + (endRadius-startRadius)*t
		pts[i] = Polar(center, r, 2*math.Pi*turns*t)
	}
	return pts, nil
}

// SpringProfile projects a helical spring between start and end onto the
// drawing plane: a sine wave of the given diameter along the axis with one
// period per coil.
func SpringProfile(start, end Point, coils int, diameter float64, segmentsPerCoil int) ([]Point, error) {
	axis := end.Sub(start)
	length := axis.Len()
	if length < Epsilon {
		return nil, fmt.Errorf("spring axis has zero length: %w", ErrInvalidGeometry)
	}
	if coils < 1 {
		return nil, fmt.Errorf("spring needs at least one coil: %w", ErrInvalidGeometry)
	}
	if segmentsPerCoil < 4 {
		segmentsPerCoil = 16
	}
	dir := axis.Scale(1 / length)
	normal := Point{-dir.Y, dir.X}
	n := coils * segmentsPerCoil
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		offset := diameter / 2 * math.Sin(2*math.Pi*float64(coils)*t)
		pts[i] = start.Add(axis.Scale(t)).Add(normal.Scale(offset))
	}
	return pts, nil
}

// GearSpec describes a spur gear in standard metric terms.
type GearSpec struct {
	Teeth            int
	Module           float64
	PressureAngleDeg float64
	FlankSegments    int
}

// PitchRadius returns m·z/2.
func (g GearSpec) PitchRadius() float64 {
	return g.Module * float64(g.Teeth) / 2
}

// GearProfile generates the closed outline of a spur gear with involute
// flanks. The last point repeats the first.
func GearProfile(center Point, spec GearSpec) ([]Point, error) {
	if spec.Teeth < 3 {
		return nil, fmt.Errorf("gear needs at least 3 teeth: %w", ErrInvalidGeometry)
	}
	if spec.Module <= 0 {
		return nil, fmt.Errorf("gear module must be positive: %w", ErrInvalidGeometry)
	}
	if spec.PressureAngleDeg <= 0 || spec.PressureAngleDeg >= 45 {
		return nil, fmt.Errorf("pressure angle %.1f out of range: %w", spec.PressureAngleDeg, ErrInvalidGeometry)
	}
	segs := spec.FlankSegments
	if segs < 2 {
		segs = 6
	}

	pa := Radians(spec.PressureAngleDeg)
	rp := spec.PitchRadius()
	rb := rp * math.Cos(pa)
	ra := rp + spec.Module
	rf := math.Max(rp-1.25*spec.Module, 0.1*spec.Module)
	rStart := math.Max(rb, rf)

	// Angular offset from tooth centre to where the flank leaves the base circle.
	halfTooth := math.Pi / (2 * float64(spec.Teeth))
	baseOffset := halfTooth + involute(pa)
	pitchStep := 2 * math.Pi / float64(spec.Teeth)

	flank := make([]float64, segs+1) // radii sampled along a flank
	for i := range flank {
		flank[i] = rStart + (ra-rStart)*float64(i)/float64(segs)
	}

	var pts []Point
	for tooth := 0; tooth < spec.Teeth; tooth++ {
		c := pitchStep * float64(tooth)
		pts = append(pts, Polar(center, rf, c-baseOffset))
		for _, r := range flank {
			pts = append(pts, Polar(center, r, c-baseOffset+involuteAt(rb, r)))
		}
		for i := len(flank) - 1; i >= 0; i-- {
			r := flank[i]
			pts = append(pts, Polar(center, r, c+baseOffset-involuteAt(rb, r)))
		}
		pts = append(pts, Polar(center, rf, c+baseOffset))
	}
	pts = append(pts, pts[0])
	return pts, nil
}

func involute(alpha float64) float64 {
	return math.Tan(alpha) - alpha
}

// involuteAt returns the polar angle of the involute of a base circle rb at radius r.
func involuteAt(rb, r float64) float64 {
	if r <= rb {
		return 0
	}
	return involute(math.Acos(rb / r))
}
