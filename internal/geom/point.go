package geom

import (
	"errors"
	"math"
)

// ErrInvalidGeometry is returned when input points cannot describe the requested
// shape, e.g. three collinear points for an arc or a zero-length mirror axis.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Epsilon is the tolerance used for degenerate-geometry checks.
const Epsilon = 1e-9

// Point is a 2D model-space coordinate. Units are a presentation concern.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Len returns the length of p as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return p.Lerp(q, 0.5)
}

// Equal reports whether p and q are within eps of each other on both axes.
func (p Point) Equal(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// IsZero reports whether p is exactly the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Polar returns the point at the given distance and angle (radians) from center.
func Polar(center Point, radius, radians float64) Point {
	return Point{center.X + radius*math.Cos(radians), center.Y + radius*math.Sin(radians)}
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// NormalizeDegrees maps an angle onto [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// NormalizeRadians maps an angle onto [0, 2π).
func NormalizeRadians(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// AngleOf returns the angle of p around center in radians, in (-π, π].
func AngleOf(center, p Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// RotateAbout rotates p around center by the given angle in degrees.
func RotateAbout(p, center Point, degrees float64) Point {
	m := RotateAboutMatrix(center, degrees)
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{x, y}
}

// Reflect mirrors p across the infinite line through a and b.
func Reflect(p, a, b Point) (Point, error) {
	m, err := ReflectMatrix(a, b)
	if err != nil {
		return Point{}, err
	}
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{x, y}, nil
}
