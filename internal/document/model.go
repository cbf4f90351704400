package document

import (
	"math"

	"github.com/inamate/draft/internal/geom"
)

// DefaultLayer is the layer assigned when none is given.
const DefaultLayer = "0"

// Kind tags each geometry variant.
type Kind string

const (
	KindLine      Kind = "line"
	KindCircle    Kind = "circle"
	KindRectangle Kind = "rectangle"
	KindPolyline  Kind = "polyline"
	KindArc       Kind = "arc"
	KindText      Kind = "text"
	KindDimension Kind = "dimension"
	KindEllipse   Kind = "ellipse"
	KindGear      Kind = "gear"
	KindSpiral    Kind = "spiral"
	KindSpring    Kind = "spring"
	KindBlock     Kind = "block"
)

// Geometry is the closed set of primitive shapes an Element can carry.
// Implementations are value types; an element is changed by replacing its
// geometry, never by mutating it.
type Geometry interface {
	Kind() Kind
}

// Element is one committed primitive with identity, layer and colour.
// Selection state lives outside the element in a Selection set.
type Element struct {
	ID       string
	Layer    string
	Color    string
	Geometry Geometry
}

// Kind returns the geometry kind, or "" for an element without geometry.
func (e Element) Kind() Kind {
	if e.Geometry == nil {
		return ""
	}
	return e.Geometry.Kind()
}

// WithGeometry returns a copy of e carrying g.
func (e Element) WithGeometry(g Geometry) Element {
	e.Geometry = g
	return e
}

// WithID returns a copy of e carrying id.
func (e Element) WithID(id string) Element {
	e.ID = id
	return e
}

// New builds an element with a fresh id and the default layer when layer is empty.
func New(ids IDGenerator, layer, color string, g Geometry) Element {
	if layer == "" {
		layer = DefaultLayer
	}
	return Element{ID: ids.NewID(), Layer: layer, Color: color, Geometry: g}
}

type Line struct {
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

type Circle struct {
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
}

// Rectangle is anchored at Origin and extends by Width/Height, which keep the
// sign of the drag that created them. Rotation (degrees) turns the rectangle
// around Origin.
type Rectangle struct {
	Origin   geom.Point `json:"origin"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation,omitempty"`
}

type Polyline struct {
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed,omitempty"`
}

// Arc angles are degrees on [0, 360). The arc runs from StartAngle to EndAngle
// counter-clockwise unless Clockwise is set.
type Arc struct {
	Center     geom.Point `json:"center"`
	Radius     float64    `json:"radius"`
	StartAngle float64    `json:"startAngle"`
	EndAngle   float64    `json:"endAngle"`
	Clockwise  bool       `json:"clockwise,omitempty"`
}

type Text struct {
	Position geom.Point `json:"position"`
	Content  string     `json:"content"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation,omitempty"`
}

// Dimension measures Start to End; Offset is the point the dimension line
// passes through.
type Dimension struct {
	Start  geom.Point `json:"start"`
	End    geom.Point `json:"end"`
	Offset geom.Point `json:"offset"`
}

type Ellipse struct {
	Center   geom.Point `json:"center"`
	RadiusX  float64    `json:"radiusX"`
	RadiusY  float64    `json:"radiusY"`
	Rotation float64    `json:"rotation,omitempty"`
}

// Gear stores its generating parameters together with the sampled outline.
type Gear struct {
	Center        geom.Point   `json:"center"`
	Teeth         int          `json:"teeth"`
	Module        float64      `json:"module"`
	PressureAngle float64      `json:"pressureAngle"`
	Points        []geom.Point `json:"points"`
}

type Spiral struct {
	Center      geom.Point   `json:"center"`
	Turns       float64      `json:"turns"`
	StartRadius float64      `json:"startRadius"`
	EndRadius   float64      `json:"endRadius"`
	Points      []geom.Point `json:"points"`
}

type Spring struct {
	Start    geom.Point   `json:"start"`
	End      geom.Point   `json:"end"`
	Coils    int          `json:"coils"`
	Diameter float64      `json:"diameter"`
	Points   []geom.Point `json:"points"`
}

// BlockReference places a named block definition. Block definitions are
// resolved by the host; the engine only tracks the insertion transform:
// scale, then an optional flip across the block's local x axis, then
// rotation about Insert.
type BlockReference struct {
	Name     string     `json:"name"`
	Insert   geom.Point `json:"insert"`
	Scale    float64    `json:"scale"`
	Rotation float64    `json:"rotation,omitempty"`
	Mirrored bool       `json:"mirrored,omitempty"`
}

func (Line) Kind() Kind           { return KindLine }
func (Circle) Kind() Kind         { return KindCircle }
func (Rectangle) Kind() Kind      { return KindRectangle }
func (Polyline) Kind() Kind       { return KindPolyline }
func (Arc) Kind() Kind            { return KindArc }
func (Text) Kind() Kind           { return KindText }
func (Dimension) Kind() Kind      { return KindDimension }
func (Ellipse) Kind() Kind        { return KindEllipse }
func (Gear) Kind() Kind           { return KindGear }
func (Spiral) Kind() Kind         { return KindSpiral }
func (Spring) Kind() Kind         { return KindSpring }
func (BlockReference) Kind() Kind { return KindBlock }

// Corners returns the four corners of the rectangle in drawing order,
// starting at Origin.
func (r Rectangle) Corners() []geom.Point {
	m := geom.RotateAboutMatrix(r.Origin, r.Rotation)
	return []geom.Point{
		r.Origin,
		m.Apply(geom.Pt(r.Origin.X+r.Width, r.Origin.Y)),
		m.Apply(geom.Pt(r.Origin.X+r.Width, r.Origin.Y+r.Height)),
		m.Apply(geom.Pt(r.Origin.X, r.Origin.Y+r.Height)),
	}
}

// Center returns the centre of the rectangle.
func (r Rectangle) Center() geom.Point {
	c := r.Corners()
	return c[0].Midpoint(c[2])
}

// Normalized returns the same rectangle with non-negative Width and Height.
func (r Rectangle) Normalized() Rectangle {
	if r.Width >= 0 && r.Height >= 0 {
		return r
	}
	m := geom.RotateAboutMatrix(r.Origin, r.Rotation)
	x, y := r.Origin.X, r.Origin.Y
	if r.Width < 0 {
		x += r.Width
	}
	if r.Height < 0 {
		y += r.Height
	}
	return Rectangle{
		Origin:   m.Apply(geom.Pt(x, y)),
		Width:    math.Abs(r.Width),
		Height:   math.Abs(r.Height),
		Rotation: r.Rotation,
	}
}

// StartPoint returns the point where the arc begins.
func (a Arc) StartPoint() geom.Point {
	return geom.Polar(a.Center, a.Radius, geom.Radians(a.StartAngle))
}

// EndPoint returns the point where the arc ends.
func (a Arc) EndPoint() geom.Point {
	return geom.Polar(a.Center, a.Radius, geom.Radians(a.EndAngle))
}

// MidPoint returns the point halfway along the arc's sweep.
func (a Arc) MidPoint() geom.Point {
	half := geom.ArcSweep(a.StartAngle, a.EndAngle, a.Clockwise) / 2
	if a.Clockwise {
		half = -half
	}
	return geom.Polar(a.Center, a.Radius, geom.Radians(a.StartAngle+half))
}

// Sweep returns the swept angle in degrees.
func (a Arc) Sweep() float64 {
	return geom.ArcSweep(a.StartAngle, a.EndAngle, a.Clockwise)
}

// DimensionLine returns the two points of the dimension line, i.e. Start and
// End shifted perpendicular to the measured segment until the line passes
// through Offset.
func (d Dimension) DimensionLine() (geom.Point, geom.Point) {
	dir := d.End.Sub(d.Start)
	l := dir.Len()
	if l < geom.Epsilon {
		return d.Start, d.End
	}
	normal := geom.Pt(-dir.Y/l, dir.X/l)
	dist := d.Offset.Sub(d.Start).Dot(normal)
	shift := normal.Scale(dist)
	return d.Start.Add(shift), d.End.Add(shift)
}

// Value returns the measured length.
func (d Dimension) Value() float64 {
	return geom.Distance(d.Start, d.End)
}
