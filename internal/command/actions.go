package command

import (
	"fmt"
	"math"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/transform"
)

// Sampling density for generated curves.
const (
	spiralSegmentsPerTurn = 36
	springSegmentsPerCoil = 16
	gearFlankSegments     = 6
)

func pointParam(name, desc string) Param {
	return Param{Name: name, Type: TypePoint, Description: desc, Required: true}
}

func numberParam(name, desc string) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc, Required: true}
}

func optionalNumber(name, desc string, def float64) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc, Default: def}
}

func positiveParam(name, desc string) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc, Required: true, Min: bound(0), ExclusiveMin: true}
}

func targetParam(desc string) Param {
	return Param{Name: "target", Type: TypeTarget, Description: desc, Default: refSelected}
}

func withStyle(params ...Param) []Param {
	return append(params,
		Param{Name: "layer", Type: TypeString, Description: "layer name, default \"0\""},
		Param{Name: "color", Type: TypeString, Description: "colour token"},
	)
}

func builtins() []AlgorithmMetadata {
	return []AlgorithmMetadata{
		// --- Primitives ---
		{
			Action: "LINE", Category: "draw",
			Description: "Straight segment between two points.",
			Params:      withStyle(pointParam("start", "first endpoint"), pointParam("end", "second endpoint")),
			Returns:     "the new line",
			run:         runLine,
		},
		{
			Action: "CIRCLE", Category: "draw",
			Description: "Circle from centre and radius.",
			Params:      withStyle(pointParam("center", "centre"), positiveParam("radius", "radius")),
			Returns:     "the new circle",
			run:         runCircle,
		},
		{
			Action: "RECTANGLE", Category: "draw",
			Description: "Rectangle from a corner, signed width and height, optionally rotated about the corner.",
			Params: withStyle(
				pointParam("origin", "anchor corner"),
				numberParam("width", "signed width"),
				numberParam("height", "signed height"),
				optionalNumber("rotation", "rotation in degrees about origin", 0),
			),
			Returns: "the new rectangle",
			run:     runRectangle,
		},
		{
			Action: "POLYLINE", Category: "draw",
			Description: "Connected segments through the given points.",
			Params: withStyle(
				Param{Name: "points", Type: TypePoints, Description: "vertices in order", Required: true, MinItems: 2},
				Param{Name: "closed", Type: TypeBoolean, Description: "join last vertex to first", Default: false},
			),
			Returns: "the new polyline",
			run:     runPolyline,
		},
		{
			Action: "ARC", Category: "draw",
			Description: "Arc from centre, radius and start/end angles in degrees.",
			Params: withStyle(
				pointParam("center", "centre"),
				positiveParam("radius", "radius"),
				numberParam("startAngle", "start angle in degrees"),
				numberParam("endAngle", "end angle in degrees"),
				Param{Name: "direction", Type: TypeEnum, Description: "sweep direction", Enum: []string{"ccw", "cw"}, Default: "ccw"},
			),
			Returns: "the new arc",
			run:     runArc,
		},
		{
			Action: "ARC_3POINT", Category: "draw",
			Description: "Arc starting at start, passing through mid and ending at end.",
			Params:      withStyle(pointParam("start", "start point"), pointParam("mid", "point on the arc"), pointParam("end", "end point")),
			Returns:     "the new arc; fails for collinear points",
			run:         runArc3Point,
		},
		{
			Action: "ELLIPSE", Category: "draw",
			Description: "Ellipse from centre and two radii.",
			Params: withStyle(
				pointParam("center", "centre"),
				positiveParam("radiusX", "radius along the local x axis"),
				positiveParam("radiusY", "radius along the local y axis"),
				optionalNumber("rotation", "rotation in degrees", 0),
			),
			Returns: "the new ellipse",
			run:     runEllipse,
		},
		{
			Action: "TEXT", Category: "draw",
			Description: "Single-line text label.",
			Params: withStyle(
				pointParam("position", "insertion point, bottom left"),
				Param{Name: "content", Type: TypeString, Description: "text", Required: true},
				Param{Name: "height", Type: TypeNumber, Description: "glyph height", Default: 10.0, Min: bound(0), ExclusiveMin: true},
				optionalNumber("rotation", "rotation in degrees", 0),
			),
			Returns: "the new text",
			run:     runText,
		},
		{
			Action: "DIMENSION", Category: "draw",
			Description: "Linear dimension measuring start to end, with the dimension line through offset.",
			Params:      withStyle(pointParam("start", "first measured point"), pointParam("end", "second measured point"), pointParam("offset", "point on the dimension line")),
			Returns:     "the new dimension",
			run:         runDimension,
		},
		{
			Action: "BLOCK", Category: "draw",
			Description: "Insert a named block definition.",
			Params: withStyle(
				Param{Name: "name", Type: TypeString, Description: "block definition name", Required: true},
				pointParam("insert", "insertion point"),
				Param{Name: "scale", Type: TypeNumber, Description: "uniform scale", Default: 1.0, Min: bound(0), ExclusiveMin: true},
				optionalNumber("rotation", "rotation in degrees", 0),
			),
			Returns: "the new block reference",
			run:     runBlock,
		},

		// --- Parametric shapes ---
		{
			Action: "POLYGON", Category: "parametric",
			Description: "Regular polygon inscribed in a circle.",
			Params: withStyle(
				pointParam("center", "centre"),
				positiveParam("radius", "circumscribed radius"),
				Param{Name: "sides", Type: TypeInteger, Description: "number of sides", Default: 6, Min: bound(3), Max: bound(360)},
				optionalNumber("rotation", "angle of the first vertex in degrees", 0),
			),
			Returns: "a closed polyline",
			run:     runPolygon,
		},
		{
			Action: "GEAR", Category: "parametric",
			Description: "Spur gear outline with involute teeth.",
			Params: withStyle(
				pointParam("center", "centre"),
				Param{Name: "teeth", Type: TypeInteger, Description: "tooth count", Default: 20, Min: bound(6), Max: bound(300)},
				Param{Name: "module", Type: TypeNumber, Description: "pitch diameter / teeth", Default: 2.0, Min: bound(0), ExclusiveMin: true},
				Param{Name: "pressureAngle", Type: TypeNumber, Description: "pressure angle in degrees", Default: 20.0, Min: bound(10), Max: bound(35)},
			),
			Returns: "the new gear",
			run:     runGear,
		},
		{
			Action: "SPIRAL", Category: "parametric",
			Description: "Archimedean spiral, counter-clockwise from the +x axis.",
			Params: withStyle(
				pointParam("center", "centre"),
				Param{Name: "startRadius", Type: TypeNumber, Description: "radius at the start", Default: 0.0, Min: bound(0)},
				positiveParam("endRadius", "radius at the end"),
				Param{Name: "turns", Type: TypeNumber, Description: "number of turns", Default: 3.0, Min: bound(0), ExclusiveMin: true, Max: bound(100)},
			),
			Returns: "the new spiral",
			run:     runSpiral,
		},
		{
			Action: "SPRING", Category: "parametric",
			Description: "Side view of a helical spring between two points.",
			Params: withStyle(
				pointParam("start", "axis start"),
				pointParam("end", "axis end"),
				Param{Name: "coils", Type: TypeInteger, Description: "number of coils", Default: 8, Min: bound(1), Max: bound(500)},
				Param{Name: "diameter", Type: TypeNumber, Description: "coil diameter", Default: 10.0, Min: bound(0), ExclusiveMin: true},
			),
			Returns: "the new spring",
			run:     runSpring,
		},

		// --- Transforms ---
		{
			Action: "MOVE", Category: "transform",
			Description: "Shift elements by a vector.",
			Params:      []Param{targetParam("elements to move"), pointParam("delta", "displacement {x, y}")},
			Returns:     "the moved elements, same ids",
			run:         runMove,
		},
		{
			Action: "COPY", Category: "transform",
			Description: "Duplicate elements shifted by a vector.",
			Params:      []Param{targetParam("elements to copy"), pointParam("delta", "displacement {x, y}")},
			Returns:     "the copies, new ids",
			run:         runCopy,
		},
		{
			Action: "ROTATE", Category: "transform",
			Description: "Rotate elements counter-clockwise about a point.",
			Params:      []Param{targetParam("elements to rotate"), pointParam("center", "pivot"), numberParam("angle", "angle in degrees")},
			Returns:     "the rotated elements, same ids",
			run:         runRotate,
		},
		{
			Action: "MIRROR", Category: "transform",
			Description: "Reflect elements across the line through two points.",
			Params: []Param{
				targetParam("elements to mirror"),
				pointParam("axisStart", "first point on the mirror line"),
				pointParam("axisEnd", "second point on the mirror line"),
				Param{Name: "keepOriginal", Type: TypeBoolean, Description: "keep the source elements", Default: true},
			},
			Returns: "the reflections, new ids",
			run:     runMirror,
		},
		{
			Action: "DELETE", Category: "edit",
			Description: "Remove elements.",
			Params:      []Param{targetParam("elements to delete")},
			Returns:     "nothing",
			run:         runDelete,
		},
		{
			Action: "CLEAR", Category: "edit",
			Description: "Remove every element.",
			Returns:     "nothing",
			run:         runClear,
		},

		// --- Measurement ---
		{
			Action: "DISTANCE", Category: "measure",
			Description: "Distance between two points.",
			Params:      []Param{pointParam("from", "first point"), pointParam("to", "second point")},
			Returns:     "one measurement",
			run:         runDistance,
		},
		{
			Action: "AREA", Category: "measure",
			Description: "Enclosed area of closed shapes.",
			Params:      []Param{targetParam("elements to measure")},
			Returns:     "one measurement per element",
			run:         runArea,
		},
		{
			Action: "PERIMETER", Category: "measure",
			Description: "Boundary or path length.",
			Params:      []Param{targetParam("elements to measure")},
			Returns:     "one measurement per element",
			run:         runPerimeter,
		},
		{
			Action: "INTERSECT", Category: "measure",
			Description: "Intersection points between each pair of elements.",
			Params:      []Param{targetParam("at least two elements")},
			Returns:     "one measurement per pair; value is the point count",
			run:         runIntersect,
		},
	}
}

func invalid(param, constraint string) *Error {
	return &Error{Kind: KindInvalidGeometry, Param: param, Constraint: constraint, Err: geom.ErrInvalidGeometry}
}

// --- Primitives ---

func runLine(s *step) error {
	a, b := s.args.Point("start"), s.args.Point("end")
	if a.Equal(b, geom.Epsilon) {
		return invalid("end", "line has zero length")
	}
	s.create(document.Line{Start: a, End: b})
	return nil
}

func runCircle(s *step) error {
	s.create(document.Circle{Center: s.args.Point("center"), Radius: s.args.Number("radius")})
	return nil
}

func runRectangle(s *step) error {
	w, h := s.args.Number("width"), s.args.Number("height")
	if math.Abs(w) < geom.Epsilon || math.Abs(h) < geom.Epsilon {
		return invalid("width", "rectangle has no area")
	}
	s.create(document.Rectangle{
		Origin:   s.args.Point("origin"),
		Width:    w,
		Height:   h,
		Rotation: geom.NormalizeDegrees(s.args.Number("rotation")),
	})
	return nil
}

func runPolyline(s *step) error {
	s.create(document.Polyline{Points: s.args.Points("points"), Closed: s.args.Bool("closed")})
	return nil
}

func runArc(s *step) error {
	s.create(document.Arc{
		Center:     s.args.Point("center"),
		Radius:     s.args.Number("radius"),
		StartAngle: geom.NormalizeDegrees(s.args.Number("startAngle")),
		EndAngle:   geom.NormalizeDegrees(s.args.Number("endAngle")),
		Clockwise:  s.args.String("direction") == "cw",
	})
	return nil
}

func runArc3Point(s *step) error {
	c, r, start, end, cw, err := geom.ArcThrough3Points(s.args.Point("start"), s.args.Point("mid"), s.args.Point("end"))
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "mid", Err: err}
	}
	s.create(document.Arc{Center: c, Radius: r, StartAngle: start, EndAngle: end, Clockwise: cw})
	return nil
}

func runEllipse(s *step) error {
	s.create(document.Ellipse{
		Center:   s.args.Point("center"),
		RadiusX:  s.args.Number("radiusX"),
		RadiusY:  s.args.Number("radiusY"),
		Rotation: geom.NormalizeDegrees(s.args.Number("rotation")),
	})
	return nil
}

func runText(s *step) error {
	s.create(document.Text{
		Position: s.args.Point("position"),
		Content:  s.args.String("content"),
		Height:   s.args.Number("height"),
		Rotation: geom.NormalizeDegrees(s.args.Number("rotation")),
	})
	return nil
}

func runDimension(s *step) error {
	a, b := s.args.Point("start"), s.args.Point("end")
	if a.Equal(b, geom.Epsilon) {
		return invalid("end", "dimension endpoints coincide")
	}
	s.create(document.Dimension{Start: a, End: b, Offset: s.args.Point("offset")})
	return nil
}

func runBlock(s *step) error {
	s.create(document.BlockReference{
		Name:     s.args.String("name"),
		Insert:   s.args.Point("insert"),
		Scale:    s.args.Number("scale"),
		Rotation: geom.NormalizeDegrees(s.args.Number("rotation")),
	})
	return nil
}

// --- Parametric shapes ---

func runPolygon(s *step) error {
	pts, err := geom.RegularPolygon(s.args.Point("center"), s.args.Number("radius"), s.args.Int("sides"), s.args.Number("rotation"))
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "sides", Err: err}
	}
	s.create(document.Polyline{Points: pts, Closed: true})
	return nil
}

func runGear(s *step) error {
	spec := geom.GearSpec{
		Teeth:            s.args.Int("teeth"),
		Module:           s.args.Number("module"),
		PressureAngleDeg: s.args.Number("pressureAngle"),
		FlankSegments:    gearFlankSegments,
	}
	center := s.args.Point("center")
	pts, err := geom.GearProfile(center, spec)
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "teeth", Err: err}
	}
	s.create(document.Gear{
		Center:        center,
		Teeth:         spec.Teeth,
		Module:        spec.Module,
		PressureAngle: spec.PressureAngleDeg,
		Points:        pts,
	})
	return nil
}

func runSpiral(s *step) error {
	center := s.args.Point("center")
	r0, r1, turns := s.args.Number("startRadius"), s.args.Number("endRadius"), s.args.Number("turns")
	segs := int(math.Ceil(turns * spiralSegmentsPerTurn))
	pts, err := geom.ArchimedeanSpiral(center, r0, r1, turns, segs)
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "endRadius", Err: err}
	}
	s.create(document.Spiral{Center: center, Turns: turns, StartRadius: r0, EndRadius: r1, Points: pts})
	return nil
}

func runSpring(s *step) error {
	a, b := s.args.Point("start"), s.args.Point("end")
	coils, d := s.args.Int("coils"), s.args.Number("diameter")
	pts, err := geom.SpringProfile(a, b, coils, d, springSegmentsPerCoil)
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "end", Err: err}
	}
	s.create(document.Spring{Start: a, End: b, Coils: coils, Diameter: d, Points: pts})
	return nil
}

// --- Transforms ---

func runMove(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	s.update(transform.Move(targets, s.args.Point("delta")))
	return nil
}

func runCopy(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	s.add(transform.Copy(targets, s.args.Point("delta"), s.batch.ids))
	return nil
}

func runRotate(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	s.update(transform.Rotate(targets, s.args.Point("center"), s.args.Number("angle")))
	return nil
}

func runMirror(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	mirrored, err := transform.Mirror(targets, s.args.Point("axisStart"), s.args.Point("axisEnd"), s.batch.ids)
	if err != nil {
		return &Error{Kind: KindInvalidGeometry, Param: "axisEnd", Err: err}
	}
	if !s.args.Bool("keepOriginal") {
		s.remove(document.IDs(targets))
	}
	s.add(mirrored)
	return nil
}

func runDelete(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	s.remove(document.IDs(targets))
	return nil
}

func runClear(s *step) error {
	s.remove(document.IDs(s.batch.elements))
	return nil
}

// --- Measurement ---

func runDistance(s *step) error {
	a, b := s.args.Point("from"), s.args.Point("to")
	s.measure(geom.Distance(a, b), []geom.Point{a, b})
	return nil
}

func runArea(s *step) error {
	return s.measureEach(document.Area)
}

func runPerimeter(s *step) error {
	return s.measureEach(document.Perimeter)
}

func (s *step) measureEach(fn func(document.Geometry) (float64, error)) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	for _, el := range targets {
		v, err := fn(el.Geometry)
		if err != nil {
			return &Error{Kind: KindInvalidGeometry, Param: "target", Constraint: el.ID, Err: err}
		}
		s.measure(v, nil, el.ID)
	}
	return nil
}

func runIntersect(s *step) error {
	targets, err := s.resolve("target")
	if err != nil {
		return err
	}
	if len(targets) < 2 {
		return validationError("target", fmt.Sprintf("needs at least 2 elements, got %d", len(targets)))
	}
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			pts := document.Intersections(targets[i].Geometry, targets[j].Geometry)
			s.measure(float64(len(pts)), pts, targets[i].ID, targets[j].ID)
		}
	}
	return nil
}
