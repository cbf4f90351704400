package command

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/inamate/draft/internal/geom"
)

type ParamType string

const (
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeString  ParamType = "string"
	TypeBoolean ParamType = "boolean"
	TypePoint   ParamType = "point"
	TypePoints  ParamType = "points"
	TypeTarget  ParamType = "target"
	TypeEnum    ParamType = "enum"
)

// Param is the schema of one action parameter. Min and Max bound numbers;
// ExclusiveMin makes Min a strict bound.
type Param struct {
	Name         string    `json:"name"`
	Type         ParamType `json:"type"`
	Description  string    `json:"description,omitempty"`
	Required     bool      `json:"required"`
	Default      any       `json:"default,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	ExclusiveMin bool      `json:"exclusiveMin,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	MinItems     int       `json:"minItems,omitempty"`
	Enum         []string  `json:"enum,omitempty"`
}

// Target is an unresolved element reference list: "selected", "selected[i]",
// "result:<id>", "all" or a literal element id.
type Target []string

// Args holds parameters after validation. Every accessor returns the value
// already checked against the schema, so handlers never re-validate.
type Args map[string]any

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Args) Number(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

func (a Args) Point(name string) geom.Point {
	v, _ := a[name].(geom.Point)
	return v
}

func (a Args) Points(name string) []geom.Point {
	v, _ := a[name].([]geom.Point)
	return v
}

func (a Args) Target(name string) Target {
	v, _ := a[name].(Target)
	return v
}

func bound(v float64) *float64 { return &v }

// validate checks raw params against the schema and converts them to typed
// Args. Parameters not named in the schema are ignored.
func validate(schema []Param, raw map[string]any) (Args, *Error) {
	args := make(Args, len(schema))
	for _, p := range schema {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, validationError(p.Name, "required")
			}
			if p.Default == nil {
				continue
			}
			v = p.Default
		}
		typed, err := p.convert(v)
		if err != nil {
			return nil, err
		}
		args[p.Name] = typed
	}
	return args, nil
}

func (p Param) convert(v any) (any, *Error) {
	switch p.Type {
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return nil, validationError(p.Name, "must be a number")
		}
		return n, p.checkRange(n)

	case TypeInteger:
		n, ok := toFloat(v)
		if !ok || n != math.Trunc(n) {
			return nil, validationError(p.Name, "must be an integer")
		}
		return int(n), p.checkRange(n)

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, validationError(p.Name, "must be a string")
		}
		if p.Required && strings.TrimSpace(s) == "" {
			return nil, validationError(p.Name, "must not be empty")
		}
		return s, nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, validationError(p.Name, "must be a boolean")
		}
		return b, nil

	case TypeEnum:
		s, ok := v.(string)
		if !ok || !slices.Contains(p.Enum, s) {
			return nil, validationError(p.Name, "must be one of "+strings.Join(p.Enum, ", "))
		}
		return s, nil

	case TypePoint:
		pt, ok := toPoint(v)
		if !ok {
			return nil, validationError(p.Name, "must be a point {x, y}")
		}
		return pt, nil

	case TypePoints:
		list, ok := v.([]any)
		if !ok {
			if pts, isPts := v.([]geom.Point); isPts {
				list = make([]any, len(pts))
				for i, pt := range pts {
					list[i] = pt
				}
			} else {
				return nil, validationError(p.Name, "must be a list of points")
			}
		}
		pts := make([]geom.Point, 0, len(list))
		for i, item := range list {
			pt, ok := toPoint(item)
			if !ok {
				return nil, validationError(p.Name, fmt.Sprintf("item %d must be a point {x, y}", i))
			}
			pts = append(pts, pt)
		}
		if len(pts) < p.MinItems {
			return nil, validationError(p.Name, fmt.Sprintf("at least %d points", p.MinItems))
		}
		return pts, nil

	case TypeTarget:
		t, ok := toTarget(v)
		if !ok {
			return nil, validationError(p.Name, "must be a reference or list of references")
		}
		return t, nil
	}
	return nil, validationError(p.Name, "unsupported type "+string(p.Type))
}

func (p Param) checkRange(n float64) *Error {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return validationError(p.Name, "must be finite")
	}
	if p.Min != nil {
		if p.ExclusiveMin && n <= *p.Min {
			return validationError(p.Name, "must be > "+formatBound(*p.Min))
		}
		if n < *p.Min {
			return validationError(p.Name, "must be >= "+formatBound(*p.Min))
		}
	}
	if p.Max != nil && n > *p.Max {
		return validationError(p.Name, "must be <= "+formatBound(*p.Max))
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// toPoint accepts {"x":1,"y":2}, [1,2] or a geom.Point.
func toPoint(v any) (geom.Point, bool) {
	switch p := v.(type) {
	case geom.Point:
		return p, true
	case map[string]any:
		x, okX := toFloat(p["x"])
		y, okY := toFloat(p["y"])
		return geom.Pt(x, y), okX && okY && finite(x, y)
	case []any:
		if len(p) != 2 {
			return geom.Point{}, false
		}
		x, okX := toFloat(p[0])
		y, okY := toFloat(p[1])
		return geom.Pt(x, y), okX && okY && finite(x, y)
	}
	return geom.Point{}, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func toTarget(v any) (Target, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, false
		}
		return Target{t}, true
	case Target:
		return t, len(t) > 0
	case []string:
		return toTarget(Target(t))
	case []any:
		out := make(Target, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, false
			}
			out = append(out, s)
		}
		return out, len(out) > 0
	}
	return nil, false
}
