// Package snap constrains raw pointer positions to the grid, to characteristic
// points of existing elements, and to the horizontal/vertical axes through an
// anchor. It is UI-agnostic and deterministic.
package snap

import (
	"math"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

// CandidateKind names the characteristic point an object snap landed on.
type CandidateKind string

const (
	Endpoint CandidateKind = "endpoint"
	Midpoint CandidateKind = "midpoint"
	Center   CandidateKind = "center"
	Quadrant CandidateKind = "quadrant"
	Node     CandidateKind = "node"
)

// Candidate is one snap point extracted from an element.
type Candidate struct {
	Point     geom.Point    `json:"point"`
	Kind      CandidateKind `json:"kind"`
	ElementID string        `json:"elementId"`
}

// Options toggles the drawing aids.
type Options struct {
	Grid         bool    `json:"grid"`
	GridSpacing  float64 `json:"gridSpacing"`
	ObjectSnap   bool    `json:"objectSnap"`
	SnapDistance float64 `json:"snapDistance"`
	Ortho        bool    `json:"ortho"`
}

// DefaultOptions enables object snap with a 10-unit grid spacing and capture radius.
func DefaultOptions() Options {
	return Options{GridSpacing: 10, ObjectSnap: true, SnapDistance: 10}
}

// Result is the constrained point plus the object-snap candidate, if any, for
// the renderer's indicator.
type Result struct {
	Point     geom.Point `json:"point"`
	Indicator *Candidate `json:"indicator,omitempty"`
}

// Resolve applies grid quantisation, then object snap, then ortho. Object snap
// overrides the grid; ortho runs last and overrides both. Ortho needs an
// anchor and is skipped without one.
func Resolve(raw geom.Point, elements []document.Element, anchor *geom.Point, opts Options) Result {
	p := raw

	if opts.Grid && opts.GridSpacing > 0 {
		p = geom.Pt(roundTo(raw.X, opts.GridSpacing), roundTo(raw.Y, opts.GridSpacing))
	}

	var indicator *Candidate
	if opts.ObjectSnap && opts.SnapDistance > 0 {
		if c, ok := Nearest(raw, elements, opts.SnapDistance); ok {
			p = c.Point
			indicator = &c
		}
	}

	if opts.Ortho && anchor != nil {
		p = Ortho(raw, p, *anchor)
	}

	return Result{Point: p, Indicator: indicator}
}

// Ortho forces p onto the horizontal or vertical line through anchor. The axis
// is picked from the raw pointer delta: horizontal when |dx| > |dy|, vertical
// otherwise, so an exact diagonal locks vertically.
func Ortho(raw, p, anchor geom.Point) geom.Point {
	dx := math.Abs(raw.X - anchor.X)
	dy := math.Abs(raw.Y - anchor.Y)
	if dx > dy {
		return geom.Pt(p.X, anchor.Y)
	}
	return geom.Pt(anchor.X, p.Y)
}

// Nearest returns the globally closest candidate within maxDist of p.
func Nearest(p geom.Point, elements []document.Element, maxDist float64) (Candidate, bool) {
	var best Candidate
	bestDist := math.Inf(1)
	for _, el := range elements {
		for _, c := range Candidates(el) {
			d := geom.Distance(p, c.Point)
			if d <= maxDist && d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
