package document

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
)

// ErrDuplicateID is returned when an element set carries the same id twice.
var ErrDuplicateID = errors.New("duplicate element id")

// IDGenerator hands out element ids. Ids are never reused.
type IDGenerator interface {
	NewID() string
}

// Counter is a deterministic IDGenerator producing prefix_1, prefix_2, ...
type Counter struct {
	Prefix string
	n      atomic.Uint64
}

// NewCounter returns a counter that starts at prefix_1.
func NewCounter(prefix string) *Counter {
	return &Counter{Prefix: prefix}
}

func (c *Counter) NewID() string {
	return c.Prefix + "_" + strconv.FormatUint(c.n.Add(1), 10)
}

// ValidateSet checks that every element has geometry and a unique id.
func ValidateSet(els []Element) error {
	seen := make(map[string]struct{}, len(els))
	for _, e := range els {
		if e.ID == "" {
			return errors.New("element without id")
		}
		if e.Geometry == nil {
			return fmt.Errorf("element %s has no geometry", e.ID)
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Index returns the position of the element with the given id, or -1.
func Index(els []Element, id string) int {
	return slices.IndexFunc(els, func(e Element) bool { return e.ID == id })
}

// Find returns the element with the given id.
func Find(els []Element, id string) (Element, bool) {
	i := Index(els, id)
	if i < 0 {
		return Element{}, false
	}
	return els[i], true
}

// Filter returns the elements whose ids are in ids, in set order.
func Filter(els []Element, ids []string) []Element {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Element
	for _, e := range els {
		if _, ok := want[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// IDs returns the ids of els in order.
func IDs(els []Element) []string {
	ids := make([]string, len(els))
	for i, e := range els {
		ids[i] = e.ID
	}
	return ids
}

// Replace returns a new set where every element whose id matches one in
// updates is swapped for the update, keeping positions. Updates with unknown
// ids are ignored.
func Replace(els []Element, updates []Element) []Element {
	byID := make(map[string]Element, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	out := make([]Element, len(els))
	for i, e := range els {
		if u, ok := byID[e.ID]; ok {
			out[i] = u
		} else {
			out[i] = e
		}
	}
	return out
}

// Remove returns a new set without the elements whose ids are listed.
func Remove(els []Element, ids []string) []Element {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]Element, 0, len(els))
	for _, e := range els {
		if _, ok := drop[e.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// Append returns a new set with extra appended after els.
func Append(els []Element, extra ...Element) []Element {
	out := make([]Element, 0, len(els)+len(extra))
	out = append(out, els...)
	return append(out, extra...)
}

// Equal reports whether two sets hold the same ids in the same order with
// identical geometry.
func Equal(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ElementEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ElementEqual compares two elements field by field.
func ElementEqual(a, b Element) bool {
	if a.ID != b.ID || a.Layer != b.Layer || a.Color != b.Color {
		return false
	}
	return geometryEqual(a.Geometry, b.Geometry)
}

func geometryEqual(a, b Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch ga := a.(type) {
	case Polyline:
		gb := b.(Polyline)
		return ga.Closed == gb.Closed && slices.Equal(ga.Points, gb.Points)
	case Gear:
		gb := b.(Gear)
		return ga.Center == gb.Center && ga.Teeth == gb.Teeth && ga.Module == gb.Module &&
			ga.PressureAngle == gb.PressureAngle && slices.Equal(ga.Points, gb.Points)
	case Spiral:
		gb := b.(Spiral)
		return ga.Center == gb.Center && ga.Turns == gb.Turns && ga.StartRadius == gb.StartRadius &&
			ga.EndRadius == gb.EndRadius && slices.Equal(ga.Points, gb.Points)
	case Spring:
		gb := b.(Spring)
		return ga.Start == gb.Start && ga.End == gb.End && ga.Coils == gb.Coils &&
			ga.Diameter == gb.Diameter && slices.Equal(ga.Points, gb.Points)
	default:
		// Remaining variants are comparable value types.
		return a == b
	}
}
