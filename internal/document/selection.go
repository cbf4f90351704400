package document

import "slices"

// Selection is an ordered set of selected element ids. Order is the order in
// which elements were selected, which is what "selected[i]" refers to.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// IDs returns a copy of the selected ids in selection order.
func (s Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// With returns a selection that also includes id.
func (s Selection) With(id string) Selection {
	if s.Has(id) {
		return s
	}
	return Selection{ids: append(slices.Clone(s.ids), id)}
}

// Without returns a selection that excludes id.
func (s Selection) Without(id string) Selection {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return s
	}
	return Selection{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
}

// Toggle adds id when absent and removes it when present.
func (s Selection) Toggle(id string) Selection {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

// Prune drops ids that no longer exist in els.
func (s Selection) Prune(els []Element) Selection {
	var out Selection
	for _, id := range s.ids {
		if Index(els, id) >= 0 {
			out.ids = append(out.ids, id)
		}
	}
	return out
}

// Elements returns the selected elements from els in selection order.
func (s Selection) Elements(els []Element) []Element {
	var out []Element
	for _, id := range s.ids {
		if e, ok := Find(els, id); ok {
			out = append(out, e)
		}
	}
	return out
}
