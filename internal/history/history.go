// Package history keeps the bounded, linear undo/redo stack of committed
// element sets.
package history

import (
	"slices"

	"github.com/inamate/draft/internal/document"
)

// DefaultLimit is the number of snapshots kept when no limit is configured.
const DefaultLimit = 50

// Snapshot is one committed element set. Snapshots are never modified after
// commit.
type Snapshot []document.Element

// History is a bounded list of snapshots with a cursor on the current one.
// An empty history has cursor -1.
type History struct {
	snapshots []Snapshot
	cursor    int
	limit     int
}

// New returns an empty history holding at most limit snapshots.
// A non-positive limit selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{cursor: -1, limit: limit}
}

// Commit drops any redo tail, appends a copy of els and makes it current.
// The oldest snapshot is evicted once the limit is exceeded.
func (h *History) Commit(els []document.Element) {
	h.snapshots = append(h.snapshots[:h.cursor+1], Snapshot(slices.Clone(els)))
	if len(h.snapshots) > h.limit {
		h.snapshots = slices.Delete(h.snapshots, 0, len(h.snapshots)-h.limit)
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo steps back one snapshot and returns it. At the oldest snapshot it
// returns the current one and false.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo steps forward one snapshot and returns it. At the newest snapshot it
// returns the current one and false.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Current returns the snapshot under the cursor, or nil when empty.
func (h *History) Current() Snapshot {
	if h.cursor < 0 {
		return nil
	}
	return h.snapshots[h.cursor]
}

func (h *History) Len() int     { return len(h.snapshots) }
func (h *History) Cursor() int  { return h.cursor }
func (h *History) Limit() int   { return h.limit }
func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.snapshots)-1 }

// At returns the snapshot at index i.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(h.snapshots) {
		return nil, false
	}
	return h.snapshots[i], true
}
