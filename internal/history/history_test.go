package history

import (
	"strconv"
	"testing"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

func state(n int) []document.Element {
	els := make([]document.Element, n)
	for i := range els {
		els[i] = document.Element{
			ID:       "e" + strconv.Itoa(i),
			Layer:    "0",
			Geometry: document.Circle{Center: geom.Pt(float64(i), 0), Radius: 1},
		}
	}
	return els
}

func TestUndoRedoInverse(t *testing.T) {
	h := New(0)
	const n = 8
	for i := 0; i <= n; i++ {
		h.Commit(state(i))
	}

	for i := n - 1; i >= 0; i-- {
		got, ok := h.Undo()
		if !ok {
			t.Fatalf("Undo() to %d reported no-op", i)
		}
		if !document.Equal(got, state(i)) {
			t.Fatalf("Undo() to %d = %d elements", i, len(got))
		}
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() past the first snapshot succeeded")
	}

	for i := 1; i <= n; i++ {
		got, ok := h.Redo()
		if !ok || !document.Equal(got, state(i)) {
			t.Fatalf("Redo() to %d = %d elements, ok %v", i, len(got), ok)
		}
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() past the last snapshot succeeded")
	}
}

func TestCommitTruncatesRedoTail(t *testing.T) {
	h := New(10)
	h.Commit(state(0))
	h.Commit(state(1))
	h.Commit(state(2))
	h.Undo()
	h.Undo()
	h.Commit(state(5))

	if h.Len() != 2 || h.Cursor() != 1 {
		t.Fatalf("Len() = %d, Cursor() = %d; want 2, 1", h.Len(), h.Cursor())
	}
	if h.CanRedo() {
		t.Error("CanRedo() after commit")
	}
	if got := h.Current(); len(got) != 5 {
		t.Errorf("Current() has %d elements, want 5", len(got))
	}
}

func TestBound(t *testing.T) {
	h := New(DefaultLimit)
	for i := 0; i < 60; i++ {
		h.Commit(state(i))
	}
	if h.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", h.Len())
	}
	if h.Cursor() != 49 {
		t.Errorf("Cursor() = %d, want 49", h.Cursor())
	}
	oldest, _ := h.At(0)
	if len(oldest) != 10 {
		t.Errorf("oldest snapshot has %d elements, want 10", len(oldest))
	}
	if len(h.Current()) != 59 {
		t.Errorf("Current() has %d elements, want 59", len(h.Current()))
	}
}

func TestCommitCopies(t *testing.T) {
	h := New(0)
	els := state(2)
	h.Commit(els)
	els[0] = els[0].WithGeometry(document.Line{})
	if _, ok := h.Current()[0].Geometry.(document.Circle); !ok {
		t.Error("caller mutation leaked into history")
	}
}

func TestEmpty(t *testing.T) {
	h := New(0)
	if h.Current() != nil || h.Cursor() != -1 || h.CanUndo() || h.CanRedo() {
		t.Errorf("empty history: cursor %d", h.Cursor())
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history succeeded")
	}
}
