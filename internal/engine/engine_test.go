package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/tools"
	"github.com/inamate/draft/internal/transform"
)

func newEngine(t *testing.T, els ...document.Element) *Engine {
	t.Helper()
	e := New(Options{
		Tools:  tools.DefaultConfig(document.NewCounter("el")),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := e.Load(els); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return e
}

func baseLine() document.Element {
	return document.Element{ID: "l", Layer: "0", Geometry: document.Line{Start: geom.Pt(0, 0), End: geom.Pt(100, 0)}}
}

func ev(kind tools.EventKind, x, y float64) tools.Event {
	return tools.Event{Kind: kind, Point: geom.Pt(x, y)}
}

func TestExecuteRotateIsOneHistoryEntry(t *testing.T) {
	e := newEngine(t, baseLine())
	e.SetSelection([]string{"l"})

	res := e.Execute([]command.Command{{
		Action: "ROTATE",
		Params: map[string]any{"center": map[string]any{"x": 0.0, "y": 0.0}, "angle": 90.0},
	}})
	if !res.Success {
		t.Fatalf("Execute() error = %v", res.Error)
	}
	l := e.Elements()[0].Geometry.(document.Line)
	if !l.Start.Equal(geom.Pt(0, 0), 1e-9) || !l.End.Equal(geom.Pt(0, 100), 1e-9) {
		t.Errorf("rotated line = %+v, want (0,0)-(0,100)", l)
	}

	if !e.Undo() {
		t.Fatal("Undo() = false")
	}
	if !document.Equal(e.Elements(), []document.Element{baseLine()}) {
		t.Errorf("after undo elements = %+v", e.Elements())
	}
	if e.CanUndo() {
		t.Error("batch made more than one history entry")
	}
	if !e.Redo() {
		t.Fatal("Redo() = false")
	}
	if got := e.Elements()[0].Geometry.(document.Line); got != l {
		t.Errorf("after redo line = %+v, want %+v", got, l)
	}
}

func TestExecuteWithoutCommit(t *testing.T) {
	tests := []struct {
		name    string
		cmds    []command.Command
		success bool
	}{
		{
			name: "failed batch",
			cmds: []command.Command{
				{Action: "LINE", Params: map[string]any{"start": []any{0.0, 0.0}, "end": []any{5.0, 5.0}}},
				{Action: "CIRCLE", Params: map[string]any{"center": []any{0.0, 0.0}, "radius": -1.0}},
			},
		},
		{
			name:    "measurement only",
			cmds:    []command.Command{{Action: "DISTANCE", Params: map[string]any{"from": []any{0.0, 0.0}, "to": []any{1.0, 0.0}}}},
			success: true,
		},
		{
			name:    "empty batch",
			success: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, baseLine())
			res := e.Execute(tt.cmds)
			if res.Success != tt.success {
				t.Fatalf("Success = %v, want %v", res.Success, tt.success)
			}
			if e.CanUndo() {
				t.Error("batch committed a history entry")
			}
			if !document.Equal(e.Elements(), []document.Element{baseLine()}) {
				t.Errorf("elements changed: %+v", e.Elements())
			}
		})
	}
}

func TestGestureCommitsOnce(t *testing.T) {
	e := newEngine(t)
	if err := e.SetTool("line"); err != nil {
		t.Fatal(err)
	}
	e.HandleEvent(ev(tools.PointerDown, 0, 0))
	if u := e.HandleEvent(ev(tools.PointerMove, 50, 0)); u.Committed {
		t.Fatal("move committed")
	}
	if len(e.Preview().Shapes) != 1 {
		t.Error("no preview while dragging")
	}
	if len(e.Elements()) != 0 {
		t.Error("preview leaked into the drawing")
	}
	if u := e.HandleEvent(ev(tools.PointerUp, 50, 0)); !u.Committed {
		t.Fatal("release did not commit")
	}
	if n := len(e.Elements()); n != 1 {
		t.Fatalf("got %d elements, want 1", n)
	}

	if u := e.HandleEvent(tools.Event{Kind: KeyUndo}); !u.Committed {
		t.Error("undo reported no change")
	}
	if len(e.Elements()) != 0 || e.CanUndo() {
		t.Error("undo did not return to the empty drawing")
	}
	e.HandleEvent(tools.Event{Kind: KeyRedo})
	if len(e.Elements()) != 1 {
		t.Error("redo did not restore the line")
	}
}

func TestCollinearArcDoesNotCommit(t *testing.T) {
	e := newEngine(t)
	if err := e.SetTool("arc"); err != nil {
		t.Fatal(err)
	}
	e.HandleEvent(ev(tools.PointerDown, 0, 0))
	e.HandleEvent(ev(tools.PointerDown, 50, 0))
	u := e.HandleEvent(ev(tools.PointerDown, 100, 0))
	if u.Committed || u.Error == "" {
		t.Errorf("update = %+v, want an error and no commit", u)
	}
	if e.CanUndo() || len(e.Elements()) != 0 {
		t.Error("collinear arc changed the drawing")
	}
	if e.Preview().State != tools.StateIdle {
		t.Error("machine not reset after rejected arc")
	}
}

func TestDeleteSelection(t *testing.T) {
	e := newEngine(t)
	if err := e.DeleteSelection(); !errors.Is(err, transform.ErrEmptyTarget) {
		t.Errorf("empty selection: err = %v", err)
	}
	if u := e.HandleEvent(tools.Event{Kind: KeyDelete}); u.Committed || u.Error != ErrNothingToDelete.Error() {
		t.Errorf("delete key with nothing selected = %+v, want error %q", u, ErrNothingToDelete)
	}
	if e.CanUndo() {
		t.Error("empty delete added a history entry")
	}

	e = newEngine(t, baseLine())
	e.SetSelection([]string{"l", "ghost"})
	if ids := e.Selection().IDs(); len(ids) != 1 {
		t.Fatalf("selection = %v, unknown ids should be dropped", ids)
	}
	if u := e.HandleEvent(tools.Event{Kind: KeyDelete}); !u.Committed {
		t.Fatal("delete key did not commit")
	}
	if len(e.Elements()) != 0 || !e.Selection().IsEmpty() {
		t.Error("selection not deleted")
	}
	e.Undo()
	if len(e.Elements()) != 1 {
		t.Error("undo did not restore deleted element")
	}
}

func TestUndoPrunesSelection(t *testing.T) {
	e := newEngine(t)
	res := e.Execute([]command.Command{{Action: "CIRCLE", Params: map[string]any{"center": []any{0.0, 0.0}, "radius": 5.0}}})
	if !res.Success {
		t.Fatal(res.Error)
	}
	e.SetSelection([]string{"el_1"})
	e.Undo()
	if !e.Selection().IsEmpty() {
		t.Errorf("selection = %v after undo, want empty", e.Selection().IDs())
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	e := newEngine(t)
	err := e.Load([]document.Element{baseLine(), baseLine()})
	if !errors.Is(err, document.ErrDuplicateID) {
		t.Errorf("Load() error = %v, want ErrDuplicateID", err)
	}
}

func TestSetToolUnknown(t *testing.T) {
	e := newEngine(t)
	if err := e.SetTool("lasso"); !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("SetTool() error = %v", err)
	}
	if e.Tool() != tools.ToolSelect {
		t.Errorf("tool = %s, want select", e.Tool())
	}
}

func TestPanAccumulates(t *testing.T) {
	e := newEngine(t, baseLine())
	if err := e.SetTool("pan"); err != nil {
		t.Fatal(err)
	}
	e.HandleEvent(ev(tools.PointerDown, 0, 0))
	e.HandleEvent(ev(tools.PointerMove, 10, 5))
	u := e.HandleEvent(ev(tools.PointerUp, 12, 5))
	if u.Committed || e.CanUndo() {
		t.Error("pan committed")
	}
	if u.Pan != geom.Pt(12, 5) {
		t.Errorf("pan = %v, want (12,5)", u.Pan)
	}
}

func TestQueries(t *testing.T) {
	e := newEngine(t, baseLine())
	if id, ok := e.HitTest(geom.Pt(50, 2)); !ok || id != "l" {
		t.Errorf("HitTest() = %q, %v", id, ok)
	}
	if _, ok := e.SelectionBounds(); ok {
		t.Error("bounds of an empty selection")
	}
	e.SetSelection([]string{"l"})
	b, ok := e.SelectionBounds()
	if !ok || b.Width != 100 || b.Height != 0 {
		t.Errorf("SelectionBounds() = %+v, %v", b, ok)
	}

	cmds := e.Render()
	if len(cmds) != 2 || cmds[0].Role != RoleElement || cmds[1].Role != RoleSelected {
		t.Fatalf("Render() = %+v", cmds)
	}
	if len(cmds[0].Path) != 2 || cmds[0].Path[0][0] != "M" {
		t.Errorf("line path = %v", cmds[0].Path)
	}

	s := e.State()
	if len(s.Elements) != 1 || len(s.Selection) != 1 || s.CanUndo {
		t.Errorf("State() = %+v", s)
	}
}
