// Package engine is the single dispatch point of a drawing session. It owns
// the committed element set through its history, the selection, the active
// tool and the command executor, and makes exactly one history entry per
// user-visible change.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/history"
	"github.com/inamate/draft/internal/hittest"
	"github.com/inamate/draft/internal/snap"
	"github.com/inamate/draft/internal/tools"
	"github.com/inamate/draft/internal/transform"
	"github.com/inamate/draft/internal/typeid"
)

// Keyboard shortcuts delivered through HandleEvent next to pointer input.
const (
	KeyUndo   tools.EventKind = "undo"
	KeyRedo   tools.EventKind = "redo"
	KeyDelete tools.EventKind = "delete"
)

// ErrNothingToDelete is returned by DeleteSelection with an empty selection.
var ErrNothingToDelete = fmt.Errorf("delete selection: %w", transform.ErrEmptyTarget)

// Options configure a new engine. Zero values fall back to defaults.
type Options struct {
	HistoryLimit int
	Tools        tools.Config
	Registry     *command.Registry
	Logger       *slog.Logger
}

// Engine holds one drawing's editing state. It is not safe for concurrent
// use; hosts serialise access per drawing.
type Engine struct {
	history   *history.History
	elements  []document.Element
	selection document.Selection

	machine  *tools.Machine
	executor *command.Executor
	logger   *slog.Logger

	// revision counts changes to the committed set, undo and redo included
	revision uint64

	// View state, never part of the drawing
	pan         geom.Point
	measurement *tools.Measurement
}

// New returns an engine holding an empty drawing.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Tools
	if cfg.IDs == nil {
		cfg.IDs = typeid.Elements()
	}
	reg := opts.Registry
	if reg == nil {
		reg = command.NewRegistry()
	}

	e := &Engine{
		history:  history.New(opts.HistoryLimit),
		machine:  tools.NewMachine(cfg),
		executor: command.NewExecutor(reg, cfg.IDs, logger),
		logger:   logger,
	}
	e.history.Commit(nil)
	return e
}

// Update reports what one event did.
type Update struct {
	Committed   bool               `json:"committed"`
	Selection   []string           `json:"selection"`
	Measurement *tools.Measurement `json:"measurement,omitempty"`
	Pan         geom.Point         `json:"pan"`
	Error       string             `json:"error,omitempty"`
}

// --- Commands (host → engine) ---

// Load replaces the drawing with els and starts a fresh history whose only
// entry is els. The selection and any gesture are dropped.
func (e *Engine) Load(els []document.Element) error {
	if err := document.ValidateSet(els); err != nil {
		return fmt.Errorf("load drawing: %w", err)
	}
	e.history = history.New(e.history.Limit())
	e.history.Commit(els)
	e.elements = slices.Clone(els)
	e.selection = document.Selection{}
	e.machine.Reset()
	e.measurement = nil
	e.revision++
	return nil
}

// SetSelection replaces the selection. Unknown ids are dropped.
func (e *Engine) SetSelection(ids []string) {
	e.selection = document.NewSelection(ids...).Prune(e.elements)
}

// SetTool activates a tool by name and abandons any gesture in progress.
func (e *Engine) SetTool(name string) error {
	t, err := tools.ParseTool(name)
	if err != nil {
		return err
	}
	e.machine.SetTool(t)
	e.measurement = nil
	return nil
}

// SetSnap replaces the drawing aids.
func (e *Engine) SetSnap(opts snap.Options) {
	e.machine.SetSnap(opts)
}

// HandleEvent feeds one input event to the engine. Pointer, finish and
// cancel events go to the active tool; undo, redo and delete act directly.
func (e *Engine) HandleEvent(ev tools.Event) Update {
	switch ev.Kind {
	case KeyUndo:
		return e.update(e.Undo(), nil)
	case KeyRedo:
		return e.update(e.Redo(), nil)
	case KeyDelete:
		err := e.DeleteSelection()
		return e.update(err == nil, err)
	}

	out := e.machine.Handle(ev, e.elements, e.selection)
	committed := false
	if out.Commits() {
		e.commit(out.Elements)
		committed = true
	}
	if out.Selection != nil {
		e.selection = out.Selection.Prune(e.elements)
	}
	e.pan = e.pan.Add(out.Pan)
	if out.Measurement != nil || ev.Kind == tools.Cancel {
		e.measurement = out.Measurement
	}
	if out.Err != nil {
		e.logger.Info("gesture discarded", "tool", e.machine.Tool(), "error", out.Err)
	}
	return e.update(committed, out.Err)
}

// Undo steps back one history entry. It reports whether anything changed.
func (e *Engine) Undo() bool {
	s, ok := e.history.Undo()
	if ok {
		e.restore(s)
	}
	return ok
}

// Redo steps forward one history entry.
func (e *Engine) Redo() bool {
	s, ok := e.history.Redo()
	if ok {
		e.restore(s)
	}
	return ok
}

// DeleteSelection removes the selected elements as one history entry.
func (e *Engine) DeleteSelection() error {
	sel := e.selection.Prune(e.elements)
	if sel.IsEmpty() {
		return ErrNothingToDelete
	}
	e.commit(document.Remove(e.elements, sel.IDs()))
	e.selection = document.Selection{}
	return nil
}

// Execute runs a command batch. A successful batch that changed the drawing
// is committed as one history entry; a failed batch commits nothing.
func (e *Engine) Execute(cmds []command.Command) command.Result {
	res := e.executor.Execute(cmds, e.elements, e.selection)
	if !res.Success {
		e.logger.Info("command batch rejected", "commands", len(cmds), "error", res.Error)
		return res
	}
	if !document.Equal(res.Elements, e.elements) {
		e.commit(res.Elements)
	}
	res.Elements = e.Elements()
	return res
}

func (e *Engine) commit(els []document.Element) {
	e.history.Commit(els)
	e.elements = slices.Clone(els)
	e.selection = e.selection.Prune(e.elements)
	e.revision++
	e.logger.Debug("drawing committed", "elements", len(els), "cursor", e.history.Cursor())
}

func (e *Engine) restore(s history.Snapshot) {
	e.elements = slices.Clone(s)
	e.selection = e.selection.Prune(e.elements)
	e.machine.Reset()
	e.revision++
}

func (e *Engine) update(committed bool, err error) Update {
	u := Update{
		Committed:   committed,
		Selection:   e.selectionIDs(),
		Measurement: e.measurement,
		Pan:         e.pan,
	}
	if err != nil {
		u.Error = err.Error()
	}
	return u
}

func (e *Engine) selectionIDs() []string {
	ids := e.selection.IDs()
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// --- Queries (engine → host) ---

// Elements returns a copy of the committed element set.
func (e *Engine) Elements() []document.Element {
	return slices.Clone(e.elements)
}

// Selection returns the current selection.
func (e *Engine) Selection() document.Selection {
	return e.selection
}

func (e *Engine) Tool() tools.Tool {
	return e.machine.Tool()
}

// Preview describes the gesture in progress.
func (e *Engine) Preview() tools.Preview {
	return e.machine.Preview()
}

// Indicator is the object-snap candidate under the cursor, if any.
func (e *Engine) Indicator() *snap.Candidate {
	return e.machine.Indicator()
}

// Measurement is the last readout of the measure tool.
func (e *Engine) Measurement() *tools.Measurement {
	return e.measurement
}

// Pan is the accumulated view offset.
func (e *Engine) Pan() geom.Point {
	return e.pan
}

// SelectionBounds returns the union of the selected elements' bounds.
func (e *Engine) SelectionBounds() (geom.Rect, bool) {
	return hittest.SelectionBounds(e.selection.Elements(e.elements))
}

// HitTest returns the id of the topmost element within the tool's hit
// tolerance of p.
func (e *Engine) HitTest(p geom.Point) (string, bool) {
	return hittest.Top(e.elements, p, e.machine.Config().HitTolerance)
}

// Registry lists the actions Execute understands.
func (e *Engine) Registry() *command.Registry {
	return e.executor.Registry()
}

// Revision changes whenever the committed set does.
func (e *Engine) Revision() uint64 { return e.revision }

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// State is a full picture of the session for hosts that broadcast it.
type State struct {
	Elements  []document.Element `json:"elements"`
	Selection []string           `json:"selection"`
	Tool      tools.Tool         `json:"tool"`
	ToolState tools.State        `json:"toolState"`
	CanUndo   bool               `json:"canUndo"`
	CanRedo   bool               `json:"canRedo"`
	Pan       geom.Point         `json:"pan"`
	Revision  uint64             `json:"revision"`
}

func (e *Engine) State() State {
	els := e.Elements()
	if els == nil {
		els = []document.Element{}
	}
	return State{
		Elements:  els,
		Selection: e.selectionIDs(),
		Tool:      e.machine.Tool(),
		ToolState: e.machine.State(),
		CanUndo:   e.history.CanUndo(),
		CanRedo:   e.history.CanRedo(),
		Pan:       e.pan,
		Revision:  e.revision,
	}
}
