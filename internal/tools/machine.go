// Package tools turns pointer and keyboard input into committed drawing
// changes. A Machine holds the in-progress gesture of the active tool as an
// explicit state; nothing it holds is visible in the committed drawing until
// a gesture completes.
package tools

import (
	"errors"
	"fmt"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
	"github.com/inamate/draft/internal/snap"
)

// ErrUnknownTool is returned when a tool name is not recognised.
var ErrUnknownTool = errors.New("unknown tool")

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolPolyline  Tool = "polyline"
	ToolArc       Tool = "arc"
	ToolDimension Tool = "dimension"
	ToolMove      Tool = "move"
	ToolCopy      Tool = "copy"
	ToolMirror    Tool = "mirror"
	ToolRotate    Tool = "rotate"
	ToolMeasure   Tool = "measure"
	ToolPan       Tool = "pan"
	ToolErase     Tool = "erase"
)

var allTools = []Tool{
	ToolSelect, ToolLine, ToolRectangle, ToolCircle, ToolPolyline, ToolArc,
	ToolDimension, ToolMove, ToolCopy, ToolMirror, ToolRotate, ToolMeasure,
	ToolPan, ToolErase,
}

// Tools lists every tool the machine understands.
func Tools() []Tool {
	out := make([]Tool, len(allTools))
	copy(out, allTools)
	return out
}

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	for _, t := range allTools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

type State string

const (
	StateIdle        State = "IDLE"
	StateDrawing     State = "DRAWING"
	StatePolyline    State = "MULTI_POINT_POLYLINE"
	StateArc         State = "MULTI_POINT_ARC"
	StateDimension   State = "MULTI_POINT_DIMENSION"
	StateSelectBox   State = "SELECT_BOX"
	StateMoveItems   State = "MOVE_ITEMS"
	StateCopyItems   State = "COPY_ITEMS"
	StateMirrorLine  State = "MIRROR_LINE"
	StateRotateItems State = "ROTATE_ITEMS"
	StateMeasure     State = "MEASURE"
	StatePan         State = "PAN"
)

type EventKind string

const (
	PointerDown EventKind = "pointerdown"
	PointerMove EventKind = "pointermove"
	PointerUp   EventKind = "pointerup"
	Finish      EventKind = "finish"
	Cancel      EventKind = "cancel"
)

// Button values follow the DOM convention.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 2
)

// Event is one input in model-space coordinates.
type Event struct {
	Kind   EventKind  `json:"kind"`
	Point  geom.Point `json:"point"`
	Button int        `json:"button,omitempty"`
	Shift  bool       `json:"shift,omitempty"`
}

// Measurement is the transient readout of the measure tool.
type Measurement struct {
	From     geom.Point `json:"from"`
	To       geom.Point `json:"to"`
	Distance float64    `json:"distance"`
	DX       float64    `json:"dx"`
	DY       float64    `json:"dy"`
	Angle    float64    `json:"angle"`
}

// Outcome is what one event produced. Elements is the complete post-gesture
// element set and is nil when there is nothing to commit. Selection is nil
// when the selection is unchanged. Err reports a discarded gesture.
type Outcome struct {
	Elements    []document.Element
	Selection   *document.Selection
	Measurement *Measurement
	Pan         geom.Point
	Err         error
}

// Commits reports whether the outcome carries a new element set.
func (o Outcome) Commits() bool {
	return o.Elements != nil
}

// Config holds the machine's drawing aids and element defaults.
type Config struct {
	Snap         snap.Options
	MinDrag      float64
	HitTolerance float64
	IDs          document.IDGenerator
	Layer        string
	Color        string
}

// DefaultConfig returns object snap on, a 2-unit drag threshold and a
// 5-unit pick tolerance.
func DefaultConfig(ids document.IDGenerator) Config {
	return Config{
		Snap:         snap.DefaultOptions(),
		MinDrag:      2,
		HitTolerance: 5,
		IDs:          ids,
	}
}

// Machine is the interaction state machine for one drawing.
type Machine struct {
	cfg   Config
	tool  Tool
	state State

	anchor  geom.Point
	current geom.Point
	points  []geom.Point

	// rotate: centre chosen and whether the release gesture has begun
	center    *geom.Point
	armed     bool
	targets   []document.Element
	indicator *snap.Candidate
}

// NewMachine returns an idle machine with the select tool active.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg, tool: ToolSelect, state: StateIdle}
}

func (m *Machine) Tool() Tool                 { return m.tool }
func (m *Machine) State() State               { return m.state }
func (m *Machine) Config() Config             { return m.cfg }
func (m *Machine) Indicator() *snap.Candidate { return m.indicator }

// Points returns a copy of the accumulated multi-click points.
func (m *Machine) Points() []geom.Point {
	return append([]geom.Point(nil), m.points...)
}

// SetConfig replaces the aids and defaults. The current gesture is kept.
func (m *Machine) SetConfig(cfg Config) {
	m.cfg = cfg
}

// SetSnap replaces the snap options only.
func (m *Machine) SetSnap(opts snap.Options) {
	m.cfg.Snap = opts
}

// SetTool switches tools and drops any in-progress gesture.
func (m *Machine) SetTool(t Tool) {
	m.tool = t
	m.Reset()
}

// Reset discards the in-progress gesture and returns to IDLE.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.points = nil
	m.center = nil
	m.armed = false
	m.targets = nil
	m.indicator = nil
}

// Handle feeds one event to the machine. els and sel are the committed set
// and the current selection; neither is modified.
func (m *Machine) Handle(ev Event, els []document.Element, sel document.Selection) Outcome {
	switch ev.Kind {
	case Cancel:
		m.Reset()
		return Outcome{}
	case Finish:
		return m.finish(els)
	}

	// Only the primary button drives gestures; a secondary press finishes a
	// polyline.
	if (ev.Kind == PointerDown || ev.Kind == PointerUp) && ev.Button != ButtonPrimary {
		if ev.Kind == PointerDown && ev.Button == ButtonSecondary && m.state == StatePolyline {
			return m.finish(els)
		}
		return Outcome{}
	}

	switch m.tool {
	case ToolSelect:
		return m.handleSelect(ev, els, sel)
	case ToolLine, ToolRectangle, ToolCircle:
		return m.handleDrag(ev, els)
	case ToolPolyline:
		return m.handlePolyline(ev, els)
	case ToolArc:
		return m.handleArc(ev, els)
	case ToolDimension:
		return m.handleDimension(ev, els)
	case ToolMove, ToolCopy:
		return m.handleMoveCopy(ev, els, sel)
	case ToolMirror:
		return m.handleMirror(ev, els, sel)
	case ToolRotate:
		return m.handleRotate(ev, els, sel)
	case ToolMeasure:
		return m.handleMeasure(ev, els)
	case ToolPan:
		return m.handlePan(ev)
	case ToolErase:
		return m.handleErase(ev, els, sel)
	}
	return Outcome{}
}

// snapTo resolves raw against the committed set and records the indicator.
func (m *Machine) snapTo(raw geom.Point, els []document.Element, anchor *geom.Point) geom.Point {
	r := snap.Resolve(raw, els, anchor, m.cfg.Snap)
	m.indicator = r.Indicator
	return r.Point
}

func (m *Machine) newElement(g document.Geometry) document.Element {
	return document.New(m.cfg.IDs, m.cfg.Layer, m.cfg.Color, g)
}

func (m *Machine) dragged() bool {
	return geom.Distance(m.anchor, m.current) > m.cfg.MinDrag
}

func (m *Machine) lastPoint() *geom.Point {
	if len(m.points) == 0 {
		return nil
	}
	p := m.points[len(m.points)-1]
	return &p
}
