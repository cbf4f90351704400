package engine

import (
	"encoding/json"
	"strconv"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

// Roles tell the frontend how to style a draw command.
const (
	RoleElement   = "element"
	RoleSelected  = "selected"
	RolePreview   = "preview"
	RoleBox       = "box"
	RoleIndicator = "indicator"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op       string        `json:"op"`                 // "path" or "text"
	ObjectID string        `json:"objectId,omitempty"` // For hit correlation
	Role     string        `json:"role"`
	Layer    string        `json:"layer,omitempty"`
	Stroke   string        `json:"stroke,omitempty"`
	Path     []PathCommand `json:"path,omitempty"`
	Text     string        `json:"text,omitempty"`
	X        float64       `json:"x,omitempty"`
	Y        float64       `json:"y,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Rotation float64       `json:"rotation,omitempty"` // degrees
}

// PathCommand is one path segment: ["M", x, y], ["L", x, y] or ["Z"].
type PathCommand []any

// indicatorSize is the half-width of the snap marker in model units.
const indicatorSize = 4

// Render compiles the committed drawing, the selection, the gesture preview
// and the snap indicator into draw commands in painter's order.
func (e *Engine) Render() []DrawCommand {
	commands := CompileDrawCommands(e.elements, RoleElement)
	commands = append(commands, CompileDrawCommands(e.selection.Elements(e.elements), RoleSelected)...)

	p := e.machine.Preview()
	commands = append(commands, CompileDrawCommands(p.Shapes, RolePreview)...)
	if p.Box != nil {
		commands = append(commands, DrawCommand{
			Op:   "path",
			Role: RoleBox,
			Path: pathOf(rectPoints(*p.Box), true),
		})
	}
	if c := e.machine.Indicator(); c != nil {
		commands = append(commands, DrawCommand{
			Op:       "path",
			ObjectID: c.ElementID,
			Role:     RoleIndicator,
			Text:     string(c.Kind),
			Path:     pathOf(rectPoints(marker(c.Point)), true),
		})
	}
	return commands
}

// CompileDrawCommands generates draw commands for els in set order.
func CompileDrawCommands(els []document.Element, role string) []DrawCommand {
	var commands []DrawCommand
	for _, el := range els {
		commands = append(commands, compileElement(el, role)...)
	}
	return commands
}

func compileElement(el document.Element, role string) []DrawCommand {
	base := DrawCommand{ObjectID: el.ID, Role: role, Layer: el.Layer, Stroke: el.Color}

	switch g := el.Geometry.(type) {
	case document.Text:
		cmd := base
		cmd.Op = "text"
		cmd.Text = g.Content
		cmd.X, cmd.Y = g.Position.X, g.Position.Y
		cmd.Height = g.Height
		cmd.Rotation = g.Rotation
		return []DrawCommand{cmd}

	case document.BlockReference:
		// Block definitions live outside the drawing; show the insert marker.
		cmd := base
		cmd.Op = "path"
		cmd.Text = g.Name
		cmd.Path = pathOf(rectPoints(marker(g.Insert)), true)
		return []DrawCommand{cmd}

	case document.Dimension:
		a, b := g.DimensionLine()
		line := base
		line.Op = "path"
		line.Path = pathOf([]geom.Point{g.Start, a, b, g.End}, false)
		label := base
		label.Op = "text"
		label.Text = strconv.FormatFloat(g.Value(), 'f', 2, 64)
		mid := a.Midpoint(b)
		label.X, label.Y = mid.X, mid.Y
		label.Height = dimensionTextHeight
		label.Rotation = geom.Degrees(geom.AngleOf(a, b))
		return []DrawCommand{line, label}
	}

	pts := document.Outline(el.Geometry)
	if len(pts) < 2 {
		return nil
	}
	cmd := base
	cmd.Op = "path"
	cmd.Path = pathOf(pts, false)
	return []DrawCommand{cmd}
}

const dimensionTextHeight = 8

func pathOf(pts []geom.Point, closed bool) []PathCommand {
	path := make([]PathCommand, 0, len(pts)+1)
	for i, p := range pts {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	if closed {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

func marker(p geom.Point) geom.Rect {
	return geom.Rect{X: p.X - indicatorSize, Y: p.Y - indicatorSize, Width: 2 * indicatorSize, Height: 2 * indicatorSize}
}

func rectPoints(r geom.Rect) []geom.Point {
	return []geom.Point{
		geom.Pt(r.X, r.Y),
		geom.Pt(r.X+r.Width, r.Y),
		geom.Pt(r.X+r.Width, r.Y+r.Height),
		geom.Pt(r.X, r.Y+r.Height),
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
