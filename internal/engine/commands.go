package engine

import (
	"encoding/json"

	"github.com/drawkit/drawkit/internal/geom"
)

// Draw command operations.
const (
	OpClear    = "clear"
	OpLine     = "line"
	OpPolyline = "polyline"
	OpPolygon  = "polygon"
	OpArc      = "arc"
)

const defaultColor = "black"

// DrawCommand represents a single drawing operation in canvas pixel space.
// Hosts either replay them onto a Surface or ship them to a browser as JSON.
type DrawCommand struct {
	Op          string       `json:"op"`
	ObjectID    string       `json:"objectId,omitempty"` // For hit correlation
	Points      [][2]float64 `json:"points,omitempty"`   // Line ends, polyline/polygon vertices, arc center
	Fill        string       `json:"fill,omitempty"`
	Stroke      string       `json:"stroke,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
	Radius      float64      `json:"radius,omitempty"`
	StartAngle  float64      `json:"startAngle,omitempty"`
	EndAngle    float64      `json:"endAngle,omitempty"`
}

// Surface is a pixel-addressable 2D drawing target.
type Surface interface {
	Clear()
	Line(a, b geom.Cartesian, stroke string, width float64)
	Polyline(points []geom.Cartesian, stroke string, width float64)
	Polygon(points []geom.Cartesian, fill string)
	Arc(center geom.Cartesian, radius, startAngle, endAngle float64, stroke string, width float64)
}

// Projector maps world coordinates to canvas pixels.
type Projector interface {
	RealToCanvas(p geom.Cartesian, depth float64) geom.Cartesian
}

func ClearCommand() DrawCommand {
	return DrawCommand{Op: OpClear}
}

func LineCommand(a, b geom.Cartesian, stroke string, width float64) DrawCommand {
	return DrawCommand{Op: OpLine, Points: pairs([]geom.Cartesian{a, b}), Stroke: stroke, StrokeWidth: width}
}

func PolylineCommand(points []geom.Cartesian, stroke string, width float64) DrawCommand {
	return DrawCommand{Op: OpPolyline, Points: pairs(points), Stroke: stroke, StrokeWidth: width}
}

func PolygonCommand(points []geom.Cartesian, fill string) DrawCommand {
	return DrawCommand{Op: OpPolygon, Points: pairs(points), Fill: fill}
}

func ArcCommand(center geom.Cartesian, radius, start, end float64, stroke string, width float64) DrawCommand {
	return DrawCommand{
		Op:          OpArc,
		Points:      pairs([]geom.Cartesian{center}),
		Radius:      radius,
		StartAngle:  start,
		EndAngle:    end,
		Stroke:      stroke,
		StrokeWidth: width,
	}
}

// CompileDrawCommands projects the scene's polygons in painter's order (back
// to front). LineOnly polygons become polylines, the rest filled polygons.
func CompileDrawCommands(sg *SceneGraph, proj Projector) []DrawCommand {
	if sg == nil || sg.Root == nil {
		return nil
	}

	polygons := sg.DrawOrder()
	commands := make([]DrawCommand, 0, len(polygons))
	for _, p := range polygons {
		points := make([]geom.Cartesian, len(p.Points))
		for i, pt := range p.Points {
			points[i] = proj.RealToCanvas(pt, 0)
		}
		var cmd DrawCommand
		if p.LineOnly {
			cmd = PolylineCommand(points, p.Color, 1)
		} else {
			cmd = PolygonCommand(points, p.Color)
		}
		cmd.ObjectID = p.Original
		commands = append(commands, cmd)
	}
	return commands
}

// Replay executes commands against a surface in order.
// Empty colors fall back to black.
func Replay(commands []DrawCommand, s Surface) {
	for _, cmd := range commands {
		switch cmd.Op {
		case OpClear:
			s.Clear()
		case OpLine:
			if len(cmd.Points) >= 2 {
				s.Line(geom.FromPair(cmd.Points[0]), geom.FromPair(cmd.Points[1]), color(cmd.Stroke), cmd.StrokeWidth)
			}
		case OpPolyline:
			if len(cmd.Points) > 0 {
				s.Polyline(points(cmd.Points), color(cmd.Stroke), cmd.StrokeWidth)
			}
		case OpPolygon:
			if len(cmd.Points) > 0 {
				s.Polygon(points(cmd.Points), color(cmd.Fill))
			}
		case OpArc:
			if len(cmd.Points) > 0 {
				s.Arc(geom.FromPair(cmd.Points[0]), cmd.Radius, cmd.StartAngle, cmd.EndAngle, color(cmd.Stroke), cmd.StrokeWidth)
			}
		}
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

func pairs(points []geom.Cartesian) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = p.Pair()
	}
	return out
}

func points(ps [][2]float64) []geom.Cartesian {
	out := make([]geom.Cartesian, len(ps))
	for i, p := range ps {
		out[i] = geom.FromPair(p)
	}
	return out
}

func color(c string) string {
	if c == "" {
		return defaultColor
	}
	return c
}
