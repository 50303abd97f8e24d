package editor

import (
	"math"

	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
)

const (
	borderColor    = "black"
	borderWidth    = 2
	cursorColor    = "white"
	cursorRadius   = 4
	cursorWidth    = 2
	highlightColor = "yellow"
	highlightWidth = 2
	markerRadius   = 6
	previewColor   = "white"
)

// Frame returns the draw commands for one frame in canvas pixels: the canvas
// border, the drawing in layer order, the selection highlight, the preview of
// the active tool and the cursor.
func (s *Session) Frame() []engine.DrawCommand {
	w, h := s.camera.Canvas()
	cmds := []engine.DrawCommand{
		engine.ClearCommand(),
		engine.LineCommand(geom.XY(0, 0), geom.XY(w, 0), borderColor, borderWidth),
		engine.LineCommand(geom.XY(0, 0), geom.XY(0, h), borderColor, borderWidth),
		engine.LineCommand(geom.XY(w, 0), geom.XY(w, h), borderColor, borderWidth),
		engine.LineCommand(geom.XY(0, h), geom.XY(w, h), borderColor, borderWidth),
	}
	cmds = append(cmds, engine.CompileDrawCommands(s.scene, s.camera)...)
	cmds = append(cmds, s.highlight()...)
	cmds = append(cmds, s.preview()...)
	cmds = append(cmds, circle(s.input.Mouse(), cursorRadius, cursorColor, cursorWidth))
	return cmds
}

func (s *Session) highlight() []engine.DrawCommand {
	switch n := s.Selected().(type) {
	case *engine.EvaluatedShape:
		return []engine.DrawCommand{circle(s.project(n.Origin), markerRadius, highlightColor, highlightWidth)}
	case *engine.EvaluatedPolygon:
		points := s.projectAll(n.Points)
		if len(points) > 1 {
			points = append(points, points[0])
		}
		cmds := []engine.DrawCommand{engine.PolylineCommand(points, highlightColor, highlightWidth)}
		if s.sel.point > 0 {
			cmds = append(cmds, circle(points[s.sel.point-1], markerRadius, highlightColor, highlightWidth))
		}
		return cmds
	}
	return nil
}

func (s *Session) preview() []engine.DrawCommand {
	cursor := s.project(s.Cursor())
	switch s.tool {
	case DrawPolygon, DrawLine:
		points := append(s.projectAll(s.buffer), cursor)
		return []engine.DrawCommand{engine.PolylineCommand(points, previewColor, 1)}
	case CreateShape:
		return []engine.DrawCommand{circle(cursor, markerRadius, previewColor, 1)}
	case Move:
		return []engine.DrawCommand{engine.LineCommand(s.project(s.anchor), cursor, previewColor, 1)}
	case CreatePoint:
		p, ok := s.Selected().(*engine.EvaluatedPolygon)
		if !ok || len(p.Points) == 0 {
			return nil
		}
		points := s.projectAll(p.Points)
		// The new point goes between prev and next.
		next := len(points) - 1
		prev := next
		if s.sel.point > 0 {
			next = s.sel.point - 1
			prev = (next - 1 + len(points)) % len(points)
		} else {
			next = 0
		}
		return []engine.DrawCommand{
			engine.LineCommand(points[prev], cursor, previewColor, 1),
			engine.LineCommand(cursor, points[next], previewColor, 1),
		}
	}
	return nil
}

func (s *Session) project(p geom.Cartesian) geom.Cartesian {
	return s.camera.RealToCanvas(p, 0)
}

func (s *Session) projectAll(points []geom.Cartesian) []geom.Cartesian {
	out := make([]geom.Cartesian, len(points))
	for i, p := range points {
		out[i] = s.project(p)
	}
	return out
}

func circle(center geom.Cartesian, radius float64, stroke string, width float64) engine.DrawCommand {
	return engine.ArcCommand(center, radius, 0, 2*math.Pi, stroke, width)
}
