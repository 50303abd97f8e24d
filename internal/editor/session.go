// Package editor hosts an interactive editing session over one drawing: the
// camera, the authoring tree and its evaluated scene graph, the selection and
// the active tool. A session is not safe for concurrent use; exactly one
// goroutine drives it.
package editor

import (
	"log/slog"

	"github.com/drawkit/drawkit/internal/camera"
	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
	"github.com/drawkit/drawkit/internal/input"
	"github.com/drawkit/drawkit/internal/typeid"
)

// Options configure a Session. Zero fields take the DefaultOptions value.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	CameraHeight float64
	GridSize     float64
	DefaultColor string
	ShapeName    string

	// Confirm asks the user to approve a delete. A nil Confirm declines, so
	// only bypassed deletes go through.
	Confirm func(prompt string) bool

	Logger *slog.Logger
}

// DefaultOptions returns the options used for unset fields.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:  800,
		CanvasHeight: 600,
		CameraHeight: camera.DefaultHeight,
		GridSize:     1,
		DefaultColor: "Grey",
		ShapeName:    "new shape",
	}
}

// Session owns everything one editor needs.
type Session struct {
	ID string

	opts Options
	log  *slog.Logger

	doc    *document.Shape
	scene  *engine.SceneGraph
	camera *camera.Camera
	input  *input.Input

	sel    selection
	tool   Tool
	anchor geom.Cartesian
	buffer []geom.Cartesian

	playing bool
	lastErr error
}

// State is a serializable snapshot of the session for hosts and inspectors.
type State struct {
	Tool      string     `json:"tool"`
	Selection []string   `json:"selection"`
	Index     int        `json:"index"`
	Point     int        `json:"point"`
	Parent    string     `json:"parent"`
	Cursor    [2]float64 `json:"cursor"`
	Playing   bool       `json:"playing"`
	Error     string     `json:"error,omitempty"`
}

// New creates a session editing doc. A nil doc starts an empty drawing.
func New(doc *document.Shape, opts Options) *Session {
	opts = withDefaults(opts)
	if doc == nil {
		doc = document.NewEmptyDocument("root")
	}

	id := typeid.NewSessionID()
	s := &Session{
		ID:     id,
		opts:   opts,
		log:    opts.Logger.With("session", id),
		doc:    doc,
		camera: camera.New(opts.CanvasWidth, opts.CanvasHeight, geom.XY(0, 0), opts.CameraHeight),
		input:  input.New(),
	}
	s.bindKeys()
	s.Reset()
	return s
}

func withDefaults(opts Options) Options {
	d := DefaultOptions()
	if opts.CanvasWidth <= 0 {
		opts.CanvasWidth = d.CanvasWidth
	}
	if opts.CanvasHeight <= 0 {
		opts.CanvasHeight = d.CanvasHeight
	}
	if opts.CameraHeight <= 0 {
		opts.CameraHeight = d.CameraHeight
	}
	if opts.GridSize <= 0 {
		opts.GridSize = d.GridSize
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = d.DefaultColor
	}
	if opts.ShapeName == "" {
		opts.ShapeName = d.ShapeName
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// Document returns the authoring tree. Callers must not mutate it while the
// session is in use.
func (s *Session) Document() *document.Shape { return s.doc }

// Scene returns the current evaluated scene graph.
func (s *Session) Scene() *engine.SceneGraph { return s.scene }

func (s *Session) Camera() *camera.Camera { return s.camera }
func (s *Session) Input() *input.Input    { return s.input }
func (s *Session) Tool() Tool             { return s.tool }

// Err returns the error of the last rejected action, cleared by the next
// successful one.
func (s *Session) Err() error { return s.lastErr }

// KeyChange feeds a key edge from the host.
func (s *Session) KeyChange(key string, down bool) {
	s.input.KeyChange(key, down)
}

// MouseMove feeds the cursor position in canvas pixels.
func (s *Session) MouseMove(x, y float64) {
	s.input.MouseMove(x, y)
}

// MouseButton feeds the primary mouse button edge.
func (s *Session) MouseButton(down bool) {
	s.input.KeyChange(input.MouseButton, down)
}

// Cursor returns the mouse position on the drawing plane, snapped to the grid.
func (s *Session) Cursor() geom.Cartesian {
	return geom.Snap(s.camera.CanvasToReal(s.input.Mouse()), s.opts.GridSize)
}

// MoveCursorTo places the mouse over a point of the drawing plane.
func (s *Session) MoveCursorTo(world geom.Cartesian) {
	p := s.camera.RealToCanvas(world, 0)
	s.input.MouseMove(p.X, p.Y)
}

// Resize updates the canvas size.
func (s *Session) Resize(width, height float64) {
	s.camera.Resize(width, height)
}

// ToggleFrames starts or stops the frame loop.
func (s *Session) ToggleFrames() {
	s.SetPlaying(!s.playing)
}

func (s *Session) SetPlaying(playing bool) {
	s.playing = playing
	s.log.Debug("frame loop", "playing", playing)
}

func (s *Session) Playing() bool { return s.playing }

// Tick advances the frame loop by dt seconds: the camera pans along the arrow
// axes and running camera animations progress. It does nothing while stopped.
func (s *Session) Tick(dt float64) {
	if !s.playing {
		return
	}
	s.camera.Pan(s.input.Axis(axisHorizontal), s.input.Axis(axisVertical), dt)
	s.camera.Update(float32(dt))
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := State{
		Tool:      s.tool.String(),
		Selection: s.Selection(),
		Index:     s.sel.index,
		Point:     s.sel.point,
		Parent:    s.sel.parent,
		Cursor:    s.Cursor().Pair(),
		Playing:   s.playing,
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

// report records the outcome of a tool action. A failed tool action drops
// any pending gesture and returns to Select.
func (s *Session) report(action string, err error) error {
	if s.note(action, err) != nil {
		s.tool = Select
		s.buffer = nil
	}
	return err
}

// note records the outcome of a navigation or inspector action. The active
// tool and its gesture are left alone.
func (s *Session) note(action string, err error) error {
	s.lastErr = err
	if err != nil {
		s.log.Warn("edit rejected", "action", action, "error", err)
	}
	return err
}
