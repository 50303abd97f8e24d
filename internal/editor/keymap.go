package editor

import "github.com/drawkit/drawkit/internal/input"

// Logical controls. Key names are lower-case browser key names.
const (
	axisHorizontal = "horizontal"
	axisVertical   = "vertical"
	keyShift       = "shift"
)

func (s *Session) bindKeys() {
	in := s.input
	in.Bind(axisHorizontal, input.NewAxis("arrowleft", "arrowright", nil))
	in.Bind(axisVertical, input.NewAxis("arrowup", "arrowdown", nil))
	in.Bind(keyShift, input.NewButton(nil, "shift"))

	s.onPress("zoomOut", s.camera.ZoomOut, "-")
	s.onPress("zoomIn", s.camera.ZoomIn, "=")
	s.onPress("frames", s.ToggleFrames, "escape")
	s.onPress("reset", s.Reset, "r")

	s.onPress("createShape", s.trigger(CreateShape), "s")
	s.onPress("createPoint", s.trigger(CreatePoint), "p")
	s.onPress("drawPolygon", s.trigger(DrawPolygon), "f")
	s.onPress("drawLine", s.trigger(DrawLine), "l")
	s.onPress("move", s.trigger(Move), "m")
	s.onPress("outline", s.trigger(Outline), "o")
	s.onPress("delete", s.trigger(Delete), "delete", "backspace")

	s.onPress("primary", func() { _ = s.Primary() }, " ", "space", input.MouseButton)
	s.onPress("cycle", func() { _ = s.CycleSelection(1) }, "tab")
	s.onPress("prevPoint", func() { _ = s.SelectPoint(-1) }, "[")
	s.onPress("nextPoint", func() { _ = s.SelectPoint(1) }, "]")
	s.onPress("focus", func() { _ = s.FocusSelection() }, "c")
	s.onPress("fit", s.FitDrawing, "home")
}

// onPress binds fn to the down edge of a button. Errors are already recorded
// by the session, so key handlers drop them.
func (s *Session) onPress(name string, fn func(), keys ...string) {
	s.input.Bind(name, input.NewButton(func(down bool) {
		if down {
			fn()
		}
	}, keys...))
}

func (s *Session) trigger(t Tool) func() {
	return func() { _ = s.Trigger(t) }
}
