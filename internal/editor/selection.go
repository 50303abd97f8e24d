package editor

import (
	"fmt"
	"slices"

	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
)

const (
	focusDuration = 0.4
	fitMargin     = 0.1
)

// selection refers to nodes by authoring id only. Evaluated nodes are looked
// up again in the current scene graph every time they are needed.
type selection struct {
	objects []string // candidates of the last pick
	index   int      // which candidate is selected
	point   int      // 1-based vertex of a selected polygon, 0 for all of it
	parent  string   // shape new content goes into
}

// Selected returns the selected evaluated node, or nil.
func (s *Session) Selected() engine.Node {
	if s.scene == nil || len(s.sel.objects) == 0 {
		return nil
	}
	n, ok := s.scene.Node(s.sel.objects[s.sel.index])
	if !ok {
		return nil
	}
	return n
}

// Selection returns the ids of the current pick candidates.
func (s *Session) Selection() []string {
	return slices.Clone(s.sel.objects)
}

// SelectedPoint returns the 1-based selected vertex, or 0.
func (s *Session) SelectedPoint() int {
	return s.sel.point
}

// ParentShape returns the shape that new shapes and polygons are added to:
// the selected shape itself, or the shape owning the selected polygon.
func (s *Session) ParentShape() *engine.EvaluatedShape {
	return s.scene.Shape(s.sel.parent)
}

// Reset selects the whole drawing, drops any pending gesture and returns to
// the Select tool.
func (s *Session) Reset() {
	s.tool = Select
	s.buffer = nil
	s.lastErr = nil
	s.selectOnly(s.doc.ID)
}

func (s *Session) selectOnly(id string) {
	s.sel = selection{objects: []string{id}}
	s.refresh()
}

// refresh rebuilds the scene graph from the authoring tree and re-resolves
// the selection against it. Ids that no longer exist are dropped; an empty
// selection falls back to the root.
func (s *Session) refresh() {
	s.scene = engine.BuildSceneGraph(s.doc)

	s.sel.objects = slices.DeleteFunc(s.sel.objects, func(id string) bool {
		_, ok := s.scene.Node(id)
		return !ok
	})
	if len(s.sel.objects) == 0 {
		s.sel = selection{objects: []string{s.doc.ID}}
	}
	if s.sel.index < 0 || s.sel.index >= len(s.sel.objects) {
		s.sel.index = 0
	}

	switch n := s.Selected().(type) {
	case *engine.EvaluatedShape:
		s.sel.point = 0
		s.sel.parent = n.Original
	case *engine.EvaluatedPolygon:
		if s.sel.point < 0 || s.sel.point > len(n.Points) {
			s.sel.point = 0
		}
		s.sel.parent = n.Shape
	default:
		s.sel.point = 0
		s.sel.parent = s.doc.ID
	}
}

// pick selects what lies under the cursor. Clicking a vertex of the selected
// polygon selects that vertex; clicking empty space keeps the selection.
func (s *Session) pick() error {
	cursor := s.Cursor()
	hits, err := engine.CheckMouse(s.scene.Root, cursor)
	if err != nil {
		return fmt.Errorf("pick: %w", err)
	}
	if len(hits) == 0 {
		return nil
	}

	if p, ok := s.Selected().(*engine.EvaluatedPolygon); ok {
		if i := engine.VertexAt(p, cursor); i > 0 {
			s.sel.point = i
			return nil
		}
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.OriginalID()
	}
	s.sel = selection{objects: ids}
	s.refresh()
	s.log.Debug("picked", "hits", len(ids), "cursor", cursor)
	return nil
}

// CycleSelection moves through the candidates of the last pick, wrapping
// around. It lets the user disambiguate overlapping hits.
func (s *Session) CycleSelection(delta int) error {
	n := len(s.sel.objects)
	if n == 0 {
		return s.note("cycle selection", ErrEmptySelection)
	}
	s.sel.index = ((s.sel.index+delta)%n + n) % n
	s.sel.point = 0
	s.refresh()
	return s.note("cycle selection", nil)
}

// SelectPoint walks the vertices of the selected polygon. Position 0 selects
// the whole polygon.
func (s *Session) SelectPoint(delta int) error {
	p, ok := s.Selected().(*engine.EvaluatedPolygon)
	if !ok {
		return s.note("select point", fmt.Errorf("select point: %w", ErrInvalidSelectionKind))
	}
	m := len(p.Points) + 1
	s.sel.point = ((s.sel.point+delta)%m + m) % m
	return s.note("select point", nil)
}

// FocusSelection scrolls the camera to the selected node.
func (s *Session) FocusSelection() error {
	var target geom.Cartesian
	switch n := s.Selected().(type) {
	case *engine.EvaluatedShape:
		target = n.Origin
	case *engine.EvaluatedPolygon:
		if s.sel.point > 0 {
			target = n.Points[s.sel.point-1]
		} else {
			target = engine.RectFromPoints(n.Points).Center()
		}
	default:
		return s.note("focus", ErrEmptySelection)
	}
	s.camera.ScrollTo(target, focusDuration)
	return s.note("focus", nil)
}

// FitDrawing frames the whole drawing with a small margin.
func (s *Session) FitDrawing() {
	s.camera.Fit(s.scene.Bounds(), fitMargin)
}
