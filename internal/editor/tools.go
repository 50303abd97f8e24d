package editor

import (
	"fmt"
	"math"
	"slices"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/engine"
	"github.com/drawkit/drawkit/internal/geom"
)

// Trigger activates a tool. From Select it arms the tool, or runs it at once
// for the momentary Delete and Outline. Triggering the active tool again
// commits its pending edit and returns to Select. Triggering any other tool
// while one is active fails with ErrToolActive.
func (s *Session) Trigger(t Tool) error {
	switch {
	case t == Select:
		return nil
	case s.tool == Select:
		return s.report(t.String(), s.enter(t))
	case s.tool == t:
		return s.report(t.String(), s.commit())
	default:
		return s.report(t.String(), fmt.Errorf("%s while %s is active: %w", t, s.tool, ErrToolActive))
	}
}

// Primary handles the primary action: while drawing it appends the cursor to
// the pending points, in Select it picks.
func (s *Session) Primary() error {
	switch s.tool {
	case DrawPolygon, DrawLine:
		s.buffer = append(s.buffer, s.Cursor())
		return nil
	case Select:
		return s.report("pick", s.pick())
	}
	return nil
}

// Delete removes the selected shape, polygon or vertex and selects its
// parent. Unless bypass is set the Confirm option must approve it.
func (s *Session) Delete(bypass bool) error {
	if s.tool != Select {
		return s.report("delete", fmt.Errorf("delete while %s is active: %w", s.tool, ErrToolActive))
	}
	return s.report("delete", s.delete(bypass))
}

// Outline adds a closed line-only copy of the selected filled polygon one
// layer above it and selects the copy.
func (s *Session) Outline() error {
	if s.tool != Select {
		return s.report("outline", fmt.Errorf("outline while %s is active: %w", s.tool, ErrToolActive))
	}
	return s.report("outline", s.outline())
}

func (s *Session) enter(t Tool) error {
	switch t {
	case Delete:
		return s.delete(s.input.Down(keyShift))
	case Outline:
		return s.outline()
	case CreatePoint:
		if _, ok := s.Selected().(*engine.EvaluatedPolygon); !ok {
			return fmt.Errorf("add point: %w", ErrInvalidSelectionKind)
		}
	case Move:
		if s.Selected() == nil {
			return fmt.Errorf("move: %w", ErrEmptySelection)
		}
		s.anchor = s.Cursor()
	case CreateShape, DrawPolygon, DrawLine:
		if s.ParentShape() == nil {
			return fmt.Errorf("%s: %w", t, ErrEmptySelection)
		}
	}
	s.buffer = nil
	s.tool = t
	s.log.Debug("tool armed", "tool", t)
	return nil
}

func (s *Session) commit() error {
	tool := s.tool
	s.tool = Select
	defer func() { s.buffer = nil }()

	switch tool {
	case CreateShape:
		return s.createShape()
	case DrawPolygon:
		return s.addPolygon(3, false)
	case DrawLine:
		return s.addPolygon(2, true)
	case CreatePoint:
		return s.createPoint()
	case Move:
		return s.move()
	}
	return nil
}

// parent returns the authoring and evaluated parent shape.
func (s *Session) parent() (*document.Shape, *engine.EvaluatedShape, error) {
	ep := s.ParentShape()
	if ep == nil {
		return nil, nil, ErrEmptySelection
	}
	shape := s.doc.FindShape(ep.Original)
	if shape == nil {
		return nil, nil, fmt.Errorf("parent %s: %w", ep.Original, engine.ErrUnevaluatedNode)
	}
	return shape, ep, nil
}

func (s *Session) createShape() error {
	owner, ep, err := s.parent()
	if err != nil {
		return fmt.Errorf("create shape: %w", err)
	}
	child := document.NewShape(s.opts.ShapeName, ep.Frame().Invert(s.Cursor()), nil, nil)
	if err := owner.AddShape(child); err != nil {
		return fmt.Errorf("create shape: %w", err)
	}
	s.selectOnly(child.ID)
	s.log.Info("shape created", "id", child.ID, "parent", owner.ID, "origin", child.Origin)
	return nil
}

// addPolygon commits the pending points as a polygon of the parent shape.
// Too few points cancel the gesture without an error.
func (s *Session) addPolygon(minPoints int, lineOnly bool) error {
	if len(s.buffer) < minPoints {
		s.log.Debug("draw cancelled", "points", len(s.buffer))
		return nil
	}
	owner, ep, err := s.parent()
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	frame := ep.Frame()
	points := make([]geom.Cartesian, len(s.buffer))
	for i, p := range s.buffer {
		points[i] = frame.Invert(p)
	}
	poly := document.NewPolygon(points, s.opts.DefaultColor, 0, lineOnly)
	owner.AddPolygon(poly)
	s.selectOnly(poly.ID)
	s.log.Info("polygon created", "id", poly.ID, "shape", owner.ID, "points", len(points), "lineOnly", lineOnly)
	return nil
}

// createPoint inserts the cursor into the selected polygon: before the
// selected vertex, or at the end when none is selected.
func (s *Session) createPoint() error {
	ep, ok := s.Selected().(*engine.EvaluatedPolygon)
	if !ok {
		return fmt.Errorf("add point: %w", ErrInvalidSelectionKind)
	}
	poly, _ := s.doc.FindPolygon(ep.Original)
	owner := s.scene.Shape(ep.Shape)
	if poly == nil || owner == nil {
		return fmt.Errorf("add point: %w", engine.ErrUnevaluatedNode)
	}

	at := len(poly.Points)
	if s.sel.point > 0 {
		at = s.sel.point - 1
	}
	if err := poly.InsertPoint(at, owner.Frame().Invert(s.Cursor())); err != nil {
		return fmt.Errorf("add point: %w", err)
	}
	if s.sel.point > 0 {
		// Keep the same vertex selected; it moved up by one.
		s.sel.point++
	}
	s.refresh()
	return nil
}

// move translates the selected node by the cursor travel since the tool was
// armed, expressed in the node's parent frame.
func (s *Session) move() error {
	delta := s.Cursor().Sub(s.anchor)

	switch n := s.Selected().(type) {
	case *engine.EvaluatedShape:
		shape := s.doc.FindShape(n.Original)
		if shape == nil {
			return fmt.Errorf("move: %w", engine.ErrUnevaluatedNode)
		}
		if parent := s.scene.Parent(n.Original); parent != nil {
			delta = parent.Frame().InvertOffset(delta)
		}
		shape.Origin = shape.Origin.Transform(delta)
	case *engine.EvaluatedPolygon:
		poly, _ := s.doc.FindPolygon(n.Original)
		owner := s.scene.Shape(n.Shape)
		if poly == nil || owner == nil {
			return fmt.Errorf("move: %w", engine.ErrUnevaluatedNode)
		}
		local := owner.Frame().InvertOffset(delta)
		if s.sel.point > 0 {
			if err := poly.MovePoint(s.sel.point-1, local); err != nil {
				return fmt.Errorf("move: %w", err)
			}
		} else {
			poly.Translate(local)
		}
	default:
		return fmt.Errorf("move: %w", ErrEmptySelection)
	}

	s.refresh()
	return nil
}

func (s *Session) delete(bypass bool) error {
	switch n := s.Selected().(type) {
	case *engine.EvaluatedShape:
		parent := s.doc.ParentOf(n.Original)
		if parent == nil {
			return fmt.Errorf("delete %q: %w", n.Name, ErrNoParent)
		}
		if !s.confirm(bypass, fmt.Sprintf("Delete shape %q?", n.Name)) {
			return ErrNotConfirmed
		}
		parent.RemoveShape(n.Original)
		s.selectOnly(parent.ID)
		s.log.Info("shape deleted", "id", n.Original, "parent", parent.ID)

	case *engine.EvaluatedPolygon:
		poly, owner := s.doc.FindPolygon(n.Original)
		if poly == nil {
			return fmt.Errorf("delete: %w", engine.ErrUnevaluatedNode)
		}
		if s.sel.point > 0 {
			if len(poly.Points) <= 1 {
				return fmt.Errorf("delete point: %w", ErrDegeneratePolygon)
			}
			if !s.confirm(bypass, fmt.Sprintf("Delete point %d?", s.sel.point)) {
				return ErrNotConfirmed
			}
			if err := poly.RemovePoint(s.sel.point - 1); err != nil {
				return fmt.Errorf("delete point: %w", err)
			}
			s.log.Info("point deleted", "polygon", poly.ID, "point", s.sel.point)
			s.sel.point = 0
			s.refresh()
			return nil
		}
		if !s.confirm(bypass, "Delete polygon?") {
			return ErrNotConfirmed
		}
		owner.RemovePolygon(poly.ID)
		s.selectOnly(owner.ID)
		s.log.Info("polygon deleted", "id", poly.ID, "shape", owner.ID)

	default:
		return fmt.Errorf("delete: %w", ErrEmptySelection)
	}
	return nil
}

func (s *Session) confirm(bypass bool, prompt string) bool {
	if bypass {
		return true
	}
	return s.opts.Confirm != nil && s.opts.Confirm(prompt)
}

func (s *Session) outline() error {
	ep, ok := s.Selected().(*engine.EvaluatedPolygon)
	if !ok || ep.LineOnly {
		return fmt.Errorf("outline: %w", ErrInvalidSelectionKind)
	}
	poly, owner := s.doc.FindPolygon(ep.Original)
	if poly == nil {
		return fmt.Errorf("outline: %w", engine.ErrUnevaluatedNode)
	}
	points := append(slices.Clone(poly.Points), poly.Points[0])
	layer := poly.Layer
	if layer < math.MaxInt {
		layer++
	}
	dup := document.NewPolygon(points, poly.Color, layer, true)
	owner.AddPolygon(dup)
	s.selectOnly(dup.ID)
	s.log.Info("outline created", "id", dup.ID, "from", poly.ID)
	return nil
}
