package document

import (
	"errors"
	"fmt"
	"slices"

	"github.com/drawkit/drawkit/internal/geom"
	"github.com/drawkit/drawkit/internal/typeid"
)

var (
	ErrAlreadyParented = errors.New("shape already has a parent")
	ErrCycle           = errors.New("shape cannot contain itself")
	ErrPointIndex      = errors.New("point index out of range")
	ErrInvalidTree     = errors.New("invalid drawing tree")
)

// Node is an authoring node: either a *Shape or a *Polygon.
type Node interface {
	NodeID() string
	isNode()
}

// Shape is a named authoring node that owns polygons and child shapes.
// Origin and Rotation are relative to the parent shape's local frame.
type Shape struct {
	ID       string
	Name     string
	Origin   geom.Cartesian
	Rotation float64
	Polygons []*Polygon
	Shapes   []*Shape

	// child is set once the shape is placed in another shape's Shapes.
	child bool
}

// Polygon is an ordered list of local-space points.
// Lower layers draw first. LineOnly polygons are stroked instead of filled.
type Polygon struct {
	ID       string
	Points   []geom.Cartesian
	Color    string
	Layer    int
	LineOnly bool
}

func (s *Shape) NodeID() string   { return s.ID }
func (p *Polygon) NodeID() string { return p.ID }
func (*Shape) isNode()            {}
func (*Polygon) isNode()          {}

// NewShape creates a shape with a fresh id. The given child shapes are marked
// as non-root; callers must not pass shapes that already have a parent.
func NewShape(name string, origin geom.Cartesian, polygons []*Polygon, shapes []*Shape) *Shape {
	if polygons == nil {
		polygons = []*Polygon{}
	}
	if shapes == nil {
		shapes = []*Shape{}
	}
	for _, c := range shapes {
		c.child = true
	}
	return &Shape{
		ID:       typeid.NewShapeID(),
		Name:     name,
		Origin:   origin,
		Polygons: polygons,
		Shapes:   shapes,
	}
}

// NewPolygon creates a polygon with a fresh id. The points are copied.
func NewPolygon(points []geom.Cartesian, color string, layer int, lineOnly bool) *Polygon {
	return &Polygon{
		ID:       typeid.NewPolygonID(),
		Points:   slices.Clone(points),
		Color:    color,
		Layer:    layer,
		LineOnly: lineOnly,
	}
}

// IsRoot reports whether the shape has no parent.
func (s *Shape) IsRoot() bool {
	return !s.child
}

// AddShape appends child to s's children. It is the only way a shape gains a
// parent, which keeps the model a strict tree.
func (s *Shape) AddShape(child *Shape) error {
	if child.child {
		return fmt.Errorf("add %q to %q: %w", child.Name, s.Name, ErrAlreadyParented)
	}
	if child == s || child.FindShape(s.ID) != nil {
		return fmt.Errorf("add %q to %q: %w", child.Name, s.Name, ErrCycle)
	}
	child.child = true
	s.Shapes = append(s.Shapes, child)
	return nil
}

// AddPolygon appends p to s's polygons.
func (s *Shape) AddPolygon(p *Polygon) {
	s.Polygons = append(s.Polygons, p)
}

// RemoveShape detaches the direct child with the given id.
// The detached shape becomes a root again.
func (s *Shape) RemoveShape(id string) bool {
	for i, c := range s.Shapes {
		if c.ID == id {
			c.child = false
			s.Shapes = slices.Delete(s.Shapes, i, i+1)
			return true
		}
	}
	return false
}

// RemovePolygon removes the owned polygon with the given id.
func (s *Shape) RemovePolygon(id string) bool {
	for i, p := range s.Polygons {
		if p.ID == id {
			s.Polygons = slices.Delete(s.Polygons, i, i+1)
			return true
		}
	}
	return false
}

// Walk visits s and all descendants in pre-order: a shape, then its polygons,
// then its child shapes. Returning false from fn stops the walk.
func (s *Shape) Walk(fn func(n Node, parent *Shape) bool) {
	s.walk(nil, fn)
}

func (s *Shape) walk(parent *Shape, fn func(n Node, parent *Shape) bool) bool {
	if !fn(s, parent) {
		return false
	}
	for _, p := range s.Polygons {
		if !fn(p, s) {
			return false
		}
	}
	for _, c := range s.Shapes {
		if !c.walk(s, fn) {
			return false
		}
	}
	return true
}

// Find returns the node with the given id and the shape that owns it
// (nil for s itself).
func (s *Shape) Find(id string) (Node, *Shape) {
	var found Node
	var owner *Shape
	s.Walk(func(n Node, parent *Shape) bool {
		if n.NodeID() == id {
			found, owner = n, parent
			return false
		}
		return true
	})
	return found, owner
}

// FindShape returns the shape with the given id in s's subtree.
func (s *Shape) FindShape(id string) *Shape {
	n, _ := s.Find(id)
	shape, _ := n.(*Shape)
	return shape
}

// FindPolygon returns the polygon with the given id and the shape owning it.
func (s *Shape) FindPolygon(id string) (*Polygon, *Shape) {
	n, owner := s.Find(id)
	p, ok := n.(*Polygon)
	if !ok {
		return nil, nil
	}
	return p, owner
}

// ParentOf returns the shape owning the node with the given id.
func (s *Shape) ParentOf(id string) *Shape {
	_, owner := s.Find(id)
	return owner
}

// Validate checks that s is a well-formed drawing: ids are unique, every shape
// appears in exactly one parent's list, only s is a root, and every polygon
// has a point. Errors wrap ErrInvalidTree.
func (s *Shape) Validate() error {
	if !s.IsRoot() {
		return fmt.Errorf("%w: shape %q is not a root", ErrInvalidTree, s.Name)
	}
	ids := make(map[string]bool)
	var err error
	s.Walk(func(n Node, parent *Shape) bool {
		id := n.NodeID()
		if id == "" {
			if parent == nil {
				err = fmt.Errorf("shape %q has no id", s.Name)
			} else {
				err = fmt.Errorf("node without id under %q", parent.Name)
			}
			return false
		}
		if ids[id] {
			err = fmt.Errorf("node %s reachable more than once", id)
			return false
		}
		ids[id] = true
		switch n := n.(type) {
		case *Shape:
			if parent != nil && n.IsRoot() {
				err = fmt.Errorf("shape %q is a child of %q but marked root", n.Name, parent.Name)
				return false
			}
		case *Polygon:
			if len(n.Points) == 0 {
				err = fmt.Errorf("polygon %s has no points", n.ID)
				return false
			}
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	return nil
}

// InsertPoint inserts p before index i. i == len(Points) appends.
func (p *Polygon) InsertPoint(i int, pt geom.Cartesian) error {
	if i < 0 || i > len(p.Points) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(p.Points), ErrPointIndex)
	}
	p.Points = slices.Insert(p.Points, i, pt)
	return nil
}

// RemovePoint removes the point at index i.
func (p *Polygon) RemovePoint(i int) error {
	if i < 0 || i >= len(p.Points) {
		return fmt.Errorf("remove %d of %d: %w", i, len(p.Points), ErrPointIndex)
	}
	p.Points = slices.Delete(p.Points, i, i+1)
	return nil
}

// Translate moves every point by d.
func (p *Polygon) Translate(d geom.Cartesian) {
	for i := range p.Points {
		p.Points[i] = p.Points[i].Transform(d)
	}
}

// MovePoint moves the point at index i by d.
func (p *Polygon) MovePoint(i int, d geom.Cartesian) error {
	if i < 0 || i >= len(p.Points) {
		return fmt.Errorf("move %d of %d: %w", i, len(p.Points), ErrPointIndex)
	}
	p.Points[i] = p.Points[i].Transform(d)
	return nil
}
