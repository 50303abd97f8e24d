package engine

import (
	"cmp"
	"slices"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/geom"
)

// Node is an evaluated node: either an *EvaluatedShape or an *EvaluatedPolygon.
type Node interface {
	OriginalID() string
	isNode()
}

// EvaluatedShape is a read-only world-space snapshot of an authoring Shape.
// It is rebuilt on every evaluation pass and never mutated afterwards.
type EvaluatedShape struct {
	Original string // id of the authoring shape
	Name     string
	Root     bool
	Origin   geom.Cartesian // world position
	Rotation float64        // accumulated world rotation
	Polygons []*EvaluatedPolygon
	Shapes   []*EvaluatedShape
}

// EvaluatedPolygon is a read-only world-space snapshot of an authoring Polygon.
type EvaluatedPolygon struct {
	Original string // id of the authoring polygon
	Shape    string // id of the authoring shape that owns it
	Points   []geom.Cartesian
	Color    string
	Layer    int
	LineOnly bool
}

func (s *EvaluatedShape) OriginalID() string   { return s.Original }
func (p *EvaluatedPolygon) OriginalID() string { return p.Original }
func (*EvaluatedShape) isNode()                {}
func (*EvaluatedPolygon) isNode()              {}

// Frame returns the world frame of the shape's local space.
func (s *EvaluatedShape) Frame() geom.Frame {
	return geom.Frame{Position: s.Origin, Rotation: s.Rotation}
}

// Evaluate produces the world-space tree for a shape evaluated without an
// inherited state: its own origin and rotation are taken as the world frame.
func Evaluate(s *document.Shape) *EvaluatedShape {
	return evaluateShape(s, geom.RootFrame(s.Origin, s.Rotation))
}

// EvaluateFrom evaluates s as a child of a parent whose accumulated world
// frame is inherited: s's origin is rotated by the inherited rotation and
// translated by the inherited position, and the rotations add.
func EvaluateFrom(s *document.Shape, inherited geom.Frame) *EvaluatedShape {
	return evaluateShape(s, inherited.Child(s.Origin, s.Rotation))
}

// evaluateShape walks the authoring tree depth first, pre-order.
func evaluateShape(s *document.Shape, frame geom.Frame) *EvaluatedShape {
	result := &EvaluatedShape{
		Original: s.ID,
		Name:     s.Name,
		Root:     s.IsRoot(),
		Origin:   frame.Position,
		Rotation: frame.Rotation,
		Polygons: make([]*EvaluatedPolygon, 0, len(s.Polygons)),
		Shapes:   make([]*EvaluatedShape, 0, len(s.Shapes)),
	}

	for _, p := range s.Polygons {
		result.Polygons = append(result.Polygons, evaluatePolygon(p, s.ID, frame))
	}

	for _, c := range s.Shapes {
		result.Shapes = append(result.Shapes, evaluateShape(c, frame.Child(c.Origin, c.Rotation)))
	}

	return result
}

// evaluatePolygon maps every local point the same way a child origin is mapped.
func evaluatePolygon(p *document.Polygon, owner string, frame geom.Frame) *EvaluatedPolygon {
	points := make([]geom.Cartesian, len(p.Points))
	for i, pt := range p.Points {
		points[i] = frame.Apply(pt)
	}
	return &EvaluatedPolygon{
		Original: p.ID,
		Shape:    owner,
		Points:   points,
		Color:    p.Color,
		Layer:    p.Layer,
		LineOnly: p.LineOnly,
	}
}

// AllPolygons collects the shape's polygons followed by each descendant's,
// pre-order. Layers are not considered here.
func AllPolygons(s *EvaluatedShape) []*EvaluatedPolygon {
	result := slices.Clone(s.Polygons)
	for _, c := range s.Shapes {
		result = append(result, AllPolygons(c)...)
	}
	return result
}

// SortByLayer stable-sorts polygons ascending by layer, so ties keep their
// discovery order and higher layers draw on top.
func SortByLayer(polygons []*EvaluatedPolygon) {
	slices.SortStableFunc(polygons, func(a, b *EvaluatedPolygon) int {
		return cmp.Compare(a.Layer, b.Layer)
	})
}

// DrawOrder returns every polygon under s in painter's order.
func DrawOrder(s *EvaluatedShape) []*EvaluatedPolygon {
	polygons := AllPolygons(s)
	SortByLayer(polygons)
	return polygons
}
