package engine

import (
	"math"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/geom"
)

// SceneGraph is one evaluation pass over the authoring tree, indexed by the
// ids of the authoring nodes. It is thrown away and rebuilt after every edit.
type SceneGraph struct {
	Root *EvaluatedShape

	shapes   map[string]*EvaluatedShape
	polygons map[string]*EvaluatedPolygon
	parents  map[string]*EvaluatedShape
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BuildSceneGraph evaluates the authoring tree rooted at doc.
func BuildSceneGraph(doc *document.Shape) *SceneGraph {
	return NewSceneGraph(Evaluate(doc))
}

// NewSceneGraph indexes an already evaluated tree.
func NewSceneGraph(root *EvaluatedShape) *SceneGraph {
	sg := &SceneGraph{
		Root:     root,
		shapes:   make(map[string]*EvaluatedShape),
		polygons: make(map[string]*EvaluatedPolygon),
		parents:  make(map[string]*EvaluatedShape),
	}
	if root != nil {
		sg.index(root, nil)
	}
	return sg
}

func (sg *SceneGraph) index(s *EvaluatedShape, parent *EvaluatedShape) {
	sg.shapes[s.Original] = s
	if parent != nil {
		sg.parents[s.Original] = parent
	}
	for _, p := range s.Polygons {
		sg.polygons[p.Original] = p
		sg.parents[p.Original] = s
	}
	for _, c := range s.Shapes {
		sg.index(c, s)
	}
}

// Node looks up the evaluated node for an authoring id.
func (sg *SceneGraph) Node(id string) (Node, bool) {
	if s, ok := sg.shapes[id]; ok {
		return s, true
	}
	if p, ok := sg.polygons[id]; ok {
		return p, true
	}
	return nil, false
}

// Shape returns the evaluated shape for an authoring shape id, or nil.
func (sg *SceneGraph) Shape(id string) *EvaluatedShape {
	return sg.shapes[id]
}

// Polygon returns the evaluated polygon for an authoring polygon id, or nil.
func (sg *SceneGraph) Polygon(id string) *EvaluatedPolygon {
	return sg.polygons[id]
}

// Parent returns the evaluated shape owning the node with the given id.
// The root has no parent.
func (sg *SceneGraph) Parent(id string) *EvaluatedShape {
	return sg.parents[id]
}

// DrawOrder returns all polygons in painter's order.
func (sg *SceneGraph) DrawOrder() []*EvaluatedPolygon {
	if sg.Root == nil {
		return nil
	}
	return DrawOrder(sg.Root)
}

// Bounds returns the world-space bounding box of every polygon point and
// shape origin in the graph.
func (sg *SceneGraph) Bounds() Rect {
	if sg.Root == nil {
		return Rect{}
	}
	var points []geom.Cartesian
	for _, s := range sg.shapes {
		points = append(points, s.Origin)
	}
	for _, p := range sg.polygons {
		points = append(points, p.Points...)
	}
	return RectFromPoints(points)
}

// RectFromPoints returns the smallest rect containing all points.
func RectFromPoints(points []geom.Cartesian) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() geom.Cartesian {
	return geom.XY(r.X+r.Width/2, r.Y+r.Height/2)
}
