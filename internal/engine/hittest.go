package engine

import (
	"errors"
	"fmt"

	"github.com/drawkit/drawkit/internal/geom"
)

var ErrUnevaluatedNode = errors.New("node has not been evaluated")

// CheckMouse returns every evaluated node located at the cursor, pre-order.
// A shape matches when its rounded world origin equals the rounded cursor; a
// polygon matches once when any of its rounded points does. Overlapping hits
// are all returned so the caller can disambiguate.
//
// Comparison operands are rounded locally; the tree is not modified.
func CheckMouse(root *EvaluatedShape, cursor geom.Cartesian) ([]Node, error) {
	if root == nil {
		return nil, fmt.Errorf("check mouse: nil shape: %w", ErrUnevaluatedNode)
	}
	var hits []Node
	if err := checkShape(root, cursor.Round(), &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func checkShape(s *EvaluatedShape, cursor geom.Cartesian, hits *[]Node) error {
	if s.Original == "" {
		return fmt.Errorf("check mouse: shape %q: %w", s.Name, ErrUnevaluatedNode)
	}
	if s.Origin.Round() == cursor {
		*hits = append(*hits, s)
	}
	for _, p := range s.Polygons {
		if p.Original == "" {
			return fmt.Errorf("check mouse: polygon in %q: %w", s.Name, ErrUnevaluatedNode)
		}
		for _, pt := range p.Points {
			if pt.Round() == cursor {
				*hits = append(*hits, p)
				break
			}
		}
	}
	for _, c := range s.Shapes {
		if err := checkShape(c, cursor, hits); err != nil {
			return err
		}
	}
	return nil
}

// VertexAt returns the 1-based index of the first polygon point located at
// the cursor (both rounded), or 0 when none is.
func VertexAt(p *EvaluatedPolygon, cursor geom.Cartesian) int {
	c := cursor.Round()
	for i, pt := range p.Points {
		if pt.Round() == c {
			return i + 1
		}
	}
	return 0
}
