package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drawkit/drawkit/internal/geom"
)

var ErrMalformedImport = errors.New("malformed drawing")

// The persisted layout mirrors the model. Rotation and ids are not stored;
// imported shapes start at rotation 0 with fresh ids.

type pointJSON struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type polygonJSON struct {
	Points   []pointJSON `json:"points"`
	Color    string      `json:"color"`
	Layer    int         `json:"layer"`
	LineOnly bool        `json:"lineOnly"`
}

type shapeJSON struct {
	Name     *string       `json:"name"`
	Origin   *pointJSON    `json:"origin"`
	Polygons []polygonJSON `json:"polygons"`
	Shapes   []shapeJSON   `json:"shapes"`
}

// Marshal encodes the tree rooted at s in the persisted JSON layout.
func Marshal(s *Shape) ([]byte, error) {
	return json.Marshal(toJSON(s))
}

// MarshalIndent is Marshal with indentation, for the export text area.
func MarshalIndent(s *Shape) ([]byte, error) {
	return json.MarshalIndent(toJSON(s), "", "  ")
}

func toJSON(s *Shape) shapeJSON {
	name := s.Name
	out := shapeJSON{
		Name:     &name,
		Origin:   newPointJSON(s.Origin),
		Polygons: make([]polygonJSON, 0, len(s.Polygons)),
		Shapes:   make([]shapeJSON, 0, len(s.Shapes)),
	}
	for _, p := range s.Polygons {
		pj := polygonJSON{
			Points:   make([]pointJSON, 0, len(p.Points)),
			Color:    p.Color,
			Layer:    p.Layer,
			LineOnly: p.LineOnly,
		}
		for _, pt := range p.Points {
			pj.Points = append(pj.Points, *newPointJSON(pt))
		}
		out.Polygons = append(out.Polygons, pj)
	}
	for _, c := range s.Shapes {
		out.Shapes = append(out.Shapes, toJSON(c))
	}
	return out
}

func newPointJSON(c geom.Cartesian) *pointJSON {
	x, y := c.X, c.Y
	return &pointJSON{X: &x, Y: &y}
}

// Unmarshal decodes a persisted tree. The result is a root shape with fresh
// ids. Any structural mismatch returns an error wrapping ErrMalformedImport.
func Unmarshal(data []byte) (*Shape, error) {
	var raw shapeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return fromJSON(raw, "shape")
}

func fromJSON(raw shapeJSON, path string) (*Shape, error) {
	if raw.Name == nil {
		return nil, fmt.Errorf("%w: %s: missing name", ErrMalformedImport, path)
	}
	origin, err := raw.Origin.cartesian()
	if err != nil {
		return nil, fmt.Errorf("%w: %s.origin: %v", ErrMalformedImport, path, err)
	}

	polygons := make([]*Polygon, 0, len(raw.Polygons))
	for i, pj := range raw.Polygons {
		if len(pj.Points) == 0 {
			return nil, fmt.Errorf("%w: %s.polygons[%d]: no points", ErrMalformedImport, path, i)
		}
		points := make([]geom.Cartesian, 0, len(pj.Points))
		for j := range pj.Points {
			pt, err := pj.Points[j].cartesian()
			if err != nil {
				return nil, fmt.Errorf("%w: %s.polygons[%d].points[%d]: %v", ErrMalformedImport, path, i, j, err)
			}
			points = append(points, pt)
		}
		polygons = append(polygons, NewPolygon(points, pj.Color, pj.Layer, pj.LineOnly))
	}

	shapes := make([]*Shape, 0, len(raw.Shapes))
	for i, cj := range raw.Shapes {
		child, err := fromJSON(cj, fmt.Sprintf("%s.shapes[%d]", path, i))
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, child)
	}

	return NewShape(*raw.Name, origin, polygons, shapes), nil
}

func (p *pointJSON) cartesian() (geom.Cartesian, error) {
	if p == nil {
		return geom.Cartesian{}, errors.New("missing point")
	}
	if p.X == nil || p.Y == nil {
		return geom.Cartesian{}, errors.New("point needs x and y")
	}
	return geom.XY(*p.X, *p.Y), nil
}
