package document

import "github.com/drawkit/drawkit/internal/geom"

// NewSampleDocument returns the built-in "hull" model: a ship hull with two
// wing sub-shapes.
func NewSampleDocument() *Shape {
	return NewShape("hull", geom.XY(0, 0),
		[]*Polygon{
			NewPolygon(pts(30, 5, 25, 10, 5, 15, -20, 15, -20, 10, -15, 5, -15, -5, -20, -10, -20, -15, 5, -15, 25, -10, 30, -5), "DarkGrey", 0, false),
			NewPolygon(pts(20, 5, 10, 10, 5, 5, 5, -5, 10, -10, 20, -5), "CornflowerBlue", 1, false),
			NewPolygon(pts(5, 0, -5, 5, -15, 0, -5, -5), "DarkRed", 1, false),
			NewPolygon(pts(-10, 5, -10, 20, -30, 15, -30, 10), "DimGrey", 1, false),
			NewPolygon(pts(-10, -5, -10, -20, -30, -15, -30, -10), "DimGrey", 1, false),
			NewPolygon(pts(5, 10, 5, 15, 0, 20, -10, 20, -20, 15, -20, 10, -10, 5, 0, 5), "Grey", 2, false),
			NewPolygon(pts(5, -10, 5, -15, 0, -20, -10, -20, -20, -15, -20, -10, -10, -5, 0, -5), "Grey", 2, false),
			NewPolygon(pts(15, 10, 0, 25, -5, 25, -10, 20, -10, -20, -5, -25, 0, -25, 15, -10), "DarkRed", -1, false),
			NewPolygon(pts(20, 15, 20, 20, 0, 20, 0, 15), "DimGrey", -2, false),
			NewPolygon(pts(20, -15, 20, -20, 0, -20, 0, -15), "DimGrey", -2, false),
		},
		[]*Shape{
			NewShape("right wing", geom.XY(-5, 15),
				[]*Polygon{NewPolygon(pts(5, 0, 5, 40, -5, 35, -5, 20, -10, 0, 0, -5), "DarkGrey", 0, false)},
				nil),
			NewShape("left wing", geom.XY(-5, -15),
				[]*Polygon{NewPolygon(pts(5, 0, 5, -40, -5, -35, -5, -20, -10, 0, 0, 5), "DarkGrey", 0, false)},
				nil),
		},
	)
}

// NewEmptyDocument returns a root shape with nothing in it.
func NewEmptyDocument(name string) *Shape {
	return NewShape(name, geom.XY(0, 0), nil, nil)
}

func pts(xy ...float64) []geom.Cartesian {
	out := make([]geom.Cartesian, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.XY(xy[i], xy[i+1]))
	}
	return out
}
