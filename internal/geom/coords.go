package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Cartesian is a point or offset in a shape-local or world coordinate space.
// It is a value type; every operation returns a new value.
type Cartesian struct {
	X float64
	Y float64
}

// Polar is a point or offset expressed as an angle (radians) and a radius.
type Polar struct {
	Angle  float64
	Radius float64
}

// XY returns the Cartesian point (x, y).
func XY(x, y float64) Cartesian {
	return Cartesian{X: x, Y: y}
}

// FromPair returns the Cartesian point for an [x, y] pair.
func FromPair(p [2]float64) Cartesian {
	return Cartesian{X: p[0], Y: p[1]}
}

// FromPolar converts a polar offset to Cartesian: x = r·cos(a), y = r·sin(a).
func FromPolar(p Polar) Cartesian {
	return Cartesian{
		X: p.Radius * math.Cos(p.Angle),
		Y: p.Radius * math.Sin(p.Angle),
	}
}

// AngleRadius returns the polar offset (angle, radius).
func AngleRadius(angle, radius float64) Polar {
	return Polar{Angle: angle, Radius: radius}
}

// ToPolar converts a Cartesian offset to polar form.
// The zero vector yields angle 0, since atan2(0, 0) = 0.
func ToPolar(c Cartesian) Polar {
	return Polar{
		Angle:  math.Atan2(c.Y, c.X),
		Radius: math.Hypot(c.X, c.Y),
	}
}

// Transform returns c translated by other (vector addition).
func (c Cartesian) Transform(other Cartesian) Cartesian {
	return Cartesian{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns the offset from other to c.
func (c Cartesian) Sub(other Cartesian) Cartesian {
	return Cartesian{X: c.X - other.X, Y: c.Y - other.Y}
}

// Scale multiplies both components by s.
func (c Cartesian) Scale(s float64) Cartesian {
	return Cartesian{X: c.X * s, Y: c.Y * s}
}

// Round rounds both components to the nearest integer.
func (c Cartesian) Round() Cartesian {
	return Cartesian{X: math.Round(c.X), Y: math.Round(c.Y)}
}

// Pair returns c as an [x, y] pair.
func (c Cartesian) Pair() [2]float64 {
	return [2]float64{c.X, c.Y}
}

// ToPolar is shorthand for ToPolar(c).
func (c Cartesian) ToPolar() Polar {
	return ToPolar(c)
}

// ApproxEqual reports whether both components are within eps of other's.
func (c Cartesian) ApproxEqual(other Cartesian, eps float64) bool {
	return scalar.EqualWithinAbs(c.X, other.X, eps) && scalar.EqualWithinAbs(c.Y, other.Y, eps)
}

func (c Cartesian) String() string {
	return fmt.Sprintf("[x: %g, y: %g]", c.X, c.Y)
}

// Rotate returns p rotated by angle; the radius is unchanged.
func (p Polar) Rotate(angle float64) Polar {
	return Polar{Angle: p.Angle + angle, Radius: p.Radius}
}

// Scale multiplies the radius by s.
func (p Polar) Scale(s float64) Polar {
	return Polar{Angle: p.Angle, Radius: p.Radius * s}
}

// Transform composes two polar offsets by summing them as Cartesian vectors.
func (p Polar) Transform(other Polar) Polar {
	return ToPolar(FromPolar(p).Transform(FromPolar(other)))
}

// ToCartesian is shorthand for FromPolar(p).
func (p Polar) ToCartesian() Cartesian {
	return FromPolar(p)
}

func (p Polar) String() string {
	return fmt.Sprintf("[angle: %g, radius: %g]", p.Angle, p.Radius)
}

// Snap rounds c to the nearest point of a square grid with the given cell size.
// A non-positive cell size rounds to integers.
func Snap(c Cartesian, cell float64) Cartesian {
	if cell <= 0 {
		return c.Round()
	}
	return Cartesian{
		X: math.Round(c.X/cell) * cell,
		Y: math.Round(c.Y/cell) * cell,
	}
}
