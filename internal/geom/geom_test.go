package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestToPolar(t *testing.T) {
	tests := []struct {
		in         Cartesian
		wantAngle  float64
		wantRadius float64
	}{
		{XY(1, 0), 0, 1},
		{XY(0, 2), math.Pi / 2, 2},
		{XY(-3, 0), math.Pi, 3},
		{XY(3, 4), math.Atan2(4, 3), 5},
		{XY(0, 0), 0, 0},
	}
	for _, tt := range tests {
		p := ToPolar(tt.in)
		if !approxEqual(p.Angle, tt.wantAngle, epsilon) || !approxEqual(p.Radius, tt.wantRadius, epsilon) {
			t.Errorf("ToPolar(%v) = %v, want [angle: %g, radius: %g]", tt.in, p, tt.wantAngle, tt.wantRadius)
		}
	}
}

func TestPolarRoundTrip(t *testing.T) {
	points := []Cartesian{XY(30, 5), XY(-20, 15), XY(-5, -35), XY(0.5, -0.25)}
	for _, c := range points {
		back := FromPolar(ToPolar(c))
		if !back.ApproxEqual(c, epsilon) {
			t.Errorf("FromPolar(ToPolar(%v)) = %v", c, back)
		}
	}
}

func TestNamedConstructors(t *testing.T) {
	if got := FromPair([2]float64{3, -4}); got != XY(3, -4) {
		t.Errorf("FromPair = %v, want (3,-4)", got)
	}
	if got := XY(3, -4).Pair(); got != [2]float64{3, -4} {
		t.Errorf("Pair = %v", got)
	}
	if got := AngleRadius(1, 2); got.Angle != 1 || got.Radius != 2 {
		t.Errorf("AngleRadius = %v", got)
	}
	c := FromPolar(AngleRadius(math.Pi/2, 10))
	if !c.ApproxEqual(XY(0, 10), epsilon) {
		t.Errorf("FromPolar(90deg, 10) = %v, want (0,10)", c)
	}
}

func TestRotateKeepsRadius(t *testing.T) {
	p := AngleRadius(0.3, 7).Rotate(1.2)
	if !approxEqual(p.Angle, 1.5, epsilon) || p.Radius != 7 {
		t.Errorf("Rotate = %v, want [angle: 1.5, radius: 7]", p)
	}
}

func TestPolarTransformSumsVectors(t *testing.T) {
	a := ToPolar(XY(1, 0))
	b := ToPolar(XY(0, 1))
	sum := FromPolar(a.Transform(b))
	if !sum.ApproxEqual(XY(1, 1), epsilon) {
		t.Errorf("Transform = %v, want (1,1)", sum)
	}
	if got := AngleRadius(1, 4).Scale(0.5); got.Radius != 2 || got.Angle != 1 {
		t.Errorf("Scale = %v", got)
	}
}

func TestCartesianArithmetic(t *testing.T) {
	a, b := XY(1, 2), XY(4, -6)
	if got := a.Transform(b); got != XY(5, -4) {
		t.Errorf("Transform = %v", got)
	}
	if got := b.Sub(a); got != XY(3, -8) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(3); got != XY(3, 6) {
		t.Errorf("Scale = %v", got)
	}
	if got := XY(1.4, -2.6).Round(); got != XY(1, -3) {
		t.Errorf("Round = %v", got)
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		in   Cartesian
		cell float64
		want Cartesian
	}{
		{XY(12.4, 7.6), 5, XY(10, 10)},
		{XY(-2.4, 2.6), 1, XY(-2, 3)},
		{XY(0.4, 0.6), 0, XY(0, 1)},
	}
	for _, tt := range tests {
		if got := Snap(tt.in, tt.cell); got != tt.want {
			t.Errorf("Snap(%v, %g) = %v, want %v", tt.in, tt.cell, got, tt.want)
		}
	}
}

func TestFrameChildOrbitsParentRotation(t *testing.T) {
	root := RootFrame(XY(0, 0), 0)
	child := root.Child(XY(10, 0), math.Pi/2)
	if !child.Position.ApproxEqual(XY(10, 0), epsilon) {
		t.Errorf("child position = %v, want (10,0)", child.Position)
	}
	grandchild := child.Child(XY(10, 0), 0)
	if !grandchild.Position.ApproxEqual(XY(10, 10), epsilon) {
		t.Errorf("grandchild position = %v, want (10,10)", grandchild.Position)
	}
	if !approxEqual(grandchild.Rotation, math.Pi/2, epsilon) {
		t.Errorf("grandchild rotation = %g, want pi/2", grandchild.Rotation)
	}
}

func TestFrameInvert(t *testing.T) {
	f := Frame{Position: XY(5, -3), Rotation: 0.7}
	for _, local := range []Cartesian{XY(0, 0), XY(10, 2), XY(-4, 9)} {
		back := f.Invert(f.Apply(local))
		if !back.ApproxEqual(local, 1e-9) {
			t.Errorf("Invert(Apply(%v)) = %v", local, back)
		}
	}
	d := f.InvertOffset(f.Apply(XY(3, 0)).Sub(f.Apply(XY(0, 0))))
	if !d.ApproxEqual(XY(3, 0), 1e-9) {
		t.Errorf("InvertOffset = %v, want (3,0)", d)
	}
}

func TestForce(t *testing.T) {
	z := ZeroForce()
	if z.Magnitude() != 0 {
		t.Errorf("ZeroForce magnitude = %g", z.Magnitude())
	}
	f := Force{Polar: AngleRadius(0, 3)}.Sum(Force{Polar: AngleRadius(math.Pi/2, 4)})
	if !approxEqual(f.Magnitude(), 5, epsilon) {
		t.Errorf("Sum magnitude = %g, want 5", f.Magnitude())
	}
	if !f.Cartesian().ApproxEqual(XY(3, 4), epsilon) {
		t.Errorf("Sum cartesian = %v, want (3,4)", f.Cartesian())
	}
	g := f.WithMagnitude(10)
	if g.Magnitude() != 10 || g.Angle() != f.Angle() {
		t.Errorf("WithMagnitude = %v", g)
	}
	if !approxEqual(f.Magnitude(), 5, epsilon) {
		t.Error("WithMagnitude mutated receiver")
	}
}
