package geom

// Frame is an accumulated world-space state: where a shape's local origin sits
// in the world and how far its local axes are rotated.
type Frame struct {
	Position Cartesian
	Rotation float64
}

// RootFrame returns the frame of a shape evaluated without a parent.
func RootFrame(origin Cartesian, rotation float64) Frame {
	return Frame{Position: origin, Rotation: rotation}
}

// Apply maps a point from this frame's local space into world space:
// the offset is rotated by the frame's rotation in polar form, then
// translated by the frame's position. Unrotated frames only translate, so
// axis-aligned trees keep exact coordinates.
func (f Frame) Apply(local Cartesian) Cartesian {
	if f.Rotation == 0 {
		return f.Position.Transform(local)
	}
	return f.Position.Transform(FromPolar(ToPolar(local).Rotate(f.Rotation)))
}

// Child returns the frame of a child whose origin and rotation are
// expressed relative to f.
func (f Frame) Child(origin Cartesian, rotation float64) Frame {
	return Frame{
		Position: f.Apply(origin),
		Rotation: f.Rotation + rotation,
	}
}

// Invert maps a world-space point back into this frame's local space.
func (f Frame) Invert(world Cartesian) Cartesian {
	if f.Rotation == 0 {
		return world.Sub(f.Position)
	}
	return FromPolar(ToPolar(world.Sub(f.Position)).Rotate(-f.Rotation))
}

// InvertOffset maps a world-space displacement into this frame's local axes.
// Unlike Invert it ignores the frame's position.
func (f Frame) InvertOffset(delta Cartesian) Cartesian {
	if f.Rotation == 0 {
		return delta
	}
	return FromPolar(ToPolar(delta).Rotate(-f.Rotation))
}
