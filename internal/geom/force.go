package geom

// Force is a directed magnitude.
type Force struct {
	Polar Polar
}

// ZeroForce returns a force of magnitude 0.
func ZeroForce() Force {
	return Force{Polar: Polar{}}
}

func (f Force) Angle() float64     { return f.Polar.Angle }
func (f Force) Magnitude() float64 { return f.Polar.Radius }

// Cartesian returns the force as a Cartesian vector.
func (f Force) Cartesian() Cartesian {
	return FromPolar(f.Polar)
}

// WithMagnitude returns f with its magnitude replaced.
func (f Force) WithMagnitude(m float64) Force {
	return Force{Polar: Polar{Angle: f.Polar.Angle, Radius: m}}
}

// Sum returns the vector sum of two forces.
func (f Force) Sum(other Force) Force {
	return Force{Polar: f.Polar.Transform(other.Polar)}
}
