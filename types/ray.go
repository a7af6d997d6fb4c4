package types

import "math"

// A ray with an origin and a (not necessarily normalized) direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// A closed range of real numbers. The zero value is [0, 0].
type Interval struct {
	Min float64
	Max float64
}

var (
	EmptyInterval    = Interval{math.Inf(1), math.Inf(-1)}
	UniverseInterval = Interval{math.Inf(-1), math.Inf(1)}
)

// Returns true if x lies in [Min, Max].
func (iv Interval) Contains(x float64) bool {
	return iv.Min <= x && x <= iv.Max
}

// Returns true if x lies in (Min, Max).
func (iv Interval) Surrounds(x float64) bool {
	return iv.Min < x && x < iv.Max
}

// Clamp x to [Min, Max].
func (iv Interval) Clamp(x float64) float64 {
	if x < iv.Min {
		return iv.Min
	}
	if x > iv.Max {
		return iv.Max
	}
	return x
}

func (iv Interval) Size() float64 {
	return iv.Max - iv.Min
}
