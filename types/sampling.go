package types

// RandomSource produces uniformly distributed float64 values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it; every kernel work item owns
// its own source so no state is shared between work items.
type RandomSource interface {
	Float64() float64
}

// Uniform value in [min, max).
func RandomRange(rng RandomSource, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// Uniformly distributed point strictly inside the unit sphere. Points too
// close to the origin are rejected so that they can be safely normalized.
func RandomInUnitSphere(rng RandomSource) Vec3 {
	for {
		p := Vec3{
			RandomRange(rng, -1, 1),
			RandomRange(rng, -1, 1),
			RandomRange(rng, -1, 1),
		}
		lenSq := p.LenSquared()
		if lenSq > 1e-160 && lenSq < 1 {
			return p
		}
	}
}

// Uniformly distributed unit vector.
func RandomUnitVector(rng RandomSource) Vec3 {
	return RandomInUnitSphere(rng).Normalize()
}

// Uniformly distributed point inside the unit disk on the z=0 plane.
func RandomInUnitDisk(rng RandomSource) Vec3 {
	for {
		p := Vec3{RandomRange(rng, -1, 1), RandomRange(rng, -1, 1), 0}
		if p.LenSquared() < 1 {
			return p
		}
	}
}
