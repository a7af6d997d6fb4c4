package scene

import (
	"math"

	"github.com/achilleasa/go-spheretrace/types"
)

// A sphere primitive. Spheres are immutable after construction.
type Sphere struct {
	center   types.Vec3
	radius   float64
	material Material
}

// Create a new sphere. Negative radii are clamped to zero.
func NewSphere(center types.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		center:   center,
		radius:   math.Max(0, radius),
		material: material,
	}
}

func (s *Sphere) Center() types.Vec3 { return s.center }
func (s *Sphere) Radius() float64     { return s.radius }
func (s *Sphere) Material() Material  { return s.material }

// Solve the ray/sphere quadratic using the half-b formulation. The nearest
// root is preferred; if it falls outside rayT the far root is tried.
func (s *Sphere) Hit(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	var rec HitRecord

	oc := s.center.Sub(r.Origin)
	a := r.Dir.LenSquared()
	h := r.Dir.Dot(oc)
	c := oc.LenSquared() - s.radius*s.radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return rec, false
	}

	sqrtd := math.Sqrt(discriminant)
	root := (h - sqrtd) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtd) / a
		if !rayT.Surrounds(root) {
			return rec, false
		}
	}

	rec.T = root
	rec.Point = r.At(root)
	rec.SetFaceNormal(r, rec.Point.Sub(s.center).Div(s.radius))
	rec.Material = s.material

	return rec, true
}

func (*Sphere) hittable() {}
