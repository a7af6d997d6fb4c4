package scene

import "github.com/achilleasa/go-spheretrace/types"

// The result of a successful ray intersection test. Records live on the
// stack of the work item that performed the test and are never persisted.
type HitRecord struct {
	// Point of impact.
	Point types.Vec3

	// Unit surface normal, always oriented against the incoming ray.
	Normal types.Vec3

	// Parametric distance along the ray.
	T float64

	// True if the ray hit the outside surface.
	FrontFace bool

	// Material of the hit primitive.
	Material Material
}

// Set the front-face flag and orient the normal against the ray direction.
// The outward normal is expected to have unit length.
func (rec *HitRecord) SetFaceNormal(r types.Ray, outwardNormal types.Vec3) {
	rec.FrontFace = r.Dir.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// The Hittable interface is implemented by primitives and primitive lists.
// The set of implementations is closed: only this package provides them.
type Hittable interface {
	// Test the ray against the object and report the closest intersection
	// whose distance lies inside the open interval rayT.
	Hit(r types.Ray, rayT types.Interval) (HitRecord, bool)

	hittable()
}
