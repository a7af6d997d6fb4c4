package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/go-spheretrace/types"
)

// A deterministic random source that cycles through a fixed sequence.
type seqRand struct {
	values []float64
	next   int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func TestSphereHit(t *testing.T) {
	type spec struct {
		ray      types.Ray
		rayT     types.Interval
		expHit   bool
		expT     float64
		expFront bool
	}

	sphere := NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.XYZ(0.5, 0.5, 0.5)))
	specs := []spec{
		// Head-on hit from the outside
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)), types.Interval{Min: 0.001, Max: math.Inf(1)}, true, 0.5, true},
		// Miss
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 1, 0)), types.Interval{Min: 0.001, Max: math.Inf(1)}, false, 0, false},
		// Origin inside the sphere; far root is used and normal faces inwards
		{types.NewRay(types.XYZ(0, 0, -1), types.XYZ(0, 0, -1)), types.Interval{Min: 0.001, Max: math.Inf(1)}, true, 0.5, false},
		// Both roots outside the interval
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)), types.Interval{Min: 0.001, Max: 0.4}, false, 0, false},
		// Sphere behind the ray
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1)), types.Interval{Min: 0.001, Max: math.Inf(1)}, false, 0, false},
		// Unnormalized direction scales t
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -2)), types.Interval{Min: 0.001, Max: math.Inf(1)}, true, 0.25, true},
	}

	for specIndex, s := range specs {
		rec, hit := sphere.Hit(s.ray, s.rayT)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", specIndex, s.expHit, hit)
		}
		if !hit {
			continue
		}
		if math.Abs(rec.T-s.expT) > 1e-9 {
			t.Fatalf("[spec %d] expected t = %f; got %f", specIndex, s.expT, rec.T)
		}
		if rec.FrontFace != s.expFront {
			t.Fatalf("[spec %d] expected front face to be %t; got %t", specIndex, s.expFront, rec.FrontFace)
		}
		if math.Abs(rec.Normal.Len()-1) > 1e-9 {
			t.Fatalf("[spec %d] expected unit normal; got %v", specIndex, rec.Normal)
		}
		if rec.Normal.Dot(s.ray.Dir) > 0 {
			t.Fatalf("[spec %d] expected normal to oppose the ray direction", specIndex)
		}
		if rec.Material != sphere.Material() {
			t.Fatalf("[spec %d] expected hit record to carry the sphere material", specIndex)
		}
	}
}

func TestSphereNegativeRadius(t *testing.T) {
	sphere := NewSphere(types.XYZ(0, 0, -1), -3, NewLambertian(types.Vec3{}))
	if sphere.Radius() != 0 {
		t.Fatalf("expected negative radius to be clamped to 0; got %f", sphere.Radius())
	}
}

func TestHittableListNearestHit(t *testing.T) {
	near := NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.XYZ(1, 0, 0)))
	far := NewSphere(types.XYZ(0, 0, -3), 0.5, NewLambertian(types.XYZ(0, 1, 0)))
	ray := types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1))

	for specIndex, list := range []*HittableList{
		NewHittableList(near, far),
		NewHittableList(far, near),
	} {
		rec, hit := list.Hit(ray, hitInterval)
		if !hit {
			t.Fatalf("[spec %d] expected a hit", specIndex)
		}
		if math.Abs(rec.T-0.5) > 1e-9 {
			t.Fatalf("[spec %d] expected nearest hit at t = 0.5; got %f", specIndex, rec.T)
		}
		if rec.Material != near.Material() {
			t.Fatalf("[spec %d] expected hit record of the nearest sphere", specIndex)
		}
	}

	empty := NewHittableList()
	if _, hit := empty.Hit(ray, hitInterval); hit {
		t.Fatal("expected empty list not to report a hit")
	}
}

func TestHittableListSnapshot(t *testing.T) {
	objects := []Hittable{
		NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.Vec3{})),
	}
	list := NewHittableList(objects...)
	objects[0] = NewSphere(types.XYZ(0, 0, -10), 0.5, NewLambertian(types.Vec3{}))

	rec, hit := list.Hit(types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1)), hitInterval)
	if !hit || math.Abs(rec.T-0.5) > 1e-9 {
		t.Fatalf("expected list to be unaffected by changes to the source slice; got hit=%t t=%f", hit, rec.T)
	}
	if list.Len() != 1 {
		t.Fatalf("expected list length 1; got %d", list.Len())
	}
}
