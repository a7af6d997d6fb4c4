package scene

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/achilleasa/go-spheretrace/types"
)

func TestCameraImageHeight(t *testing.T) {
	type spec struct {
		width     int
		aspect    float64
		expHeight int
	}

	specs := []spec{
		{400, 16.0 / 9.0, 225},
		{800, 16.0 / 9.0, 450},
		{4, 2.0, 2},
		// Height never drops below one row
		{1, 16.0 / 9.0, 1},
		{10, 100, 1},
	}

	for specIndex, s := range specs {
		cam := NewCamera()
		cam.ImageWidth = s.width
		cam.AspectRatio = s.aspect
		if err := cam.Initialize(); err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}
		if cam.ImageHeight() != s.expHeight {
			t.Fatalf("[spec %d] expected height %d; got %d", specIndex, s.expHeight, cam.ImageHeight())
		}
	}
}

func TestCameraInvalidConfig(t *testing.T) {
	specs := []func(c *Camera){
		func(c *Camera) { c.ImageWidth = 0 },
		func(c *Camera) { c.AspectRatio = 0 },
		func(c *Camera) { c.AspectRatio = math.NaN() },
		func(c *Camera) { c.VFov = 180 },
		func(c *Camera) { c.FocusDistance = 0 },
		func(c *Camera) { c.SamplesPerPixel = 0 },
		func(c *Camera) { c.MaxDepth = -1 },
		func(c *Camera) { c.LookAt = c.LookFrom },
		func(c *Camera) { c.Up = types.XYZ(0, 0, 1) },
	}

	for specIndex, mutate := range specs {
		cam := NewCamera()
		mutate(cam)
		err := cam.Initialize()
		if !errors.Is(err, ErrInvalidCamera) {
			t.Fatalf("[spec %d] expected ErrInvalidCamera; got %v", specIndex, err)
		}
		if cam.Initialized() {
			t.Fatalf("[spec %d] expected camera not to be flagged as initialized", specIndex)
		}
	}
}

func TestCameraPrimaryRays(t *testing.T) {
	cam := NewCamera()
	cam.ImageWidth = 4
	cam.AspectRatio = 2
	cam.FocusDistance = 1
	if err := cam.Initialize(); err != nil {
		t.Fatal(err)
	}

	if cam.PixelSamplesScale() != 1.0/float64(cam.SamplesPerPixel) {
		t.Fatalf("unexpected pixel sample scale %f", cam.PixelSamplesScale())
	}

	// A constant 0.5 random source removes jitter so rays pass through pixel centers.
	rng := &seqRand{values: []float64{0.5}}

	// The viewport spans [-2, 2] x [-1, 1] at z = -1
	type spec struct {
		i, j   int
		expDir types.Vec3
	}
	specs := []spec{
		{0, 0, types.XYZ(-1.5, 0.5, -1)},
		{3, 0, types.XYZ(1.5, 0.5, -1)},
		{1, 1, types.XYZ(-0.5, -0.5, -1)},
		{2, 1, types.XYZ(0.5, -0.5, -1)},
	}
	for specIndex, s := range specs {
		ray := cam.GetRay(s.i, s.j, rng)
		if ray.Origin != cam.LookFrom {
			t.Fatalf("[spec %d] expected pinhole ray to start at the eye; got %v", specIndex, ray.Origin)
		}
		if !types.ApproxEqual(ray.Dir, s.expDir, 1e-9) {
			t.Fatalf("[spec %d] expected ray direction %v; got %v", specIndex, s.expDir, ray.Dir)
		}
	}
}

func TestCameraDefocusDisk(t *testing.T) {
	cam := NewCamera()
	cam.DefocusAngle = 10
	cam.FocusDistance = 3
	if err := cam.Initialize(); err != nil {
		t.Fatal(err)
	}

	radius := cam.FocusDistance * math.Tan(types.Radians(cam.DefocusAngle/2))
	rng := rand.New(rand.NewPCG(1, 1))
	moved := false
	for i := 0; i < 500; i++ {
		ray := cam.GetRay(200, 100, rng)
		offset := ray.Origin.Sub(cam.LookFrom)
		if offset.Len() > radius+1e-9 {
			t.Fatalf("expected ray origin within the defocus disk radius %f; got offset %v", radius, offset)
		}
		// The disk lies on the plane perpendicular to the view direction
		if math.Abs(offset.Z()) > 1e-9 {
			t.Fatalf("expected ray origin on the lens plane; got offset %v", offset)
		}
		if !offset.NearZero() {
			moved = true
		}
	}
	if !moved {
		t.Fatal("expected thin lens rays to start away from the eye")
	}
}

func TestCameraRayColor(t *testing.T) {
	cam := NewCamera()
	if err := cam.Initialize(); err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(1, 2))

	empty := NewHittableList()
	up := types.NewRay(types.Vec3{}, types.XYZ(0, 1, 0))
	if got := cam.RayColor(up, empty, 10, rng); !types.ApproxEqual(got, types.XYZ(0.5, 0.7, 1.0), 1e-12) {
		t.Fatalf("expected sky blue looking straight up; got %v", got)
	}
	down := types.NewRay(types.Vec3{}, types.XYZ(0, -1, 0))
	if got := cam.RayColor(down, empty, 10, rng); !types.ApproxEqual(got, types.XYZ(1, 1, 1), 1e-12) {
		t.Fatalf("expected white looking straight down; got %v", got)
	}
	if got := cam.RayColor(up, empty, 0, rng); got != (types.Vec3{}) {
		t.Fatalf("expected black once the bounce budget is exhausted; got %v", got)
	}

	// With a single bounce any surface hit contributes black
	world := NewHittableList(NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.XYZ(0.5, 0.5, 0.5))))
	fwd := types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1))
	if got := cam.RayColor(fwd, world, 1, rng); got != (types.Vec3{}) {
		t.Fatalf("expected black for a hit at depth 1; got %v", got)
	}
	// With two bounces the attenuated background is returned
	got := cam.RayColor(fwd, world, 2, rng)
	for c := 0; c < 3; c++ {
		if got[c] < 0 || got[c] > 0.5 {
			t.Fatalf("expected attenuated color channel in [0, 0.5]; got %v", got)
		}
	}
}

func TestLinearToGamma(t *testing.T) {
	type spec struct {
		in, exp float64
	}
	specs := []spec{
		{0.25, 0.5},
		{1, 1},
		{0, 0},
		{-1, 0},
	}
	for specIndex, s := range specs {
		if got := LinearToGamma(s.in); math.Abs(got-s.exp) > 1e-12 {
			t.Fatalf("[spec %d] expected %f; got %f", specIndex, s.exp, got)
		}
	}
}

func TestToRGB8(t *testing.T) {
	type spec struct {
		in  types.Vec3
		exp [3]uint8
	}
	specs := []spec{
		{types.XYZ(0, 0, 0), [3]uint8{0, 0, 0}},
		{types.XYZ(1, 1, 1), [3]uint8{255, 255, 255}},
		{types.XYZ(4, -1, 0.25), [3]uint8{255, 0, 128}},
	}
	for specIndex, s := range specs {
		if got := ToRGB8(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", specIndex, s.exp, got)
		}
	}
}
