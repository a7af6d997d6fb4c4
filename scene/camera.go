package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/go-spheretrace/types"
)

var (
	ErrInvalidCamera      = errors.New("scene: invalid camera configuration")
	ErrCameraNotInitiated = errors.New("scene: camera not initialized")
)

var (
	skyWhite = types.XYZ(1.0, 1.0, 1.0)
	skyBlue  = types.XYZ(0.5, 0.7, 1.0)

	// Minimum hit distance; avoids self-intersection ("shadow acne") of
	// scattered rays due to floating point error.
	hitInterval = types.Interval{Min: 0.001, Max: math.Inf(1)}
)

// The camera generates primary rays and evaluates the light transport for
// each sample. Configuration fields must be set before calling Initialize.
// The derived state is computed once per render and never per pixel.
type Camera struct {
	// Ratio of image width over height.
	AspectRatio float64

	// Rendered image width in pixels.
	ImageWidth int

	// Vertical field of view in degrees.
	VFov float64

	// Eye position, look-at target and the camera-relative up vector.
	LookFrom types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Variation angle of rays through each pixel (degrees) and the distance
	// from the eye to the plane of perfect focus.
	DefocusAngle  float64
	FocusDistance float64

	// Number of random samples per pixel.
	SamplesPerPixel int

	// Maximum number of ray bounces.
	MaxDepth int

	// Derived state.
	initialized       bool
	imageHeight       int
	pixelSamplesScale float64
	center            types.Vec3
	pixel00           types.Vec3
	pixelDeltaU       types.Vec3
	pixelDeltaV       types.Vec3
	u, v, w           types.Vec3
	defocusDiskU      types.Vec3
	defocusDiskV      types.Vec3
}

// Create a camera with sensible defaults: a 16:9 400px wide frame looking
// down the negative z axis.
func NewCamera() *Camera {
	return &Camera{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		VFov:            90,
		LookFrom:        types.XYZ(0, 0, 0),
		LookAt:          types.XYZ(0, 0, -1),
		Up:              types.XYZ(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   10,
		SamplesPerPixel: 20,
		MaxDepth:        10,
	}
}

// Validate the configuration and compute the derived camera state. This
// method must be called before generating rays and after any change to the
// configuration fields.
func (c *Camera) Initialize() error {
	c.initialized = false

	switch {
	case c.ImageWidth < 1:
		return fmt.Errorf("%w: image width must be positive; got %d", ErrInvalidCamera, c.ImageWidth)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio must be a positive finite value; got %f", ErrInvalidCamera, c.AspectRatio)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical fov must be in (0, 180); got %f", ErrInvalidCamera, c.VFov)
	case !(c.FocusDistance > 0) || math.IsInf(c.FocusDistance, 0):
		return fmt.Errorf("%w: focus distance must be a positive finite value; got %f", ErrInvalidCamera, c.FocusDistance)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be positive; got %d", ErrInvalidCamera, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative; got %d", ErrInvalidCamera, c.MaxDepth)
	case c.LookFrom.Sub(c.LookAt).NearZero():
		return fmt.Errorf("%w: eye position and look-at target coincide", ErrInvalidCamera)
	}

	c.imageHeight = int(float64(c.ImageWidth) / c.AspectRatio)
	if c.imageHeight < 1 {
		c.imageHeight = 1
	}
	c.pixelSamplesScale = 1.0 / float64(c.SamplesPerPixel)
	c.center = c.LookFrom

	viewportHeight := 2 * math.Tan(types.Radians(c.VFov)/2) * c.FocusDistance
	viewportWidth := viewportHeight * (float64(c.ImageWidth) / float64(c.imageHeight))

	// Orthonormal camera basis
	c.w = c.LookFrom.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(c.w).Normalize()
	if c.u.NearZero() {
		return fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidCamera)
	}
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Mul(viewportWidth)
	viewportV := c.v.Mul(-viewportHeight)

	c.pixelDeltaU = viewportU.Div(float64(c.ImageWidth))
	c.pixelDeltaV = viewportV.Div(float64(c.imageHeight))

	viewportUpperLeft := c.center.
		Sub(c.w.Mul(c.FocusDistance)).
		Sub(viewportU.Div(2)).
		Sub(viewportV.Div(2))
	c.pixel00 = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Mul(0.5))

	defocusRadius := c.FocusDistance * math.Tan(types.Radians(c.DefocusAngle/2))
	c.defocusDiskU = c.u.Mul(defocusRadius)
	c.defocusDiskV = c.v.Mul(defocusRadius)

	c.initialized = true
	return nil
}

// Returns true if Initialize completed successfully.
func (c *Camera) Initialized() bool {
	return c.initialized
}

// Get the derived image height.
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Get the scaling factor that averages the per-pixel samples.
func (c *Camera) PixelSamplesScale() float64 {
	return c.pixelSamplesScale
}

// Generate a ray towards a randomly jittered point inside pixel (i, j). The
// ray starts at the eye for a pinhole camera or at a random point on the
// defocus disk when depth of field is enabled.
func (c *Camera) GetRay(i, j int, rng types.RandomSource) types.Ray {
	offsetX := rng.Float64() - 0.5
	offsetY := rng.Float64() - 0.5
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Mul(float64(i) + offsetX)).
		Add(c.pixelDeltaV.Mul(float64(j) + offsetY))

	origin := c.center
	if c.DefocusAngle > 0 {
		origin = c.defocusDiskSample(rng)
	}

	return types.NewRay(origin, pixelSample.Sub(origin))
}

func (c *Camera) defocusDiskSample(rng types.RandomSource) types.Vec3 {
	p := types.RandomInUnitDisk(rng)
	return c.center.Add(c.defocusDiskU.Mul(p[0])).Add(c.defocusDiskV.Mul(p[1]))
}

// Estimate the radiance carried along r. Each bounce multiplies the
// material attenuation into the result; recursion stops after depth bounces.
func (c *Camera) RayColor(r types.Ray, world Hittable, depth int, rng types.RandomSource) types.Vec3 {
	if depth <= 0 {
		return types.Vec3{}
	}

	if rec, hit := world.Hit(r, hitInterval); hit {
		attenuation, scattered, ok := rec.Material.Scatter(r, &rec, rng)
		if !ok {
			return types.Vec3{}
		}
		return attenuation.MulVec(c.RayColor(scattered, world, depth-1, rng))
	}

	return Background(r)
}

// The background gradient is the only light source. It blends white and sky
// blue by the vertical component of the ray direction.
func Background(r types.Ray) types.Vec3 {
	a := 0.5 * (r.Dir.Normalize().Y() + 1.0)
	return skyWhite.Mul(1.0 - a).Add(skyBlue.Mul(a))
}

// Sample pixel (i, j) SamplesPerPixel times and return the averaged linear color.
func (c *Camera) SamplePixel(i, j int, world Hittable, rng types.RandomSource) types.Vec3 {
	var pixel types.Vec3
	for s := 0; s < c.SamplesPerPixel; s++ {
		pixel = pixel.Add(c.RayColor(c.GetRay(i, j, rng), world, c.MaxDepth, rng))
	}
	return pixel.Mul(c.pixelSamplesScale)
}
