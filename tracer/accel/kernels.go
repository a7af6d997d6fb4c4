package accel

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/tracer/device"
	"github.com/achilleasa/go-spheretrace/types"
)

// The device program shared by all allocators and tracers. Loading the same
// program instance into a device twice is a no-op.
var loadProgram = sync.OnceValues(func() (*device.Program, error) {
	return device.NewProgram(
		"spheretrace",
		device.KernelSource{Name: newLambertian.String(), NumArgs: 2, Fn: newLambertianKernel},
		device.KernelSource{Name: newMetal.String(), NumArgs: 3, Fn: newMetalKernel},
		device.KernelSource{Name: newDielectric.String(), NumArgs: 2, Fn: newDielectricKernel},
		device.KernelSource{Name: newSphere.String(), NumArgs: 4, Fn: newSphereKernel},
		device.KernelSource{Name: newHittableList.String(), NumArgs: 3, Fn: newHittableListKernel},
		device.KernelSource{Name: renderFrame.String(), NumArgs: 4, Fn: renderFrameKernel},
		device.KernelSource{Name: tonemap.String(), NumArgs: 3, Fn: tonemapKernel},
	)
})

// newLambertian(dst Ptr, albedo Vec3)
func newLambertianKernel(wi device.WorkItem, args []interface{}) error {
	return wi.Memory.Store(args[0].(device.Ptr), scene.NewLambertian(args[1].(types.Vec3)))
}

// newMetal(dst Ptr, albedo Vec3, fuzz float64)
func newMetalKernel(wi device.WorkItem, args []interface{}) error {
	return wi.Memory.Store(args[0].(device.Ptr), scene.NewMetal(args[1].(types.Vec3), args[2].(float64)))
}

// newDielectric(dst Ptr, refractionIndex float64)
func newDielectricKernel(wi device.WorkItem, args []interface{}) error {
	return wi.Memory.Store(args[0].(device.Ptr), scene.NewDielectric(args[1].(float64)))
}

// newSphere(dst Ptr, center Vec3, radius float64, material Ptr)
func newSphereKernel(wi device.WorkItem, args []interface{}) error {
	matPtr := args[3].(device.Ptr)
	mat, err := loadMaterial(wi.Memory, matPtr)
	if err != nil {
		return err
	}
	return wi.Memory.Store(args[0].(device.Ptr), scene.NewSphere(args[1].(types.Vec3), args[2].(float64), mat))
}

// newHittableList(dst Ptr, handles *Buffer, count uint32)
func newHittableListKernel(wi device.WorkItem, args []interface{}) error {
	handles, err := device.View[device.Ptr](args[1].(*device.Buffer))
	if err != nil {
		return err
	}
	count := int(args[2].(uint32))
	if count > len(handles) {
		return fmt.Errorf("%w: handle count %d exceeds buffer capacity %d", ErrInvalidParameter, count, len(handles))
	}

	objects := make([]scene.Hittable, count)
	for index, ptr := range handles[:count] {
		if objects[index], err = loadHittable(wi.Memory, ptr); err != nil {
			return err
		}
	}
	return wi.Memory.Store(args[0].(device.Ptr), scene.NewHittableList(objects...))
}

// renderFrame(world Ptr, camera scene.Camera, seed uint64, accumulator *Buffer)
//
// Each work item renders one pixel using a private random stream derived
// from the frame seed and the pixel index.
func renderFrameKernel(wi device.WorkItem, args []interface{}) error {
	world, err := loadHittable(wi.Memory, args[0].(device.Ptr))
	if err != nil {
		return err
	}
	cam := args[1].(scene.Camera)
	seed := args[2].(uint64)
	accum, err := device.View[types.Vec4](args[3].(*device.Buffer))
	if err != nil {
		return err
	}

	i, j := wi.GlobalID[0], wi.GlobalID[1]
	pixelIndex := j*wi.GlobalSize[0] + i
	rng := rand.New(rand.NewPCG(seed, uint64(pixelIndex)))

	accum[pixelIndex] = cam.SamplePixel(i, j, world, rng).Vec4(float32(cam.SamplesPerPixel))
	return nil
}

// tonemap(accumulator *Buffer, frameBuffer *Buffer, numPixels uint32)
//
// Gamma-correct, clamp and quantize accumulated colors into RGBA8 pixels.
func tonemapKernel(wi device.WorkItem, args []interface{}) error {
	accum, err := device.View[types.Vec4](args[0].(*device.Buffer))
	if err != nil {
		return err
	}
	frame, err := device.View[[4]uint8](args[1].(*device.Buffer))
	if err != nil {
		return err
	}

	pixelIndex := wi.GlobalID[0]
	if uint32(pixelIndex) >= args[2].(uint32) {
		return nil
	}

	rgb := scene.ToRGB8(accum[pixelIndex].Vec3())
	frame[pixelIndex] = [4]uint8{rgb[0], rgb[1], rgb[2], 255}
	return nil
}

func loadMaterial(mem *device.Memory, ptr device.Ptr) (scene.Material, error) {
	v, err := mem.Load(ptr)
	if err != nil {
		return nil, fmt.Errorf("%w: material %v", ErrDanglingHandle, err)
	}
	mat, ok := v.(scene.Material)
	if !ok {
		return nil, fmt.Errorf("%w: %#x does not refer to a material", ErrDanglingHandle, uint32(ptr))
	}
	return mat, nil
}

func loadHittable(mem *device.Memory, ptr device.Ptr) (scene.Hittable, error) {
	v, err := mem.Load(ptr)
	if err != nil {
		return nil, fmt.Errorf("%w: hittable %v", ErrDanglingHandle, err)
	}
	obj, ok := v.(scene.Hittable)
	if !ok {
		return nil, fmt.Errorf("%w: %#x does not refer to a hittable", ErrDanglingHandle, uint32(ptr))
	}
	return obj, nil
}
