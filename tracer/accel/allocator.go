package accel

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-spheretrace/log"
	"github.com/achilleasa/go-spheretrace/tracer/device"
	"github.com/achilleasa/go-spheretrace/types"
)

// An opaque reference to a material constructed in device memory.
type MaterialHandle struct {
	ptr device.Ptr
}

// Get the device address of the handle.
func (h MaterialHandle) Ptr() device.Ptr { return h.ptr }

// Returns true for the zero handle.
func (h MaterialHandle) IsNil() bool { return h.ptr == device.NilPtr }

// An opaque reference to a sphere or hittable list constructed in device memory.
type HittableHandle struct {
	ptr device.Ptr
}

// Get the device address of the handle.
func (h HittableHandle) Ptr() device.Ptr { return h.ptr }

// Returns true for the zero handle.
func (h HittableHandle) IsNil() bool { return h.ptr == device.NilPtr }

// Allocation counters.
type AllocatorStats struct {
	Materials int
	Hittables int
	Lists     int
}

// Get the total number of tracked allocations.
func (s AllocatorStats) Total() int {
	return s.Materials + s.Hittables + s.Lists
}

// The Allocator constructs scene objects in device memory. Each allocation
// mallocs a device memory cell and launches a single work item construction
// kernel that populates it. Every returned handle is tracked until ReleaseAll
// is invoked.
type Allocator struct {
	logger log.Logger

	device  *device.Device
	kernels []*device.Kernel

	// Scratch buffer for passing handle arrays to list construction kernels.
	handleBuf *device.Buffer

	// Tracked allocations.
	materials []device.Ptr
	hittables []device.Ptr
	lists     []device.Ptr
}

// Create an allocator for the given device. The device is initialized with
// the tracer program if required.
func NewAllocator(dev *device.Device) (*Allocator, error) {
	program, err := loadProgram()
	if err != nil {
		return nil, err
	}
	if err = dev.Init(program); err != nil {
		return nil, err
	}

	a := &Allocator{
		logger:    log.New(fmt.Sprintf("accel allocator (%s)", dev.Name)),
		device:    dev,
		kernels:   make([]*device.Kernel, newHittableList+1),
		handleBuf: dev.Buffer("handles"),
	}

	// Load construction kernels
	for kType := newLambertian; kType <= newHittableList; kType++ {
		a.kernels[kType], err = dev.Kernel(kType.String())
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Allocate a diffuse material.
func (a *Allocator) AllocateLambertian(albedo types.Vec3) (MaterialHandle, error) {
	if !albedo.IsFinite() {
		return MaterialHandle{}, fmt.Errorf("%w: lambertian albedo %v is not finite", ErrInvalidParameter, albedo)
	}

	ptr, err := a.construct(newLambertian, "lambertian", albedo)
	if err != nil {
		return MaterialHandle{}, err
	}
	a.materials = append(a.materials, ptr)
	return MaterialHandle{ptr: ptr}, nil
}

// Allocate a reflective material. A fuzz value of 0 yields a perfect mirror.
func (a *Allocator) AllocateMetal(albedo types.Vec3, fuzz float64) (MaterialHandle, error) {
	if !albedo.IsFinite() {
		return MaterialHandle{}, fmt.Errorf("%w: metal albedo %v is not finite", ErrInvalidParameter, albedo)
	}
	if !isFinite(fuzz) || fuzz < 0 {
		return MaterialHandle{}, fmt.Errorf("%w: metal fuzz must be a finite value >= 0; got %f", ErrInvalidParameter, fuzz)
	}

	ptr, err := a.construct(newMetal, "metal", albedo, fuzz)
	if err != nil {
		return MaterialHandle{}, err
	}
	a.materials = append(a.materials, ptr)
	return MaterialHandle{ptr: ptr}, nil
}

// Allocate a refractive material.
func (a *Allocator) AllocateDielectric(refractionIndex float64) (MaterialHandle, error) {
	if !isFinite(refractionIndex) || refractionIndex <= 0 {
		return MaterialHandle{}, fmt.Errorf("%w: refraction index must be a finite value > 0; got %f", ErrInvalidParameter, refractionIndex)
	}

	ptr, err := a.construct(newDielectric, "dielectric", refractionIndex)
	if err != nil {
		return MaterialHandle{}, err
	}
	a.materials = append(a.materials, ptr)
	return MaterialHandle{ptr: ptr}, nil
}

// Allocate a sphere. Negative radii are clamped to zero by the construction
// kernel. The launch fails with ErrDanglingHandle if the material handle does
// not refer to a live material.
func (a *Allocator) AllocateSphere(center types.Vec3, radius float64, material MaterialHandle) (HittableHandle, error) {
	if !center.IsFinite() || !isFinite(radius) {
		return HittableHandle{}, fmt.Errorf("%w: sphere center %v and radius %f must be finite", ErrInvalidParameter, center, radius)
	}

	ptr, err := a.construct(newSphere, "sphere", center, radius, material.ptr)
	if err != nil {
		return HittableHandle{}, err
	}
	a.hittables = append(a.hittables, ptr)
	return HittableHandle{ptr: ptr}, nil
}

// Wrap the given primitives in a new hittable list. The handles are copied
// into a device buffer and resolved by the construction kernel, so the list
// is a snapshot; it must be rebuilt whenever the primitive set changes.
func (a *Allocator) AllocateScene(handles ...HittableHandle) (HittableHandle, error) {
	// The buffer always holds at least one slot so empty lists can be built.
	ptrs := make([]device.Ptr, len(handles)+1)
	for index, h := range handles {
		ptrs[index] = h.ptr
	}
	if err := a.handleBuf.AllocateAndWriteData(ptrs); err != nil {
		return HittableHandle{}, err
	}
	defer a.handleBuf.Release()

	ptr, err := a.construct(newHittableList, "hittable list", a.handleBuf, uint32(len(handles)))
	if err != nil {
		return HittableHandle{}, err
	}
	a.lists = append(a.lists, ptr)
	return HittableHandle{ptr: ptr}, nil
}

// Free every tracked allocation. Lists are released first, then primitives
// and finally materials. Calling ReleaseAll again is a no-op.
func (a *Allocator) ReleaseAll() error {
	stats := a.Stats()
	if stats.Total() == 0 {
		return nil
	}

	var firstErr error
	for _, group := range [][]device.Ptr{a.lists, a.hittables, a.materials} {
		for i := len(group) - 1; i >= 0; i-- {
			if err := a.device.Free(group[i]); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	a.lists = a.lists[:0]
	a.hittables = a.hittables[:0]
	a.materials = a.materials[:0]

	a.logger.Debugf("released %d materials, %d hittables and %d lists", stats.Materials, stats.Hittables, stats.Lists)
	return firstErr
}

// Get the number of tracked allocations.
func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{
		Materials: len(a.materials),
		Hittables: len(a.hittables),
		Lists:     len(a.lists),
	}
}

// Release all allocations and kernels.
func (a *Allocator) Close() {
	if err := a.ReleaseAll(); err != nil {
		a.logger.Warningf("error releasing device allocations: %v", err)
	}

	for _, k := range a.kernels {
		if k != nil {
			k.Release()
		}
	}
	a.kernels = nil

	if a.handleBuf != nil {
		a.handleBuf.Release()
	}
}

// Malloc a cell and populate it by launching a single work item of the given
// construction kernel with the cell address prepended to args. The cell is
// freed if the launch fails.
func (a *Allocator) construct(kType kernelType, tag string, args ...interface{}) (device.Ptr, error) {
	if a.kernels == nil {
		return device.NilPtr, ErrAllocatorClosed
	}

	ptr, err := a.device.Malloc(tag)
	if err != nil {
		return device.NilPtr, err
	}

	kernel := a.kernels[kType]
	err = kernel.SetArgs(append([]interface{}{ptr}, args...)...)
	if err == nil {
		_, err = kernel.Exec1D(0, 1, 1)
	}
	if err != nil {
		if freeErr := a.device.Free(ptr); freeErr != nil {
			a.logger.Warningf("could not free %s cell after failed construction: %v", tag, freeErr)
		}
		return device.NilPtr, fmt.Errorf("accel: could not construct %s: %w", tag, err)
	}

	return ptr, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
