package accel

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/achilleasa/go-spheretrace/log"
	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/tracer"
	"github.com/achilleasa/go-spheretrace/tracer/device"
)

// Seed used when rendering frames without an explicit seed.
const DefaultSeed uint64 = 42

// A tracer that renders frames on a compute device. Scene objects live in
// device memory and are created through the tracer's Allocator.
type Tracer struct {
	logger log.Logger

	sync.Mutex

	// The device associated with this tracer instance.
	device *device.Device

	// The tracer id.
	id string

	allocator *Allocator

	// The render and tonemap kernels.
	kernels map[kernelType]*device.Kernel

	// The allocated frame buffers.
	buffers *bufferSet

	// Statistics for last rendered frame.
	stats *tracer.Stats
}

// Create a new accelerator tracer for the given device.
func NewTracer(id string, dev *device.Device) (*Tracer, error) {
	allocator, err := NewAllocator(dev)
	if err != nil {
		return nil, err
	}

	tr := &Tracer{
		logger:    log.New(fmt.Sprintf("accel tracer (%s)", id)),
		device:    dev,
		id:        id,
		allocator: allocator,
		kernels:   make(map[kernelType]*device.Kernel),
		buffers:   newBufferSet(dev),
		stats:     &tracer.Stats{},
	}

	for _, kType := range []kernelType{renderFrame, tonemap} {
		tr.kernels[kType], err = dev.Kernel(kType.String())
		if err != nil {
			tr.Close()
			return nil, err
		}
	}

	return tr, nil
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Get the allocator used for constructing device-resident scene objects.
func (tr *Tracer) Allocator() *Allocator {
	return tr.allocator
}

// Retrieve last frame statistics.
func (tr *Tracer) Stats() *tracer.Stats {
	tr.Lock()
	defer tr.Unlock()
	stats := *tr.stats
	return &stats
}

// Shutdown and cleanup tracer. The device itself is closed as well.
func (tr *Tracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	for _, k := range tr.kernels {
		if k != nil {
			k.Release()
		}
	}
	tr.kernels = nil

	if tr.buffers != nil {
		tr.buffers.Release()
	}
	if tr.allocator != nil {
		tr.allocator.Close()
		tr.allocator = nil
	}
	tr.device.Close()
}

// Render a scene description. The scene objects are constructed in device
// memory, the frame is rendered and all device allocations are released
// before returning.
func (tr *Tracer) Render(sc *scene.Scene, seed uint64) (*image.RGBA, error) {
	if sc == nil || sc.Camera == nil {
		return nil, fmt.Errorf("accel tracer (%s): no scene or camera defined", tr.id)
	}
	if tr.allocator == nil {
		return nil, fmt.Errorf("accel tracer (%s): %w", tr.id, ErrAllocatorClosed)
	}

	tick := time.Now()
	world, err := UploadScene(tr.allocator, sc)
	if err != nil {
		tr.allocator.ReleaseAll()
		return nil, err
	}
	sceneTime := time.Since(tick)
	allocations := tr.allocator.Stats().Total()
	tr.logger.Infof("constructed %d device objects in %s", allocations, sceneTime)

	defer func() {
		if err := tr.allocator.ReleaseAll(); err != nil {
			tr.logger.Warningf("error releasing scene: %v", err)
		}
	}()

	frame, err := tr.RenderFrame(sc.Camera, world, seed)
	if err != nil {
		return nil, err
	}

	tr.Lock()
	tr.stats.SceneTime = sceneTime
	tr.stats.Allocations = allocations
	tr.Unlock()

	return frame, nil
}

// Render a frame of the world referenced by the given handle. The camera is
// initialized before rendering and its settings are passed to the render
// kernel by value. Each pixel is rendered by its own work item.
func (tr *Tracer) RenderFrame(cam *scene.Camera, world HittableHandle, seed uint64) (*image.RGBA, error) {
	tr.Lock()
	defer tr.Unlock()

	if tr.kernels == nil {
		return nil, fmt.Errorf("accel tracer (%s): %w", tr.id, device.ErrDeviceNotInitialized)
	}
	if err := cam.Initialize(); err != nil {
		return nil, err
	}

	frameW, frameH := cam.ImageWidth, cam.ImageHeight()
	if err := tr.buffers.Resize(frameW, frameH); err != nil {
		return nil, err
	}

	stats := &tracer.Stats{
		FrameW:          frameW,
		FrameH:          frameH,
		SamplesPerPixel: cam.SamplesPerPixel,
		MaxDepth:        cam.MaxDepth,
	}

	// Render
	kernel := tr.kernels[renderFrame]
	err := kernel.SetArgs(world.ptr, *cam, seed, tr.buffers.Accumulator)
	if err != nil {
		return nil, err
	}
	stats.RenderTime, err = kernel.Exec2D(0, 0, frameW, frameH, 0, 0)
	if err != nil {
		return nil, err
	}

	// Tonemap
	numPixels := frameW * frameH
	kernel = tr.kernels[tonemap]
	err = kernel.SetArgs(tr.buffers.Accumulator, tr.buffers.FrameBuffer, uint32(numPixels))
	if err != nil {
		return nil, err
	}
	stats.TonemapTime, err = kernel.Exec1D(0, numPixels, 0)
	if err != nil {
		return nil, err
	}

	// Copy frame back to host memory
	tick := time.Now()
	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	err = tr.buffers.FrameBuffer.ReadData(0, 0, 0, frame.Pix)
	if err != nil {
		return nil, err
	}
	stats.ReadbackTime = time.Since(tick)

	tr.stats = stats
	tr.logger.Debugf("rendered %dx%d frame (%d spp) in %s", frameW, frameH, cam.SamplesPerPixel, stats.RenderTime)
	return frame, nil
}
