package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/achilleasa/go-spheretrace/frame"
	"github.com/achilleasa/go-spheretrace/log"
	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/tracer"
	"github.com/achilleasa/go-spheretrace/tracer/accel"
	"github.com/achilleasa/go-spheretrace/tracer/device"
	"github.com/achilleasa/go-spheretrace/tracer/host"
)

type Renderer interface {
	// Render frame.
	Render() (*image.RGBA, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// The default renderer drives a single tracer.
type defaultRenderer struct {
	logger log.Logger

	scene  *scene.Scene
	tracer tracer.Tracer
	opts   Options

	stats FrameStats
}

// Create a renderer for the given scene. Option overrides are applied to the
// scene camera and a tracer is attached for the selected device.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := applyOptions(sc.Camera, opts); err != nil {
		return nil, err
	}
	if opts.Out != "" {
		if _, err := frame.EncoderFor(opts.Out); err != nil {
			return nil, err
		}
	}

	tr, err := SelectTracer(opts.Device)
	if err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		logger: log.New("renderer"),
		scene:  sc,
		tracer: tr,
		opts:   opts,
	}
	r.logger.Infof("attached tracer %q", tr.Id())
	return r, nil
}

// Create a tracer for the given device selector.
func SelectTracer(selector string) (tracer.Tracer, error) {
	var (
		devices device.DeviceList
		err     error
	)

	switch selector {
	case HostDevice:
		return host.NewTracer("host"), nil
	case "", AutoDevice, CpuDevice:
		devices, err = device.SelectDevices(device.CpuDevice, "")
	default:
		devices, err = device.SelectDevices(device.AllDevices, selector)
	}
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoDevices, selector)
	}

	dev := devices[0]
	return accel.NewTracer(fmt.Sprintf("%s-%d", dev.Type, dev.Id), dev)
}

func applyOptions(cam *scene.Camera, opts Options) error {
	if opts.FrameW < 0 {
		return fmt.Errorf("%w: frame width must not be negative; got %d", ErrInvalidOption, opts.FrameW)
	}
	if opts.SamplesPerPixel < 0 || opts.MaxDepth < 0 {
		return fmt.Errorf("%w: samples per pixel and max depth must not be negative", ErrInvalidOption)
	}

	if opts.FrameW > 0 {
		cam.ImageWidth = opts.FrameW
	}
	if opts.SamplesPerPixel > 0 {
		cam.SamplesPerPixel = opts.SamplesPerPixel
	}
	if opts.MaxDepth > 0 {
		cam.MaxDepth = opts.MaxDepth
	}

	return cam.Initialize()
}

// Render a frame and save it if an output file is configured.
func (r *defaultRenderer) Render() (*image.RGBA, error) {
	if r.tracer == nil {
		return nil, ErrNoTracers
	}

	start := time.Now()
	img, err := r.tracer.Render(r.scene, r.opts.Seed)
	if err != nil {
		return nil, err
	}

	stats := FrameStats{
		TracerId: r.tracer.Id(),
		Tracer:   *r.tracer.Stats(),
	}

	if r.opts.Out != "" {
		tick := time.Now()
		if err = frame.Save(r.opts.Out, img); err != nil {
			return nil, err
		}
		stats.SaveTime = time.Since(tick)
		r.logger.Noticef("wrote frame to %s in %s", r.opts.Out, stats.SaveTime)
	}

	stats.RenderTime = time.Since(start)
	r.stats = stats
	return img, nil
}

// Shutdown renderer and the attached tracer.
func (r *defaultRenderer) Close() {
	if r.tracer != nil {
		r.tracer.Close()
		r.tracer = nil
	}
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
