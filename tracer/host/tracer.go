package host

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/achilleasa/go-spheretrace/log"
	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/tracer"
)

// A tracer that renders frames on the calling goroutine using host-resident
// scene objects. It evaluates the same integrator as the accelerator tracer
// and derives per-pixel random streams the same way, so both produce
// matching frames for the same scene and seed.
type Tracer struct {
	logger log.Logger

	sync.Mutex

	id string

	// Statistics for last rendered frame.
	stats *tracer.Stats
}

// Create a new host tracer.
func NewTracer(id string) *Tracer {
	return &Tracer{
		logger: log.New(fmt.Sprintf("host tracer (%s)", id)),
		id:     id,
		stats:  &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Shutdown and cleanup tracer.
func (tr *Tracer) Close() {
}

// Retrieve last frame statistics.
func (tr *Tracer) Stats() *tracer.Stats {
	tr.Lock()
	defer tr.Unlock()
	stats := *tr.stats
	return &stats
}

// Render a single frame of the scene.
func (tr *Tracer) Render(sc *scene.Scene, seed uint64) (*image.RGBA, error) {
	if sc == nil || sc.Camera == nil {
		return nil, fmt.Errorf("host tracer (%s): no scene or camera defined", tr.id)
	}

	tr.Lock()
	defer tr.Unlock()

	cam := sc.Camera
	if err := cam.Initialize(); err != nil {
		return nil, err
	}

	tick := time.Now()
	world, err := sc.Build()
	if err != nil {
		return nil, err
	}

	frameW, frameH := cam.ImageWidth, cam.ImageHeight()
	stats := &tracer.Stats{
		FrameW:          frameW,
		FrameH:          frameH,
		SamplesPerPixel: cam.SamplesPerPixel,
		MaxDepth:        cam.MaxDepth,
		SceneTime:       time.Since(tick),
	}

	// Render and tonemap; each pixel owns a random stream keyed by its index.
	tick = time.Now()
	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	for j := 0; j < frameH; j++ {
		for i := 0; i < frameW; i++ {
			pixelIndex := j*frameW + i
			rng := rand.New(rand.NewPCG(seed, uint64(pixelIndex)))

			// Colors are rounded to float32 to match the accelerator's
			// accumulator precision.
			color := cam.SamplePixel(i, j, world, rng).Vec4(0).Vec3()
			rgb := scene.ToRGB8(color)
			offset := pixelIndex * 4
			frame.Pix[offset+0] = rgb[0]
			frame.Pix[offset+1] = rgb[1]
			frame.Pix[offset+2] = rgb[2]
			frame.Pix[offset+3] = 255
		}
	}
	stats.RenderTime = time.Since(tick)

	tr.stats = stats
	tr.logger.Debugf("rendered %dx%d frame (%d spp) in %s", frameW, frameH, cam.SamplesPerPixel, stats.RenderTime)
	return frame, nil
}
