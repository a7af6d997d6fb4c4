package tracer

import (
	"image"
	"time"

	"github.com/achilleasa/go-spheretrace/scene"
)

// Frame statistics collected by a tracer.
type Stats struct {
	// Frame dimensions and sampling settings.
	FrameW          int
	FrameH          int
	SamplesPerPixel int
	MaxDepth        int

	// Number of device objects constructed for the frame (0 for host tracers).
	Allocations int

	// Time spent building the scene objects.
	SceneTime time.Duration

	// Time spent in the render and tonemap stages.
	RenderTime  time.Duration
	TonemapTime time.Duration

	// Time spent copying the frame back to host memory.
	ReadbackTime time.Duration
}

// Get the total time across all stages.
func (s *Stats) TotalTime() time.Duration {
	return s.SceneTime + s.RenderTime + s.TonemapTime + s.ReadbackTime
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Render a single frame of the scene. The same seed always produces the
	// same frame.
	Render(sc *scene.Scene, seed uint64) (*image.RGBA, error)

	// Retrieve last frame statistics.
	Stats() *Stats
}
