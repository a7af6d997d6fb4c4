package renderer

import (
	"time"

	"github.com/achilleasa/go-spheretrace/tracer"
)

type FrameStats struct {
	// The id of the tracer that rendered the frame.
	TracerId string

	// Stage statistics reported by the tracer.
	Tracer tracer.Stats

	// Time spent encoding and writing the frame.
	SaveTime time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}
