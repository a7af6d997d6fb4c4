package renderer

// Device selectors accepted by Options.Device. Any other value selects the
// accelerator devices whose name contains it.
const (
	AutoDevice = "auto"
	CpuDevice  = "cpu"
	HostDevice = "host"
)

type Options struct {
	// Device selection.
	Device string

	// Frame width; the height is derived from the scene camera aspect ratio.
	// A zero value keeps the scene setting.
	FrameW int

	// Number of samples. A zero value keeps the scene setting.
	SamplesPerPixel int

	// Max number of ray bounces. A zero value keeps the scene setting.
	MaxDepth int

	// Seed for the per-pixel random streams.
	Seed uint64

	// Image filename for the rendered frame. The format is selected by the
	// file extension. Frames are not saved if empty.
	Out string
}
