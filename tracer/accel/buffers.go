package accel

import (
	"github.com/achilleasa/go-spheretrace/tracer/device"
)

// Size of buffer elements in bytes.
const (
	sizeofAccumulatorSample = 16 // float4; rgb + sample count
	sizeofFramePixel        = 4  // rgba8
)

type bufferSet struct {
	// Linear per-pixel colors written by the render kernel.
	Accumulator *device.Buffer

	// Output frame buffer written by the tonemap kernel.
	FrameBuffer *device.Buffer

	// Current buffer dimensions.
	frameW, frameH int
}

// Allocate new buffer set.
func newBufferSet(dev *device.Device) *bufferSet {
	return &bufferSet{
		Accumulator: dev.Buffer("accumulator"),
		FrameBuffer: dev.Buffer("frameBuffer"),
	}
}

// Release all buffers.
func (bs *bufferSet) Release() {
	bs.Accumulator.Release()
	bs.FrameBuffer.Release()
	bs.frameW, bs.frameH = 0, 0
}

// Resize frame-related buffers to the given frame dimensions. Buffers are
// only reallocated when the dimensions change.
func (bs *bufferSet) Resize(frameW, frameH int) error {
	if frameW == bs.frameW && frameH == bs.frameH {
		return nil
	}

	pixels := frameW * frameH
	err := bs.Accumulator.Allocate(pixels * sizeofAccumulatorSample)
	if err != nil {
		return err
	}
	err = bs.FrameBuffer.Allocate(pixels * sizeofFramePixel)
	if err != nil {
		return err
	}

	bs.frameW, bs.frameH = frameW, frameH
	return nil
}
