package host

import (
	"bytes"
	"testing"

	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/scene/reader"
	"github.com/achilleasa/go-spheretrace/tracer"
	"github.com/achilleasa/go-spheretrace/tracer/accel"
	"github.com/achilleasa/go-spheretrace/tracer/device"
)

var _ tracer.Tracer = (*Tracer)(nil)

func TestHostAndAcceleratorFramesMatch(t *testing.T) {
	for _, name := range reader.BuiltinScenes() {
		sc, err := reader.BuiltinScene(name)
		if err != nil {
			t.Fatalf("[scene %s] %v", name, err)
		}
		sc.Camera.ImageWidth = 24
		sc.Camera.SamplesPerPixel = 3
		sc.Camera.MaxDepth = 6

		hostFrame, err := NewTracer("host").Render(sc, 7)
		if err != nil {
			t.Fatalf("[scene %s] host render: %v", name, err)
		}

		dev := device.NewDevice("test CPU", device.CpuDevice, 4)
		tr, err := accel.NewTracer("accel", dev)
		if err != nil {
			t.Fatalf("[scene %s] %v", name, err)
		}
		accelFrame, err := tr.Render(sc, 7)
		tr.Close()
		if err != nil {
			t.Fatalf("[scene %s] accel render: %v", name, err)
		}

		if hostFrame.Rect != accelFrame.Rect {
			t.Fatalf("[scene %s] expected frame bounds %v; got %v", name, accelFrame.Rect, hostFrame.Rect)
		}
		if !bytes.Equal(hostFrame.Pix, accelFrame.Pix) {
			t.Fatalf("[scene %s] expected host and accelerator frames to match", name)
		}
	}
}

func TestRenderStats(t *testing.T) {
	sc := scene.NewScene()
	sc.Camera.ImageWidth = 16
	sc.Camera.AspectRatio = 2
	sc.Camera.SamplesPerPixel = 2
	sc.Camera.MaxDepth = 3

	tr := NewTracer("host")
	defer tr.Close()

	frame, err := tr.Render(sc, 1)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Rect.Dx() != 16 || frame.Rect.Dy() != 8 {
		t.Fatalf("expected a 16x8 frame; got %v", frame.Rect)
	}

	stats := tr.Stats()
	if stats.FrameW != 16 || stats.FrameH != 8 || stats.SamplesPerPixel != 2 || stats.MaxDepth != 3 {
		t.Fatalf("unexpected frame stats %+v", stats)
	}
	if stats.Allocations != 0 {
		t.Fatalf("expected no device allocations; got %d", stats.Allocations)
	}
}

func TestRenderErrors(t *testing.T) {
	tr := NewTracer("host")
	defer tr.Close()

	if _, err := tr.Render(nil, 0); err == nil {
		t.Fatal("expected an error when rendering a nil scene")
	}

	sc := scene.NewScene()
	sc.Camera.ImageWidth = 0
	if _, err := tr.Render(sc, 0); err == nil {
		t.Fatal("expected an error for an invalid camera")
	}
}
