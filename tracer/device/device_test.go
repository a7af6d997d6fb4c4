package device

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

// A test program with kernels that exercise buffers and device memory.
func testProgram() *Program {
	prog, err := NewProgram(
		"test",
		KernelSource{Name: "square", NumArgs: 3, Fn: squareKernel},
		KernelSource{Name: "mapBlock", NumArgs: 3, Fn: mapBlockKernel},
		KernelSource{Name: "storeValue", NumArgs: 2, Fn: storeValueKernel},
		KernelSource{Name: "loadValue", NumArgs: 2, Fn: loadValueKernel},
		KernelSource{Name: "failAt", NumArgs: 2, Fn: failAtKernel},
		KernelSource{Name: "panic", NumArgs: 0, Fn: panicKernel},
	)
	if err != nil {
		panic(err)
	}
	return prog
}

var errTestKernel = errors.New("test kernel failure")

func squareKernel(wi WorkItem, args []interface{}) error {
	in, err := View[int32](args[0].(*Buffer))
	if err != nil {
		return err
	}
	out, err := View[int32](args[1].(*Buffer))
	if err != nil {
		return err
	}
	i := wi.GlobalID[0]
	if uint32(i) < args[2].(uint32) {
		out[i] = in[i] * in[i]
	}
	return nil
}

func mapBlockKernel(wi WorkItem, args []interface{}) error {
	in, err := View[int32](args[0].(*Buffer))
	if err != nil {
		return err
	}
	out, err := View[int32](args[1].(*Buffer))
	if err != nil {
		return err
	}
	i := wi.GlobalID[1]*wi.GlobalSize[0] + wi.GlobalID[0]
	if uint32(i) < args[2].(uint32) {
		out[i] = in[i]
	}
	return nil
}

type testPayload struct {
	Value float64
}

func storeValueKernel(wi WorkItem, args []interface{}) error {
	return wi.Memory.Store(args[0].(Ptr), &testPayload{Value: args[1].(float64)})
}

func loadValueKernel(wi WorkItem, args []interface{}) error {
	v, err := wi.Memory.Load(args[0].(Ptr))
	if err != nil {
		return err
	}
	out, err := View[float64](args[1].(*Buffer))
	if err != nil {
		return err
	}
	out[0] = v.(*testPayload).Value
	return nil
}

func failAtKernel(wi WorkItem, args []interface{}) error {
	if int32(wi.GlobalID[0]) == args[0].(int32) {
		return errTestKernel
	}
	counts, err := View[int32](args[1].(*Buffer))
	if err != nil {
		return err
	}
	counts[wi.GlobalID[0]] = 1
	return nil
}

func panicKernel(wi WorkItem, args []interface{}) error {
	var m map[string]int
	m["boom"]++
	return nil
}

func createCpuDevice() (*Device, error) {
	devList, err := SelectDevices(CpuDevice, "CPU")
	if err != nil {
		return nil, err
	}
	return devList[0], devList[0].Init(testProgram())
}

func TestSelectDevices(t *testing.T) {
	devList, err := SelectDevices(CpuDevice, "CPU")
	if err != nil {
		t.Fatal(err)
	}
	if len(devList) != 1 {
		t.Fatalf("expected to get 1 CPU device; got %d", len(devList))
	}

	devList, err = SelectDevices(GpuDevice, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(devList) != 0 {
		t.Fatalf("expected to get 0 GPU devices; got %d", len(devList))
	}

	devList, err = SelectDevices(AllDevices, "no-such-device")
	if err != nil {
		t.Fatal(err)
	}
	if len(devList) != 0 {
		t.Fatalf("expected name filter to exclude all devices; got %d", len(devList))
	}
}

func TestPlatformInfo(t *testing.T) {
	platforms, err := GetPlatformInfo()
	if err != nil {
		t.Fatal(err)
	}
	if len(platforms) != 1 {
		t.Fatalf("expected 1 platform; got %d", len(platforms))
	}

	dev := platforms[0].Devices[0]
	if dev.ComputeUnits() != runtime.NumCPU() {
		t.Fatalf("expected %d compute units; got %d", runtime.NumCPU(), dev.ComputeUnits())
	}

	desc := platforms[0].String()
	if !strings.Contains(desc, "Device 00:") || !strings.Contains(desc, "    Type: CPU") {
		t.Fatalf("unexpected platform description:\n%s", desc)
	}
}

func TestDeviceInit(t *testing.T) {
	dev, err := createCpuDevice()
	if err != nil {
		t.Fatalf("error initializing device: %v", err)
	}
	defer dev.Close()

	if !strings.Contains(dev.Name, "CPU") {
		t.Fatalf("expected CPU device name '%s' to contain 'CPU'", dev.Name)
	}

	if dev.Type.String() != "CPU" {
		t.Fatalf("expected device type to be CpuDevice; got %s", dev.Type.String())
	}

	// Re-initializing with a different program fails
	if err = dev.Init(testProgram()); err == nil {
		t.Fatal("expected an error while re-initializing the device with a different program")
	}

	if err = NewDevice("test", CpuDevice, 1).Init(nil); !errors.Is(err, ErrInvalidProgram) {
		t.Fatalf("expected ErrInvalidProgram; got %v", err)
	}
}

func TestKernelErrors(t *testing.T) {
	dev, err := createCpuDevice()
	if err != nil {
		t.Fatal(err)
	}

	_, err = dev.Kernel("foo")
	if !errors.Is(err, ErrUnknownKernel) {
		t.Fatalf("expected ErrUnknownKernel while loading an unknown kernel; got %v", err)
	}

	dev.Close()
	_, err = dev.Kernel("square")
	if !errors.Is(err, ErrDeviceNotInitialized) {
		t.Fatalf("expected ErrDeviceNotInitialized after closing the device; got %v", err)
	}
	if _, err = dev.Malloc("foo"); !errors.Is(err, ErrDeviceNotInitialized) {
		t.Fatalf("expected ErrDeviceNotInitialized after closing the device; got %v", err)
	}
}

func TestProgramErrors(t *testing.T) {
	fn := func(wi WorkItem, args []interface{}) error { return nil }
	specs := [][]KernelSource{
		{{Name: "", Fn: fn}},
		{{Name: "foo"}},
		{{Name: "foo", NumArgs: -1, Fn: fn}},
		{{Name: "foo", Fn: fn}, {Name: "foo", Fn: fn}},
	}

	for specIndex, kernels := range specs {
		if _, err := NewProgram("test", kernels...); !errors.Is(err, ErrInvalidProgram) {
			t.Fatalf("[spec %d] expected ErrInvalidProgram; got %v", specIndex, err)
		}
	}

	prog, err := NewProgram("test", KernelSource{Name: "b", Fn: fn}, KernelSource{Name: "a", Fn: fn})
	if err != nil {
		t.Fatal(err)
	}
	if names := prog.KernelNames(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected sorted kernel names [a b]; got %v", names)
	}
}
