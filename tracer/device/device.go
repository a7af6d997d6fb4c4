package device

import (
	"fmt"
	"regexp"
	"sync"
)

type DeviceType uint8

// Supported device types.
const (
	CpuDevice   DeviceType = 1 << iota
	GpuDevice              = 1 << iota
	OtherDevice            = 1 << iota
	AllDevices             = 0xFF
)

var (
	indentRegex = regexp.MustCompile("(?m)^")
)

func (dt DeviceType) String() string {
	switch dt {
	case CpuDevice:
		return "CPU"
	case GpuDevice:
		return "GPU"
	case OtherDevice:
		return "Other"
	}
	return fmt.Sprintf("DeviceType(%d)", uint8(dt))
}

// A software compute device. Kernels run on a pool of goroutines, one per
// compute unit, and may only reach device objects through the device memory
// arena.
type Device struct {
	Name string
	Id   int
	Type DeviceType

	compUnits int

	// Allocated when the device is initialized.
	program *Program
	memory  *Memory

	// Launches are serialized, mirroring an in-order command queue.
	queueMu sync.Mutex
}

// A list of devices.
type DeviceList []*Device

// Create a device with the given number of compute units. Values < 1 are
// treated as 1.
func NewDevice(name string, devType DeviceType, computeUnits int) *Device {
	if computeUnits < 1 {
		computeUnits = 1
	}
	return &Device{
		Name:      name,
		Type:      devType,
		compUnits: computeUnits,
	}
}

// Implements Stringer.
func (d *Device) String() string {
	return fmt.Sprintf(
		"Name: %s\nType: %s\nSpecs: %d computation units",
		d.Name,
		d.Type.String(),
		d.compUnits,
	)
}

// Get the number of compute units.
func (d *Device) ComputeUnits() int {
	return d.compUnits
}

// Initialize the device and load the supplied program. Initializing an
// already initialized device with the same program is a no-op.
func (d *Device) Init(program *Program) error {
	if program == nil {
		return fmt.Errorf("device (%s): %w: nil program", d.Name, ErrInvalidProgram)
	}

	// Already initialized
	if d.program != nil {
		if d.program == program {
			return nil
		}
		return fmt.Errorf("device (%s): already initialized with program %s", d.Name, d.program.Name())
	}

	d.program = program
	d.memory = newMemory()
	return nil
}

// Returns true if the device has been initialized.
func (d *Device) Initialized() bool {
	return d.program != nil
}

// Shut down the device and discard its memory.
func (d *Device) Close() {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	if d.memory != nil {
		d.memory.reset()
		d.memory = nil
	}
	d.program = nil
}

// Load kernel by name.
func (d *Device) Kernel(name string) (*Kernel, error) {
	if d.program == nil {
		return nil, fmt.Errorf("device (%s): %w", d.Name, ErrDeviceNotInitialized)
	}

	src, exists := d.program.kernels[name]
	if !exists {
		return nil, fmt.Errorf("device (%s): could not load kernel %s: %w", d.Name, name, ErrUnknownKernel)
	}

	return &Kernel{
		device: d,
		src:    src,
		name:   name,
	}, nil
}

// Create an empty buffer.
func (d *Device) Buffer(name string) *Buffer {
	return &Buffer{
		device: d,
		name:   name,
	}
}

// Reserve an empty cell in device memory. The tag is only used for
// diagnostics. The cell contents can only be set by a kernel.
func (d *Device) Malloc(tag string) (Ptr, error) {
	if d.memory == nil {
		return NilPtr, fmt.Errorf("device (%s): %w", d.Name, ErrDeviceNotInitialized)
	}
	return d.memory.malloc(tag), nil
}

// Free a device memory cell.
func (d *Device) Free(ptr Ptr) error {
	if d.memory == nil {
		return fmt.Errorf("device (%s): %w", d.Name, ErrDeviceNotInitialized)
	}
	if err := d.memory.free(ptr); err != nil {
		return fmt.Errorf("device (%s): %w", d.Name, err)
	}
	return nil
}

// Get the number of live device memory cells.
func (d *Device) Allocated() int {
	if d.memory == nil {
		return 0
	}
	return d.memory.Allocated()
}
