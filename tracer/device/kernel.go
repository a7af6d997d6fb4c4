package device

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/go-spheretrace/types"
)

// The execution context of a single work item.
type WorkItem struct {
	// Global work item coordinates (offset included) and the global work size.
	GlobalID   [2]int
	GlobalSize [2]int

	// Coordinates of the work item inside its work group and the group coordinates.
	LocalID [2]int
	GroupID [2]int

	// The device memory arena. This is the only way to reach device objects.
	Memory *Memory
}

// A rectangular block of work items that is executed by a single compute unit.
type workGroup struct {
	id     [2]int
	origin [2]int
	size   [2]int
}

// A wrapper around a program kernel.
type Kernel struct {
	device *Device
	src    KernelSource
	name   string
	args   []interface{}

	// Kernel workgroup sizes and offsets
	offsets         [2]int
	globalWorkSizes [2]int
	localWorkSizes  [2]int
}

// Get kernel name.
func (k *Kernel) Name() string {
	return k.name
}

// Free any allocated resources used by this kernel.
func (k *Kernel) Release() {
	k.args = nil
}

// Bind arguments to the kernel. Host pointers, slices, maps and other values
// that reference host memory are rejected; device data must be passed as
// buffers or device pointers. Structs are accepted by value if they do not
// reference host memory.
func (k *Kernel) SetArgs(args ...interface{}) error {
	bound := make([]interface{}, len(args))
	for argIndex, arg := range args {
		switch v := arg.(type) {
		case *Buffer:
			if v == nil || v.device != k.device {
				return k.argError(argIndex, "buffer belongs to a different device")
			}
			bound[argIndex] = v
		case Ptr, int32, uint32, int64, uint64, float32, float64, bool,
			types.Vec3, types.Vec4:
			bound[argIndex] = v
		case nil:
			return k.argError(argIndex, "nil value")
		default:
			argType := reflect.TypeOf(arg)
			if argType.Kind() != reflect.Struct && argType.Kind() != reflect.Array {
				return k.argError(argIndex, fmt.Sprintf("unsupported arg type: %s", argType.String()))
			}
			if hasPointers(argType) {
				return k.argError(argIndex, fmt.Sprintf("arg type %s references host memory", argType.String()))
			}
			bound[argIndex] = v
		}
	}

	k.args = bound
	return nil
}

func (k *Kernel) argError(argIndex int, reason string) error {
	return fmt.Errorf(
		"device (%s): could not set arg %d for kernel %s: %w: %s",
		k.device.Name,
		argIndex,
		k.name,
		ErrInvalidKernelArg,
		reason,
	)
}

// Execute 1D kernel. If localWorkSize is equal to 0 then the device will pick
// a work group size that spreads the work over all compute units.
func (k *Kernel) Exec1D(offset, globalWorkSize, localWorkSize int) (time.Duration, error) {
	k.offsets = [2]int{offset, 0}
	k.globalWorkSizes = [2]int{globalWorkSize, 1}
	k.localWorkSizes = [2]int{localWorkSize, 1}
	return k.exec()
}

// Execute 2D kernel. If both localWorkSizeX and localWorkSizeY are 0 then the
// device will split the work into single-row work groups.
func (k *Kernel) Exec2D(offsetX, offsetY, globalWorkSizeX, globalWorkSizeY, localWorkSizeX, localWorkSizeY int) (time.Duration, error) {
	k.offsets = [2]int{offsetX, offsetY}
	k.globalWorkSizes = [2]int{globalWorkSizeX, globalWorkSizeY}
	k.localWorkSizes = [2]int{localWorkSizeX, localWorkSizeY}
	return k.exec()
}

// Split the launch into work groups.
func (k *Kernel) workGroups() ([]workGroup, error) {
	global := k.globalWorkSizes
	local := k.localWorkSizes

	if global[0] < 1 || global[1] < 1 || k.offsets[0] < 0 || k.offsets[1] < 0 {
		return nil, fmt.Errorf("device (%s): kernel %s: %w: global size %v, offset %v", k.device.Name, k.name, ErrInvalidWorkSize, global, k.offsets)
	}

	switch {
	case local[0] == 0 && local[1] == 0:
		// 2D launches are split into rows
		local = [2]int{global[0], 1}
	case local[0] == 0 && global[1] == 1:
		// 1D launches are split into a few groups per compute unit
		local[0] = global[0] / (4 * k.device.compUnits)
		if local[0] < 1 {
			local[0] = 1
		}
		local[1] = 1
	case local[0] < 1 || local[1] < 1 || global[0]%local[0] != 0 || global[1]%local[1] != 0:
		return nil, fmt.Errorf("device (%s): kernel %s: %w: local size %v does not divide global size %v", k.device.Name, k.name, ErrInvalidWorkSize, local, global)
	}

	groupsX := (global[0] + local[0] - 1) / local[0]
	groupsY := (global[1] + local[1] - 1) / local[1]
	groups := make([]workGroup, 0, groupsX*groupsY)
	for gy := 0; gy < groupsY; gy++ {
		for gx := 0; gx < groupsX; gx++ {
			g := workGroup{
				id:     [2]int{gx, gy},
				origin: [2]int{gx * local[0], gy * local[1]},
				size:   local,
			}
			// Clip partial groups created by automatic sizing
			if g.origin[0]+g.size[0] > global[0] {
				g.size[0] = global[0] - g.origin[0]
			}
			if g.origin[1]+g.size[1] > global[1] {
				g.size[1] = global[1] - g.origin[1]
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// Run the kernel over all work groups and block until every compute unit is
// done. The first error returned by a work item aborts the launch; work
// groups that have not started yet are skipped.
func (k *Kernel) exec() (time.Duration, error) {
	k.device.queueMu.Lock()
	defer k.device.queueMu.Unlock()

	if k.device.memory == nil {
		return 0, fmt.Errorf("device (%s): unable to execute kernel %s: %w", k.device.Name, k.name, ErrDeviceNotInitialized)
	}
	if len(k.args) != k.src.NumArgs {
		return 0, fmt.Errorf("device (%s): unable to execute kernel %s: %w: expected %d; got %d", k.device.Name, k.name, ErrInvalidKernelArgs, k.src.NumArgs, len(k.args))
	}

	groups, err := k.workGroups()
	if err != nil {
		return 0, err
	}

	queue := make(chan workGroup, len(groups))
	for _, g := range groups {
		queue <- g
	}
	close(queue)

	numWorkers := k.device.compUnits
	if numWorkers > len(groups) {
		numWorkers = len(groups)
	}

	var (
		wg       sync.WaitGroup
		aborted  atomic.Bool
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
		aborted.Store(true)
	}

	args := k.args
	memory := k.device.memory
	tick := time.Now()
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range queue {
				if aborted.Load() {
					continue
				}
				if err := k.runGroup(g, args, memory); err != nil {
					fail(err)
				}
			}
		}()
	}

	// Wait for the kernel to complete
	wg.Wait()
	elapsed := time.Since(tick)

	if firstErr != nil {
		return elapsed, fmt.Errorf("device (%s): kernel %s did not complete successfully: %w", k.device.Name, k.name, firstErr)
	}
	return elapsed, nil
}

// Execute all work items of a group on the calling goroutine.
func (k *Kernel) runGroup(g workGroup, args []interface{}, memory *Memory) (err error) {
	wi := WorkItem{
		GlobalSize: k.globalWorkSizes,
		GroupID:    g.id,
		Memory:     memory,
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: work item %v: %v", ErrKernelPanic, wi.GlobalID, r)
		}
	}()

	for ly := 0; ly < g.size[1]; ly++ {
		for lx := 0; lx < g.size[0]; lx++ {
			wi.LocalID = [2]int{lx, ly}
			wi.GlobalID = [2]int{
				k.offsets[0] + g.origin[0] + lx,
				k.offsets[1] + g.origin[1] + ly,
			}
			if err = k.src.Fn(wi, args); err != nil {
				return err
			}
		}
	}
	return nil
}
