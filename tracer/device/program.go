package device

import (
	"fmt"
	"sort"
)

// The entrypoint of a kernel. It is invoked once per work item and receives
// the arguments bound with Kernel.SetArgs. Returning an error aborts the
// launch.
type KernelFunc func(wi WorkItem, args []interface{}) error

// A kernel definition inside a program.
type KernelSource struct {
	Name string

	// Number of arguments the kernel expects.
	NumArgs int

	Fn KernelFunc
}

// A program is a named set of kernels that is loaded into a device by
// Device.Init.
type Program struct {
	name    string
	kernels map[string]KernelSource
}

// Create a program from a list of kernel definitions.
func NewProgram(name string, kernels ...KernelSource) (*Program, error) {
	p := &Program{
		name:    name,
		kernels: make(map[string]KernelSource, len(kernels)),
	}

	for _, k := range kernels {
		switch {
		case k.Name == "":
			return nil, fmt.Errorf("program %s: %w: kernel with empty name", name, ErrInvalidProgram)
		case k.Fn == nil:
			return nil, fmt.Errorf("program %s: %w: kernel %s has no entrypoint", name, ErrInvalidProgram, k.Name)
		case k.NumArgs < 0:
			return nil, fmt.Errorf("program %s: %w: kernel %s has negative argument count", name, ErrInvalidProgram, k.Name)
		}
		if _, exists := p.kernels[k.Name]; exists {
			return nil, fmt.Errorf("program %s: %w: duplicate kernel %s", name, ErrInvalidProgram, k.Name)
		}
		p.kernels[k.Name] = k
	}

	return p, nil
}

// Get program name.
func (p *Program) Name() string {
	return p.name
}

// Get the sorted list of kernel names defined by this program.
func (p *Program) KernelNames() []string {
	names := make([]string, 0, len(p.kernels))
	for name := range p.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
