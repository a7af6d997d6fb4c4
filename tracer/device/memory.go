package device

import (
	"fmt"
	"sync"
)

// Address of a pointer-sized cell in device memory. The zero value is the
// nil pointer and never refers to an allocation.
type Ptr uint32

const NilPtr Ptr = 0

type cell struct {
	tag   string
	value interface{}
	live  bool
}

// Memory is the private arena of a device. Each cell holds a single device
// object. Addresses are never reused, so a freed pointer stays invalid for
// the lifetime of the arena.
//
// The host may allocate and free cells through the owning Device but only
// kernels may read or write cell contents; they reach the arena through
// WorkItem.Memory.
type Memory struct {
	mu        sync.RWMutex
	cells     []cell
	allocated int
}

func newMemory() *Memory {
	return &Memory{
		cells: make([]cell, 0),
	}
}

// Reserve an empty cell and return its address.
func (m *Memory) malloc(tag string) Ptr {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cells = append(m.cells, cell{tag: tag, live: true})
	m.allocated++
	return Ptr(len(m.cells))
}

// Release a cell. Freeing a nil, unknown or already freed pointer fails.
func (m *Memory) free(ptr Ptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.lookup(ptr)
	if err != nil {
		return err
	}
	c.value = nil
	c.live = false
	m.allocated--
	return nil
}

// Drop all cells.
func (m *Memory) reset() {
	m.mu.Lock()
	m.cells = m.cells[:0]
	m.allocated = 0
	m.mu.Unlock()
}

// Must be called while holding the lock.
func (m *Memory) lookup(ptr Ptr) (*cell, error) {
	if ptr == NilPtr || int(ptr) > len(m.cells) {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidPtr, uint32(ptr))
	}
	c := &m.cells[ptr-1]
	if !c.live {
		return nil, fmt.Errorf("%w: %#x (%s) has been freed", ErrInvalidPtr, uint32(ptr), c.tag)
	}
	return c, nil
}

// Store a value in the cell at ptr.
func (m *Memory) Store(ptr Ptr, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.lookup(ptr)
	if err != nil {
		return err
	}
	c.value = value
	return nil
}

// Load the value stored in the cell at ptr.
func (m *Memory) Load(ptr Ptr) (interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, err := m.lookup(ptr)
	if err != nil {
		return nil, err
	}
	return c.value, nil
}

// Returns true if ptr refers to an allocated cell that has not been freed.
func (m *Memory) Live(ptr Ptr) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.lookup(ptr)
	return err == nil
}

// Get the number of live cells.
func (m *Memory) Allocated() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allocated
}
