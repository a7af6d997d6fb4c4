package device

import (
	"fmt"
	"reflect"
	"unsafe"
)

// A linear block of device memory for bulk data exchange with the host.
// Unlike memory cells, buffers can be read back by the host once a launch
// completes. Storage is backed by 64-bit words so any element type up to
// 8 bytes wide is naturally aligned.
type Buffer struct {
	data []uint64

	// Associated Device.
	device *Device

	// A name for identifying the buffer.
	name string

	// Allocated size.
	size int
}

// Get buffer size.
func (b *Buffer) Size() int {
	return b.size
}

// Get buffer name.
func (b *Buffer) Name() string {
	return b.name
}

// Allocate a zeroed buffer with the given size in bytes.
func (b *Buffer) Allocate(size int) error {
	// If the buffer is already allocated release it
	b.Release()

	if size <= 0 {
		return fmt.Errorf("device (%s): could not allocate buffer %s: %w: %d", b.device.Name, b.name, ErrInvalidBufferSize, size)
	}

	b.data = make([]uint64, (size+7)/8)
	b.size = size
	return nil
}

// Allocate a buffer with enough capacity to fit the given data.
func (b *Buffer) AllocateToFitData(data interface{}) error {
	_, dataLen := getSliceData(data)
	return b.Allocate(dataLen)
}

// Allocate a buffer that is large enough to hold the given data and copy the
// data into it. The behavior of this method is undefined if a non-slice
// argument is passed or the argument does not use contiguous memory.
func (b *Buffer) AllocateAndWriteData(data interface{}) error {
	_, dataLen := getSliceData(data)
	if err := b.Allocate(dataLen); err != nil {
		return err
	}
	return b.WriteData(data, 0)
}

// Write data to the device buffer starting at the given byte offset. The
// behavior of this method is undefined if a non-slice argument is passed or
// the argument does not use contiguous memory.
func (b *Buffer) WriteData(data interface{}, offset int) error {
	dataPtr, dataLen := getSliceData(data)

	if offset < 0 || offset+dataLen > b.size {
		return fmt.Errorf("device (%s): insufficient buffer space (%d) in %s for copying data of length %d at offset %d", b.device.Name, b.size, b.name, dataLen, offset)
	}

	copy(b.bytes()[offset:offset+dataLen], unsafe.Slice((*byte)(dataPtr), dataLen))
	return nil
}

// Read data from device buffer into the supplied host buffer. The behavior of
// this method is undefined if a non-slice argument is passed or if the argument
// does not use contiguous memory.
//
// If size is <= 0 then ReadData will read the remainder of the buffer after
// srcOffset. Both src and dst offsets are specified in bytes.
func (b *Buffer) ReadData(srcOffset, dstOffset, size int, hostBuffer interface{}) error {
	if size <= 0 {
		size = b.size - srcOffset
	}

	dataPtr, dataLen := getSliceData(hostBuffer)

	if srcOffset < 0 || srcOffset+size > b.size {
		return fmt.Errorf("device (%s): read of %d bytes at offset %d exceeds size (%d) of buffer %s", b.device.Name, size, srcOffset, b.size, b.name)
	}
	if dstOffset < 0 || dstOffset+size > dataLen {
		return fmt.Errorf("device (%s): host buffer of length %d cannot receive %d bytes at offset %d from %s", b.device.Name, dataLen, size, dstOffset, b.name)
	}

	dst := unsafe.Slice((*byte)(dataPtr), dataLen)
	copy(dst[dstOffset:dstOffset+size], b.bytes()[srcOffset:srcOffset+size])
	return nil
}

// Release buffer.
func (b *Buffer) Release() {
	b.data = nil
	b.size = 0
}

// The buffer contents as a byte slice.
func (b *Buffer) bytes() []byte {
	if len(b.data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.data[0])), b.size)
}

// View the contents of a buffer as a slice of T. It is meant to be called by
// kernels on buffer arguments. T must not contain pointers and its size must
// evenly divide the buffer size.
func View[T any](b *Buffer) ([]T, error) {
	var zero T
	elemType := reflect.TypeOf(zero)
	if elemType == nil || hasPointers(elemType) {
		return nil, fmt.Errorf("device (%s): %w: cannot view buffer %s as %v", b.device.Name, ErrInvalidKernelArg, b.name, elemType)
	}

	elemSize := int(elemType.Size())
	if b.size == 0 || elemSize == 0 || b.size%elemSize != 0 {
		return nil, fmt.Errorf("device (%s): %w: buffer %s of size %d cannot be viewed as %v", b.device.Name, ErrInvalidBufferSize, b.name, b.size, elemType)
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), b.size/elemSize), nil
}

// Given an interface{} containing a slice return a pointer to its data and its length.
func getSliceData(data interface{}) (unsafe.Pointer, int) {
	reflVal := reflect.ValueOf(data)

	if reflVal.Kind() != reflect.Slice {
		panic("getSliceData: this function only supports slices")
	}

	sliceElemCount := reflVal.Len()
	if sliceElemCount == 0 {
		panic("getSliceData: supplied slice object is empty")
	}

	return reflVal.Index(0).Addr().UnsafePointer(),
		sliceElemCount * int(reflect.TypeOf(data).Elem().Size())
}

// Returns true if values of type t refer to host memory.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
