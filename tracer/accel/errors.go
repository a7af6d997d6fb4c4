package accel

import "errors"

var (
	ErrDanglingHandle   = errors.New("accel: handle does not refer to a live device object")
	ErrInvalidParameter = errors.New("accel: invalid parameter")
	ErrAllocatorClosed  = errors.New("accel: allocator closed")
)
