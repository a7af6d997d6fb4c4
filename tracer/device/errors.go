package device

import "errors"

var (
	ErrDeviceNotInitialized = errors.New("device not initialized")
	ErrUnknownKernel        = errors.New("unknown kernel")
	ErrInvalidProgram       = errors.New("invalid program")
	ErrInvalidKernelArg     = errors.New("invalid kernel argument")
	ErrInvalidKernelArgs    = errors.New("kernel argument count mismatch")
	ErrInvalidWorkSize      = errors.New("invalid work size")
	ErrInvalidPtr           = errors.New("invalid device pointer")
	ErrInvalidBufferSize    = errors.New("invalid buffer size")
	ErrKernelPanic          = errors.New("kernel panicked")
)
