package renderer

import "errors"

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrNoDevices        = errors.New("renderer: no devices match the selection")
	ErrInvalidOption    = errors.New("renderer: invalid option")
)
