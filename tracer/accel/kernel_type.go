package accel

import "fmt"

type kernelType uint8

// The list of kernels that implement the tracer.
const (
	newLambertian kernelType = iota
	newMetal
	newDielectric
	newSphere
	newHittableList
	renderFrame
	tonemap
	//
	numKernels
)

// Implements Stringer; map kernel type to the kernel name as registered in the device program.
func (kt kernelType) String() string {
	switch kt {
	case newLambertian:
		return "newLambertian"
	case newMetal:
		return "newMetal"
	case newDielectric:
		return "newDielectric"
	case newSphere:
		return "newSphere"
	case newHittableList:
		return "newHittableList"
	case renderFrame:
		return "renderFrame"
	case tonemap:
		return "tonemap"
	default:
		panic(fmt.Sprintf("Unsupported kernel type: %d", kt))
	}
}
