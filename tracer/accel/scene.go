package accel

import (
	"fmt"

	"github.com/achilleasa/go-spheretrace/scene"
)

// Construct the materials and spheres of a scene description in device
// memory and wrap the spheres in a hittable list. Objects are allocated in
// definition order; on error the allocations made so far remain tracked by
// the allocator.
func UploadScene(a *Allocator, sc *scene.Scene) (HittableHandle, error) {
	materials := make(map[*scene.MaterialDesc]MaterialHandle, len(sc.Materials))
	for _, desc := range sc.Materials {
		var (
			handle MaterialHandle
			err    error
		)
		switch desc.Type {
		case scene.DiffuseMaterial:
			handle, err = a.AllocateLambertian(desc.Albedo)
		case scene.SpecularMaterial:
			handle, err = a.AllocateMetal(desc.Albedo, desc.Fuzz)
		case scene.RefractiveMaterial:
			handle, err = a.AllocateDielectric(desc.IOR)
		default:
			err = fmt.Errorf("%w: unsupported material type %s", ErrInvalidParameter, desc.Type)
		}
		if err != nil {
			return HittableHandle{}, fmt.Errorf("material %q: %w", desc.Name, err)
		}
		materials[desc] = handle
	}

	spheres := make([]HittableHandle, 0, len(sc.Spheres))
	for index, desc := range sc.Spheres {
		// Unknown materials map to the nil handle which the device rejects.
		handle, err := a.AllocateSphere(desc.Center, desc.Radius, materials[desc.Material])
		if err != nil {
			return HittableHandle{}, fmt.Errorf("sphere %d: %w", index, err)
		}
		spheres = append(spheres, handle)
	}

	return a.AllocateScene(spheres...)
}
