package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/go-spheretrace/types"
)

// Host-side material definition. Descriptions carry parameters only; the
// live material objects are built by a tracer.
type MaterialDesc struct {
	Name string
	Type MaterialType

	// Diffuse/specular color.
	Albedo types.Vec3

	// Reflection fuzz (specular materials only).
	Fuzz float64

	// Index of refraction (refractive materials only).
	IOR float64
}

// Host-side sphere definition.
type SphereDesc struct {
	Center types.Vec3
	Radius float64

	// The sphere material. Must be added to the scene before the sphere.
	Material *MaterialDesc
}

// A scene description: camera, materials and spheres in definition order.
type Scene struct {
	Camera *Camera

	Materials []*MaterialDesc
	Spheres   []*SphereDesc
}

func NewScene() *Scene {
	return &Scene{
		Camera:    NewCamera(),
		Materials: make([]*MaterialDesc, 0),
		Spheres:   make([]*SphereDesc, 0),
	}
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *MaterialDesc) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
		if material.Name != "" && mat.Name == material.Name {
			return fmt.Errorf("scene: duplicate material name %q", material.Name)
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a sphere to the scene.
func (s *Scene) AddSphere(sphere *SphereDesc) error {
	for _, sp := range s.Spheres {
		if sp == sphere {
			return fmt.Errorf("scene: sphere already added")
		}
	}
	if sphere.Material == nil {
		return fmt.Errorf("scene: no material assigned to sphere")
	}
	for _, mat := range s.Materials {
		if mat == sphere.Material {
			s.Spheres = append(s.Spheres, sphere)
			return nil
		}
	}

	return fmt.Errorf("scene: sphere references unknown material; ensure that the material is added to the scene before adding the sphere")
}

// Lookup a material by name.
func (s *Scene) Material(name string) *MaterialDesc {
	for _, mat := range s.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Build host-resident material and sphere objects and wrap them in a list.
// This is used by the single-threaded host tracer; accelerator tracers build
// their own device-resident copies.
func (s *Scene) Build() (*HittableList, error) {
	materials := make(map[*MaterialDesc]Material, len(s.Materials))
	for _, desc := range s.Materials {
		var mat Material
		switch desc.Type {
		case DiffuseMaterial:
			mat = NewLambertian(desc.Albedo)
		case SpecularMaterial:
			mat = NewMetal(desc.Albedo, desc.Fuzz)
		case RefractiveMaterial:
			mat = NewDielectric(desc.IOR)
		default:
			return nil, fmt.Errorf("scene: unsupported material type %s", desc.Type)
		}
		materials[desc] = mat
	}

	objects := make([]Hittable, 0, len(s.Spheres))
	for _, desc := range s.Spheres {
		mat, ok := materials[desc.Material]
		if !ok {
			return nil, fmt.Errorf("scene: sphere references unknown material")
		}
		objects = append(objects, NewSphere(desc.Center, desc.Radius, mat))
	}

	return NewHittableList(objects...), nil
}

// Get a textual summary of the scene contents.
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	counts := make(map[MaterialType]int)
	for _, mat := range s.Materials {
		counts[mat.Type]++
	}

	fmt.Fprintf(&buf, "materials: %d (lambertian %d, metal %d, dielectric %d)\n",
		len(s.Materials), counts[DiffuseMaterial], counts[SpecularMaterial], counts[RefractiveMaterial])
	fmt.Fprintf(&buf, "spheres:   %d\n", len(s.Spheres))
	if s.Camera != nil {
		fmt.Fprintf(&buf, "camera:    %dpx wide, aspect %.3f, %d spp, depth %d",
			s.Camera.ImageWidth, s.Camera.AspectRatio, s.Camera.SamplesPerPixel, s.Camera.MaxDepth)
	}
	return buf.String()
}
