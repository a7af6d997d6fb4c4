package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/achilleasa/go-spheretrace/types"
)

type MaterialType uint8

const (
	DiffuseMaterial MaterialType = iota
	SpecularMaterial
	RefractiveMaterial
)

func (mt MaterialType) String() string {
	switch mt {
	case DiffuseMaterial:
		return "lambertian"
	case SpecularMaterial:
		return "metal"
	case RefractiveMaterial:
		return "dielectric"
	}
	return fmt.Sprintf("MaterialType(%d)", uint8(mt))
}

// Parse a material type name as used by scene files.
func ParseMaterialType(name string) (MaterialType, error) {
	switch strings.ToLower(name) {
	case "lambertian", "diffuse":
		return DiffuseMaterial, nil
	case "metal", "specular":
		return SpecularMaterial, nil
	case "dielectric", "glass":
		return RefractiveMaterial, nil
	}
	return 0, fmt.Errorf("scene: unknown material type %q", name)
}

// The Material interface describes how a ray scatters after hitting a
// surface. The variant set is closed: Lambertian, Metal and Dielectric.
type Material interface {
	// Scatter the incoming ray. If the material absorbs the ray ok is false.
	Scatter(in types.Ray, rec *HitRecord, rng types.RandomSource) (attenuation types.Vec3, scattered types.Ray, ok bool)

	Type() MaterialType

	material()
}

// An ideal diffuse reflector.
type Lambertian struct {
	Albedo types.Vec3
}

func NewLambertian(albedo types.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

func (*Lambertian) material() {}

func (m *Lambertian) Type() MaterialType { return DiffuseMaterial }

func (m *Lambertian) Scatter(in types.Ray, rec *HitRecord, rng types.RandomSource) (types.Vec3, types.Ray, bool) {
	dir := rec.Normal.Add(types.RandomUnitVector(rng))
	if dir.NearZero() {
		dir = rec.Normal
	}

	return m.Albedo, types.NewRay(rec.Point, dir), true
}

// A reflective surface. A fuzz value of 0 yields a perfect mirror.
type Metal struct {
	Albedo types.Vec3
	Fuzz   float64
}

func NewMetal(albedo types.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

func (*Metal) material() {}

func (m *Metal) Type() MaterialType { return SpecularMaterial }

func (m *Metal) Scatter(in types.Ray, rec *HitRecord, rng types.RandomSource) (types.Vec3, types.Ray, bool) {
	reflected := types.Reflect(in.Dir, rec.Normal).Normalize()
	if m.Fuzz != 0 {
		reflected = reflected.Add(types.RandomUnitVector(rng).Mul(m.Fuzz))
	}

	scattered := types.NewRay(rec.Point, reflected)
	return m.Albedo, scattered, scattered.Dir.Dot(rec.Normal) > 0
}

// A clear, non-absorbing refractive material.
type Dielectric struct {
	// Refractive index in vacuum or air, or the ratio of the material's
	// refractive index over the index of the enclosing medium.
	RefractionIndex float64
}

func NewDielectric(refractionIndex float64) *Dielectric {
	return &Dielectric{RefractionIndex: refractionIndex}
}

func (*Dielectric) material() {}

func (m *Dielectric) Type() MaterialType { return RefractiveMaterial }

func (m *Dielectric) Scatter(in types.Ray, rec *HitRecord, rng types.RandomSource) (types.Vec3, types.Ray, bool) {
	ri := m.RefractionIndex
	if rec.FrontFace {
		ri = 1.0 / m.RefractionIndex
	}

	unitDir := in.Dir.Normalize()
	cosTheta := math.Min(unitDir.Neg().Dot(rec.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var dir types.Vec3
	cannotRefract := ri*sinTheta > 1.0
	if cannotRefract || Reflectance(cosTheta, ri) > rng.Float64() {
		dir = types.Reflect(unitDir, rec.Normal)
	} else {
		dir = types.Refract(unitDir, rec.Normal, ri)
	}

	return types.XYZ(1, 1, 1), types.NewRay(rec.Point, dir), true
}

// Schlick's approximation for the reflectance of a dielectric at the given
// incidence cosine.
func Reflectance(cosine, refractionIndex float64) float64 {
	r0 := (1 - refractionIndex) / (1 + refractionIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
