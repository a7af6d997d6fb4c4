package reader

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/achilleasa/go-spheretrace/log"
	"github.com/achilleasa/go-spheretrace/scene"
	"github.com/achilleasa/go-spheretrace/types"
	"gopkg.in/yaml.v2"
)

var logger = log.New("scene reader")

// Maximum nesting level for included scene files.
const maxIncludeDepth = 8

// Camera section of a scene file. Omitted fields keep the camera defaults.
type cameraDef struct {
	AspectRatio     *float64    `yaml:"aspect_ratio"`
	ImageWidth      *int        `yaml:"image_width"`
	VFov            *float64    `yaml:"vfov"`
	LookFrom        *[3]float64 `yaml:"lookfrom"`
	LookAt          *[3]float64 `yaml:"lookat"`
	Up              *[3]float64 `yaml:"vup"`
	DefocusAngle    *float64    `yaml:"defocus_angle"`
	FocusDistance   *float64    `yaml:"focus_distance"`
	SamplesPerPixel *int        `yaml:"samples_per_pixel"`
	MaxDepth        *int        `yaml:"max_depth"`
}

type materialDef struct {
	Type   string     `yaml:"type"`
	Albedo [3]float64 `yaml:"albedo"`
	Fuzz   float64    `yaml:"fuzz"`
	IOR    float64    `yaml:"ior"`
}

type sphereDef struct {
	Center   [3]float64 `yaml:"center"`
	Radius   float64    `yaml:"radius"`
	Material string     `yaml:"material"`
}

// The on-disk scene file layout.
type sceneDef struct {
	// Other scene files whose materials and spheres are merged into this
	// one. Relative paths are resolved against the including file.
	Include   []string               `yaml:"include"`
	Camera    *cameraDef             `yaml:"camera"`
	Materials map[string]materialDef `yaml:"materials"`
	Spheres   []sphereDef            `yaml:"spheres"`
}

// Read a YAML scene description from a local file or an http(s) URL.
func ReadScene(pathToScene string) (*scene.Scene, error) {
	res, err := newResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	sc := scene.NewScene()
	if err = readInto(sc, res, 0); err != nil {
		return nil, err
	}

	logger.Infof("loaded scene %s: %d materials, %d spheres", res.Path(), len(sc.Materials), len(sc.Spheres))
	return sc, nil
}

// Parse a YAML scene description from a stream. Include directives are
// not supported for streams as there is no base path to resolve them against.
func Parse(r io.Reader) (*scene.Scene, error) {
	def, err := decode(r)
	if err != nil {
		return nil, err
	}
	if len(def.Include) != 0 {
		return nil, fmt.Errorf("reader: include directives require a file or url based scene")
	}

	sc := scene.NewScene()
	if err = apply(sc, def); err != nil {
		return nil, err
	}
	return sc, nil
}

func decode(r io.Reader) (*sceneDef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	def := &sceneDef{}
	if err = yaml.UnmarshalStrict(data, def); err != nil {
		return nil, fmt.Errorf("reader: error parsing scene: %w", err)
	}
	return def, nil
}

func readInto(sc *scene.Scene, res *resource, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("reader: include depth exceeds %d while loading %s", maxIncludeDepth, res.Path())
	}

	def, err := decode(res)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Path(), err)
	}

	// Included files are processed first so their materials can be
	// referenced by the spheres of the including file.
	for _, inc := range def.Include {
		incRes, err := newResource(inc, res)
		if err != nil {
			return err
		}
		logger.Debugf("including %s", incRes.Path())
		err = readInto(sc, incRes, depth+1)
		incRes.Close()
		if err != nil {
			return err
		}
	}

	if err = apply(sc, def); err != nil {
		return fmt.Errorf("%s: %w", res.Path(), err)
	}
	return nil
}

// Merge a decoded definition into the scene.
func apply(sc *scene.Scene, def *sceneDef) error {
	if def.Camera != nil {
		applyCamera(sc.Camera, def.Camera)
	}

	// Map iteration order is random; sort names for a stable material order.
	names := make([]string, 0, len(def.Materials))
	for name := range def.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mat, err := newMaterial(name, def.Materials[name])
		if err != nil {
			return err
		}
		if err = sc.AddMaterial(mat); err != nil {
			return err
		}
	}

	for index, sd := range def.Spheres {
		mat := sc.Material(sd.Material)
		if mat == nil {
			return fmt.Errorf("reader: sphere %d references undefined material %q", index, sd.Material)
		}
		if !types.Vec3(sd.Center).IsFinite() || math.IsNaN(sd.Radius) || math.IsInf(sd.Radius, 0) {
			return fmt.Errorf("reader: sphere %d has non-finite center or radius", index)
		}
		err := sc.AddSphere(&scene.SphereDesc{
			Center:   types.Vec3(sd.Center),
			Radius:   sd.Radius,
			Material: mat,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func newMaterial(name string, md materialDef) (*scene.MaterialDesc, error) {
	matType, err := scene.ParseMaterialType(md.Type)
	if err != nil {
		return nil, fmt.Errorf("reader: material %q: %w", name, err)
	}

	mat := &scene.MaterialDesc{
		Name:   name,
		Type:   matType,
		Albedo: types.Vec3(md.Albedo),
		Fuzz:   md.Fuzz,
		IOR:    md.IOR,
	}
	if matType == scene.RefractiveMaterial && mat.IOR == 0 {
		mat.IOR = 1.5
	}
	return mat, nil
}

func applyCamera(cam *scene.Camera, cd *cameraDef) {
	if cd.AspectRatio != nil {
		cam.AspectRatio = *cd.AspectRatio
	}
	if cd.ImageWidth != nil {
		cam.ImageWidth = *cd.ImageWidth
	}
	if cd.VFov != nil {
		cam.VFov = *cd.VFov
	}
	if cd.LookFrom != nil {
		cam.LookFrom = types.Vec3(*cd.LookFrom)
	}
	if cd.LookAt != nil {
		cam.LookAt = types.Vec3(*cd.LookAt)
	}
	if cd.Up != nil {
		cam.Up = types.Vec3(*cd.Up)
	}
	if cd.DefocusAngle != nil {
		cam.DefocusAngle = *cd.DefocusAngle
	}
	if cd.FocusDistance != nil {
		cam.FocusDistance = *cd.FocusDistance
	}
	if cd.SamplesPerPixel != nil {
		cam.SamplesPerPixel = *cd.SamplesPerPixel
	}
	if cd.MaxDepth != nil {
		cam.MaxDepth = *cd.MaxDepth
	}
}
