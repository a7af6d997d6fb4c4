package scene

import (
	"strings"
	"testing"

	"github.com/achilleasa/go-spheretrace/types"
)

func TestSceneAddMaterialsAndSpheres(t *testing.T) {
	sc := NewScene()

	red := &MaterialDesc{Name: "red", Type: DiffuseMaterial, Albedo: types.XYZ(1, 0, 0)}
	if err := sc.AddMaterial(red); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddMaterial(red); err == nil {
		t.Fatal("expected error adding the same material twice")
	}
	if err := sc.AddMaterial(&MaterialDesc{Name: "red", Type: SpecularMaterial}); err == nil {
		t.Fatal("expected error adding a material with a duplicate name")
	}

	orphan := &MaterialDesc{Name: "orphan", Type: DiffuseMaterial}
	if err := sc.AddSphere(&SphereDesc{Radius: 1, Material: orphan}); err == nil {
		t.Fatal("expected error adding a sphere with an unregistered material")
	}
	if err := sc.AddSphere(&SphereDesc{Radius: 1}); err == nil {
		t.Fatal("expected error adding a sphere without a material")
	}

	sphere := &SphereDesc{Center: types.XYZ(0, 0, -1), Radius: 0.5, Material: red}
	if err := sc.AddSphere(sphere); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddSphere(sphere); err == nil {
		t.Fatal("expected error adding the same sphere twice")
	}

	if sc.Material("red") != red {
		t.Fatal("expected material lookup by name to succeed")
	}
	if sc.Material("blue") != nil {
		t.Fatal("expected lookup of an unknown material to return nil")
	}
}

func TestSceneBuild(t *testing.T) {
	sc := NewScene()
	mats := []*MaterialDesc{
		{Name: "ground", Type: DiffuseMaterial, Albedo: types.XYZ(0.8, 0.8, 0)},
		{Name: "steel", Type: SpecularMaterial, Albedo: types.XYZ(0.8, 0.8, 0.8), Fuzz: 0.1},
		{Name: "glass", Type: RefractiveMaterial, IOR: 1.5},
	}
	for _, mat := range mats {
		if err := sc.AddMaterial(mat); err != nil {
			t.Fatal(err)
		}
	}
	for index, mat := range mats {
		err := sc.AddSphere(&SphereDesc{Center: types.XYZ(float64(index), 0, -1), Radius: 0.25, Material: mat})
		if err != nil {
			t.Fatal(err)
		}
	}

	world, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if world.Len() != 3 {
		t.Fatalf("expected 3 objects; got %d", world.Len())
	}

	rec, hit := world.Hit(types.NewRay(types.XYZ(1, 0, 0), types.XYZ(0, 0, -1)), hitInterval)
	if !hit {
		t.Fatal("expected ray to hit the second sphere")
	}
	metal, ok := rec.Material.(*Metal)
	if !ok || metal.Fuzz != 0.1 {
		t.Fatalf("expected metal material with fuzz 0.1; got %#v", rec.Material)
	}

	stats := sc.Stats()
	for _, exp := range []string{"materials: 3 (lambertian 1, metal 1, dielectric 1)", "spheres:   3"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected stats to contain %q; got:\n%s", exp, stats)
		}
	}
}
