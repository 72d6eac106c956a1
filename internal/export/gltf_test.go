package export

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/scene"
	"github.com/miraitools/shadowbaker/internal/shadow"
)

func TestWriteGLBRoundTrip(t *testing.T) {
	obj := scene.NewMeshObject("Crate", scene.NewCubeMesh(2))
	obj.Location = vec3.T{1, 2, 3}

	path := filepath.Join(t.TempDir(), "crate.glb")
	if err := WriteGLB(path, []*scene.Object{obj}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	sc, err := scene.LoadGLB(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := sc.Get("Crate")
	if got == nil {
		t.Fatal("object missing after round trip")
	}
	if len(got.Mesh.Vertices) != len(obj.Mesh.Vertices) {
		t.Errorf("vertex count = %d, want %d", len(got.Mesh.Vertices), len(obj.Mesh.Vertices))
	}
	if len(got.Mesh.Faces) != len(obj.Mesh.Faces) {
		t.Errorf("face count = %d, want %d", len(got.Mesh.Faces), len(obj.Mesh.Faces))
	}
	for i := 0; i < 3; i++ {
		if math.Abs(got.Location[i]-obj.Location[i]) > 1e-5 {
			t.Errorf("location[%d] = %f, want %f", i, got.Location[i], obj.Location[i])
		}
	}
	dims := got.Dimensions()
	for i := 0; i < 3; i++ {
		if math.Abs(dims[i]-2) > 1e-5 {
			t.Errorf("dimension[%d] = %f, want 2", i, dims[i])
		}
	}
}

func TestWriteGLBTexturedPlane(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(scene.NewMeshObject("Crate", scene.NewCubeMesh(1)))
	plane := shadow.BuildShadowPlane(sc, obj)
	shadow.BindImageToPlane(plane, shadow.BuildRasterImage(obj.Name, 8, 8))

	path := filepath.Join(t.TempDir(), "crate.glb")
	if err := WriteGLB(path, []*scene.Object{obj, plane}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	reloaded, err := scene.LoadGLB(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Get("Crate") == nil || reloaded.Get("Crate_shadow_plane") == nil {
		t.Fatal("expected both objects in the exported file")
	}
	uvs := reloaded.Get("Crate_shadow_plane").Mesh.TexCoords
	if len(uvs) != 4 {
		t.Errorf("plane texcoord count = %d, want 4", len(uvs))
	}
}

func TestWriteGLBNothingToExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := WriteGLB(path, nil); err == nil {
		t.Fatal("expected error with no exportable objects")
	}
}

func TestWriteGLBSkipsNonMeshObjects(t *testing.T) {
	obj := scene.NewMeshObject("Crate", scene.NewCubeMesh(1))
	light := scene.NewLightObject("Sun", &scene.Light{Energy: 5})

	path := filepath.Join(t.TempDir(), "crate.glb")
	if err := WriteGLB(path, []*scene.Object{light, obj}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	reloaded, err := scene.LoadGLB(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := len(reloaded.MeshObjects()); got != 1 {
		t.Errorf("expected 1 mesh object, got %d", got)
	}
	if reloaded.Get("Sun") != nil {
		t.Error("light should not be exported")
	}
}
