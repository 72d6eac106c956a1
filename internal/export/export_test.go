package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/config"
	"github.com/miraitools/shadowbaker/internal/scene"
)

// dimBaker darkens the whole plane to a uniform gray so the binarized mask
// has visible alpha everywhere.
type dimBaker struct{ calls int }

func (b *dimBaker) Bake(sc *scene.Scene, plane *scene.Object, settings scene.RenderSettings) error {
	b.calls++
	img := plane.Mesh.RenderMaterial().BaseColorImage()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Set(x, y, 0.25, 0.25, 0.25, 1)
		}
	}
	return nil
}

type failBaker struct{}

func (failBaker) Bake(*scene.Scene, *scene.Object, scene.RenderSettings) error {
	return errors.New("render backend unavailable")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Export.OutputDir = t.TempDir()
	cfg.Bake.Seed = 1
	cfg.Bake.Samples = 1
	cfg.Bake.NumLights = 1
	cfg.Bake.Symmetric = true
	return cfg
}

// tableObject returns a unit-footprint cube scaled to a valid table height.
func tableObject(name string) *scene.Object {
	obj := scene.NewMeshObject(name, scene.NewCubeMesh(1))
	obj.Scale[2] = 0.73
	return obj
}

func TestExportObject(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	cfg := testConfig(t)
	baker := &dimBaker{}

	out, err := New(sc, baker, cfg).ExportObject(obj)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if want := filepath.Join(cfg.Export.OutputDir, "Desk.glb"); out != want {
		t.Errorf("output path = %s, want %s", out, want)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("missing GLB: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.OutputDir, ShadowMaskName)); err != nil {
		t.Errorf("missing shadow mask: %v", err)
	}
	if baker.calls != 1 {
		t.Errorf("expected 1 bake, got %d", baker.calls)
	}
}

func TestExportCleansUpScene(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	cfg := testConfig(t)

	if _, err := New(sc, &dimBaker{}, cfg).ExportObject(obj); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if got := len(sc.Objects()); got != 1 {
		t.Fatalf("expected only the object to remain, got %d objects", got)
	}
	if sc.Get("Desk_shadow_plane") != nil {
		t.Error("shadow plane not removed")
	}
	if sc.Get("Shadow_Sun_1") != nil {
		t.Error("rig light not removed")
	}
	if obj.HideRender {
		t.Error("render visibility not restored")
	}
	if len(sc.Selected()) != 0 {
		t.Error("selection not cleared")
	}
}

func TestExportCleansUpOnBakeFailure(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	cfg := testConfig(t)

	_, err := New(sc, failBaker{}, cfg).ExportObject(obj)
	if err == nil {
		t.Fatal("expected bake error")
	}
	if sc.Get("Desk_shadow_plane") != nil || sc.Get("Shadow_Sun_1") != nil {
		t.Error("scene not cleaned up after failure")
	}
	if obj.HideRender {
		t.Error("render visibility not restored after failure")
	}
}

func TestExportLeavesObjectTransformAlone(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	obj.Location = vec3.T{2, 3, 0.5}
	wantVertex := obj.Mesh.Vertices[0]
	cfg := testConfig(t)

	if _, err := New(sc, &dimBaker{}, cfg).ExportObject(obj); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// The object is borrowed: exporting must not rebase its pivot or move it.
	if obj.Location != (vec3.T{2, 3, 0.5}) {
		t.Errorf("object moved during export: %v", obj.Location)
	}
	if obj.Scale != (vec3.T{1, 1, 0.73}) {
		t.Errorf("object scale changed during export: %v", obj.Scale)
	}
	if obj.Mesh.Vertices[0] != wantVertex {
		t.Errorf("mesh data changed during export: %v", obj.Mesh.Vertices[0])
	}
}

func TestExportRejectsBadHeightBeforeMutation(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(scene.NewMeshObject("Tower", scene.NewCubeMesh(1)))
	obj.Scale[2] = 3 // far outside the Table band
	cfg := testConfig(t)

	_, err := New(sc, &dimBaker{}, cfg).ExportObject(obj)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if got := len(sc.Objects()); got != 1 {
		t.Errorf("scene mutated by failed validation: %d objects", got)
	}
	if entries, _ := os.ReadDir(cfg.Export.OutputDir); len(entries) != 0 {
		t.Errorf("failed validation wrote %d files", len(entries))
	}
}

func TestExportRejectsEditMode(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	sc.Mode = scene.ModeEdit
	cfg := testConfig(t)

	var pre *PreconditionError
	if _, err := New(sc, &dimBaker{}, cfg).ExportObject(obj); !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestExportRejectsUnknownPreset(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(tableObject("Desk"))
	cfg := testConfig(t)
	cfg.Export.Preset = "Bookcase"

	var pre *PreconditionError
	if _, err := New(sc, &dimBaker{}, cfg).ExportObject(obj); !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestExportFreePresetAcceptsAnyHeight(t *testing.T) {
	sc := scene.New()
	obj := sc.Add(scene.NewMeshObject("Tower", scene.NewCubeMesh(1)))
	obj.Scale[2] = 3
	cfg := testConfig(t)
	cfg.Export.Preset = "FREE"

	if _, err := New(sc, &dimBaker{}, cfg).ExportObject(obj); err != nil {
		t.Fatalf("FREE preset should accept any height: %v", err)
	}
}

func TestExportByNameMissing(t *testing.T) {
	sc := scene.New()
	cfg := testConfig(t)

	var pre *PreconditionError
	if _, err := New(sc, &dimBaker{}, cfg).ExportByName("Ghost"); !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestExportCollectionContinuesOnError(t *testing.T) {
	sc := scene.New()
	col := sc.EnsureCollection("Furniture")
	for _, name := range []string{"Desk", "Bench"} {
		obj := sc.Add(tableObject(name))
		col.Link(obj)
	}
	tall := sc.Add(scene.NewMeshObject("Tower", scene.NewCubeMesh(1)))
	tall.Scale[2] = 3
	col.Link(tall)

	cfg := testConfig(t)
	res, err := New(sc, &dimBaker{}, cfg).ExportCollection("Furniture")
	if err != nil {
		t.Fatalf("collection export failed: %v", err)
	}
	if len(res.Exported) != 2 {
		t.Errorf("expected 2 exports, got %d (%v)", len(res.Exported), res.Exported)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(res.Failed))
	}
	var pre *PreconditionError
	if !errors.As(res.Failed["Tower"], &pre) {
		t.Errorf("expected Tower to fail its height check, got %v", res.Failed["Tower"])
	}
	for _, name := range []string{"Desk.glb", "Bench.glb"} {
		if _, err := os.Stat(filepath.Join(cfg.Export.OutputDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.OutputDir, "Tower.glb")); err == nil {
		t.Error("failing member still produced a GLB")
	}
}

func TestExportCollectionMissing(t *testing.T) {
	sc := scene.New()
	if _, err := New(sc, &dimBaker{}, testConfig(t)).ExportCollection("Nope"); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestExportCollectionEmpty(t *testing.T) {
	sc := scene.New()
	sc.EnsureCollection("Empty")
	if _, err := New(sc, &dimBaker{}, testConfig(t)).ExportCollection("Empty"); err == nil {
		t.Fatal("expected error for empty collection")
	}
}

func TestPresetLookup(t *testing.T) {
	if _, ok := Preset("table"); !ok {
		t.Error("preset lookup should be case-insensitive")
	}
	if _, ok := Preset("Bookcase"); ok {
		t.Error("unknown preset should not resolve")
	}
	if got := len(PresetNames()); got != 5 {
		t.Errorf("expected 5 presets, got %d", got)
	}
}

func TestHeightRangeCheck(t *testing.T) {
	table, _ := Preset("Table")

	ok := tableObject("Desk")
	if err := table.Check(ok); err != nil {
		t.Errorf("0.73m should pass the Table band: %v", err)
	}

	low := scene.NewMeshObject("Stool", scene.NewCubeMesh(1))
	low.Scale[2] = 0.4
	if err := table.Check(low); err == nil {
		t.Error("0.4m should fail the Table band")
	}
}
