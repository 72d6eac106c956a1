// Package export drives the publishing pipeline: shadow bake and GLB
// serialization of the object together with its baked shadow plane.
package export

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/miraitools/shadowbaker/internal/config"
	"github.com/miraitools/shadowbaker/internal/logger"
	"github.com/miraitools/shadowbaker/internal/scene"
	"github.com/miraitools/shadowbaker/internal/shadow"
)

// ShadowMaskName is the sidecar file the binarized shadow mask is saved to.
const ShadowMaskName = "baked_shadow.png"

// PreconditionError reports an object that failed validation before any
// scene mutation happened.
type PreconditionError struct {
	Object string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Object, e.Reason)
}

// Exporter runs the bake-and-export pipeline against one scene.
type Exporter struct {
	Scene *scene.Scene
	Baker shadow.Baker
	Cfg   *config.Config

	rng *rand.Rand
}

// New creates an exporter. The configured seed drives the light-rig jitter;
// seed 0 uses the current time.
func New(sc *scene.Scene, baker shadow.Baker, cfg *config.Config) *Exporter {
	seed := cfg.Bake.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Exporter{
		Scene: sc,
		Baker: baker,
		Cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// validate runs every precondition check. It never mutates the scene, so a
// failed object leaves everything exactly as it was.
func (e *Exporter) validate(obj *scene.Object) error {
	if obj == nil {
		return &PreconditionError{Object: "<nil>", Reason: "no object"}
	}
	if obj.Kind != scene.KindMesh || obj.Mesh == nil {
		return &PreconditionError{Object: obj.Name, Reason: "not a mesh object"}
	}
	if len(obj.Mesh.Vertices) == 0 {
		return &PreconditionError{Object: obj.Name, Reason: "mesh has no geometry"}
	}
	if e.Scene.Mode != scene.ModeObject {
		return &PreconditionError{Object: obj.Name, Reason: "scene is not in object mode"}
	}
	if name := e.Cfg.Export.Preset; name != "" {
		preset, ok := Preset(name)
		if !ok {
			return &PreconditionError{Object: obj.Name, Reason: fmt.Sprintf("unknown height preset %q", name)}
		}
		if err := preset.Check(obj); err != nil {
			return err
		}
	}
	if err := checkOutputDir(e.Cfg.Export.OutputDir); err != nil {
		return &PreconditionError{Object: obj.Name, Reason: err.Error()}
	}
	return nil
}

// checkOutputDir verifies the destination directory exists (creating it if
// needed) and is writable.
func checkOutputDir(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".shadowbaker-*")
	if err != nil {
		return fmt.Errorf("output dir not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// ExportByName exports the named object. See ExportObject.
func (e *Exporter) ExportByName(name string) (string, error) {
	obj := e.Scene.Get(name)
	if obj == nil {
		return "", &PreconditionError{Object: name, Reason: "object not found"}
	}
	return e.ExportObject(obj)
}

// ExportObject runs the whole pipeline for one object: validate, synthesize
// the light rig and shadow plane, bake, binarize, save the shadow mask and
// write "<name>.glb" containing the object and its plane. The object's own
// transform is never touched; pivot relocation is a separate operation. The
// plane and lights are removed and render visibility restored no matter how
// far the pipeline got.
func (e *Exporter) ExportObject(obj *scene.Object) (string, error) {
	if err := e.validate(obj); err != nil {
		return "", err
	}

	var plane *scene.Object
	var rig []*scene.Object
	defer func() {
		for _, l := range rig {
			e.Scene.Remove(l)
		}
		if plane != nil {
			e.Scene.Remove(plane)
		}
		for _, o := range e.Scene.MeshObjects() {
			o.HideRender = false
		}
		e.Scene.DeselectAll()
	}()

	rig = shadow.BuildLightRig(e.Scene, obj, shadow.RigOptions{
		Count:        e.Cfg.Bake.NumLights,
		AngleDeg:     e.Cfg.Bake.LightAngle,
		Strength:     e.Cfg.Bake.LightPower,
		Symmetric:    e.Cfg.Bake.Symmetric,
		RingDistance: e.Cfg.Bake.RingDistance,
	}, e.rng)
	plane = shadow.BuildShadowPlane(e.Scene, obj)
	img := shadow.BuildRasterImage(obj.Name, shadow.TextureSize, shadow.TextureSize)
	shadow.BindImageToPlane(plane, img)

	shadow.ConfigureBakeSettings(e.Scene, e.Cfg.Bake.Samples)
	shadow.IsolateForRender(e.Scene, obj, plane)

	baked, err := shadow.RunBake(e.Scene, e.Baker, plane)
	if err != nil {
		return "", err
	}

	mask := shadow.Binarize(baked)
	shadow.BindImageToPlane(plane, mask)

	maskPath := filepath.Join(e.Cfg.Export.OutputDir, ShadowMaskName)
	if err := shadow.WritePNG(mask, maskPath); err != nil {
		return "", err
	}

	e.Scene.DeselectAll()
	obj.Selected = true
	plane.Selected = true

	out := filepath.Join(e.Cfg.Export.OutputDir, obj.Name+".glb")
	if err := WriteGLB(out, e.Scene.Selected()); err != nil {
		return "", err
	}

	logger.Sugar.Infow("exported object", "object", obj.Name, "path", out)
	return out, nil
}

// CollectionResult aggregates a batch export: output paths for the members
// that exported and the error for each one that did not.
type CollectionResult struct {
	Exported []string
	Failed   map[string]error
}

// ExportCollection exports every member of the named collection. A failing
// member is recorded and skipped; the rest still export. The returned error
// covers only collection-level problems.
func (e *Exporter) ExportCollection(name string) (*CollectionResult, error) {
	col := e.Scene.Collection(name)
	if col == nil {
		return nil, &PreconditionError{Object: name, Reason: "collection not found"}
	}
	members := col.Objects()
	if len(members) == 0 {
		return nil, &PreconditionError{Object: name, Reason: "collection is empty"}
	}

	res := &CollectionResult{Failed: make(map[string]error)}
	for _, obj := range members {
		path, err := e.ExportObject(obj)
		if err != nil {
			logger.Sugar.Warnw("skipping collection member", "object", obj.Name, "error", err)
			res.Failed[obj.Name] = err
			continue
		}
		res.Exported = append(res.Exported, path)
	}
	return res, nil
}
