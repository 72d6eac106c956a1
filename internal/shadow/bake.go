package shadow

import (
	"errors"
	"fmt"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// DefaultSamples is the bake sample count used when none is configured.
const DefaultSamples = 64

// Baker is the rendering capability the pipeline delegates the actual bake
// to. Implementations render the configured pass into the image bound to the
// plane's render material, mutating it in place, in one blocking call.
type Baker interface {
	Bake(sc *scene.Scene, plane *scene.Object, settings scene.RenderSettings) error
}

// ConfigureBakeSettings selects the path-traced backend with a direct (not
// selected-to-active) shadow pass. samples <= 0 falls back to DefaultSamples.
func ConfigureBakeSettings(sc *scene.Scene, samples int) {
	if samples <= 0 {
		samples = DefaultSamples
	}
	sc.Render = scene.RenderSettings{
		Engine:           scene.EnginePathTraced,
		Pass:             scene.BakeShadow,
		Samples:          samples,
		SelectedToActive: false,
	}
}

// IsolateForRender hides every mesh except the target from the render so the
// bake records only the target's shadow. The plane is re-enabled explicitly:
// the blanket disable above hits it too.
func IsolateForRender(sc *scene.Scene, target, plane *scene.Object) {
	for _, o := range sc.MeshObjects() {
		o.HideRender = o != target
	}
	if plane != nil {
		plane.HideRender = false
	}
}

// RunBake triggers one blocking bake through the baker and returns the image
// that received it: the same buffer bound by BindImageToPlane, not a copy.
func RunBake(sc *scene.Scene, baker Baker, plane *scene.Object) (*scene.Image, error) {
	if plane == nil || plane.Mesh == nil {
		return nil, errors.New("no shadow plane to bake onto")
	}
	mat := plane.Mesh.RenderMaterial()
	if mat == nil {
		return nil, errors.New("shadow plane has no material")
	}
	img := mat.BaseColorImage()
	if img == nil {
		return nil, errors.New("shadow plane material has no bound image")
	}

	if err := baker.Bake(sc, plane, sc.Render); err != nil {
		return nil, fmt.Errorf("shadow bake: %w", err)
	}
	return img, nil
}
