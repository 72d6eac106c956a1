// Package render provides a small CPU renderer that serves as the external
// rendering infrastructure the bake pipeline delegates to: it traces shadow
// rays from the shadow plane toward every sun light and records the
// energy-weighted visibility into the image bound to the plane's material.
package render

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// rayEpsilon rejects self-intersections at the ray origin.
const rayEpsilon = 1e-6

// Raycaster bakes shadow passes by casting occlusion rays on the CPU.
// It implements the shadow.Baker interface.
type Raycaster struct {
	rng *rand.Rand
}

// NewRaycaster returns a raycaster seeded for reproducible cone sampling.
// seed 0 uses the current time.
func NewRaycaster(seed int64) *Raycaster {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Raycaster{rng: rand.New(rand.NewSource(seed))}
}

type triangle struct {
	a, b, c vec3.T
}

// Bake renders the shadow pass into the image bound to the plane's render
// material. Every render-visible mesh except the plane occludes; every
// light in the scene contributes, weighted by its energy.
func (rc *Raycaster) Bake(sc *scene.Scene, plane *scene.Object, settings scene.RenderSettings) error {
	if settings.Pass != scene.BakeShadow {
		return fmt.Errorf("unsupported bake pass %q", settings.Pass)
	}
	if plane == nil || plane.Mesh == nil {
		return errors.New("no plane to bake onto")
	}
	mat := plane.Mesh.RenderMaterial()
	if mat == nil {
		return errors.New("plane has no material")
	}
	img := mat.BaseColorImage()
	if img == nil {
		return errors.New("plane material has no bound image")
	}

	occluders := gatherTriangles(sc, plane)
	lights := gatherLights(sc)

	samples := settings.Samples
	if samples < 1 {
		samples = 1
	}

	m := plane.WorldMatrix()
	min, max := plane.Mesh.Bounds()
	spanX := max[0] - min[0]
	spanY := max[1] - min[1]

	for py := 0; py < img.Height; py++ {
		for px := 0; px < img.Width; px++ {
			local := vec3.T{
				min[0] + (float64(px)+0.5)/float64(img.Width)*spanX,
				min[1] + (float64(py)+0.5)/float64(img.Height)*spanY,
				0,
			}
			origin := m.MulVec3(&local)

			v := rc.visibility(origin, lights, occluders, samples)
			img.Set(px, py, float32(v), float32(v), float32(v), 1)
		}
	}
	return nil
}

// visibility returns the energy-weighted fraction of light reaching the
// point: 1 fully lit, 0 fully shadowed.
func (rc *Raycaster) visibility(origin vec3.T, lights []*scene.Object, occluders []triangle, samples int) float64 {
	if len(lights) == 0 {
		return 1
	}

	var totalEnergy, litEnergy float64
	for _, l := range lights {
		energy := l.Light.Energy
		if energy <= 0 {
			continue
		}
		totalEnergy += energy

		aim := l.Direction()
		toLight := aim.Scaled(-1)
		halfAngle := l.Light.Angle / 2

		unoccluded := 0
		for s := 0; s < samples; s++ {
			dir := toLight
			if halfAngle > 0 {
				dir = rc.sampleCone(toLight, halfAngle)
			}
			if !anyHit(origin, dir, occluders) {
				unoccluded++
			}
		}
		litEnergy += energy * float64(unoccluded) / float64(samples)
	}

	if totalEnergy == 0 {
		return 1
	}
	return litEnergy / totalEnergy
}

// sampleCone draws a uniform direction within the cone of the given half
// angle around axis.
func (rc *Raycaster) sampleCone(axis vec3.T, halfAngle float64) vec3.T {
	// Orthonormal basis around the axis.
	w := axis
	w.Normalize()
	up := vec3.T{0, 1, 0}
	if math.Abs(w[1]) > 0.99 {
		up = vec3.T{1, 0, 0}
	}
	u := vec3.Cross(&up, &w)
	u.Normalize()
	v := vec3.Cross(&w, &u)

	cosMax := math.Cos(halfAngle)
	cosTheta := 1 - rc.rng.Float64()*(1-cosMax)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * rc.rng.Float64()

	du := u.Scaled(sinTheta * math.Cos(phi))
	dv := v.Scaled(sinTheta * math.Sin(phi))
	dw := w.Scaled(cosTheta)
	d := vec3.Add(&du, &dv)
	d = vec3.Add(&d, &dw)
	d.Normalize()
	return d
}

func gatherTriangles(sc *scene.Scene, plane *scene.Object) []triangle {
	var tris []triangle
	for _, obj := range sc.MeshObjects() {
		if obj == plane || obj.HideRender {
			continue
		}
		m := obj.WorldMatrix()
		for _, f := range obj.Mesh.Faces {
			tris = append(tris, triangle{
				a: m.MulVec3(&obj.Mesh.Vertices[f[0]]),
				b: m.MulVec3(&obj.Mesh.Vertices[f[1]]),
				c: m.MulVec3(&obj.Mesh.Vertices[f[2]]),
			})
		}
	}
	return tris
}

func gatherLights(sc *scene.Scene) []*scene.Object {
	var lights []*scene.Object
	for _, obj := range sc.Objects() {
		if obj.Kind == scene.KindLight && obj.Light != nil && !obj.HideRender {
			lights = append(lights, obj)
		}
	}
	return lights
}

// anyHit reports whether the ray from origin along dir hits any triangle.
// Directional light rays have no far limit.
func anyHit(origin, dir vec3.T, tris []triangle) bool {
	for i := range tris {
		if rayTriangle(origin, dir, &tris[i]) {
			return true
		}
	}
	return false
}

// rayTriangle is the Möller–Trumbore intersection test, any-hit variant.
func rayTriangle(origin, dir vec3.T, tri *triangle) bool {
	edge1 := vec3.Sub(&tri.b, &tri.a)
	edge2 := vec3.Sub(&tri.c, &tri.a)

	pvec := vec3.Cross(&dir, &edge2)
	det := vec3.Dot(&edge1, &pvec)
	if math.Abs(det) < rayEpsilon {
		return false
	}
	invDet := 1 / det

	tvec := vec3.Sub(&origin, &tri.a)
	u := vec3.Dot(&tvec, &pvec) * invDet
	if u < 0 || u > 1 {
		return false
	}

	qvec := vec3.Cross(&tvec, &edge1)
	v := vec3.Dot(&dir, &qvec) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	t := vec3.Dot(&edge2, &qvec) * invDet
	return t > rayEpsilon
}
