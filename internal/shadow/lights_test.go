package shadow

import (
	"math"
	"math/rand"
	"testing"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/scene"
)

func rigObject(sc *scene.Scene) *scene.Object {
	return sc.Add(scene.NewMeshObject("Crate", scene.NewCubeMesh(1)))
}

// azimuth returns the light's angle around the object in degrees, in [0,360).
func azimuth(obj, light *scene.Object) float64 {
	dx := light.Location[0] - obj.Location[0]
	dy := light.Location[1] - obj.Location[1]
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func TestLightRigSymmetricAzimuths(t *testing.T) {
	sc := scene.New()
	obj := rigObject(sc)

	lights := BuildLightRig(sc, obj, RigOptions{
		Count: 4, AngleDeg: 13.3, Strength: 5, Symmetric: true, RingDistance: 1,
	}, rand.New(rand.NewSource(1)))

	if len(lights) != 4 {
		t.Fatalf("expected 4 lights, got %d", len(lights))
	}
	want := []float64{0, 90, 180, 270}
	for i, l := range lights {
		got := azimuth(obj, l)
		diff := math.Abs(got - want[i])
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 1e-9 {
			t.Errorf("light %d: expected azimuth %f, got %f", i, want[i], got)
		}
	}
}

func TestLightRigJitterBounded(t *testing.T) {
	sc := scene.New()
	obj := rigObject(sc)

	const count = 8
	step := 360.0 / count
	lights := BuildLightRig(sc, obj, RigOptions{
		Count: count, AngleDeg: 13.3, Strength: 5, Symmetric: false, RingDistance: 1,
	}, rand.New(rand.NewSource(42)))

	for i, l := range lights {
		got := azimuth(obj, l)
		want := float64(i) * step
		diff := math.Abs(got - want)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > step/4+1e-9 {
			t.Errorf("light %d: azimuth %f deviates %f deg, max %f", i, got, diff, step/4)
		}
	}
}

func TestLightRigDeterministicWithSeed(t *testing.T) {
	sc1 := scene.New()
	sc2 := scene.New()
	opts := RigOptions{Count: 4, AngleDeg: 13.3, Strength: 5, RingDistance: 1}

	a := BuildLightRig(sc1, rigObject(sc1), opts, rand.New(rand.NewSource(7)))
	b := BuildLightRig(sc2, rigObject(sc2), opts, rand.New(rand.NewSource(7)))

	for i := range a {
		if a[i].Location != b[i].Location {
			t.Errorf("light %d: expected identical placement, got %v vs %v", i, a[i].Location, b[i].Location)
		}
	}
}

func TestLightRigPlacementAndAim(t *testing.T) {
	sc := scene.New()
	obj := rigObject(sc)
	obj.Location = vec3.T{1, 2, 0}

	lights := BuildLightRig(sc, obj, RigOptions{
		Count: 1, AngleDeg: 13.3, Strength: 5, Symmetric: true, RingDistance: 1,
	}, nil)

	l := lights[0]
	// footprint 1 + ring 1 = 2 along +X from the object, elevation maxZ+5
	if math.Abs(l.Location[0]-3) > 1e-9 || math.Abs(l.Location[1]-2) > 1e-9 {
		t.Errorf("expected light at (3,2,...), got %v", l.Location)
	}
	if math.Abs(l.Location[2]-5.5) > 1e-9 {
		t.Errorf("expected elevation 5.5, got %f", l.Location[2])
	}

	if l.Light.Energy != 5 {
		t.Errorf("expected energy 5, got %f", l.Light.Energy)
	}
	if math.Abs(l.Light.Angle-13.3*math.Pi/180) > 1e-12 {
		t.Errorf("expected angle 13.3 deg in radians, got %f", l.Light.Angle)
	}

	// The light's direction points from its position toward the object.
	want := vec3.Sub(&obj.Location, &l.Location)
	want.Normalize()
	got := l.Direction()
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("direction axis %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestLightRigClampsCount(t *testing.T) {
	sc := scene.New()
	obj := rigObject(sc)

	if got := len(BuildLightRig(sc, obj, RigOptions{Count: 0, RingDistance: 1}, nil)); got != 1 {
		t.Errorf("expected count clamped to 1, got %d", got)
	}
	sc2 := scene.New()
	if got := len(BuildLightRig(sc2, rigObject(sc2), RigOptions{Count: 99, RingDistance: 1, Symmetric: true}, nil)); got != 16 {
		t.Errorf("expected count clamped to 16, got %d", got)
	}
}

func TestLightRigReplacesPreviousRun(t *testing.T) {
	sc := scene.New()
	obj := rigObject(sc)
	opts := RigOptions{Count: 4, Symmetric: true, RingDistance: 1}

	BuildLightRig(sc, obj, opts, nil)
	BuildLightRig(sc, obj, opts, nil)

	count := 0
	for _, o := range sc.Objects() {
		if o.Kind == scene.KindLight {
			count++
		}
	}
	if count != 4 {
		t.Errorf("expected 4 lights after re-run, got %d", count)
	}
}
