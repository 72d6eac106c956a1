package shadow

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/geometry"
	"github.com/miraitools/shadowbaker/internal/scene"
)

// lightElevation is how far above the object's top the rig lights sit.
const lightElevation = 5.0

// RigOptions configures the radial light rig.
type RigOptions struct {
	Count        int     // number of lights, clamped to [1, 16]
	AngleDeg     float64 // angular diameter per light in degrees
	Strength     float64 // per-light power in watts
	Symmetric    bool    // exact even spacing, no jitter
	RingDistance float64 // extra horizontal clearance beyond the object footprint
}

// BuildLightRig creates Count sun lights spaced evenly around the object,
// each aimed at the object's origin. Unless Symmetric is set, every azimuth
// gets a uniform random offset of up to a quarter step in either direction,
// drawn from rng (time-seeded when rng is nil).
func BuildLightRig(sc *scene.Scene, obj *scene.Object, opts RigOptions, rng *rand.Rand) []*scene.Object {
	count := opts.Count
	if count < 1 {
		count = 1
	}
	if count > 16 {
		count = 16
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	footprint := geometry.PlanarFootprint(obj)
	_, maxZ := geometry.MinMaxZ(obj)
	ringRadius := footprint + opts.RingDistance
	step := 360.0 / float64(count)

	lights := make([]*scene.Object, 0, count)
	for i := 0; i < count; i++ {
		jitter := 0.0
		if !opts.Symmetric {
			jitter = (rng.Float64()*2 - 1) * step / 4
		}
		theta := (float64(i)*step + jitter) * math.Pi / 180

		light := scene.NewLightObject(fmt.Sprintf("Shadow_Sun_%d", i+1), &scene.Light{
			Energy: opts.Strength,
			Angle:  opts.AngleDeg * math.Pi / 180,
		})
		light.Location = vec3.T{
			obj.Location[0] + ringRadius*math.Cos(theta),
			obj.Location[1] + ringRadius*math.Sin(theta),
			maxZ + lightElevation,
		}

		dir := vec3.Sub(&obj.Location, &light.Location)
		dir.Normalize()
		light.Rotation = geometry.TrackQuaternion(dir, vec3.T{0, 1, 0})

		sc.Add(light)
		lights = append(lights, light)
	}
	return lights
}
