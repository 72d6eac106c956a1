package scene

import (
	"github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/vec3"
)

// Light is a directional (sun-style) light. Angle is the angular diameter in
// radians; larger values soften shadow edges. Energy is the power in watts.
type Light struct {
	Energy float64
	Angle  float64
}

// Direction returns the world-space direction the light shines along: the
// object's local -Z axis through its rotation.
func (o *Object) Direction() vec3.T {
	m := mat4.Ident
	m.AssignQuaternion(&o.Rotation)
	down := vec3.T{0, 0, -1}
	d := m.MulVec3(&down)
	d.Normalize()
	return d
}
