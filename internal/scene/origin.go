package scene

import (
	"github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
)

// SetOriginToCursor rebases the object's origin onto the scene's 3D cursor.
// The mesh data is shifted by the opposite local offset, so world-space
// geometry stays exactly where it was.
func (sc *Scene) SetOriginToCursor(obj *Object) {
	if obj == nil || obj.Mesh == nil {
		return
	}

	// Cursor position in the object's local (pre-scale) space.
	delta := vec3.Sub(&sc.Cursor, &obj.Location)
	conj := quaternion.T{-obj.Rotation[0], -obj.Rotation[1], -obj.Rotation[2], obj.Rotation[3]}
	m := mat4.Ident
	m.AssignQuaternion(&conj)
	local := m.MulVec3(&delta)
	for i := 0; i < 3; i++ {
		if obj.Scale[i] != 0 {
			local[i] /= obj.Scale[i]
		}
	}

	obj.Mesh.Translate(local.Scaled(-1))
	obj.Location = sc.Cursor
}
