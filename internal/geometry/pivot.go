package geometry

import (
	"math"

	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// bottomEpsilon tolerates floating-point noise when picking the bounding-box
// vertices that form the bottom face.
const bottomEpsilon = 1e-6

// RelocatePivotToBottomCenter moves the object's origin to the center of its
// bottom face and the object itself to the world origin, leaving the mesh
// geometry otherwise unchanged. A no-op for nil or non-mesh objects.
//
// The rebase goes through the scene's 3D cursor; the previous cursor position
// is restored on every exit path.
func RelocatePivotToBottomCenter(sc *scene.Scene, obj *scene.Object) {
	if obj == nil || obj.Kind != scene.KindMesh || obj.Mesh == nil {
		return
	}

	if sc.Mode != scene.ModeObject {
		sc.Mode = scene.ModeObject
	}

	// Center of the bottom face in local space.
	corners := obj.BoundBox()
	minZ := corners[0][2]
	for _, c := range corners[1:] {
		if c[2] < minZ {
			minZ = c[2]
		}
	}
	var sum vec3.T
	n := 0
	for _, c := range corners {
		if math.Abs(c[2]-minZ) <= bottomEpsilon {
			sum = vec3.Add(&sum, &c)
			n++
		}
	}
	center := sum.Scaled(1 / float64(n))

	m := obj.WorldMatrix()
	world := m.MulVec3(&center)

	prevCursor := sc.Cursor
	defer func() { sc.Cursor = prevCursor }()
	sc.Cursor = world

	sc.DeselectAll()
	obj.Selected = true
	sc.SetOriginToCursor(obj)

	obj.Location = vec3.T{}
	obj.ApplyScale()
}
