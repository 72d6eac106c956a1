package scene

import (
	"github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
)

// Kind classifies scene objects.
type Kind int

const (
	KindMesh Kind = iota
	KindLight
	KindCamera
	KindEmpty
)

// Object is a scene entity: a transform plus kind-specific data.
type Object struct {
	Name string
	Kind Kind

	Location vec3.T
	Rotation quaternion.T
	Scale    vec3.T

	Mesh  *Mesh  // set when Kind == KindMesh
	Light *Light // set when Kind == KindLight

	HideRender bool // excluded from render/bake when true
	Selected   bool
}

// NewMeshObject returns a mesh object with an identity transform.
func NewMeshObject(name string, mesh *Mesh) *Object {
	return &Object{
		Name:     name,
		Kind:     KindMesh,
		Rotation: quaternion.Ident,
		Scale:    vec3.T{1, 1, 1},
		Mesh:     mesh,
	}
}

// NewLightObject returns a light object with an identity transform.
func NewLightObject(name string, light *Light) *Object {
	return &Object{
		Name:     name,
		Kind:     KindLight,
		Rotation: quaternion.Ident,
		Scale:    vec3.T{1, 1, 1},
		Light:    light,
	}
}

// WorldMatrix composes the object's translation, rotation and scale into a
// column-major world transform.
func (o *Object) WorldMatrix() mat4.T {
	m := mat4.Ident
	m.AssignQuaternion(&o.Rotation)
	for row := 0; row < 3; row++ {
		m[0][row] *= o.Scale[0]
		m[1][row] *= o.Scale[1]
		m[2][row] *= o.Scale[2]
	}
	m[3][0] = o.Location[0]
	m[3][1] = o.Location[1]
	m[3][2] = o.Location[2]
	return m
}

// BoundBox returns the 8 corners of the object's local bounding box.
// Non-mesh objects have a degenerate box at the local origin.
func (o *Object) BoundBox() [8]vec3.T {
	if o.Mesh == nil {
		return [8]vec3.T{}
	}
	min, max := o.Mesh.Bounds()
	return [8]vec3.T{
		{min[0], min[1], min[2]},
		{min[0], min[1], max[2]},
		{min[0], max[1], max[2]},
		{min[0], max[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{max[0], max[1], min[2]},
	}
}

// Dimensions returns the object's extents: local bounding-box size scaled by
// the object scale, rotation ignored.
func (o *Object) Dimensions() vec3.T {
	if o.Mesh == nil {
		return vec3.T{}
	}
	min, max := o.Mesh.Bounds()
	return vec3.T{
		(max[0] - min[0]) * o.Scale[0],
		(max[1] - min[1]) * o.Scale[1],
		(max[2] - min[2]) * o.Scale[2],
	}
}

// ApplyScale bakes the object's scale into the mesh vertices and resets the
// scale to one. UVs and topology are untouched.
func (o *Object) ApplyScale() {
	if o.Mesh == nil {
		return
	}
	for i := range o.Mesh.Vertices {
		o.Mesh.Vertices[i][0] *= o.Scale[0]
		o.Mesh.Vertices[i][1] *= o.Scale[1]
		o.Mesh.Vertices[i][2] *= o.Scale[2]
	}
	o.Scale = vec3.T{1, 1, 1}
}
