package scene

import (
	"github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/float64/vec3"
)

// Mesh holds triangle geometry in local space plus its material slots.
type Mesh struct {
	Vertices  []vec3.T
	TexCoords []vec2.T // per-vertex, optional
	Faces     [][3]int

	Materials []*Material // slots; slot 0 is the render material
}

// Bounds returns the local axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max vec3.T) {
	if len(m.Vertices) == 0 {
		return vec3.T{}, vec3.T{}
	}
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// Translate shifts every vertex by offset.
func (m *Mesh) Translate(offset vec3.T) {
	for i := range m.Vertices {
		m.Vertices[i] = vec3.Add(&m.Vertices[i], &offset)
	}
}

// SetMaterial assigns mat to the first material slot, replacing any
// existing slot-0 material.
func (m *Mesh) SetMaterial(mat *Material) {
	if len(m.Materials) == 0 {
		m.Materials = append(m.Materials, mat)
		return
	}
	m.Materials[0] = mat
}

// RenderMaterial returns the slot-0 material, or nil.
func (m *Mesh) RenderMaterial() *Material {
	if len(m.Materials) == 0 {
		return nil
	}
	return m.Materials[0]
}

// NewPlaneMesh returns a unit-normal XY quad spanning ±side/2, with corner
// UVs covering [0,1]² and two triangles.
func NewPlaneMesh(side float64) *Mesh {
	h := side / 2
	return &Mesh{
		Vertices: []vec3.T{
			{-h, -h, 0},
			{h, -h, 0},
			{h, h, 0},
			{-h, h, 0},
		},
		TexCoords: []vec2.T{
			{0, 0},
			{1, 0},
			{1, 1},
			{0, 1},
		},
		Faces: [][3]int{
			{0, 1, 2},
			{0, 2, 3},
		},
	}
}

// NewCubeMesh returns an axis-aligned cube spanning ±side/2 on every axis.
func NewCubeMesh(side float64) *Mesh {
	h := side / 2
	verts := []vec3.T{
		{-h, -h, -h},
		{h, -h, -h},
		{h, h, -h},
		{-h, h, -h},
		{-h, -h, h},
		{h, -h, h},
		{h, h, h},
		{-h, h, h},
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{1, 2, 6}, {1, 6, 5}, // right
		{2, 3, 7}, {2, 7, 6}, // back
		{3, 0, 4}, {3, 4, 7}, // left
	}
	return &Mesh{Vertices: verts, Faces: faces}
}
