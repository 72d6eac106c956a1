package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec2"
	"github.com/flywave/go3d/float64/vec3"
	"github.com/qmuntal/gltf"
)

// LoadGLB reads a glTF/GLB file into a new scene. The node hierarchy is
// flattened: every mesh node becomes one object whose transform is the
// composed world matrix of its glTF ancestry. All loaded mesh objects are
// linked into a collection named after the glTF scene ("Scene" if unnamed).
func LoadGLB(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	sc := New()

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx >= len(doc.Scenes) {
		return sc, nil
	}
	gs := doc.Scenes[sceneIdx]

	colName := gs.Name
	if colName == "" {
		colName = "Scene"
	}
	col := sc.EnsureCollection(colName)

	for _, ni := range gs.Nodes {
		if err := loadNode(sc, col, doc, int(ni), mat4.Ident); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func loadNode(sc *Scene, col *Collection, doc *gltf.Document, idx int, parent mat4.T) error {
	if idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	nd := doc.Nodes[idx]

	local := nodeMatrix(nd)
	var world mat4.T
	world.AssignMul(&parent, &local)

	if nd.Mesh != nil {
		if int(*nd.Mesh) >= len(doc.Meshes) {
			return fmt.Errorf("mesh index %d out of range", *nd.Mesh)
		}
		mesh, err := loadMesh(doc, doc.Meshes[int(*nd.Mesh)])
		if err != nil {
			return err
		}

		name := nd.Name
		if name == "" {
			name = doc.Meshes[int(*nd.Mesh)].Name
		}
		if name == "" {
			name = fmt.Sprintf("Object_%d", idx)
		}

		obj := NewMeshObject(name, mesh)
		pos, rot, scale := mat4.Decompose(&world)
		obj.Location = *pos
		obj.Rotation = *rot
		obj.Scale = *scale
		sc.Add(obj)
		col.Link(obj)
	}

	for _, ci := range nd.Children {
		if err := loadNode(sc, col, doc, int(ci), world); err != nil {
			return err
		}
	}
	return nil
}

// nodeMatrix returns the node's local transform. The decoder fills Matrix
// with the identity for TRS nodes, so only a real non-identity matrix takes
// precedence over the TRS fields.
func nodeMatrix(nd *gltf.Node) mat4.T {
	zero := [16]float32{}
	if nd.Matrix != zero && nd.Matrix != gltf.DefaultMatrix {
		m := mat4.Ident
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[col][row] = float64(nd.Matrix[col*4+row])
			}
		}
		return m
	}

	m := mat4.Ident
	rot := nd.Rotation
	if rot != [4]float32{} {
		q := quaternion.T{float64(rot[0]), float64(rot[1]), float64(rot[2]), float64(rot[3])}
		m.AssignQuaternion(&q)
	}
	scale := nd.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}
	for row := 0; row < 3; row++ {
		m[0][row] *= float64(scale[0])
		m[1][row] *= float64(scale[1])
		m[2][row] *= float64(scale[2])
	}
	m[3][0] = float64(nd.Translation[0])
	m[3][1] = float64(nd.Translation[1])
	m[3][2] = float64(nd.Translation[2])
	return m
}

// loadMesh merges all primitives of a glTF mesh into one Mesh. The first
// primitive's material color is kept; per-primitive material splits are not
// preserved.
func loadMesh(doc *gltf.Document, gm *gltf.Mesh) (*Mesh, error) {
	mesh := &Mesh{}
	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		verts, err := readVec3(doc, int(posIdx))
		if err != nil {
			return nil, err
		}

		var uvs []vec2.T
		if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
			uvs, err = readVec2(doc, int(uvIdx))
			if err != nil {
				return nil, err
			}
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, verts...)
		if uvs != nil {
			mesh.TexCoords = append(mesh.TexCoords, uvs...)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, int(*prim.Indices))
			if err != nil {
				return nil, err
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{
					base + indices[i],
					base + indices[i+1],
					base + indices[i+2],
				})
			}
		} else {
			for i := 0; i+2 < len(verts); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}

		if len(mesh.Materials) == 0 && prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
			gmat := doc.Materials[int(*prim.Material)]
			mat := NewMaterial(gmat.Name)
			if gmat.PBRMetallicRoughness != nil && gmat.PBRMetallicRoughness.BaseColorFactor != nil {
				mat.BaseColor = *gmat.PBRMetallicRoughness.BaseColorFactor
			}
			mesh.Materials = append(mesh.Materials, mat)
		}
	}
	return mesh, nil
}

// accessorBytes resolves an accessor to its backing bytes and element stride.
func accessorBytes(doc *gltf.Document, accIdx int, elemSize int) ([]byte, int, uint32, error) {
	if accIdx >= len(doc.Accessors) {
		return nil, 0, 0, fmt.Errorf("accessor index %d out of range", accIdx)
	}
	acc := doc.Accessors[accIdx]
	if acc.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor %d has no buffer view", accIdx)
	}
	view := doc.BufferViews[int(*acc.BufferView)]
	buf := doc.Buffers[int(view.Buffer)]

	stride := int(view.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(view.ByteOffset + acc.ByteOffset)
	need := start + stride*(int(acc.Count)-1) + elemSize
	if need > len(buf.Data) {
		return nil, 0, 0, fmt.Errorf("accessor %d overruns buffer: need %d bytes, have %d", accIdx, need, len(buf.Data))
	}
	return buf.Data[start:], stride, acc.Count, nil
}

func readVec3(doc *gltf.Document, accIdx int) ([]vec3.T, error) {
	data, stride, count, err := accessorBytes(doc, accIdx, 12)
	if err != nil {
		return nil, err
	}
	out := make([]vec3.T, count)
	for i := 0; i < int(count); i++ {
		off := i * stride
		out[i] = vec3.T{
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))),
		}
	}
	return out, nil
}

func readVec2(doc *gltf.Document, accIdx int) ([]vec2.T, error) {
	data, stride, count, err := accessorBytes(doc, accIdx, 8)
	if err != nil {
		return nil, err
	}
	out := make([]vec2.T, count)
	for i := 0; i < int(count); i++ {
		off := i * stride
		out[i] = vec2.T{
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))),
		}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, accIdx int) ([]int, error) {
	if accIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accIdx)
	}
	acc := doc.Accessors[accIdx]

	var elemSize int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		elemSize = 1
	case gltf.ComponentUshort:
		elemSize = 2
	case gltf.ComponentUint:
		elemSize = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", acc.ComponentType)
	}

	data, stride, count, err := accessorBytes(doc, accIdx, elemSize)
	if err != nil {
		return nil, err
	}
	out := make([]int, count)
	for i := 0; i < int(count); i++ {
		off := i * stride
		switch elemSize {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}
