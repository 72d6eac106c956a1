package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/miraitools/shadowbaker/internal/scene"
	"github.com/miraitools/shadowbaker/internal/shadow"
)

const gltfVersion = "2.0"

func newDocument() *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   gltfVersion,
			Generator: "shadowbaker",
		},
		Scenes:  []*gltf.Scene{{}},
		Buffers: []*gltf.Buffer{{}},
	}
	sceneIndex := uint32(0)
	doc.Scene = &sceneIndex
	return doc
}

// WriteGLB serializes the given mesh objects into a binary glTF file.
// Materials with a bound raster image get it embedded as a PNG texture;
// plain materials carry their base color factor.
func WriteGLB(path string, objects []*scene.Object) error {
	doc := newDocument()

	for _, obj := range objects {
		if obj == nil || obj.Mesh == nil || len(obj.Mesh.Faces) == 0 {
			continue
		}
		if err := appendObject(doc, obj); err != nil {
			return fmt.Errorf("exporting %s: %w", obj.Name, err)
		}
	}
	if len(doc.Nodes) == 0 {
		return fmt.Errorf("nothing to export to %s", path)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := gltf.NewEncoder(f)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// appendObject adds one mesh object to the document as a node with its own
// mesh, accessors and material.
func appendObject(doc *gltf.Document, obj *scene.Object) error {
	mesh := obj.Mesh
	buffer := doc.Buffers[0]
	buf := new(bytes.Buffer)
	startLen := buffer.ByteLength

	indices := make([]uint32, 0, len(mesh.Faces)*3)
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	idxView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen}
	binary.Write(buf, binary.LittleEndian, indices)
	idxView.ByteLength = uint32(buf.Len())
	bvIdx := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, idxView)

	positions := make([]float32, 0, len(mesh.Vertices)*3)
	for _, v := range mesh.Vertices {
		positions = append(positions, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	posView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
	binary.Write(buf, binary.LittleEndian, positions)
	posView.ByteLength = startLen + uint32(buf.Len()) - posView.ByteOffset
	bvPos := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, posView)

	hasUV := len(mesh.TexCoords) == len(mesh.Vertices) && len(mesh.TexCoords) > 0
	var bvTex uint32
	if hasUV {
		uvs := make([]float32, 0, len(mesh.TexCoords)*2)
		for _, uv := range mesh.TexCoords {
			uvs = append(uvs, float32(uv[0]), float32(uv[1]))
		}
		texView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
		binary.Write(buf, binary.LittleEndian, uvs)
		texView.ByteLength = startLen + uint32(buf.Len()) - texView.ByteOffset
		bvTex = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, texView)
	}

	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	idxAcc := &gltf.Accessor{
		BufferView:    &bvIdx,
		ComponentType: gltf.ComponentUint,
		Count:         uint32(len(indices)),
	}
	accIdx := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, idxAcc)

	min, max := mesh.Bounds()
	posAcc := &gltf.Accessor{
		BufferView:    &bvPos,
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(mesh.Vertices)),
		Min:           []float32{float32(min[0]), float32(min[1]), float32(min[2])},
		Max:           []float32{float32(max[0]), float32(max[1]), float32(max[2])},
	}
	accPos := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, posAcc)

	prim := &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Indices:    &accIdx,
		Attributes: gltf.Attribute{"POSITION": accPos},
	}
	if hasUV {
		texAcc := &gltf.Accessor{
			BufferView:    &bvTex,
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec2,
			Count:         uint32(len(mesh.TexCoords)),
		}
		accTex := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, texAcc)
		prim.Attributes["TEXCOORD_0"] = accTex
	}

	mtlIdx, err := appendMaterial(doc, mesh.RenderMaterial())
	if err != nil {
		return err
	}
	prim.Material = &mtlIdx

	meshIdx := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       obj.Name,
		Primitives: []*gltf.Primitive{prim},
	})

	node := &gltf.Node{
		Name: obj.Name,
		Mesh: &meshIdx,
		Translation: [3]float32{
			float32(obj.Location[0]), float32(obj.Location[1]), float32(obj.Location[2]),
		},
		Rotation: [4]float32{
			float32(obj.Rotation[0]), float32(obj.Rotation[1]),
			float32(obj.Rotation[2]), float32(obj.Rotation[3]),
		},
		Scale: [3]float32{
			float32(obj.Scale[0]), float32(obj.Scale[1]), float32(obj.Scale[2]),
		},
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, node)
	return nil
}

// appendMaterial converts a scene material. A material with an image bound
// through its shading graph becomes an alpha-blended textured material with
// the PNG-encoded image embedded in the buffer; anything else becomes a
// plain colored one.
func appendMaterial(doc *gltf.Document, mat *scene.Material) (uint32, error) {
	gm := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
		},
	}
	if mat == nil {
		idx := uint32(len(doc.Materials))
		doc.Materials = append(doc.Materials, gm)
		return idx, nil
	}
	gm.Name = mat.Name

	if img := mat.BaseColorImage(); img != nil {
		texIdx, err := appendTexture(doc, img)
		if err != nil {
			return 0, err
		}
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texIdx}
		gm.AlphaMode = gltf.AlphaBlend
		gm.DoubleSided = true
	} else {
		gm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{
			mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2], mat.BaseColor[3],
		}
	}

	idx := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, gm)
	return idx, nil
}

// appendTexture PNG-encodes the image into the buffer and wires up the
// image, sampler and texture entries.
func appendTexture(doc *gltf.Document, img *scene.Image) (uint32, error) {
	var buf bytes.Buffer
	if err := shadow.EncodePNG(img, &buf); err != nil {
		return 0, fmt.Errorf("encoding texture %s: %w", img.Name, err)
	}

	buffer := doc.Buffers[0]
	imgView := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: buffer.ByteLength,
		ByteLength: uint32(buf.Len()),
	}
	bvImg := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, imgView)
	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	// Keep later accessor views 4-byte aligned.
	for buffer.ByteLength%4 != 0 {
		buffer.Data = append(buffer.Data, 0)
		buffer.ByteLength++
	}

	imgIdx := uint32(len(doc.Images))
	doc.Images = append(doc.Images, &gltf.Image{
		Name:       img.Name,
		MimeType:   "image/png",
		BufferView: &bvImg,
	})

	smpIdx := uint32(len(doc.Samplers))
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{
		WrapS: gltf.WrapRepeat,
		WrapT: gltf.WrapRepeat,
	})

	texIdx := uint32(len(doc.Textures))
	doc.Textures = append(doc.Textures, &gltf.Texture{
		Sampler: &smpIdx,
		Source:  &imgIdx,
	})
	return texIdx, nil
}
