// Package shadow implements the contact-shadow bake pipeline: shadow-plane
// and light-rig synthesis, bake orchestration and mask post-processing.
package shadow

import (
	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/geometry"
	"github.com/miraitools/shadowbaker/internal/scene"
)

const (
	// TextureSize is the fixed side of the baked shadow texture.
	TextureSize = 128

	// planeRadiusFactor scales the estimated object radius into the plane
	// side length.
	planeRadiusFactor = 4.0

	// minPlaneSide is the floor applied when the object has a degenerate
	// bounding box.
	minPlaneSide = 1.0
)

// BuildShadowPlane creates the receiving plane for the shadow bake: a quad
// centered on the object's XY position, sitting at the object's lowest world
// Z, sized to clear the object on all sides. The size is baked directly into
// the vertices so no residual scale is left on the object.
func BuildShadowPlane(sc *scene.Scene, obj *scene.Object) *scene.Object {
	radius := geometry.EstimateRadius(obj)
	side := radius * planeRadiusFactor
	if side < minPlaneSide {
		side = minPlaneSide
	}

	minZ, _ := geometry.MinMaxZ(obj)

	plane := scene.NewMeshObject(obj.Name+"_shadow_plane", scene.NewPlaneMesh(side))
	plane.Location = vec3.T{obj.Location[0], obj.Location[1], minZ}
	sc.Add(plane)
	return plane
}

// BuildRasterImage allocates the bake target: an opaque white float RGBA
// raster named after the object.
func BuildRasterImage(namePrefix string, width, height int) *scene.Image {
	return scene.NewImage(namePrefix+"_shadow_tex", width, height)
}

// BindImageToPlane builds a minimal shading graph (image texture into a
// principled surface into the material output) and assigns it as the
// plane's render material, replacing any existing slot-0 material.
func BindImageToPlane(plane *scene.Object, img *scene.Image) *scene.Material {
	mat := scene.NewMaterial(img.Name + "_mat")

	tex := mat.AddNode(&scene.ShaderNode{Kind: scene.NodeTexImage, Image: img})
	principled := mat.AddNode(&scene.ShaderNode{Kind: scene.NodePrincipled})
	out := mat.AddNode(&scene.ShaderNode{Kind: scene.NodeOutput})
	mat.Link(tex, scene.SocketColor, principled, scene.SocketBaseColor)
	mat.Link(principled, scene.SocketBSDF, out, scene.SocketSurface)

	plane.Mesh.SetMaterial(mat)
	return mat
}
