// Package geometry provides bounding-box, radius and pivot utilities for
// mesh objects. All results are computed fresh from the object's current
// mesh data and transform; nothing is cached.
package geometry

import (
	"github.com/flywave/go3d/float64/vec3"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// WorldBoundCorners returns the object's 8 local bounding-box corners
// transformed to world space.
func WorldBoundCorners(obj *scene.Object) [8]vec3.T {
	m := obj.WorldMatrix()
	corners := obj.BoundBox()
	var out [8]vec3.T
	for i := range corners {
		out[i] = m.MulVec3(&corners[i])
	}
	return out
}

// MinMaxZ reduces the world-space bounding-box corners over the Z axis.
func MinMaxZ(obj *scene.Object) (minZ, maxZ float64) {
	corners := WorldBoundCorners(obj)
	minZ = corners[0][2]
	maxZ = corners[0][2]
	for _, c := range corners[1:] {
		if c[2] < minZ {
			minZ = c[2]
		}
		if c[2] > maxZ {
			maxZ = c[2]
		}
	}
	return minZ, maxZ
}

// EstimateRadius returns a conservative bounding radius: 1.2 times the
// largest object dimension, so planes and light rings sized from it clear
// the object on every axis including height.
func EstimateRadius(obj *scene.Object) float64 {
	d := obj.Dimensions()
	r := d[0]
	if d[1] > r {
		r = d[1]
	}
	if d[2] > r {
		r = d[2]
	}
	return r * 1.2
}

// PlanarFootprint returns the larger of the object's X and Y extents.
func PlanarFootprint(obj *scene.Object) float64 {
	d := obj.Dimensions()
	if d[0] > d[1] {
		return d[0]
	}
	return d[1]
}
