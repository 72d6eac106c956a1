package geometry

import (
	"math"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
)

// TrackQuaternion returns the rotation that aims the local -Z axis along dir
// with the local Y axis rolled toward up. Degenerate inputs (zero dir, dir
// parallel to up) fall back to safe axes.
func TrackQuaternion(dir, up vec3.T) quaternion.T {
	d := dir
	if d.Length() == 0 {
		d = vec3.T{0, 0, -1}
	}
	d.Normalize()

	z := d.Scaled(-1)
	x := vec3.Cross(&up, &z)
	if x.Length() < 1e-9 {
		// dir is parallel to up; any perpendicular axis works.
		alt := vec3.T{1, 0, 0}
		x = vec3.Cross(&alt, &z)
	}
	x.Normalize()
	y := vec3.Cross(&z, &x)

	return quatFromBasis(x, y, z)
}

// quatFromBasis converts an orthonormal basis (matrix columns x, y, z) to a
// quaternion using Shepperd's method.
func quatFromBasis(x, y, z vec3.T) quaternion.T {
	m00, m01, m02 := x[0], y[0], z[0]
	m10, m11, m12 := x[1], y[1], z[1]
	m20, m21, m22 := x[2], y[2], z[2]

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		return quaternion.T{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s, s / 4}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		return quaternion.T{s / 4, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		return quaternion.T{(m01 + m10) / s, s / 4, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		return quaternion.T{(m02 + m20) / s, (m12 + m21) / s, s / 4, (m10 - m01) / s}
	}
}
