package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
// Intrinsic XYZ order: the result equals qx·qy·qz.
func EulerToQuat(rx, ry, rz float64) mgl64.Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return mgl64.Quat{
		W: cx*cy*cz - sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz + cx*sy*sz, // x
			cx*sy*cz - sx*cy*sz, // y
			cx*cy*sz + sx*sy*cz, // z
		},
	}
}

// ComposeTRS builds a local 4×4 affine matrix from translation, rotation and scale.
func ComposeTRS(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsFinite reports whether every component of v is neither NaN nor ±Inf.
func IsFinite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// QuatIsFinite reports whether all four quaternion components are finite.
func QuatIsFinite(q mgl64.Quat) bool {
	return IsFinite(q.W, q.V[0], q.V[1], q.V[2])
}
