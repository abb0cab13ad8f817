// Package viewmatrix frames a normalized avatar for the preview renderer and
// projects posed vertices to screen space.
package viewmatrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"avatar-engine/internal/mathutil"
)

// DefaultFOV is the default vertical field of view in degrees.
const DefaultFOV = 35.0

// DefaultFillRatio is the default canvas fill fraction.
const DefaultFillRatio = 0.85

// Camera describes where the preview looks from.
type Camera struct {
	Yaw         float64 // degrees around +Y; 0 looks at the avatar's front (+Z)
	Pitch       float64 // degrees; positive looks down
	Perspective bool
	FOV         float64 // degrees, perspective only
	FillRatio   float64 // fraction of the canvas the avatar spans
}

// View is a fixed camera framing reused for every frame of one avatar.
type View struct {
	R           mgl64.Mat3
	Center      mgl64.Vec3 // camera space
	Scale       float64    // pixels per scene unit
	RenderSize  int
	perspective bool
	camDist     float64
	zCenter     float64
}

// Rotation builds the world→camera rotation for yaw and pitch in degrees.
func Rotation(yaw, pitch float64) mgl64.Mat3 {
	ry := mgl64.Rotate3DY(mathutil.Deg2Rad(-yaw))
	rx := mgl64.Rotate3DX(mathutil.Deg2Rad(pitch))
	return rx.Mul3(ry)
}

// Frame fits bounds (typically the normalized bounding box) into a square
// canvas of renderSize pixels.
func Frame(bounds r3.Box, cam Camera, renderSize int) View {
	fill := cam.FillRatio
	if fill <= 0 || fill > 1 {
		fill = DefaultFillRatio
	}
	v := View{R: Rotation(cam.Yaw, cam.Pitch), RenderSize: renderSize, Scale: 1}
	if mathutil.IsEmpty(bounds) || renderSize <= 0 {
		return v
	}

	lo, hi := bounds.Min, bounds.Max
	lo3 := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi3 := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		p := mgl64.Vec3{lo.X, lo.Y, lo.Z}
		if i&1 != 0 {
			p[0] = hi.X
		}
		if i&2 != 0 {
			p[1] = hi.Y
		}
		if i&4 != 0 {
			p[2] = hi.Z
		}
		t := v.R.Mul3x1(p)
		for k := 0; k < 3; k++ {
			lo3[k] = math.Min(lo3[k], t[k])
			hi3[k] = math.Max(hi3[k], t[k])
		}
	}
	v.Center = lo3.Add(hi3).Mul(0.5)
	extent := math.Max(hi3[0]-lo3[0], hi3[1]-lo3[1])
	if extent < 1e-9 {
		extent = 1e-9
	}
	v.Scale = fill * float64(renderSize) / extent

	if cam.Perspective {
		fov := cam.FOV
		if fov <= 0 {
			fov = DefaultFOV
		}
		v.perspective = true
		v.zCenter = v.Center[2]
		v.camDist = (extent / 2) / math.Tan(mathutil.Deg2Rad(fov/2))
	}
	return v
}

// Project transforms vertices to screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth; larger is nearer).
func (v View) Project(verts []mgl64.Vec3) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	half := float64(v.RenderSize) / 2

	for i, p := range verts {
		t := v.R.Mul3x1(p)
		x, y := t[0]-v.Center[0], t[1]-v.Center[1]
		if v.perspective {
			zOff := t[2] - v.zCenter
			depth := math.Max(v.camDist-zOff, 0.1)
			factor := v.camDist / depth
			x *= factor
			y *= factor
		}
		px[i] = x*v.Scale + half
		py[i] = -y*v.Scale + half
		pz[i] = t[2]
	}
	return px, py, pz
}
