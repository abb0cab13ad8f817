// Package normalize scales, centers and grounds a freshly loaded asset so
// every avatar presents at a comparable size on the origin.
package normalize

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/scene"
	"avatar-engine/internal/skeleton"
)

const (
	// DefaultTargetHeight is the presentation height in scene units.
	DefaultTargetHeight = 1.6
	// HeightTolerance is how far the measured height may drift before rescaling.
	HeightTolerance = 0.1
	// CenterEpsilon bounds the accepted X/Z center offset and ground offset.
	CenterEpsilon = 0.01
)

// Result reports the outcome for camera framing.
type Result struct {
	Scale  float64 // factor applied during this call; 1 when untouched
	Height float64
	Center r3.Vec
	Bounds r3.Box
}

// Bounds returns the axis-aligned bounding box of all mesh vertices in the
// space the root node lives in (the root's own transform included). Meshes
// are measured in bind pose. An asset without geometry is measured by its
// node origins.
func Bounds(a *scene.Asset) r3.Box {
	b := mathutil.EmptyBox()
	if a == nil || a.Root == nil {
		return b
	}
	worlds := skeleton.BuildWorldMatrices(a.Root)

	for _, m := range a.Meshes {
		if m == nil || m.Node == nil {
			continue
		}
		w, ok := worlds[m.Node]
		if !ok {
			continue // not part of this hierarchy
		}
		for _, p := range m.Positions {
			b = mathutil.Extend(b, mathutil.ToR3(mgl64.TransformCoordinate(p, w)))
		}
	}
	if !mathutil.IsEmpty(b) {
		return b
	}

	for _, w := range worlds {
		b = mathutil.Extend(b, mathutil.ToR3(mgl64.TransformCoordinate(mgl64.Vec3{}, w)))
	}
	return b
}

// Normalize rescales the root so the asset is targetHeight tall, then moves it
// so its X/Z center sits on the origin and its lowest point rests on Y=0.
// Running it again on a normalized asset is a no-op reporting Scale 1.
func Normalize(a *scene.Asset, targetHeight float64) Result {
	if targetHeight <= 0 {
		targetHeight = DefaultTargetHeight
	}
	res := Result{Scale: 1}
	b := Bounds(a)
	if mathutil.IsEmpty(b) {
		res.Bounds = b
		return res
	}
	root := a.Root

	height := mathutil.Size(b).Y
	if height > 1e-9 && math.Abs(height-targetHeight) > HeightTolerance {
		res.Scale = targetHeight / height
		root.Scale = root.Scale.Mul(res.Scale)
		b = Bounds(a)
	}

	center := mathutil.Center(b)
	if math.Abs(center.X) > CenterEpsilon || math.Abs(center.Z) > CenterEpsilon {
		root.Position[0] -= center.X
		root.Position[2] -= center.Z
	}
	if math.Abs(b.Min.Y) > CenterEpsilon {
		root.Position[1] -= b.Min.Y
	}

	b = Bounds(a)
	res.Bounds = b
	res.Height = mathutil.Size(b).Y
	res.Center = mathutil.Center(b)
	return res
}
