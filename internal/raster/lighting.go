package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig holds precomputed lighting parameters in camera space.
type LightConfig struct {
	KeyDir   mgl64.Vec3
	RimDir   mgl64.Vec3
	HalfKey  mgl64.Vec3 // Blinn-Phong half-vector against a +Z viewer
	Ambient  float64
	Hemi     float64
	Key      float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a soft three-point studio setup.
func DefaultLightConfig() LightConfig {
	key := mgl64.Vec3{0.45, 0.65, 0.6}.Normalize()
	return LightConfig{
		KeyDir:   key,
		RimDir:   mgl64.Vec3{-0.5, 0.4, -0.75}.Normalize(),
		HalfKey:  key.Add(mgl64.Vec3{0, 0, 1}).Normalize(),
		Ambient:  0.45,
		Hemi:     0.35,
		Key:      1.1,
		Rim:      0.35,
		SpecInt:  0.15,
		SpecPow:  16,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) Shade(n mgl64.Vec3) float64 {
	// abs: meshes are drawn double-sided
	key := math.Abs(n.Dot(lc.KeyDir))
	rim := math.Abs(n.Dot(lc.RimDir))
	hemi := (n[1]*0.5 + 0.5) * lc.Hemi

	spec := 0.0
	if ndh := n.Dot(lc.HalfKey); ndh > 0 {
		spec = math.Pow(ndh, lc.SpecPow) * lc.SpecInt
	}
	return lc.Ambient + hemi + key*lc.Key + rim*lc.Rim + spec
}

// Tonemap maps a linear channel value through ACES and back to sRGB bytes.
func (lc *LightConfig) Tonemap(linear float64) uint8 {
	x := linear * lc.Exposure
	x = (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return clamp255(math.Pow(math.Max(x, 0), lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
