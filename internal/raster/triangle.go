package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/mathutil"
	"avatar-engine/internal/scene"
)

// Surface is the resolved appearance of one material slot.
type Surface struct {
	Tex  *image.NRGBA // nil draws the tint alone
	Tint scene.Color  // linear base color factor
}

// RasterizeTriangle rasterizes one triangle with a z-buffer, optional texture,
// flat shading and ACES tone mapping. normal is the unit face normal in camera
// space.
//
// Hot path: no allocations inside the pixel loop.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float64,
	idx [3]int,
	normal mgl64.Vec3,
	surf *Surface,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range idx {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[idx[0]], py[idx[0]], pz[idx[0]]
	x1, y1, z1 := px[idx[1]], py[idx[1]], pz[idx[1]]
	x2, y2, z2 := px[idx[2]], py[idx[2]], pz[idx[2]]

	hasUV := surf.Tex != nil
	for _, i := range idx {
		if i >= len(uvs) {
			hasUV = false
			break
		}
	}
	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = uvs[idx[0]][0], uvs[idx[0]][1]
		u1, v1 = uvs[idx[1]][0], uvs[idx[1]][1]
		u2, v2 = uvs[idx[2]][0], uvs[idx[2]][1]
	}

	shade := lc.Shade(normal)
	tr := surf.Tint.R * shade
	tg := surf.Tint.G * shade
	tb := surf.Tint.B * shade
	ta := mathutil.Clamp01(surf.Tint.A)

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			lr, lg, lb, alpha := 1.0, 1.0, 1.0, ta
			if hasUV {
				cr, cg, cb, ca := SampleTexture(surf.Tex, w0*u0+w1*u1+w2*u2, w0*v0+w1*v1+w2*v2)
				lr, lg, lb = srgbToLinear[cr], srgbToLinear[cg], srgbToLinear[cb]
				alpha *= float64(ca) / 255
			}
			// Skip transparent texels
			if alpha < 0.03 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.Tonemap(lr * tr)
			fb.Color[pxIdx+1] = lc.Tonemap(lg * tg)
			fb.Color[pxIdx+2] = lc.Tonemap(lb * tb)
			fb.Color[pxIdx+3] = clamp255(alpha * 255)
		}
	}
}
