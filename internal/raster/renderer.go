// Package raster is a small software rasterizer used to draw avatar previews.
package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"avatar-engine/internal/scene"
	"avatar-engine/internal/skeleton"
	"avatar-engine/internal/texture"
	"avatar-engine/internal/viewmatrix"
)

// fallbackTint is used for groups without a material.
var fallbackTint = scene.Color{R: 0.63, G: 0.63, B: 0.67, A: 1}

// Render draws every mesh of the asset in its current pose into a new
// view.RenderSize square image. textures may be nil.
func Render(a *scene.Asset, view viewmatrix.View, textures texture.Resolver) *image.NRGBA {
	fb := NewFrameBuffer(view.RenderSize, view.RenderSize)
	Draw(fb, a, view, textures)
	return fb.Image()
}

// Draw rasterizes the posed asset into fb without clearing it.
func Draw(fb *FrameBuffer, a *scene.Asset, view viewmatrix.View, textures texture.Resolver) {
	if a == nil || a.Root == nil {
		return
	}
	lc := DefaultLightConfig()
	worlds := skeleton.BuildWorldMatrices(a.Root)
	surfaces := make(map[*scene.Material]*Surface)

	for _, mesh := range a.Meshes {
		if len(mesh.Positions) == 0 || len(mesh.Indices) < 3 {
			continue
		}
		verts := skeleton.Deform(mesh, worlds)
		px, py, pz := view.Project(verts)

		for _, g := range mesh.MaterialGroups() {
			surf := surfaceFor(mesh, g.Material, textures, surfaces)
			end := min(g.Start+g.Count, len(mesh.Indices))
			for i := g.Start; i+2 < end; i += 3 {
				idx := [3]int{mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]}
				if !inRange(idx, len(verts)) {
					continue
				}
				n := faceNormal(verts[idx[0]], verts[idx[1]], verts[idx[2]])
				if n == (mgl64.Vec3{}) {
					continue
				}
				RasterizeTriangle(fb, px, py, pz, mesh.UVs, idx, view.R.Mul3x1(n), surf, &lc)
			}
		}
	}
}

func surfaceFor(mesh *scene.Mesh, slot int, textures texture.Resolver, memo map[*scene.Material]*Surface) *Surface {
	if slot < 0 || slot >= len(mesh.Materials) || mesh.Materials[slot] == nil {
		return &Surface{Tint: fallbackTint}
	}
	mat := mesh.Materials[slot]
	if s, ok := memo[mat]; ok {
		return s
	}
	s := &Surface{Tint: mat.BaseColor}
	if textures != nil && mat.BaseColorTexture != "" {
		s.Tex = textures.Resolve(mat.BaseColorTexture)
	}
	memo[mat] = s
	return s
}

func faceNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}

func inRange(idx [3]int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
