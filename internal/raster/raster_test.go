package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"avatar-engine/internal/scene"
	"avatar-engine/internal/scene/scenetest"
	"avatar-engine/internal/viewmatrix"
)

type stubTextures map[string]*image.NRGBA

func (s stubTextures) Resolve(ref string) *image.NRGBA { return s[ref] }

func boxAsset(boxes ...*scene.Mesh) *scene.Asset {
	a := &scene.Asset{Root: scene.NewNode("root")}
	for _, m := range boxes {
		scenetest.Attach(a, a.Root.Add(scene.NewNode(m.Name)), m)
	}
	return a
}

func coloredBox(name string, lo, hi mgl64.Vec3, c scene.Color) *scene.Mesh {
	m := scenetest.Box(name, lo, hi)
	m.Materials = []*scene.Material{{Name: name, BaseColor: c}}
	return m
}

func unitView(size int) viewmatrix.View {
	box := r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	return viewmatrix.Frame(box, viewmatrix.Camera{FillRatio: 1}, size)
}

func TestRenderCoversCenterOnly(t *testing.T) {
	a := boxAsset(coloredBox("body", mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5}, scene.Color{R: 1, G: 0.1, B: 0.1, A: 1}))
	img := Render(a, unitView(64), nil)

	center := img.NRGBAAt(32, 32)
	assert.Equal(t, uint8(255), center.A)
	assert.Greater(t, center.R, center.G)
	assert.Greater(t, center.R, center.B)
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 1).A, "corner stays transparent")
}

func TestRenderDepthOrder(t *testing.T) {
	red := scene.Color{R: 1, A: 1}
	blue := scene.Color{B: 1, A: 1}
	a := boxAsset(
		coloredBox("front", mgl64.Vec3{-0.5, -0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.6}, blue),
		coloredBox("back", mgl64.Vec3{-0.5, -0.5, -0.6}, mgl64.Vec3{0.5, 0.5, -0.5}, red),
	)
	c := Render(a, unitView(64), nil).NRGBAAt(32, 32)
	assert.Greater(t, c.B, c.R, "nearer box wins the z-test")
}

func TestRenderSamplesTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tex.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	m := coloredBox("body", mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5}, scene.White)
	m.Materials[0].BaseColorTexture = "skin.png"

	c := Render(boxAsset(m), unitView(64), stubTextures{"skin.png": tex}).NRGBAAt(32, 32)
	assert.Greater(t, c.G, c.R)
	assert.Greater(t, c.G, c.B)
}

func TestRenderFollowsPose(t *testing.T) {
	m := coloredBox("body", mgl64.Vec3{-0.2, -0.2, -0.2}, mgl64.Vec3{0.2, 0.2, 0.2}, scene.White)
	a := boxAsset(m)
	view := unitView(64)

	before := Render(a, view, nil)
	require.Equal(t, uint8(255), before.NRGBAAt(32, 32).A)

	m.Node.Position = mgl64.Vec3{0.7, 0, 0}
	after := Render(a, view, nil)
	assert.Equal(t, uint8(0), after.NRGBAAt(32, 32).A)
	assert.Equal(t, uint8(255), after.NRGBAAt(54, 32).A)
}

func TestRenderNilAndEmpty(t *testing.T) {
	img := Render(nil, unitView(8), nil)
	fb := NewFrameBuffer(8, 8)
	copy(fb.Color, img.Pix)
	assert.Equal(t, 0, fb.Coverage())

	a := boxAsset(&scene.Mesh{Name: "empty"})
	assert.NotPanics(t, func() { Render(a, unitView(8), nil) })
}

func TestSampleTextureWraps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	r, g, b, a := SampleTexture(tex, -3.25, 7.5)
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, [4]uint8{r, g, b, a})
}
