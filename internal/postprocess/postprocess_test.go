package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleKeepsEdgeColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	out := Downsample(img, 4)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())

	// partially covered edge pixel keeps its hue instead of darkening
	edge := out.NRGBAAt(2, 2)
	if edge.A > 0 {
		assert.Greater(t, edge.R, uint8(150))
	}
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), out.NRGBAAt(3, 3).A)
}

func TestDownsampleNoop(t *testing.T) {
	img := filled(4, 4, color.NRGBA{A: 255})
	assert.Same(t, img, Downsample(img, 4))
	assert.Same(t, img, Downsample(img, 0))
}

func TestSheetGrid(t *testing.T) {
	red := filled(4, 4, color.NRGBA{R: 255, A: 255})
	blue := filled(4, 4, color.NRGBA{B: 255, A: 255})
	big := filled(8, 8, color.NRGBA{G: 255, A: 255})

	out := Sheet([]*image.NRGBA{red, blue, big}, 2)
	require.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
	assert.Equal(t, uint8(255), out.NRGBAAt(1, 1).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(5, 1).B)
	assert.Greater(t, out.NRGBAAt(1, 5).G, uint8(250))
	assert.Equal(t, uint8(0), out.NRGBAAt(5, 5).A, "empty cell")
}

func TestSheetEmpty(t *testing.T) {
	assert.True(t, Sheet(nil, 3).Bounds().Empty())
}

func TestFlatten(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	out := Flatten(img, color.NRGBA{G: 255})
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(1, 0))
}
