package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Sheet lays frames out left to right, top to bottom in a grid of cols
// columns. Every cell takes the size of the first frame; frames of another
// size are scaled to fit.
func Sheet(frames []*image.NRGBA, cols int) *image.NRGBA {
	if len(frames) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if cols <= 0 || cols > len(frames) {
		cols = len(frames)
	}
	rows := (len(frames) + cols - 1) / cols
	cw, ch := frames[0].Bounds().Dx(), frames[0].Bounds().Dy()

	out := image.NewNRGBA(image.Rect(0, 0, cw*cols, ch*rows))
	for i, f := range frames {
		cell := image.Rect(0, 0, cw, ch).Add(image.Pt(i%cols*cw, i/cols*ch))
		if f.Bounds().Dx() == cw && f.Bounds().Dy() == ch {
			draw.Draw(out, cell, f, f.Bounds().Min, draw.Src)
			continue
		}
		draw.ApproxBiLinear.Scale(out, cell, f, f.Bounds(), draw.Src, nil)
	}
	return out
}

// Flatten composites img over an opaque background color.
func Flatten(img *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	bg.A = 255
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
