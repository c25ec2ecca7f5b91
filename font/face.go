package font

import (
	"image"
	"image/color"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/sh1106/pixel"
)

// Face returns f as a [golang.org/x/image/font.Face].
//
// The glyph box sits on the baseline, so drawing with the dot at (x, y+Height)
// matches DrawChar at (x, y).
func (f *Font) Face() xfont.Face {
	return bitmapFace{font: f}
}

type bitmapFace struct {
	font *Font
}

func (bitmapFace) Close() error { return nil }

func (b bitmapFace) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	var (
		m     = b.font.m
		x     = dot.X.Round()
		y     = dot.Y.Round() - m.Height
		glyph = image.NewAlpha(image.Rect(0, 0, m.Width, m.Height))
	)
	for i, line := range b.font.columns(r) {
		for j := 0; j < m.Height; j++ {
			if line&(1<<uint(j)) != 0 {
				glyph.SetAlpha(i, j, color.Alpha{A: 0xff})
			}
		}
	}
	return image.Rect(x, y, x+m.Width, y+m.Height), glyph, image.Point{}, fixed.I(m.OuterWidth), true
}

func (b bitmapFace) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	m := b.font.m
	return fixed.R(0, -m.Height, m.Width, 0), fixed.I(m.OuterWidth), true
}

func (b bitmapFace) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	return fixed.I(b.font.m.OuterWidth), true
}

func (bitmapFace) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (b bitmapFace) Metrics() xfont.Metrics {
	m := b.font.m
	return xfont.Metrics{
		Height:  fixed.I(m.OuterHeight),
		Ascent:  fixed.I(m.Height),
		Descent: fixed.I(m.OuterHeight - m.Height),
	}
}

// DrawFace draws s with any font face, the dot starting at baseline (x, y).
//
// The text is rasterized on a 1-bit scratch image first, only its lit pixels
// are copied to dst.
func DrawFace(dst Canvas, face xfont.Face, s string, x, y int, on bool) {
	var (
		b    = dst.Bounds()
		mask = pixel.NewMonoImage(b.Dx(), b.Dy())
	)
	d := xfont.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(pixel.On),
		Face: face,
		Dot:  fixed.P(x-b.Min.X, y-b.Min.Y),
	}
	d.DrawString(s)

	for my := 0; my < mask.Rect.Dy(); my++ {
		for mx := 0; mx < mask.Rect.Dx(); mx++ {
			if mask.IsOn(mx, my) {
				dst.SetPixel(mx+b.Min.X, my+b.Min.Y, on)
			}
		}
	}
}

// DrawFaceCentered draws s horizontally centered on dst, with its baseline at y.
func DrawFaceCentered(dst Canvas, face xfont.Face, s string, y int, on bool) {
	b := dst.Bounds()
	w := xfont.MeasureString(face, s).Ceil()
	DrawFace(dst, face, s, b.Min.X+(b.Dx()-w)/2, y, on)
}
