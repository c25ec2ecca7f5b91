// Package framebuffer provides the in-memory pixel store of a 128x64 SH1106 panel.
//
// Pixels are packed the way the controller expects them: one byte per column of
// an 8-row page, the least significant bit being the top row of the page. The
// whole buffer is therefore 8 pages of 128 bytes.
//
// A Framebuffer is not safe for concurrent use, the display driver serializes
// access to it.
package framebuffer

import (
	"image"
	"image/color"

	"github.com/BeatGlow/sh1106/draw"
	"github.com/BeatGlow/sh1106/pixel"
)

// Canvas dimensions.
const (
	Width  = 128
	Height = 64
	Pages  = Height / 8
	Size   = Width * Height / 8
)

// Framebuffer is a bit-packed 128x64 monochrome image.
type Framebuffer struct {
	// Pix holds Size bytes, pixel (x, y) is bit y&7 of Pix[x+(y/8)*Width].
	Pix []byte

	// mask is the compositing scratch image of DrawImage.
	mask *pixel.MonoImage
}

// New allocates a dark framebuffer.
func New() *Framebuffer {
	return &Framebuffer{
		Pix: make([]byte, Size),
	}
}

// Clear turns every pixel off.
func (fb *Framebuffer) Clear() {
	for i := range fb.Pix {
		fb.Pix[i] = 0x00
	}
}

// In reports whether (x, y) is on the canvas.
func In(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// SetPixel turns the pixel at (x, y) on or off. Coordinates outside of the
// canvas are ignored.
func (fb *Framebuffer) SetPixel(x, y int, on bool) {
	if !In(x, y) {
		return
	}
	var (
		pos = x + (y/8)*Width
		bit = byte(1) << uint(y&7)
	)
	if on {
		fb.Pix[pos] |= bit
	} else {
		fb.Pix[pos] &^= bit
	}
}

// Pixel reports whether the pixel at (x, y) is on.
func (fb *Framebuffer) Pixel(x, y int) bool {
	if !In(x, y) {
		return false
	}
	return fb.Pix[x+(y/8)*Width]&(1<<uint(y&7)) != 0
}

// ClearRect sets all pixels in the w by h rectangle at (x, y) to on.
func (fb *Framebuffer) ClearRect(x, y, w, h int, on bool) {
	for posX := x; posX < x+w; posX++ {
		for posY := y; posY < y+h; posY++ {
			fb.SetPixel(posX, posY, on)
		}
	}
}

// DrawImage renders src with its top left corner at (x, y).
//
// The image is first composited on a dark canvas sized scratch image, then every
// pixel of the canvas is copied to the framebuffer. Pixels not covered by src
// are turned off, alpha is discarded. The scratch image is kept between calls.
func (fb *Framebuffer) DrawImage(src image.Image, x, y int) {
	if fb.mask == nil {
		fb.mask = pixel.NewMonoImage(Width, Height)
	} else {
		fb.mask.Clear()
	}
	var (
		sr = src.Bounds()
		dr = sr.Sub(sr.Min).Add(image.Pt(x, y))
	)
	draw.Draw(fb.mask, dr, src, sr.Min, draw.Over)

	for posY := 0; posY < Height; posY++ {
		for posX := 0; posX < Width; posX++ {
			fb.SetPixel(posX, posY, fb.mask.IsOn(posX, posY))
		}
	}
}

// Page returns the 128 bytes of page i, sharing storage with the framebuffer.
// i must be in [0, Pages).
func (fb *Framebuffer) Page(i int) []byte {
	return fb.Pix[i*Width : (i+1)*Width]
}

func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (fb *Framebuffer) ColorModel() color.Model {
	return pixel.MonoModel
}

func (fb *Framebuffer) At(x, y int) color.Color {
	if !In(x, y) {
		return color.Transparent
	}
	return pixel.Mono{On: fb.Pixel(x, y)}
}

func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, pixel.IsOn(c))
}

// Interface checks.
var (
	_ draw.Image = (*Framebuffer)(nil)
)
