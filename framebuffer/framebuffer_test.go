package framebuffer

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/BeatGlow/sh1106/draw"
	"github.com/BeatGlow/sh1106/pixel"
)

func TestNew(t *testing.T) {
	fb := New()
	if len(fb.Pix) != Size {
		t.Fatalf("expected %d bytes of storage, got %d", Size, len(fb.Pix))
	}
	if Size != 1024 {
		t.Errorf("expected 1024 bytes for a 128x64 canvas, got %d", Size)
	}
	for i, v := range fb.Pix {
		if v != 0 {
			t.Fatalf("expected byte %d to be zero, got %#02x", i, v)
		}
	}
}

func TestSetPixel(t *testing.T) {
	fb := New()
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			fb.SetPixel(x, y, true)
			if !fb.Pixel(x, y) {
				t.Fatalf("pixel (%d,%d) is off after turning it on", x, y)
			}
			fb.SetPixel(x, y, false)
			if fb.Pixel(x, y) {
				t.Fatalf("pixel (%d,%d) is on after turning it off", x, y)
			}
		}
	}
}

func TestSetPixelAddressing(t *testing.T) {
	tests := []struct {
		x, y  int
		index int
		bit   byte
	}{
		{0, 0, 0, 0x01},
		{0, 7, 0, 0x80},
		{0, 8, 128, 0x01},
		{5, 13, 5 + 128, 0x20},
		{127, 63, 1023, 0x80},
	}
	for _, test := range tests {
		fb := New()
		fb.SetPixel(test.x, test.y, true)
		for i, v := range fb.Pix {
			want := byte(0)
			if i == test.index {
				want = test.bit
			}
			if v != want {
				t.Errorf("(%d,%d): expected byte %d to be %#02x, got %#02x", test.x, test.y, i, want, v)
			}
		}
	}
}

func TestSetPixelCommutes(t *testing.T) {
	// Rows 0 and 5 of column 3 share one byte.
	a, b := New(), New()
	a.SetPixel(3, 0, true)
	a.SetPixel(3, 5, true)
	a.SetPixel(3, 0, false)
	b.SetPixel(3, 5, true)
	b.SetPixel(3, 0, true)
	b.SetPixel(3, 0, false)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("expected independent pixel writes to commute")
	}
	if !a.Pixel(3, 5) || a.Pixel(3, 0) {
		t.Error("expected only (3,5) to be on")
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	fb := New()
	for _, p := range []image.Point{
		image.Pt(-1, 0),
		image.Pt(0, -1),
		image.Pt(Width, 0),
		image.Pt(0, Height),
		image.Pt(Width, Height-1),
		image.Pt(-1, -1),
	} {
		fb.SetPixel(p.X, p.Y, true)
		if fb.Pixel(p.X, p.Y) {
			t.Errorf("expected %s to read back as off", p)
		}
	}
	if !bytes.Equal(fb.Pix, make([]byte, Size)) {
		t.Error("expected out of bounds writes to leave the framebuffer untouched")
	}
}

func TestClear(t *testing.T) {
	fb := New()
	for i := range fb.Pix {
		fb.Pix[i] = 0xff
	}
	fb.Clear()
	for _, p := range []image.Point{
		image.Pt(0, 0),
		image.Pt(Width-1, 0),
		image.Pt(0, Height-1),
		image.Pt(Width-1, Height-1),
		image.Pt(Width/2, Height/2),
	} {
		if fb.Pixel(p.X, p.Y) {
			t.Errorf("expected %s to be off after clear", p)
		}
	}
	if !bytes.Equal(fb.Pix, make([]byte, Size)) {
		t.Error("expected all bytes to be zero after clear")
	}
}

func TestClearRect(t *testing.T) {
	fb := New()
	fb.ClearRect(10, 6, 4, 5, true)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			want := x >= 10 && x < 14 && y >= 6 && y < 11
			if v := fb.Pixel(x, y); v != want {
				t.Fatalf("pixel (%d,%d) is %t, expected %t", x, y, v, want)
			}
		}
	}

	fb.ClearRect(11, 7, 2, 2, false)
	if fb.Pixel(11, 7) || fb.Pixel(12, 8) {
		t.Error("expected inner rectangle to be turned off")
	}
	if !fb.Pixel(10, 6) || !fb.Pixel(13, 10) {
		t.Error("expected outer pixels to stay on")
	}

	// Clipped at the canvas edge.
	fb = New()
	fb.ClearRect(Width-2, Height-2, 10, 10, true)
	if !fb.Pixel(Width-1, Height-1) {
		t.Error("expected bottom right pixel to be on")
	}
}

func testSquare(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestDrawImage(t *testing.T) {
	tests := []struct {
		name   string
		src    image.Image
		x, y   int
		inside func(x, y int) bool
	}{
		{
			name:   "white square",
			src:    testSquare(8, color.White),
			x:      4,
			y:      2,
			inside: func(x, y int) bool { return x >= 4 && x < 12 && y >= 2 && y < 10 },
		},
		{
			name:   "negative offset",
			src:    testSquare(8, color.White),
			x:      -4,
			y:      -6,
			inside: func(x, y int) bool { return x < 4 && y < 2 },
		},
		{
			name:   "overflowing",
			src:    testSquare(16, color.White),
			x:      Width - 4,
			y:      Height - 8,
			inside: func(x, y int) bool { return x >= Width-4 && y >= Height-8 },
		},
		{
			name:   "dark gray",
			src:    testSquare(8, color.Gray{Y: 0x40}),
			inside: func(x, y int) bool { return false },
		},
		{
			name:   "transparent",
			src:    testSquare(8, color.Transparent),
			inside: func(x, y int) bool { return false },
		},
		{
			name:   "offset bounds",
			src:    testSquare(8, color.White).SubImage(image.Rect(2, 2, 6, 6)),
			x:      1,
			y:      1,
			inside: func(x, y int) bool { return x >= 1 && x < 5 && y >= 1 && y < 5 },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			fb := New()
			// Everything outside the image is turned off.
			for i := range fb.Pix {
				fb.Pix[i] = 0xff
			}
			fb.DrawImage(test.src, test.x, test.y)
			for y := 0; y < Height; y++ {
				for x := 0; x < Width; x++ {
					if v, want := fb.Pixel(x, y), test.inside(x, y); v != want {
						it.Fatalf("pixel (%d,%d) is %t, expected %t", x, y, v, want)
					}
				}
			}
		})
	}
}

func TestDrawImageReuse(t *testing.T) {
	fb := New()
	fb.DrawImage(testSquare(32, color.White), 0, 0)
	fb.DrawImage(testSquare(4, color.White), 60, 30)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			want := x >= 60 && x < 64 && y >= 30 && y < 34
			if v := fb.Pixel(x, y); v != want {
				t.Fatalf("pixel (%d,%d) is %t, expected %t", x, y, v, want)
			}
		}
	}
}

func TestDrawImageBMP(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 16, 8), color.Palette{color.Black, color.White})
	for x := 0; x < 16; x += 2 {
		src.SetColorIndex(x, 3, 1)
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	fb := New()
	fb.DrawImage(img, 100, 40)
	for x := 0; x < 16; x++ {
		if v, want := fb.Pixel(100+x, 43), x%2 == 0; v != want {
			t.Errorf("pixel (%d,43) is %t, expected %t", 100+x, v, want)
		}
	}
}

func TestPage(t *testing.T) {
	fb := New()
	fb.SetPixel(3, 17, true)
	page := fb.Page(2)
	if len(page) != Width {
		t.Fatalf("expected page of %d bytes, got %d", Width, len(page))
	}
	if page[3] != 0x02 {
		t.Errorf("expected page byte 3 to be 0x02, got %#02x", page[3])
	}
	page[4] = 0x01
	if !fb.Pixel(4, 16) {
		t.Error("expected page to share storage with the framebuffer")
	}

	last := fb.Page(Pages - 1)
	last[Width-1] = 0x80
	if len(last) != Width || !fb.Pixel(Width-1, Height-1) {
		t.Error("expected the last page to end at the last pixel")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a page beyond Pages to panic")
		}
	}()
	fb.Page(Pages)
}

func TestImage(t *testing.T) {
	fb := New()
	if b := fb.Bounds(); b != image.Rect(0, 0, Width, Height) {
		t.Errorf("expected bounds %s, got %s", image.Rect(0, 0, Width, Height), b)
	}
	if fb.ColorModel() != pixel.MonoModel {
		t.Error("expected mono color model")
	}

	draw.Rectangle(fb, fb.Bounds(), color.White)
	if fb.At(0, 0) != pixel.On || fb.At(Width-1, Height-1) != pixel.On {
		t.Error("expected corners to be on")
	}
	if fb.At(1, 1) != pixel.Off {
		t.Error("expected inside to be off")
	}
	if fb.At(-1, 0) != color.Transparent {
		t.Error("expected out of bounds pixels to be transparent")
	}
}
