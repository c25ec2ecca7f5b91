// Package font implements the bitmap fonts and text rasterization of the SH1106 driver.
//
// A [Font] stores one byte per glyph column, the least significant bit being the
// top row, which matches the page layout of the display memory. Two fonts are
// built in: [Font5x8] covering code points 0-255 and the compact [Font4x5]
// covering the printable ASCII range up to '_'.
//
// Runes not covered by a font are drawn as '?'.
package font

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"unicode/utf8"
)

// Fallback is drawn for runes that are not covered by a font.
const Fallback = '?'

// ErrFallback is returned when a font does not cover the [Fallback] glyph.
var ErrFallback = errors.New("font: fallback glyph '?' is not covered")

// Setter is a surface glyphs can be drawn on.
type Setter interface {
	SetPixel(x, y int, on bool)
}

// Canvas is a [Setter] with known bounds, strings are clipped against them.
type Canvas interface {
	Setter
	Bounds() image.Rectangle
}

// Metrics describe the glyph range and box of a font.
type Metrics struct {
	// MinChar and MaxChar are the (inclusive) covered code points.
	MinChar, MaxChar rune

	// Width and Height are the glyph box in pixels, Height is at most 8.
	Width, Height int

	// OuterWidth and OuterHeight are the cursor advance, including spacing.
	OuterWidth, OuterHeight int
}

// Glyphs is the number of glyphs covered.
func (m Metrics) Glyphs() int {
	return int(m.MaxChar-m.MinChar) + 1
}

// Font is an immutable bitmap font.
type Font struct {
	name string
	m    Metrics
	data []byte
}

// New creates a font from column-major glyph data. The data is copied.
func New(name string, m Metrics, data []byte) (*Font, error) {
	switch {
	case m.MinChar < 0 || m.MaxChar < m.MinChar:
		return nil, fmt.Errorf("font: %s: invalid glyph range %d-%d", name, m.MinChar, m.MaxChar)
	case m.Width <= 0 || m.Height <= 0 || m.Height > 8:
		return nil, fmt.Errorf("font: %s: invalid glyph size %dx%d", name, m.Width, m.Height)
	case m.OuterWidth <= 0 || m.OuterHeight <= 0:
		return nil, fmt.Errorf("font: %s: invalid advance %dx%d", name, m.OuterWidth, m.OuterHeight)
	case Fallback < m.MinChar || Fallback > m.MaxChar:
		return nil, fmt.Errorf("%w in %s", ErrFallback, name)
	}
	if want := m.Glyphs() * m.Width; len(data) != want {
		return nil, fmt.Errorf("font: %s: expected %d bytes for glyphs %d-%d, got %d", name, want, m.MinChar, m.MaxChar, len(data))
	}
	return &Font{
		name: name,
		m:    m,
		data: bytes.Clone(data),
	}, nil
}

func (f *Font) String() string {
	return fmt.Sprintf("%s (%dx%d)", f.name, f.m.Width, f.m.Height)
}

// Name of the font.
func (f *Font) Name() string {
	return f.name
}

// Metrics of the font.
func (f *Font) Metrics() Metrics {
	return f.m
}

// Covers reports whether r has a glyph of its own.
func (f *Font) Covers(r rune) bool {
	return r >= f.m.MinChar && r <= f.m.MaxChar
}

// columns returns the glyph columns of r, substituting the fallback glyph.
func (f *Font) columns(r rune) []byte {
	if !f.Covers(r) {
		r = Fallback
	}
	index := int(r-f.m.MinChar) * f.m.Width
	return f.data[index : index+f.m.Width]
}

// DrawChar draws the glyph of r with its top left corner at (x, y).
//
// Only the set bits of the glyph are drawn, the rest of the glyph box is left
// untouched.
func (f *Font) DrawChar(dst Setter, r rune, x, y int, on bool) {
	for i, line := range f.columns(r) {
		for j := 0; j < f.m.Height; j++ {
			if line&0x01 != 0 {
				dst.SetPixel(x+i, y+j, on)
			}
			line >>= 1
		}
	}
}

// DrawString draws s starting at (x, y).
//
// A newline moves the cursor back to x, one line down. Characters that do not
// fit entirely on the canvas are skipped, the cursor still advances.
func (f *Font) DrawString(dst Canvas, s string, x, y int, on bool) {
	var (
		b    = dst.Bounds()
		posX = x
		posY = y
	)
	for _, r := range s {
		if r == '\n' {
			posY += f.m.OuterHeight
			posX = x
			continue
		}
		if posX >= b.Min.X && posX+f.m.Width < b.Max.X && posY >= b.Min.Y && posY+f.m.Height < b.Max.Y {
			f.DrawChar(dst, r, posX, posY, on)
		}
		posX += f.m.OuterWidth
	}
}

// DrawStringCentered draws s horizontally centered on the canvas.
//
// Strings wider than the canvas start left of it and get clipped.
func (f *Font) DrawStringCentered(dst Canvas, s string, y int, on bool) {
	b := dst.Bounds()
	x := b.Min.X + (b.Dx()-f.StringWidth(s))/2
	f.DrawString(dst, s, x, y, on)
}

// StringWidth is the advance of s in pixels, ignoring newlines.
func (f *Font) StringWidth(s string) int {
	return utf8.RuneCountInString(s) * f.m.OuterWidth
}

// ID identifies a built-in font.
type ID uint8

// Built-in fonts.
const (
	ID5x8 ID = iota
	ID4x5
)

func (id ID) String() string {
	if f, ok := Lookup(id); ok {
		return f.name
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

var (
	//go:embed data/5x8.hex
	font5x8 []byte

	//go:embed data/4x5.hex
	font4x5 []byte
)

// Built-in fonts, parsed when the package is initialized.
var (
	Font5x8 = mustParse("5x8", Metrics{
		MinChar:     0,
		MaxChar:     255,
		Width:       5,
		Height:      8,
		OuterWidth:  6,
		OuterHeight: 9,
	}, font5x8)

	Font4x5 = mustParse("4x5", Metrics{
		MinChar:     32,
		MaxChar:     95,
		Width:       4,
		Height:      5,
		OuterWidth:  4,
		OuterHeight: 7,
	}, font4x5)
)

var builtin = [...]*Font{
	ID5x8: Font5x8,
	ID4x5: Font4x5,
}

// Lookup returns the built-in font for id.
func Lookup(id ID) (*Font, bool) {
	if int(id) >= len(builtin) {
		return nil, false
	}
	return builtin[id], true
}

// ByName returns the built-in font with the given name, such as "5x8".
func ByName(name string) (*Font, bool) {
	for _, f := range builtin {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func mustParse(name string, m Metrics, data []byte) *Font {
	f, err := Parse(name, bytes.NewReader(data), m)
	if err != nil {
		panic(err)
	}
	return f
}
