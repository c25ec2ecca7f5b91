package font

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
)

// LoadTrueType parses a TrueType font and returns a face of size points at 72 DPI,
// so that one point equals one display pixel.
func LoadTrueType(data []byte, size float64) (xfont.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font: invalid TrueType size %g", size)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse TrueType: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	}), nil
}
