package sh1106

import (
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/BeatGlow/sh1106/conn"
	"github.com/BeatGlow/sh1106/framebuffer"
	"github.com/BeatGlow/sh1106/pixel"
)

// NewTinyGo initializes a display at addr on a TinyGo I²C bus.
func NewTinyGo(bus drivers.I2C, addr uint16, config *Config) (*Display, error) {
	return New(conn.NewTinyGo(bus, addr), config)
}

// Displayer returns a TinyGo view of the display, for use with packages such
// as tinyfont and tinydraw. Display refreshes the panel.
func (d *Display) Displayer() drivers.Displayer {
	return displayer{d}
}

type displayer struct {
	d *Display
}

func (displayer) Size() (x, y int16) {
	return framebuffer.Width, framebuffer.Height
}

func (t displayer) SetPixel(x, y int16, c color.RGBA) {
	t.d.SetPixel(int(x), int(y), pixel.IsOn(c))
}

func (t displayer) Display() error {
	return t.d.Refresh()
}
