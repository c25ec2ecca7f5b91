// Package sh1106 drives Sino Wealth SH1106 128x64 monochrome OLED displays.
//
// Drawing operations work on an in-memory framebuffer, [Display.Refresh] sends
// it to the controller. All methods of a [Display] are safe for concurrent use.
package sh1106

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"sync"

	xfont "golang.org/x/image/font"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/sh1106/draw"
	"github.com/BeatGlow/sh1106/font"
	"github.com/BeatGlow/sh1106/framebuffer"
	"github.com/BeatGlow/sh1106/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrHalted   = errors.New("sh1106: display is halted")
	ErrRotation = errors.New("sh1106: unsupported rotation")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Rotations, the SH1106 can only mirror both axes so 90° steps are not supported.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Config is the display configuration.
type Config struct {
	// Reset pin, pulsed low before initialization if set.
	Reset gpio.PinOut

	// Contrast level, zero selects the datasheet default 0xCF.
	Contrast uint8

	// Rotation of the display.
	Rotation Rotation

	// Logger for debug records, defaults to [slog.Default]. Setting the
	// DISPLAY_DEBUG environment variable logs debug records to stderr instead.
	Logger *slog.Logger
}

func (config *Config) logger() *slog.Logger {
	switch {
	case config.Logger != nil:
		return config.Logger
	case debug:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.Default()
	}
}

// Display is a SH1106 display.
//
// Display implements [draw.Image], so it can be used with [draw.Draw] and the
// shape functions of the draw package.
type Display struct {
	mu       sync.Mutex
	c        Conn
	fb       *framebuffer.Framebuffer
	logger   *slog.Logger
	rotation Rotation
	halted   bool
}

var _ draw.Image = (*Display)(nil)

// Clear the display buffer.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fb.Clear()
}

// SetPixel turns the pixel at (x, y) on or off, pixels off the display are ignored.
func (d *Display) SetPixel(x, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fb.SetPixel(x, y, on)
}

// Pixel reports if the pixel at (x, y) is on.
func (d *Display) Pixel(x, y int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb.Pixel(x, y)
}

// ClearRect sets all pixels of the w by h rectangle at (x, y) to on.
func (d *Display) ClearRect(x, y, w, h int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fb.ClearRect(x, y, w, h, on)
}

// DrawImage replaces the display buffer with src drawn at (x, y).
//
// Pixels not covered by src turn off.
func (d *Display) DrawImage(src image.Image, x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fb.DrawImage(src, x, y)
}

// DrawChar draws r with its top left corner at (x, y).
func (d *Display) DrawChar(f *font.Font, r rune, x, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f.DrawChar(d.fb, r, x, y, on)
}

// DrawString draws s starting at (x, y), characters that do not fit are skipped.
func (d *Display) DrawString(f *font.Font, s string, x, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f.DrawString(d.fb, s, x, y, on)
}

// DrawStringCentered draws s horizontally centered at row y.
func (d *Display) DrawStringCentered(f *font.Font, s string, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f.DrawStringCentered(d.fb, s, y, on)
}

// DrawText draws s using face, with the baseline starting at (x, y).
func (d *Display) DrawText(face xfont.Face, s string, x, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	font.DrawFace(d.fb, face, s, x, y, on)
}

// DrawTextCentered draws s using face, horizontally centered with the baseline at y.
func (d *Display) DrawTextCentered(face xfont.Face, s string, y int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	font.DrawFaceCentered(d.fb, face, s, y, on)
}

// Bounds is the display bounding box (dimensions).
func (d *Display) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// ColorModel used by the display.
func (d *Display) ColorModel() color.Model {
	return pixel.MonoModel
}

// At returns the color of the pixel at (x, y).
func (d *Display) At(x, y int) color.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb.At(x, y)
}

// Set the pixel color at (x, y).
func (d *Display) Set(x, y int, c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fb.Set(x, y, c)
}
