// Package sh1106test provides an emulated SH1106 controller for tests and dry
// runs without hardware.
//
// A [Controller] implements the connection interface of the sh1106 package. It
// decodes the command stream the way the chip does, keeps the 132 column display
// RAM and records every operation.
package sh1106test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Registers.
const (
	RegisterCommand = 0x00
	RegisterData    = 0x40
)

// Geometry of the controller RAM and the visible panel.
const (
	Columns = 132
	Pages   = 8
	Offset  = 2
	Width   = 128
	Height  = Pages * 8
)

// Errors.
var (
	ErrInjected = errors.New("sh1106test: injected I/O error")
	ErrRegister = errors.New("sh1106test: unknown register")
	ErrCommand  = errors.New("sh1106test: unknown command")
	ErrClosed   = errors.New("sh1106test: connection is closed")
)

// Op is a recorded operation.
type Op struct {
	// Reg is the register written to.
	Reg byte

	// Data written, one byte for register writes.
	Data []byte

	// Close is set for a Close call, Reg and Data are empty.
	Close bool
}

func (op Op) String() string {
	switch {
	case op.Close:
		return "close"
	case op.Reg == RegisterCommand:
		return fmt.Sprintf("command % x", op.Data)
	default:
		return fmt.Sprintf("data[%d]", len(op.Data))
	}
}

// Controller is an emulated SH1106.
type Controller struct {
	mu sync.Mutex

	// RAM is the display memory, including the 2 hidden columns on each side.
	RAM [Pages][Columns]byte

	// Ops are all successful operations.
	Ops []Op

	// FailAt makes the n-th operation (counting from 1) fail with Err, if
	// non-zero. Failed operations are not recorded.
	FailAt int

	// Err is returned by the failing operation, defaults to ErrInjected.
	Err error

	page      int
	column    int
	startLine int
	contrast  byte
	on        bool
	inverted  bool
	remapped  bool
	scanDec   bool
	closed    bool
	pending   byte // command waiting for its argument
	count     int
}

// New returns a powered down controller in its reset state.
func New() *Controller {
	return &Controller{contrast: 0x80}
}

func (c *Controller) String() string {
	return "sh1106test"
}

// Close records the close.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail(); err != nil {
		return err
	}
	c.closed = true
	c.Ops = append(c.Ops, Op{Close: true})
	return nil
}

// WriteRegister writes a command or a single display RAM byte.
func (c *Controller) WriteRegister(reg, value byte) error {
	return c.write(reg, []byte{value})
}

// WriteBuffer writes commands or display RAM bytes.
func (c *Controller) WriteBuffer(reg byte, data []byte) error {
	return c.write(reg, data)
}

func (c *Controller) write(reg byte, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.fail(); err != nil {
		return err
	}

	switch reg {
	case RegisterCommand:
		for _, b := range data {
			if err := c.command(b); err != nil {
				return err
			}
		}
	case RegisterData:
		for _, b := range data {
			if c.column < Columns {
				c.RAM[c.page][c.column] = b
				c.column++
			}
		}
	default:
		return fmt.Errorf("%w %#02x", ErrRegister, reg)
	}

	c.Ops = append(c.Ops, Op{Reg: reg, Data: bytes.Clone(data)})
	return nil
}

func (c *Controller) fail() error {
	c.count++
	if c.FailAt == 0 || c.count != c.FailAt {
		return nil
	}
	if c.Err != nil {
		return c.Err
	}
	return ErrInjected
}

func (c *Controller) command(b byte) error {
	if c.pending != 0 {
		cmd := c.pending
		c.pending = 0
		if cmd == 0x81 {
			c.contrast = b
		}
		return nil
	}

	switch {
	case b <= 0x0F:
		c.column = c.column&0xF0 | int(b&0x0F)
	case b <= 0x1F:
		c.column = int(b&0x0F)<<4 | c.column&0x0F
	case b >= 0x40 && b <= 0x7F:
		c.startLine = int(b & 0x3F)
	case b >= 0xB0 && b <= 0xB7:
		c.page = int(b & 0x07)
	case b == 0xA0, b == 0xA1:
		c.remapped = b == 0xA1
	case b == 0xC0, b == 0xC8:
		c.scanDec = b == 0xC8
	case b == 0xA4, b == 0xA5:
		// entire display on is not emulated
	case b == 0xA6, b == 0xA7:
		c.inverted = b == 0xA7
	case b == 0xAE, b == 0xAF:
		c.on = b == 0xAF
	case b == 0x20, b == 0x81, b == 0x8D, b == 0xA8, b == 0xD3, b == 0xD5, b == 0xD9, b == 0xDA, b == 0xDB:
		c.pending = b
	default:
		return fmt.Errorf("%w %#02x", ErrCommand, b)
	}
	return nil
}

// Pixel reports if the RAM bit behind the visible pixel (x, y) is set.
func (c *Controller) Pixel(x, y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixel(x, y)
}

func (c *Controller) pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return c.RAM[y>>3][x+Offset]&(1<<uint(y&7)) != 0
}

// Lit reports if the visible pixel (x, y) lights up, taking the display
// on/off and invert state into account.
func (c *Controller) Lit(x, y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lit(x, y)
}

func (c *Controller) lit(x, y int) bool {
	return c.on && c.pixel(x, y) != c.inverted
}

// On reports if the display is switched on.
func (c *Controller) On() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// Inverted reports if the display is inverted.
func (c *Controller) Inverted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverted
}

// Contrast is the current contrast level.
func (c *Controller) Contrast() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contrast
}

// Rotated reports if both the segment remap and COM scan direction are in
// their reset state, which shows the panel upside down.
func (c *Controller) Rotated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.remapped && !c.scanDec
}

// Closed reports if Close was called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Commands returns all command bytes written, in order.
func (c *Controller) Commands() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []byte
	for _, op := range c.Ops {
		if !op.Close && op.Reg == RegisterCommand {
			out = append(out, op.Data...)
		}
	}
	return out
}

// Reset forgets all recorded operations, the RAM and settings are kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ops = nil
	c.count = 0
}

// Render draws the panel as it lights up, two pixel rows per text line using
// half block characters.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := bufio.NewWriter(w)
	for y := 0; y < Height; y += 2 {
		for x := 0; x < Width; x++ {
			top, bottom := c.lit(x, y), c.lit(x, y+1)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}
