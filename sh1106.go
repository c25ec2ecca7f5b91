package sh1106

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/sh1106/framebuffer"
)

// resetPulse is how long the reset pin is held low, and how long the controller
// gets to come out of reset.
const resetPulse = 10 * time.Millisecond

// New initializes the display on c and turns it on.
//
// The display memory is not cleared, call Refresh to push the (dark) buffer.
// If initialization fails, c is left open.
func New(c Conn, config *Config) (*Display, error) {
	if config == nil {
		config = new(Config)
	}

	d := &Display{
		c:        c,
		fb:       framebuffer.New(),
		logger:   config.logger(),
		rotation: config.Rotation,
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("SH1106 %dx%d on %s", framebuffer.Width, framebuffer.Height, d.c)
}

func (d *Display) init(config *Config) (err error) {
	remap, scan, err := d.rotation.scan()
	if err != nil {
		return
	}

	if config.Reset != nil && config.Reset != gpio.INVALID {
		if err = reset(config.Reset); err != nil {
			return
		}
	}

	contrast := config.Contrast
	if contrast == 0 {
		contrast = defaultContrast
	}

	if err = d.command(
		setDisplayOff,
		setDisplayClockDiv, 0x80,
		setMultiplexRatio, 0x3F,
		setDisplayOffset, 0x00,
		setStartLine|0x00,
		setChargePump, 0x14,
		setMemoryMode, 0x00,
		remap,
		scan,
		setComPins, 0x12,
		setContrast, contrast,
		setPrecharge, 0xF1,
		setVComDetect, 0x40,
		setDisplayAllOnResume,
		setNormalDisplay,
		setDisplayOn,
	); err != nil {
		return fmt.Errorf("sh1106: init: %w", err)
	}

	d.logger.Debug("sh1106: initialized", "conn", d.c.String(), "contrast", contrast, "rotation", d.rotation)
	return
}

func reset(pin gpio.PinOut) (err error) {
	if err = pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("sh1106: failed to pull reset low: %w", err)
	}
	time.Sleep(resetPulse)
	if err = pin.Out(gpio.High); err != nil {
		return fmt.Errorf("sh1106: failed to pull reset high: %w", err)
	}
	time.Sleep(resetPulse)
	return
}

// command sends each byte as a separate command write.
func (d *Display) command(commands ...byte) (err error) {
	for _, command := range commands {
		if err = d.c.WriteRegister(RegisterCommand, command); err != nil {
			return
		}
	}
	return
}

// Refresh redraws the display.
func (d *Display) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	return d.refresh()
}

func (d *Display) refresh() (err error) {
	for page := 0; page < pages; page++ {
		if err = d.command(
			setLowColumn,
			setHighColumn,
			setStartLine,
			setPageAddr+byte(page),
			setLowColumn|(columnOffset&0x0F),
			setHighColumn|(columnOffset>>4),
		); err != nil {
			return fmt.Errorf("sh1106: refresh page %d: %w", page, err)
		}

		data := d.fb.Page(page)
		for chunk := 0; chunk < chunksPerPage; chunk++ {
			off := chunk * physicalWidthBytes
			if err = d.c.WriteBuffer(RegisterData, data[off:off+physicalWidthBytes]); err != nil {
				return fmt.Errorf("sh1106: refresh page %d: %w", page, err)
			}
		}
	}
	return
}

// Show toggles the display on or off, the display memory is retained.
func (d *Display) Show(show bool) error {
	if show {
		return d.send(setDisplayOn)
	}
	return d.send(setDisplayOff)
}

// SetContrast adjusts the contrast level.
func (d *Display) SetContrast(level uint8) error {
	return d.send(setContrast, level)
}

// Invert toggles between light pixels on a dark background and the reverse.
func (d *Display) Invert(invert bool) error {
	if invert {
		return d.send(setInvertDisplay)
	}
	return d.send(setNormalDisplay)
}

// SetRotation adjusts the pixel rotation, only NoRotation and Rotate180 are
// supported. The display memory is rewritten on the next Refresh.
func (d *Display) SetRotation(rotation Rotation) error {
	remap, scan, err := rotation.scan()
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	if err = d.command(remap, scan); err != nil {
		return fmt.Errorf("sh1106: set rotation %s: %w", rotation, err)
	}
	d.rotation = rotation
	return nil
}

// Rotation returns the current pixel rotation.
func (d *Display) Rotation() Rotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotation
}

// send is command for the public setters.
func (d *Display) send(commands ...byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	if err := d.command(commands...); err != nil {
		return fmt.Errorf("sh1106: command %#02x: %w", commands[0], err)
	}
	return nil
}

// Close clears the display and closes the connection.
//
// Errors are logged at debug level and not returned, Close always returns nil.
// Calling Close more than once does nothing.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true

	d.fb.Clear()
	if err := d.refresh(); err != nil {
		d.logger.Debug("sh1106: clear on close failed", "conn", d.c.String(), "error", err)
	}
	if err := d.c.Close(); err != nil {
		d.logger.Debug("sh1106: close connection failed", "conn", d.c.String(), "error", err)
	}
	return nil
}

// scan returns the segment remap and COM scan direction commands.
func (r Rotation) scan() (remap, scan byte, err error) {
	switch r {
	case NoRotation:
		return setSegmentRemap | 0x01, setComScanDec, nil
	case Rotate180:
		return setSegmentRemap, setComScanInc, nil
	default:
		return 0, 0, fmt.Errorf("%w %s", ErrRotation, r)
	}
}
