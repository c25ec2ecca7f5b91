package conn

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// DefaultBatchSize is the largest single SPI transfer.
const DefaultBatchSize = 4096

// SPI writes registers over a 4-wire SPI bus. The register selects the level of
// the data/command pin: low for commands, high for display data.
type SPI struct {
	port      io.Closer
	conn      conn.Conn
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcValid   bool
	batchSize int
}

// NewSPI uses an existing SPI connection.
func NewSPI(c conn.Conn, dc gpio.PinOut, batchSize int) (*SPI, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, ErrDCPin
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SPI{
		conn:      c,
		dc:        dc,
		batchSize: batchSize,
	}, nil
}

// OpenSPI opens the named SPI port, use "" for the first available port.
func OpenSPI(name string, speed physic.Frequency, dc gpio.PinOut, batchSize int) (*SPI, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: open SPI port %q: %w", name, err)
	}

	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("conn: connect SPI port %q at %s: %w", name, speed, err)
	}

	s, err := NewSPI(c, dc, batchSize)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI %s DC %s", c.conn, c.dc)
}

// Close the port, if it was opened by [OpenSPI].
func (c *SPI) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

// WriteRegister writes a single byte to reg.
func (c *SPI) WriteRegister(reg, value byte) error {
	if err := c.selectRegister(reg); err != nil {
		return err
	}
	return c.conn.Tx([]byte{value}, nil)
}

// WriteBuffer writes data to reg, split in transfers of at most the batch size.
func (c *SPI) WriteBuffer(reg byte, data []byte) (err error) {
	if err = c.selectRegister(reg); err != nil {
		return
	}
	for len(data) > 0 {
		n := min(len(data), c.batchSize)
		if err = c.conn.Tx(data[:n], nil); err != nil {
			return
		}
		data = data[n:]
	}
	return
}

func (c *SPI) selectRegister(reg byte) error {
	var level gpio.Level
	switch reg {
	case RegisterCommand:
		level = gpio.Low
	case RegisterData:
		level = gpio.High
	default:
		return fmt.Errorf("%w %#02x", ErrRegister, reg)
	}

	if c.dcValid && c.dcLevel == level {
		return nil
	}
	if err := c.dc.Out(level); err != nil {
		return fmt.Errorf("conn: set DC pin %s: %w", level, err)
	}
	c.dcLevel, c.dcValid = level, true
	return nil
}
