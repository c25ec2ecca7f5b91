package conn

import (
	"fmt"
	"io"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C writes registers to an I²C device. The register is the first byte of each
// transaction.
type I2C struct {
	bus  io.Closer
	conn conn.Conn
}

// NewI2C uses an existing device connection, typically an [i2c.Dev]. Closing
// the returned I2C leaves the connection open.
func NewI2C(c conn.Conn) *I2C {
	return &I2C{conn: c}
}

// OpenI2C opens the numbered I²C bus, use -1 for the first available bus.
func OpenI2C(bus int, addr uint16) (*I2C, error) {
	var (
		b   i2c.BusCloser
		err error
	)
	if bus < 0 {
		b, err = i2creg.Open("")
	} else {
		b, err = i2creg.Open(strconv.Itoa(bus))
	}
	if err != nil {
		return nil, fmt.Errorf("conn: open I²C bus %d: %w", bus, err)
	}

	return &I2C{
		bus:  b,
		conn: &i2c.Dev{Bus: b, Addr: addr},
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C %s", c.conn)
}

// Close the bus, if it was opened by [OpenI2C].
func (c *I2C) Close() error {
	if c.bus == nil {
		return nil
	}
	return c.bus.Close()
}

// WriteRegister writes a single byte to reg.
func (c *I2C) WriteRegister(reg, value byte) error {
	return c.conn.Tx([]byte{reg, value}, nil)
}

// WriteBuffer writes data to reg in one transaction.
func (c *I2C) WriteBuffer(reg byte, data []byte) error {
	w := make([]byte, 1+len(data))
	w[0] = reg
	copy(w[1:], data)
	return c.conn.Tx(w, nil)
}
