package conn

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// TinyGo writes registers over a TinyGo I²C bus, such as a machine.I2C.
type TinyGo struct {
	bus  drivers.I2C
	addr uint16
}

// NewTinyGo uses the device at addr on bus.
func NewTinyGo(bus drivers.I2C, addr uint16) *TinyGo {
	return &TinyGo{
		bus:  bus,
		addr: addr,
	}
}

func (c *TinyGo) String() string {
	return fmt.Sprintf("TinyGo I²C %#02x", c.addr)
}

// Close does nothing, the bus is owned by the caller.
func (c *TinyGo) Close() error {
	return nil
}

func (c *TinyGo) WriteRegister(reg, value byte) error {
	return c.bus.Tx(c.addr, []byte{reg, value}, nil)
}

func (c *TinyGo) WriteBuffer(reg byte, data []byte) error {
	w := make([]byte, 1+len(data))
	w[0] = reg
	copy(w[1:], data)
	return c.bus.Tx(c.addr, w, nil)
}
