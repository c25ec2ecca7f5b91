// Package conn implements the register transports of the SH1106 driver.
//
// The controller is addressed through two registers: bytes written to
// [RegisterCommand] are commands, bytes written to [RegisterData] land in display
// RAM. Every transport in this package offers the same two operations,
// WriteRegister for a single byte and WriteBuffer for a run of bytes.
package conn

import "errors"

// Registers of the controller.
const (
	RegisterCommand = 0x00
	RegisterData    = 0x40
)

// Errors.
var (
	ErrRegister = errors.New("conn: unknown register")
	ErrDCPin    = errors.New("conn: data/command (DC) GPIO pin is invalid")
)
