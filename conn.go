package sh1106

import (
	"fmt"
	"slices"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/sh1106/conn"
)

// Registers.
const (
	RegisterCommand = conn.RegisterCommand
	RegisterData    = conn.RegisterData
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// WriteRegister writes a single byte to a register.
	WriteRegister(reg, value byte) error

	// WriteBuffer writes bytes to a register.
	WriteBuffer(reg byte, data []byte) error
}

var (
	_ Conn = (*conn.I2C)(nil)
	_ Conn = (*conn.SPI)(nil)
	_ Conn = (*conn.TinyGo)(nil)
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Bus number, use -1 to use the first available bus.
	Bus int

	// Addr is the I²C address.
	Addr uint16
}

// DefaultI2CConfig is bus 1 of a Raspberry Pi with the display at its usual address.
var DefaultI2CConfig = I2CConfig{
	Bus:  1,
	Addr: 0x3C,
}

// OpenI2C opens an I²C connection, a nil config uses [DefaultI2CConfig].
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultI2CConfig.Addr
	}

	c, err := conn.OpenI2C(config.Bus, config.Addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultDCPin is the data/command pin used when SPIConfig.DC is nil.
const DefaultDCPin = "GPIO24"

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Name of the SPI port, such as "SPI0.0", empty selects the first port.
	Name string

	// SpeedHz is the clock speed, one of ValidSPISpeeds.
	SpeedHz uint32

	// DC is the data/command pin.
	DC gpio.PinOut

	// BatchSize is the largest single transfer in bytes.
	BatchSize int
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	SpeedHz:   4_000_000,
	BatchSize: conn.DefaultBatchSize,
}

// ValidSPISpeeds are the bus speeds within the SH1106 serial clock limit.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
}

// OpenSPI opens a 4-wire SPI connection, a nil config uses [DefaultSPIConfig].
//
// The GPIO pin registry must be initialized, see periph.io/x/host/v3.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}
	if !slices.Contains(ValidSPISpeeds, config.SpeedHz) {
		return nil, fmt.Errorf("sh1106: invalid SPI speed %dHz", config.SpeedHz)
	}

	dc := config.DC
	if dc == nil {
		if dc = gpioreg.ByName(DefaultDCPin); dc == nil {
			return nil, conn.ErrDCPin
		}
	}

	c, err := conn.OpenSPI(config.Name, physic.Frequency(config.SpeedHz)*physic.Hertz, dc, config.BatchSize)
	if err != nil {
		return nil, err
	}
	return c, nil
}
