package sh1106test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestControllerCommands(t *testing.T) {
	c := New()
	for _, b := range []byte{0xAF, 0x81, 0x10, 0xA7, 0xA1, 0xC8} {
		if err := c.WriteRegister(RegisterCommand, b); err != nil {
			t.Fatal(err)
		}
	}
	if !c.On() {
		t.Error("expected display to be on")
	}
	if c.Contrast() != 0x10 {
		t.Errorf("expected contrast 0x10, got %#02x", c.Contrast())
	}
	if !c.Inverted() {
		t.Error("expected display to be inverted")
	}
	if c.Rotated() {
		t.Error("expected display not to be rotated")
	}
	if want := []byte{0xAF, 0x81, 0x10, 0xA7, 0xA1, 0xC8}; !bytes.Equal(c.Commands(), want) {
		t.Errorf("expected commands % x, got % x", want, c.Commands())
	}
}

func TestControllerArgument(t *testing.T) {
	// 0x00 as an argument must not be decoded as a column address.
	c := New()
	for _, b := range []byte{0x02, 0xD3, 0x00} {
		if err := c.WriteRegister(RegisterCommand, b); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.WriteRegister(RegisterData, 0xFF); err != nil {
		t.Fatal(err)
	}
	if c.RAM[0][2] != 0xFF {
		t.Errorf("expected data at column 2, RAM page 0 starts with % x", c.RAM[0][:4])
	}
}

func TestControllerData(t *testing.T) {
	c := New()
	for _, b := range []byte{0xB3, 0x02, 0x10} {
		if err := c.WriteRegister(RegisterCommand, b); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.WriteBuffer(RegisterData, []byte{0x01, 0x80}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 24, true},
		{0, 25, false},
		{1, 31, true},
		{1, 24, false},
		{2, 24, false},
		{-1, 24, false},
		{Width, 24, false},
	}
	for _, test := range tests {
		if got := c.Pixel(test.x, test.y); got != test.want {
			t.Errorf("pixel (%d,%d): expected %t, got %t", test.x, test.y, test.want, got)
		}
	}

	if c.Lit(0, 24) {
		t.Error("expected nothing to light up while the display is off")
	}
	_ = c.WriteRegister(RegisterCommand, 0xAF)
	if !c.Lit(0, 24) || c.Lit(0, 25) {
		t.Error("expected lit pixels to follow RAM")
	}
	_ = c.WriteRegister(RegisterCommand, 0xA7)
	if c.Lit(0, 24) || !c.Lit(0, 25) {
		t.Error("expected inverted pixels")
	}
}

func TestControllerColumnOverflow(t *testing.T) {
	c := New()
	_ = c.WriteRegister(RegisterCommand, 0x0C)
	_ = c.WriteRegister(RegisterCommand, 0x17)
	if err := c.WriteBuffer(RegisterData, bytes.Repeat([]byte{0xFF}, 16)); err != nil {
		t.Fatal(err)
	}
	if c.RAM[0][Columns-1] != 0xFF {
		t.Error("expected last column to be written")
	}
	if c.RAM[1][0] != 0x00 {
		t.Error("expected writes past the last column to be dropped")
	}
}

func TestControllerErrors(t *testing.T) {
	c := New()
	if err := c.WriteRegister(0x80, 0x00); !errors.Is(err, ErrRegister) {
		t.Errorf("expected ErrRegister, got %v", err)
	}
	if err := c.WriteRegister(RegisterCommand, 0xFF); !errors.Is(err, ErrCommand) {
		t.Errorf("expected ErrCommand, got %v", err)
	}

	c = New()
	c.FailAt = 2
	if err := c.WriteRegister(RegisterCommand, 0xAF); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteRegister(RegisterCommand, 0xA7); !errors.Is(err, ErrInjected) {
		t.Errorf("expected ErrInjected, got %v", err)
	}
	if c.Inverted() {
		t.Error("expected failed write not to be applied")
	}
	if len(c.Ops) != 1 {
		t.Errorf("expected 1 recorded operation, got %d", len(c.Ops))
	}

	failed := errors.New("bus gone")
	c = New()
	c.FailAt, c.Err = 1, failed
	if err := c.Close(); !errors.Is(err, failed) {
		t.Errorf("expected %v, got %v", failed, err)
	}
	if c.Closed() {
		t.Error("expected failed close not to be recorded")
	}
}

func TestControllerClose(t *testing.T) {
	c := New()
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !c.Closed() {
		t.Error("expected controller to be closed")
	}
	if err := c.WriteRegister(RegisterCommand, 0xAF); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if n := len(c.Ops); n != 1 || !c.Ops[0].Close || c.Ops[0].String() != "close" {
		t.Errorf("expected a single close operation, got %v", c.Ops)
	}
}

func TestControllerRender(t *testing.T) {
	c := New()
	for _, b := range []byte{0xAF, 0xB0, 0x02, 0x10} {
		_ = c.WriteRegister(RegisterCommand, b)
	}
	_ = c.WriteBuffer(RegisterData, []byte{0x03, 0x01, 0x02})

	var out strings.Builder
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != Height/2 {
		t.Fatalf("expected %d lines, got %d", Height/2, len(lines))
	}
	if !strings.HasPrefix(lines[0], "█▀▄ ") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "" {
		t.Errorf("expected second line to be blank, got %q", lines[1])
	}
}
