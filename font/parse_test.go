package font

import (
	"bytes"
	"strings"
	"testing"
)

var testMetrics = Metrics{MinChar: '?', MaxChar: '?', Width: 4, Height: 8, OuterWidth: 5, OuterHeight: 9}

func TestParse(t *testing.T) {
	f, err := Parse("test", strings.NewReader("0x01\n0X02\n  ff \n\n7e\n"), testMetrics)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x01, 0x02, 0xff, 0x7e}; !bytes.Equal(f.data, want) {
		t.Errorf("expected glyph data % x, got % x", want, f.data)
	}
	if f.Name() != "test" {
		t.Errorf("expected name test, got %q", f.Name())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not hex", "0x01\n0xZZ\n0x00\n0x00\n", "line 2"},
		{"prefix only", "0x\n", "line 1"},
		{"too wide", "0x100\n", "line 1"},
		{"two bytes", "0x01 0x02\n", "line 1"},
		{"too short", "0x01\n0x02\n0x03\n", "expected 4 bytes"},
		{"too long", "0x01\n0x02\n0x03\n0x04\n0x05\n", "expected 4 bytes"},
		{"empty", "", "expected 4 bytes"},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			_, err := Parse("test", strings.NewReader(test.input), testMetrics)
			if err == nil {
				it.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				it.Errorf("expected error to mention %q, got %v", test.want, err)
			}
		})
	}
}

func TestParseBuiltinAssets(t *testing.T) {
	for _, test := range []struct {
		data  []byte
		lines int
	}{
		{font5x8, 256 * 5},
		{font4x5, 64 * 4},
	} {
		if n := bytes.Count(test.data, []byte("\n")); n != test.lines {
			t.Errorf("expected %d asset lines, got %d", test.lines, n)
		}
	}
}
