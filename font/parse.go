package font

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a font asset of one hexadecimal byte per line, such as "0x3E".
//
// The 0x prefix is optional and blank lines are ignored. Anything else that is
// not a hex byte, or a table that does not match m, is an error.
func Parse(name string, r io.Reader, m Metrics) (*Font, error) {
	var (
		data []byte
		s    = bufio.NewScanner(r)
		line int
	)
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		b, err := parseByte(text)
		if err != nil {
			return nil, fmt.Errorf("font: %s line %d: %w", name, line, err)
		}
		data = append(data, b)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("font: %s: %w", name, err)
	}
	return New(name, m, data)
}

func parseByte(s string) (byte, error) {
	v := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := strconv.ParseUint(v, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex byte %q", s)
	}
	return byte(b), nil
}
