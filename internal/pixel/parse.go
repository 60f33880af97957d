package pixel

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformed = errors.New("malformed PX command")

// ParseCommand parses one "PX <x> <y> <rrggbb[aa]>" line; the trailing
// newline is optional.
func ParseCommand(line []byte) (Pixel, error) {
	line = bytes.TrimRight(line, "\r\n")
	fields := bytes.Fields(line)
	if len(fields) != 4 || string(fields[0]) != "PX" {
		return Pixel{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	x, err := strconv.ParseUint(string(fields[1]), 10, 31)
	if err != nil {
		return Pixel{}, fmt.Errorf("%w: x: %v", ErrMalformed, err)
	}
	y, err := strconv.ParseUint(string(fields[2]), 10, 31)
	if err != nil {
		return Pixel{}, fmt.Errorf("%w: y: %v", ErrMalformed, err)
	}
	c, err := ParseHex(fields[3])
	if err != nil {
		return Pixel{}, err
	}
	return New(int(x), int(y), c), nil
}

// ParseHex parses rrggbb or rrggbbaa in either case.
func ParseHex(s []byte) (Color, error) {
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("%w: color %q", ErrMalformed, s)
	}
	var b [4]uint8
	b[3] = 0xFF
	for i := 0; i < len(s); i += 2 {
		hi, ok1 := unhex(s[i])
		lo, ok2 := unhex(s[i+1])
		if !ok1 || !ok2 {
			return Color{}, fmt.Errorf("%w: color %q", ErrMalformed, s)
		}
		b[i/2] = hi<<4 | lo
	}
	return RGBA(b[0], b[1], b[2], b[3]), nil
}

func unhex(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
