package pixel

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Pixel
	}{
		{"PX 10 20 123456\n", New(10, 20, RGB(0x12, 0x34, 0x56))},
		{"PX 10 20 12345680", New(10, 20, RGBA(0x12, 0x34, 0x56, 0x80))},
		{"PX 0 0 FFFFFF\r\n", New(0, 0, RGB(0xFF, 0xFF, 0xFF))},
	}
	for _, tt := range tests {
		got, err := ParseCommand([]byte(tt.line))
		if err != nil {
			t.Errorf("%q: %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseCommandRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"PX 1 2",
		"PY 1 2 ffffff",
		"PX -1 2 ffffff",
		"PX 1 2 fffff",
		"PX 1 2 gggggg",
		"PX 1 2 ffffff 00",
	} {
		if _, err := ParseCommand([]byte(line)); !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: got %v, want ErrMalformed", line, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, p := range []Pixel{
		New(1, 2, RGB(3, 4, 5)),
		New(1920, 1080, RGBA(0xDE, 0xAD, 0xBE, 0xEF)),
	} {
		got, err := ParseCommand([]byte(p.String()))
		if err != nil || got != p {
			t.Errorf("%v: got %+v, %v", p, got, err)
		}
	}
}
