package pixel

import (
	"image/color"
	"math"
)

// Color is a non-premultiplied 8-bit RGBA sample.
// An alpha of zero marks the pixel as transparent: it is never sent.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// RGBA returns a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque gray of intensity v.
func Gray(v uint8) Color {
	return RGB(v, v, v)
}

// GrayGradient maps v in [0,1] onto the gray ramp.
func GrayGradient(v float64) Color {
	return Gray(uint8(math.Round(255 * clamp01(v))))
}

// Gradient24 spreads v in [0,1] over the full 32-bit range and keeps the
// low 24 bits as RGB, so neighbouring values land on visibly different colors.
func Gradient24(v float64) Color {
	n := uint32(math.Round(clamp01(v) * math.MaxUint32))
	return RGB(uint8(n>>16), uint8(n>>8), uint8(n))
}

// FromNRGBA converts a standard library sample.
func FromNRGBA(c color.NRGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NRGBA converts to the standard library sample type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Transparent reports whether the color must be skipped on the wire.
func (c Color) Transparent() bool {
	return c.A == 0
}

const hexDigits = "0123456789abcdef"

// AppendHex appends rrggbb, or rrggbbaa when the color is not fully opaque.
func (c Color) AppendHex(dst []byte) []byte {
	dst = appendHexByte(dst, c.R)
	dst = appendHexByte(dst, c.G)
	dst = appendHexByte(dst, c.B)
	if c.A != 0xFF {
		dst = appendHexByte(dst, c.A)
	}
	return dst
}

// Hex returns the wire form of the color.
func (c Color) Hex() string {
	return string(c.AppendHex(make([]byte, 0, 8)))
}

func (c Color) String() string {
	return c.Hex()
}

func appendHexByte(dst []byte, b uint8) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
