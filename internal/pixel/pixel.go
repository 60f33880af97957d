// Package pixel holds the canvas geometry and the pixelflut wire encoding
// of a single pixel: "PX <x> <y> <rrggbb[aa]>\n".
package pixel

import "strconv"

// ByteEstimate is a typical encoded line length, used to presize slabs.
const ByteEstimate = len("PX 1000 1000 rrggbb\n")

// MaxLineLength is the longest line a pixel on a 5-digit canvas can produce.
const MaxLineLength = len("PX 99999 99999 rrggbbaa\n")

// Pixel is a colored sample at a coordinate.
type Pixel struct {
	Coordinate Coordinate
	Color      Color
}

// New builds a pixel at (x, y).
func New(x, y int, c Color) Pixel {
	return Pixel{Coordinate: Coordinate{X: x, Y: y}, Color: c}
}

// AppendCommand appends the PX line for p to dst. A transparent pixel
// appends nothing.
func (p Pixel) AppendCommand(dst []byte) []byte {
	if p.Color.Transparent() {
		return dst
	}
	dst = append(dst, 'P', 'X', ' ')
	dst = strconv.AppendInt(dst, int64(p.Coordinate.X), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(p.Coordinate.Y), 10)
	dst = append(dst, ' ')
	dst = p.Color.AppendHex(dst)
	return append(dst, '\n')
}

// String returns the PX line, or "" for a transparent pixel.
func (p Pixel) String() string {
	return string(p.AppendCommand(nil))
}
