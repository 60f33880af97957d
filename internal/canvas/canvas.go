// Package canvas is a small pixelflut server: it accepts PX commands on any
// number of TCP connections and applies them to an in-memory framebuffer.
// It backs the sink command and the network tests.
package canvas

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

// Canvas is a framebuffer safe for concurrent writers.
type Canvas struct {
	mu  sync.RWMutex
	img *image.NRGBA

	written  atomic.Uint64
	outside  atomic.Uint64
	rejected atomic.Uint64
}

// New creates a transparent canvas of size dim.
func New(dim pixel.Dimension) *Canvas {
	return &Canvas{img: image.NewNRGBA(image.Rect(0, 0, dim.Width, dim.Height))}
}

func (c *Canvas) Dimension() pixel.Dimension {
	b := c.img.Rect
	return pixel.Dimension{Width: b.Dx(), Height: b.Dy()}
}

// Set applies p. A translucent color is blended over the current pixel;
// coordinates outside the canvas are counted and ignored.
func (c *Canvas) Set(p pixel.Pixel) {
	x, y := p.Coordinate.X, p.Coordinate.Y
	if !(image.Point{X: x, Y: y}).In(c.img.Rect) {
		c.outside.Add(1)
		return
	}
	c.mu.Lock()
	i := c.img.PixOffset(x, y)
	dst := c.img.Pix[i : i+4 : i+4]
	src := p.Color
	if src.A == 0xFF {
		dst[0], dst[1], dst[2], dst[3] = src.R, src.G, src.B, 0xFF
	} else {
		a := uint32(src.A)
		dst[0] = blend(src.R, dst[0], a)
		dst[1] = blend(src.G, dst[1], a)
		dst[2] = blend(src.B, dst[2], a)
		dst[3] = uint8((a*255 + uint32(dst[3])*(255-a) + 127) / 255)
	}
	c.mu.Unlock()
	c.written.Add(1)
}

func blend(src, dst uint8, a uint32) uint8 {
	return uint8((uint32(src)*a + uint32(dst)*(255-a) + 127) / 255)
}

// At reads one pixel.
func (c *Canvas) At(x, y int) pixel.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return pixel.FromNRGBA(c.img.NRGBAAt(x, y))
}

// Snapshot copies the framebuffer.
func (c *Canvas) Snapshot() *image.NRGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := image.NewNRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// Counters reports applied, out-of-bounds and malformed commands.
type Counters struct {
	Written  uint64
	Outside  uint64
	Rejected uint64
}

func (c *Canvas) Counters() Counters {
	return Counters{
		Written:  c.written.Load(),
		Outside:  c.outside.Load(),
		Rejected: c.rejected.Load(),
	}
}
