// Package preview writes frames to image files, so the raster a painter
// would send can be inspected without a canvas.
package preview

import (
	"image"
	"io"
)

// Encoder writes an image in one file format.
type Encoder interface {
	// Format returns the format name (e.g. "png", "jpeg").
	Format() string

	// Extensions lists the file extensions it handles, without dot.
	Extensions() []string

	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error

	// Alpha reports whether the format keeps transparency.
	Alpha() bool
}
