package preview

import (
	"image"
	"image/png"
	"io"
)

// PNGEncoder keeps the transparent border of letterboxed frames.
type PNGEncoder struct{}

func (PNGEncoder) Format() string       { return "png" }
func (PNGEncoder) Extensions() []string { return []string{"png"} }
func (PNGEncoder) Alpha() bool          { return true }

func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}
