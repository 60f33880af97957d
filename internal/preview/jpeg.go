package preview

import (
	"image"
	"image/jpeg"
	"io"
)

// JPEGEncoder flattens transparency onto black.
type JPEGEncoder struct {
	Quality int // 1-100, 90 when zero
}

func (JPEGEncoder) Format() string       { return "jpeg" }
func (JPEGEncoder) Extensions() []string { return []string{"jpg", "jpeg"} }
func (JPEGEncoder) Alpha() bool          { return false }

func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	q := e.Quality
	if q <= 0 || q > 100 {
		q = 90
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}
