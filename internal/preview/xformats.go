package preview

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// BMPEncoder writes uncompressed bitmaps.
type BMPEncoder struct{}

func (BMPEncoder) Format() string       { return "bmp" }
func (BMPEncoder) Extensions() []string { return []string{"bmp"} }
func (BMPEncoder) Alpha() bool          { return true }

func (BMPEncoder) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// TIFFEncoder writes deflate-compressed TIFF.
type TIFFEncoder struct{}

func (TIFFEncoder) Format() string       { return "tiff" }
func (TIFFEncoder) Extensions() []string { return []string{"tif", "tiff"} }
func (TIFFEncoder) Alpha() bool          { return true }

func (TIFFEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
