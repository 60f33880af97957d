// Package resize maps a source raster onto the painted region of the canvas.
package resize

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

var ErrInvalidDimension = errors.New("dimension must be positive")

// Frame resamples src into a width x height raster according to fit.
// The result always starts at the origin.
func Frame(src image.Image, dim pixel.Dimension, fit Fit, filter Filter) (*image.NRGBA, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("resize to %s: %w", dim, ErrInvalidDimension)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		// Nothing to scale; paint nothing.
		return image.NewNRGBA(image.Rect(0, 0, dim.Width, dim.Height)), nil
	}

	switch fit {
	case Stretch:
		return imaging.Resize(src, dim.Width, dim.Height, filter.Kernel), nil
	case Crop:
		return imaging.Fill(src, dim.Width, dim.Height, imaging.Center, filter.Kernel), nil
	case Fill:
		w, h := fitWithin(b.Dx(), b.Dy(), dim.Width, dim.Height)
		scaled := imaging.Resize(src, w, h, filter.Kernel)
		canvas := image.NewNRGBA(image.Rect(0, 0, dim.Width, dim.Height))
		return imaging.PasteCenter(canvas, scaled), nil
	}
	return nil, fmt.Errorf("resize: %w: %v", ErrUnknownFit, fit)
}

// fitWithin returns the largest srcW:srcH box that fits inside dstW x dstH.
func fitWithin(srcW, srcH, dstW, dstH int) (int, int) {
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return clampSide(w, dstW), clampSide(h, dstH)
}

func clampSide(v, limit int) int {
	if v < 1 {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// Resizer keeps the original frame and the current resize settings, and
// recomputes the output raster whenever one of them changes.
// It caches only the latest output.
type Resizer struct {
	original image.Image
	resized  *image.NRGBA
	dim      pixel.Dimension
	fit      Fit
	filter   Filter
}

// New starts with the frame's own size, Stretch and Lanczos, so the
// initial output is the frame converted to NRGBA.
func New(frame image.Image) *Resizer {
	b := frame.Bounds()
	return &Resizer{
		original: frame,
		resized:  imaging.Clone(frame),
		dim:      pixel.Dimension{Width: b.Dx(), Height: b.Dy()},
		fit:      Stretch,
		filter:   Lanczos,
	}
}

// Frame returns a copy of the current output.
func (r *Resizer) Frame() *image.NRGBA {
	return imaging.Clone(r.resized)
}

func (r *Resizer) Dimension() pixel.Dimension { return r.dim }
func (r *Resizer) Fit() Fit                   { return r.fit }
func (r *Resizer) Filter() Filter             { return r.filter }

// UpdateFrame replaces the source raster.
func (r *Resizer) UpdateFrame(frame image.Image) (*image.NRGBA, error) {
	r.original = frame
	return r.resize()
}

// UpdateDimensions changes the target size. An invalid size leaves the
// resizer untouched.
func (r *Resizer) UpdateDimensions(dim pixel.Dimension) (*image.NRGBA, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("resize to %s: %w", dim, ErrInvalidDimension)
	}
	r.dim = dim
	return r.resize()
}

// UpdateFit changes the fit policy.
func (r *Resizer) UpdateFit(fit Fit) (*image.NRGBA, error) {
	if _, ok := fitNames[fit]; !ok {
		return nil, fmt.Errorf("resize: %w: %v", ErrUnknownFit, fit)
	}
	r.fit = fit
	return r.resize()
}

// UpdateFilter changes the resampling filter.
func (r *Resizer) UpdateFilter(filter Filter) (*image.NRGBA, error) {
	r.filter = filter
	return r.resize()
}

// UpdateStyle changes fit and filter with a single resample. Nothing
// changes if fit is unknown.
func (r *Resizer) UpdateStyle(fit Fit, filter Filter) (*image.NRGBA, error) {
	if _, ok := fitNames[fit]; !ok {
		return nil, fmt.Errorf("resize: %w: %v", ErrUnknownFit, fit)
	}
	r.fit, r.filter = fit, filter
	return r.resize()
}

// Configure changes size, fit and filter with a single resample. Nothing
// changes if any of them is invalid.
func (r *Resizer) Configure(dim pixel.Dimension, fit Fit, filter Filter) (*image.NRGBA, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("resize to %s: %w", dim, ErrInvalidDimension)
	}
	if _, ok := fitNames[fit]; !ok {
		return nil, fmt.Errorf("resize: %w: %v", ErrUnknownFit, fit)
	}
	r.dim, r.fit, r.filter = dim, fit, filter
	return r.resize()
}

func (r *Resizer) resize() (*image.NRGBA, error) {
	if !r.dim.Valid() {
		// Zero-sized source at construction and no size configured yet.
		r.resized = image.NewNRGBA(image.Rect(0, 0, 0, 0))
		return r.Frame(), nil
	}
	out, err := Frame(r.original, r.dim, r.fit, r.filter)
	if err != nil {
		return nil, err
	}
	r.resized = out
	return r.Frame(), nil
}
