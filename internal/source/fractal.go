// Package source produces the frames a painter paints: escape-time fractals
// rendered on the CPU and raster images loaded from disk.
package source

import (
	"errors"
	"fmt"
	"image"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

// span is the width of the complex plane mapped onto the frame.
const span = 4.0

// escapeRadius ends iteration once |z| exceeds it.
const escapeRadius = 4.0

var ErrNoIterations = errors.New("fractal needs at least one iteration")

// Kind selects the escape-time formula.
type Kind int

const (
	// Mandelbrot iterates z = z² + c with c taken from the cell and z starting at the seed.
	Mandelbrot Kind = iota
	// Julia iterates z = z² + c with z taken from the cell and c fixed at the seed.
	Julia
)

func (k Kind) String() string {
	if k == Julia {
		return "julia"
	}
	return "mandelbrot"
}

// Fractal renders an escape-time fractal.
type Fractal struct {
	Kind Kind
	// Seed is z₀ for Mandelbrot and the constant c for Julia.
	Seed       complex128
	Iterations int
	// Cells whose escape factor is below Threshold are transparent.
	Threshold float64
	// Workers bounds the number of rows rendered at once (NumCPU when zero).
	Workers int
}

// Render draws the fractal into a frame of size dim. The plane is scaled
// so that x spans [-2, 2) and y keeps the frame's aspect ratio.
func (f Fractal) Render(dim pixel.Dimension) (*image.NRGBA, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("render %s: invalid dimension %s", f.Kind, dim)
	}
	if f.Iterations <= 0 {
		return nil, fmt.Errorf("render %s: %w", f.Kind, ErrNoIterations)
	}
	workers := f.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	img := image.NewNRGBA(image.Rect(0, 0, dim.Width, dim.Height))
	w, h := float64(dim.Width), float64(dim.Height)
	aspect := h / w

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for y := 0; y < dim.Height; y++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			defer func() { <-sem }()

			im := float64(y)/h*span*aspect - span*aspect/2
			row := img.Pix[y*img.Stride : y*img.Stride+dim.Width*4]
			for x := 0; x < dim.Width; x++ {
				re := float64(x)/w*span - span/2
				c := f.color(f.Escape(complex(re, im)))
				row[x*4+0], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
			}
		}(y)
	}
	wg.Wait()
	return img, nil
}

// Escape returns i/Iterations for the first step at which the orbit of
// point leaves the escape radius, or 1 if it never does.
func (f Fractal) Escape(point complex128) float64 {
	z, c := f.Seed, point
	if f.Kind == Julia {
		z, c = point, f.Seed
	}
	for i := 0; i < f.Iterations; i++ {
		if cmplx.Abs(z) > escapeRadius {
			return float64(i) / float64(f.Iterations)
		}
		z = z*z + c
	}
	return 1
}

func (f Fractal) color(v float64) pixel.Color {
	c := pixel.Gradient24(v)
	if v < f.Threshold {
		c.A = 0
	}
	return c
}
