// Package serializer orders the pixels of a frame into the sequence they
// are sent in. The order decides how the image paints in on the canvas.
package serializer

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

var ErrUnknown = errors.New("unknown serializer")

// Serializer yields every cell of a frame exactly once.
//
// Duplicate returns an independent serializer of the same kind; the painter
// hands a duplicate to each update so no state is shared between goroutines.
type Serializer interface {
	Name() string
	Serialize(frame *image.NRGBA) iter.Seq[pixel.Pixel]
	Duplicate() Serializer
}

// Row walks the frame row by row, top to bottom.
type Row struct{}

func (Row) Name() string          { return "row" }
func (Row) Duplicate() Serializer { return Row{} }

func (Row) Serialize(frame *image.NRGBA) iter.Seq[pixel.Pixel] {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	return func(yield func(pixel.Pixel) bool) {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !yield(at(frame, x, y)) {
					return
				}
			}
		}
	}
}

// Column walks the frame column by column, left to right.
type Column struct{}

func (Column) Name() string          { return "column" }
func (Column) Duplicate() Serializer { return Column{} }

func (Column) Serialize(frame *image.NRGBA) iter.Seq[pixel.Pixel] {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	return func(yield func(pixel.Pixel) bool) {
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if !yield(at(frame, x, y)) {
					return
				}
			}
		}
	}
}

// Random emits a fresh uniform permutation of all cells on every call.
type Random struct {
	rng *rand.Rand
}

// NewRandom seeds from the runtime entropy source.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewRandomSeeded gives a reproducible order.
func NewRandomSeeded(seed1, seed2 uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (*Random) Name() string { return "random" }

// Duplicate re-seeds.
func (*Random) Duplicate() Serializer { return NewRandom() }

func (r *Random) Serialize(frame *image.NRGBA) iter.Seq[pixel.Pixel] {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	cells := make([]int, w*h)
	for i := range cells {
		cells[i] = i
	}
	r.rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})
	return func(yield func(pixel.Pixel) bool) {
		for _, c := range cells {
			if !yield(at(frame, c%w, c/w)) {
				return
			}
		}
	}
}

// at reads frame-relative (x, y).
func at(frame *image.NRGBA, x, y int) pixel.Pixel {
	i := y*frame.Stride + x*4
	s := frame.Pix[i : i+4 : i+4]
	return pixel.New(x, y, pixel.RGBA(s[0], s[1], s[2], s[3]))
}

var registry = map[string]func() Serializer{
	"row":    func() Serializer { return Row{} },
	"column": func() Serializer { return Column{} },
	"random": func() Serializer { return NewRandom() },
}

// Parse returns a new serializer by name.
func Parse(name string) (Serializer, error) {
	mk, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return mk(), nil
}

// Names lists the registered serializers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
