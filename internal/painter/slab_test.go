package painter

import (
	"errors"
	"image"
	"image/color"
	"iter"
	"strings"
	"testing"

	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

func solidImg(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// patternImg gives every cell a distinct opaque color.
func patternImg(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: uint8(x + y), A: 255})
		}
	}
	return img
}

var red = color.NRGBA{R: 0xFF, A: 0xFF}

func parseSlab(t *testing.T, slab []byte) []pixel.Pixel {
	t.Helper()
	var out []pixel.Pixel
	for _, line := range strings.SplitAfter(string(slab), "\n") {
		if line == "" {
			continue
		}
		p, err := pixel.ParseCommand([]byte(line))
		if err != nil {
			t.Fatalf("slab line %q: %v", line, err)
		}
		if !strings.HasSuffix(line, "\n") {
			t.Fatalf("slab line %q: missing newline", line)
		}
		out = append(out, p)
	}
	return out
}

func coords(ps []pixel.Pixel) []pixel.Coordinate {
	out := make([]pixel.Coordinate, len(ps))
	for i, p := range ps {
		out[i] = p.Coordinate
	}
	return out
}

func TestSlabSolidRed(t *testing.T) {
	slabs, err := formatSlabs(solidImg(2, 2, red), serializer.Row{}, 1, pixel.Coordinate{})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	want := "PX 0 0 ff0000\nPX 1 0 ff0000\nPX 0 1 ff0000\nPX 1 1 ff0000\n"
	if len(slabs) != 1 || string(slabs[0]) != want {
		t.Errorf("got %q, want %q", slabs, want)
	}
}

func TestSlabOffset(t *testing.T) {
	slabs, err := formatSlabs(solidImg(2, 2, red), serializer.Row{}, 1, pixel.Coordinate{X: 100, Y: 200})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	want := "PX 100 200 ff0000\nPX 101 200 ff0000\nPX 100 201 ff0000\nPX 101 201 ff0000\n"
	if string(slabs[0]) != want {
		t.Errorf("got %q, want %q", slabs[0], want)
	}
}

func TestSlabSkipsTransparent(t *testing.T) {
	frame := solidImg(2, 2, red)
	frame.SetNRGBA(1, 0, color.NRGBA{R: 0xFF})
	slabs, err := formatSlabs(frame, serializer.Row{}, 1, pixel.Coordinate{})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	want := "PX 0 0 ff0000\nPX 0 1 ff0000\nPX 1 1 ff0000\n"
	if string(slabs[0]) != want {
		t.Errorf("got %q, want %q", slabs[0], want)
	}
}

func TestSlabRowsPerStream(t *testing.T) {
	slabs, err := formatSlabs(patternImg(3, 3), serializer.Row{}, 3, pixel.Coordinate{})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	for i, slab := range slabs {
		got := coords(parseSlab(t, slab))
		want := []pixel.Coordinate{{X: 0, Y: i}, {X: 1, Y: i}, {X: 2, Y: i}}
		if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
			t.Errorf("slab %d: got %v, want %v", i, got, want)
		}
	}
}

func TestSlabRemainderGoesLast(t *testing.T) {
	slabs, err := formatSlabs(patternImg(4, 1), serializer.Row{}, 3, pixel.Coordinate{})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	for i, want := range []int{1, 1, 2} {
		if got := len(parseSlab(t, slabs[i])); got != want {
			t.Errorf("slab %d: got %d pixels, want %d", i, got, want)
		}
	}
}

func TestSlabMoreStreamsThanPixels(t *testing.T) {
	slabs, err := formatSlabs(patternImg(2, 1), serializer.Row{}, 4, pixel.Coordinate{})
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	for i, want := range []int{0, 0, 0, 2} {
		if got := len(parseSlab(t, slabs[i])); got != want {
			t.Errorf("slab %d: got %d pixels, want %d", i, got, want)
		}
	}
}

func TestSlabPartitionSizes(t *testing.T) {
	frame := patternImg(7, 5)
	total := 35
	for n := 1; n <= 9; n++ {
		slabs, err := formatSlabs(frame, serializer.Column{}, n, pixel.Coordinate{})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		per := total / n
		for i, slab := range slabs {
			want := per
			if i == n-1 {
				want = total - (n-1)*per
			}
			if got := len(parseSlab(t, slab)); got != want {
				t.Errorf("n=%d slab %d: got %d pixels, want %d", n, i, got, want)
			}
		}
	}
}

// Concatenated slabs carry every visible pixel exactly once, translated by the offset.
func TestSlabsCoverFrame(t *testing.T) {
	frame := patternImg(9, 7)
	frame.SetNRGBA(4, 4, color.NRGBA{})
	frame.SetNRGBA(0, 6, color.NRGBA{G: 9})
	offset := pixel.Coordinate{X: 13, Y: 21}

	slabs, err := formatSlabs(frame, serializer.NewRandom(), 5, offset)
	if err != nil {
		t.Fatalf("formatSlabs: %v", err)
	}
	seen := map[pixel.Coordinate]pixel.Color{}
	for _, slab := range slabs {
		for _, p := range parseSlab(t, slab) {
			if _, dup := seen[p.Coordinate]; dup {
				t.Fatalf("duplicate %v", p.Coordinate)
			}
			seen[p.Coordinate] = p.Color
		}
	}
	if len(seen) != 9*7-2 {
		t.Fatalf("pixels: got %d, want %d", len(seen), 9*7-2)
	}
	for y := 0; y < 7; y++ {
		for x := 0; x < 9; x++ {
			c := pixel.FromNRGBA(frame.NRGBAAt(x, y))
			got, ok := seen[pixel.Coordinate{X: x, Y: y}.Add(offset)]
			if c.Transparent() {
				if ok {
					t.Errorf("transparent (%d,%d) was emitted", x, y)
				}
				continue
			}
			if !ok || got != c {
				t.Errorf("(%d,%d): got %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestSlabOffsetShiftsOnly(t *testing.T) {
	frame := patternImg(5, 4)
	base, err := formatSlabs(frame, serializer.Row{}, 2, pixel.Coordinate{})
	if err != nil {
		t.Fatal(err)
	}
	delta := pixel.Coordinate{X: 7, Y: 3}
	moved, err := formatSlabs(frame, serializer.Row{}, 2, delta)
	if err != nil {
		t.Fatal(err)
	}
	for i := range base {
		a, b := parseSlab(t, base[i]), parseSlab(t, moved[i])
		if len(a) != len(b) {
			t.Fatalf("slab %d: lengths differ", i)
		}
		for j := range a {
			if b[j].Coordinate != a[j].Coordinate.Add(delta) || b[j].Color != a[j].Color {
				t.Errorf("slab %d pixel %d: %v vs %v", i, j, a[j], b[j])
			}
		}
	}
}

type shortSerializer struct{}

func (shortSerializer) Name() string                     { return "short" }
func (shortSerializer) Duplicate() serializer.Serializer { return shortSerializer{} }
func (shortSerializer) Serialize(*image.NRGBA) iter.Seq[pixel.Pixel] {
	return func(yield func(pixel.Pixel) bool) {
		yield(pixel.New(0, 0, pixel.RGB(1, 1, 1)))
	}
}

func TestSlabPixelCountMismatch(t *testing.T) {
	_, err := formatSlabs(patternImg(2, 2), shortSerializer{}, 2, pixel.Coordinate{})
	if !errors.Is(err, ErrPixelCountMismatch) {
		t.Fatalf("got %v, want ErrPixelCountMismatch", err)
	}
}

func BenchmarkFormatSlabs(b *testing.B) {
	frame := patternImg(320, 240)
	s := serializer.NewRandom()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := formatSlabs(frame, s, 8, pixel.Coordinate{X: 100, Y: 100}); err != nil {
			b.Fatal(err)
		}
	}
}
