package painter

import (
	"errors"
	"fmt"
	"image"

	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

// ErrPixelCountMismatch means a serializer yielded a different number of
// pixels than the frame holds. The dispatcher treats it as fatal.
var ErrPixelCountMismatch = errors.New("pixel count mismatch")

// formatSlabs serializes frame and splits the PX lines into count slabs.
// Each slab takes total/count consecutive pixels from the sequence; the
// remainder goes to the last slab. Transparent pixels count toward their
// slab's share but add no bytes.
func formatSlabs(frame *image.NRGBA, s serializer.Serializer, count int, offset pixel.Coordinate) ([][]byte, error) {
	if count <= 0 {
		return nil, nil
	}
	total := frame.Rect.Dx() * frame.Rect.Dy()
	per := total / count
	rem := total - per*count

	slabs := make([][]byte, count)
	for i := range slabs {
		share := per
		if i == count-1 {
			share += rem
		}
		slabs[i] = make([]byte, 0, share*pixel.ByteEstimate)
	}

	n := 0
	for p := range s.Serialize(frame) {
		i := count - 1
		if per > 0 && n/per < count {
			i = n / per
		}
		p.Coordinate = p.Coordinate.Add(offset)
		slabs[i] = p.AppendCommand(slabs[i])
		n++
	}
	if n != total {
		return nil, fmt.Errorf("%w: %s serializer yielded %d of %d pixels", ErrPixelCountMismatch, s.Name(), n, total)
	}
	return slabs, nil
}
