package hasher

import "testing"

func TestSlabDigest(t *testing.T) {
	a := []byte("PX 0 0 ff0000\n")
	b := []byte("PX 0 0 ff0000\n")
	c := []byte("PX 0 1 ff0000\n")
	if SlabDigest(a) != SlabDigest(b) {
		t.Error("equal slabs hash differently")
	}
	if SlabDigest(a) == SlabDigest(c) {
		t.Error("different slabs collide")
	}
}

func TestFrameDigestLength(t *testing.T) {
	pix := []byte{1, 2, 3, 4}
	if got := len(FrameDigest(pix, 8)); got != 8 {
		t.Errorf("hexLen 8: got %d chars", got)
	}
	if got := len(FrameDigest(pix, 0)); got != 16 {
		t.Errorf("hexLen 0: got %d chars", got)
	}
	if FrameDigest(pix, 8) != FrameDigest(pix, 16)[:8] {
		t.Error("truncated digest is not a prefix")
	}
}
