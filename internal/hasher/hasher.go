package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// SlabDigest is the xxHash64 of a slab. Two slabs with the same digest are
// treated as identical, so an unchanged share is not re-delivered.
func SlabDigest(slab []byte) uint64 {
	return xxhash.Sum64(slab)
}

// FrameDigest hashes raw raster bytes and returns hexLen hex chars (all 16
// when hexLen is out of range). Used to tag frames in logs and reports.
func FrameDigest(pix []byte, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64(pix)))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
