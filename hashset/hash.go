package hashset

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

func fold(h uint64) uint32 {
	return uint32(h>>32) ^ uint32(h)
}

// String hashes a string.
func String(s string) uint32 {
	return fold(xxhash.Sum64String(s))
}

// Bytes hashes a byte slice.
func Bytes(b []byte) uint32 {
	return fold(xxhash.Sum64(b))
}

// Int64 hashes an integer. Sequential integers come out well spread.
func Int64(v int64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return fold(xxhash.Sum64(buf[:]))
}
