package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// The block header is stored little-endian regardless of host order so that
// a persisted arena (for example one backed by a file mapping) reads the
// same on every platform. binary.LittleEndian is inlined by the compiler, so
// there is no reason to reach for unsafe here.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
