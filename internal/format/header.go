package format

import "fmt"

// Header is the decoded form of a block header.
//
// A Header is a plain value; mutating it does not touch the arena until it is
// written back with WriteHeader. Size is the payload size and excludes the
// header bytes, matching the on-buffer field.
type Header struct {
	Magic1 uint32
	Size   uint32
	Alloc  uint32
	Prev   uint32
	Next   uint32
	Magic2 uint32
}

// Valid reports whether both sentinels match and the allocation flag holds a
// legal value. It does not inspect the links; chain-level checks belong to
// the verify package.
func (h Header) Valid() bool {
	return h.Magic1 == Magic1 && h.Magic2 == Magic2 && h.Alloc <= 1
}

// Free reports whether the block is marked free.
func (h Header) Free() bool { return h.Alloc == 0 }

// End returns the offset one past the block, i.e. where the next header must
// start for the chain to partition the arena.
func (h Header) End(off uint32) uint32 {
	return off + HeaderSize + h.Size
}

// ReadHeader decodes the block header at off. The caller must ensure off is a
// plausible header position; out-of-bounds reads return an error rather than
// panicking so callers can apply their own fatality policy.
func ReadHeader(b []byte, off uint32) (Header, error) {
	if int(off)+HeaderSize > len(b) {
		return Header{}, fmt.Errorf("format: header at %#x exceeds arena of %d bytes", off, len(b))
	}
	o := int(off)
	return Header{
		Magic1: ReadU32(b, o+Magic1Offset),
		Size:   ReadU32(b, o+SizeOffset),
		Alloc:  ReadU32(b, o+AllocOffset),
		Prev:   ReadU32(b, o+PrevOffset),
		Next:   ReadU32(b, o+NextOffset),
		Magic2: ReadU32(b, o+Magic2Offset),
	}, nil
}

// WriteHeader encodes h at off. Bounds are the caller's responsibility; the
// allocator only writes headers at offsets it carved itself.
func WriteHeader(b []byte, off uint32, h Header) {
	o := int(off)
	PutU32(b, o+Magic1Offset, h.Magic1)
	PutU32(b, o+SizeOffset, h.Size)
	PutU32(b, o+AllocOffset, h.Alloc)
	PutU32(b, o+PrevOffset, h.Prev)
	PutU32(b, o+NextOffset, h.Next)
	PutU32(b, o+Magic2Offset, h.Magic2)
}

// ClearHeader zeroes the header record at off. Used when a block is absorbed
// by a neighbour so the stale sentinels cannot be mistaken for a live header.
func ClearHeader(b []byte, off uint32) {
	for i := int(off); i < int(off)+HeaderSize; i++ {
		b[i] = 0
	}
}
