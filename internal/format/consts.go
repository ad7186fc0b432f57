// Package format houses the low-level block header layout used by the
// buffer-based allocator. The goal is to keep the byte-level encoding focused
// and independent from the public API so higher-level packages can
// orchestrate the arena in a more ergonomic form.
package format

const (
	// Magic1 is the sentinel stored at the start of every block header.
	// A mismatch means the header was overwritten and the arena can no
	// longer be trusted.
	Magic1 uint32 = 0xFF00AA55

	// Magic2 is the sentinel stored at the end of every block header.
	// Together with Magic1 it brackets the header record so that both a
	// payload overflow from the previous block and a direct header
	// overwrite are detected.
	Magic2 uint32 = 0xEE119966

	// HeaderSize is the number of bytes used by the block header preceding
	// every payload (free or in-use) within the arena.
	//
	// Header layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    4     Magic1 sentinel.
	//	0x04    4     Payload size in bytes, excludes the header, always a
	//	              multiple of Alignment.
	//	0x08    4     Allocation flag. 0 => free, 1 => used.
	//	0x0C    4     Header offset of the previous block, NilOff for head.
	//	0x10    4     Header offset of the next block, NilOff for tail.
	//	0x14    4     Magic2 sentinel.
	HeaderSize = 24

	// Alignment is the required alignment of payload sizes. Fixed at build
	// time; requested sizes are rounded up to the next multiple.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning payload sizes
	// (Alignment - 1).
	AlignmentMask = Alignment - 1

	// NilOff marks the absence of a neighbour in the prev/next links.
	// It can never collide with a real header offset: the head block
	// always sits at offset 0 and arenas are bounded well below 4 GiB.
	NilOff uint32 = 0xFFFFFFFF

	// MinBuffer is the smallest arena that can hold one header plus one
	// alignment unit of payload.
	MinBuffer = HeaderSize + Alignment
)

// Field offsets within the block header.
const (
	Magic1Offset = 0x00
	SizeOffset   = 0x04
	AllocOffset  = 0x08
	PrevOffset   = 0x0C
	NextOffset   = 0x10
	Magic2Offset = 0x14
)
