package buffer

import "github.com/Hev-TOMU/mbed-crypto/internal/format"

// Stats is a point-in-time summary of the chain. Every field is computed by
// a fresh walk when Stats is called; nothing is cached across mutations, so
// the numbers can never go stale.
type Stats struct {
	BlockCount  int // total blocks in the chain
	FreeBlocks  int
	UsedBlocks  int
	FreeBytes   int // payload bytes available across all free blocks
	UsedBytes   int // payload bytes handed out
	HeaderBytes int // bytes consumed by block headers
	LargestFree int // payload size of the largest single free block
}

// Stats walks the chain and summarizes it. On a consistent arena
// FreeBytes + UsedBytes + HeaderBytes equals the arena length.
func (a *Allocator) Stats() Stats {
	var s Stats
	if a.data == nil {
		return s
	}

	off := a.head
	for {
		hdr, err := format.ReadHeader(a.data, off)
		if err != nil {
			// A stats walk must stay observational; corruption surfaces
			// through Verify or the internal guards instead.
			return s
		}
		s.BlockCount++
		s.HeaderBytes += format.HeaderSize
		if hdr.Free() {
			s.FreeBlocks++
			s.FreeBytes += int(hdr.Size)
			if int(hdr.Size) > s.LargestFree {
				s.LargestFree = int(hdr.Size)
			}
		} else {
			s.UsedBlocks++
			s.UsedBytes += int(hdr.Size)
		}
		if hdr.Next == format.NilOff {
			return s
		}
		off = hdr.Next
	}
}

// Len returns the arena length in bytes.
func (a *Allocator) Len() int {
	return len(a.data)
}
