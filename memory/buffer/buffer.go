// Package buffer implements a fixed-arena allocator that substitutes for the
// general-purpose heap: every allocation is carved out of a single
// caller-supplied byte buffer by first-fit search over a doubly linked,
// address-ordered block chain, and released blocks merge immediately with
// free neighbours.
//
// The allocator is built for memory-constrained crypto deployments, so the
// failure policy is fail-fast rather than fail-safe: any detected integrity
// violation (sentinel mismatch, illegal flag, broken link, out-of-range or
// double release) goes to the abort handler instead of being returned as an
// error, because continuing on a heap that can no longer be trusted risks
// silent key corruption. Running out of space, by contrast, is an ordinary
// failure the caller must handle.
//
// Allocator instances are not thread-safe; callers must serialize access
// externally.
package buffer

import (
	"fmt"
	"os"

	"github.com/Hev-TOMU/mbed-crypto/internal/format"
	"github.com/Hev-TOMU/mbed-crypto/memory"
	"github.com/Hev-TOMU/mbed-crypto/memory/trace"
	"github.com/Hev-TOMU/mbed-crypto/memory/verify"
)

// maxArena bounds the arena length so every header offset fits a uint32
// handle with headroom below format.NilOff.
const maxArena = 1<<31 - 1

// Allocator manages one fixed arena. The zero value is unusable; construct
// with New.
type Allocator struct {
	data   []byte
	head   uint32
	verify VerifyMode

	rec   trace.Recorder
	sites map[uint32][]string // header offset -> captured call sites

	abort func(error)
}

var _ memory.Allocator = (*Allocator)(nil)

// New takes exclusive ownership of buf for the allocator's lifetime,
// zero-fills it and seeds the chain with one free block spanning the whole
// arena. Buffers below the minimum viable size or beyond the addressable
// range are rejected with a recoverable error.
func New(buf []byte, opts ...Option) (*Allocator, error) {
	if len(buf) < format.MinBuffer {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrBufferTooSmall, len(buf), format.MinBuffer)
	}
	if len(buf) > maxArena {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooLarge, len(buf))
	}

	a := &Allocator{data: buf}
	for _, opt := range opts {
		opt(a)
	}
	a.reset()
	return a, nil
}

// Reset re-initializes the arena, silently discarding the previous chain.
// Handles issued before the reset become undefined if used afterwards; that
// is accepted as caller responsibility, not guarded.
func (a *Allocator) Reset() {
	if a.data == nil {
		return
	}
	a.reset()
}

func (a *Allocator) reset() {
	for i := range a.data {
		a.data[i] = 0
	}
	format.WriteHeader(a.data, 0, format.Header{
		Magic1: format.Magic1,
		Size:   uint32(len(a.data) - format.HeaderSize),
		Prev:   format.NilOff,
		Next:   format.NilOff,
		Magic2: format.Magic2,
	})
	a.head = 0
	if a.rec != nil {
		a.sites = make(map[uint32][]string)
	}
}

// SetVerify changes the verification mode at runtime.
func (a *Allocator) SetVerify(mode VerifyMode) {
	a.verify = mode
}

// Alloc carves a block of at least n bytes out of the arena and returns its
// handle plus the payload slice it denotes. The payload is always zeroed:
// the arena starts zero-filled and Free scrubs payloads before reuse.
//
// Selection is first-fit in address order, trading fragmentation for scan
// simplicity. When the leftover of the chosen block could not hold another
// header plus one alignment unit, the whole block is handed out instead of
// leaving an unusably small sliver.
func (a *Allocator) Alloc(n int) (memory.Ref, []byte, error) {
	if a.data == nil {
		return memory.NilRef, nil, ErrNotInitialized
	}
	if n <= 0 {
		return memory.NilRef, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	need := format.Align(n)
	if need > len(a.data)-format.HeaderSize {
		return memory.NilRef, nil, ErrNoSpace
	}

	// First-fit: the first free block in address order that is large enough.
	off := a.head
	var hdr format.Header
	for {
		var err error
		hdr, err = format.ReadHeader(a.data, off)
		if err != nil {
			a.fail(fmt.Errorf("%w: %v", ErrCorruption, err))
			return memory.NilRef, nil, ErrCorruption
		}
		if hdr.Free() && int(hdr.Size) >= need {
			break
		}
		if hdr.Next == format.NilOff {
			return memory.NilRef, nil, ErrNoSpace
		}
		off = hdr.Next
	}

	if rem := int(hdr.Size) - need; rem < format.MinBuffer {
		// Leftover too small to carry its own header; allocate as-is.
		hdr.Alloc = 1
		format.WriteHeader(a.data, off, hdr)
	} else {
		// Split: the candidate becomes exactly the rounded size and a new
		// free block header is written immediately after it.
		tail := off + format.HeaderSize + uint32(need)
		format.WriteHeader(a.data, tail, format.Header{
			Magic1: format.Magic1,
			Size:   uint32(rem - format.HeaderSize),
			Prev:   off,
			Next:   hdr.Next,
			Magic2: format.Magic2,
		})
		if hdr.Next != format.NilOff {
			a.setPrev(hdr.Next, tail)
		}
		hdr.Size = uint32(need)
		hdr.Alloc = 1
		hdr.Next = tail
		format.WriteHeader(a.data, off, hdr)
	}

	if a.rec != nil {
		a.sites[off] = a.rec.Capture()
	}
	if a.verify&VerifyAlloc != 0 {
		if err := verify.Chain(a.data, a.head); err != nil {
			a.fail(fmt.Errorf("%w after alloc: %v", ErrCorruption, err))
			return memory.NilRef, nil, ErrCorruption
		}
	}

	payload := a.data[off+format.HeaderSize : hdr.End(off)]
	return off + format.HeaderSize, payload, nil
}

// Free releases the block behind ref, scrubs its payload and merges it with
// free neighbours. At most two merges happen per call; there is no global
// compaction pass. Freeing NilRef is a no-op. Everything else that does not
// name a live allocated block is a fatal condition.
func (a *Allocator) Free(ref memory.Ref) {
	if ref == memory.NilRef || a.data == nil {
		return
	}
	if ref < format.HeaderSize || int(ref) > len(a.data) {
		a.fail(fmt.Errorf("%w: handle %#x outside managed arena", ErrInvalidRelease, ref))
		return
	}

	off := ref - format.HeaderSize
	hdr, err := format.ReadHeader(a.data, off)
	if err != nil {
		a.fail(fmt.Errorf("%w: %v", ErrInvalidRelease, err))
		return
	}
	if hdr.Magic1 != format.Magic1 || hdr.Magic2 != format.Magic2 {
		a.fail(fmt.Errorf("%w: sentinel mismatch at %#x", ErrCorruption, off))
		return
	}
	if hdr.Alloc != 1 {
		a.fail(fmt.Errorf("%w: double release of handle %#x", ErrInvalidRelease, ref))
		return
	}
	end := hdr.End(off)
	if int(end) > len(a.data) {
		a.fail(fmt.Errorf("%w: block at %#x exceeds arena", ErrCorruption, off))
		return
	}

	// Scrub before the block rejoins the free chain so key material never
	// lingers in reusable memory.
	for i := ref; i < end; i++ {
		a.data[i] = 0
	}
	hdr.Alloc = 0
	delete(a.sites, off)

	// Coalesce-left: merge into a free predecessor.
	if hdr.Prev != format.NilOff {
		prev, err := format.ReadHeader(a.data, hdr.Prev)
		if err != nil {
			a.fail(fmt.Errorf("%w: %v", ErrCorruption, err))
			return
		}
		if prev.Free() {
			prev.Size += format.HeaderSize + hdr.Size
			prev.Next = hdr.Next
			if hdr.Next != format.NilOff {
				a.setPrev(hdr.Next, hdr.Prev)
			}
			format.ClearHeader(a.data, off)
			off = hdr.Prev
			hdr = prev
		}
	}

	// Coalesce-right: absorb a free successor.
	if hdr.Next != format.NilOff {
		next, err := format.ReadHeader(a.data, hdr.Next)
		if err != nil {
			a.fail(fmt.Errorf("%w: %v", ErrCorruption, err))
			return
		}
		if next.Free() {
			delete(a.sites, hdr.Next)
			absorbed := hdr.Next
			hdr.Size += format.HeaderSize + next.Size
			hdr.Next = next.Next
			if next.Next != format.NilOff {
				a.setPrev(next.Next, off)
			}
			format.ClearHeader(a.data, absorbed)
		}
	}

	format.WriteHeader(a.data, off, hdr)

	if a.verify&VerifyFree != 0 {
		if err := verify.Chain(a.data, a.head); err != nil {
			a.fail(fmt.Errorf("%w after free: %v", ErrCorruption, err))
		}
	}
}

// Verify runs the verification engine over the whole chain and reports the
// result without applying the fatal-on-failure policy, so callers can use it
// as a standalone diagnostic.
func (a *Allocator) Verify() error {
	if a.data == nil {
		return ErrNotInitialized
	}
	return verify.Chain(a.data, a.head)
}

// setPrev patches only the back-link field of the header at off.
func (a *Allocator) setPrev(off, prev uint32) {
	format.PutU32(a.data, int(off)+format.PrevOffset, prev)
}

// fail routes a fatal condition to the abort handler. The default handler
// does not return.
func (a *Allocator) fail(err error) {
	if a.abort != nil {
		a.abort(err)
		return
	}
	fmt.Fprintf(os.Stderr, "memory: fatal: %v\n", err)
	if a.rec != nil {
		a.WriteStatus(os.Stderr)
	}
	os.Exit(1)
}
