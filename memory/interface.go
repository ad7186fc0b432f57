package memory

// Allocator is the pair of primitive memory operations every component in
// the library routes dynamic requests through, plus a consistency probe.
//
// Implementations:
//   - memory/buffer.Allocator: fixed-arena allocator with first-fit search,
//     neighbour coalescing and sentinel-guarded headers.
//
// Alloc and Free must not be called concurrently; serialization is the
// caller's responsibility.
type Allocator interface {
	// Alloc returns a handle to a zeroed block of at least n bytes together
	// with the payload byte slice it denotes. Running out of arena space is
	// an ordinary failure returned as an error, not a fatal condition.
	Alloc(n int) (Ref, []byte, error)

	// Free releases the block behind ref. Freeing NilRef is a no-op.
	// Handing back a handle the allocator never issued, or the same handle
	// twice, is a memory-safety violation and is treated as fatal by the
	// implementation rather than returned as an error.
	Free(ref Ref)

	// Verify walks the allocator's internal structures and reports the
	// first inconsistency found, without mutating anything and without
	// applying the fatal-on-corruption policy.
	Verify() error
}
