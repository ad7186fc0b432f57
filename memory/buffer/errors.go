package buffer

import "errors"

// Recoverable failures: ordinary operating outcomes the caller must check.
var (
	// ErrBufferTooSmall indicates the supplied arena cannot hold even one
	// header plus one alignment unit of payload.
	ErrBufferTooSmall = errors.New("buffer: arena smaller than one block")

	// ErrBufferTooLarge indicates the supplied arena exceeds the range a
	// uint32 handle can address.
	ErrBufferTooLarge = errors.New("buffer: arena exceeds addressable range")

	// ErrBadSize indicates an allocation request for zero or negative bytes.
	ErrBadSize = errors.New("buffer: allocation size must be positive")

	// ErrNoSpace indicates no free block large enough was found. This is the
	// ordinary out-of-memory path; the chain is left untouched.
	ErrNoSpace = errors.New("buffer: no free block large enough")

	// ErrNotInitialized indicates an operation on a zero-value or released
	// allocator.
	ErrNotInitialized = errors.New("buffer: allocator not initialized")
)

// Fatal conditions: memory-safety violations routed to the abort handler,
// never downgraded to a recoverable error. They are exported so a custom
// handler can classify what it received with errors.Is.
var (
	// ErrCorruption indicates a sentinel mismatch, an illegal allocation
	// flag or a broken chain link.
	ErrCorruption = errors.New("buffer: arena corruption detected")

	// ErrInvalidRelease indicates a release of a handle outside the managed
	// arena or a double release.
	ErrInvalidRelease = errors.New("buffer: invalid release")
)
