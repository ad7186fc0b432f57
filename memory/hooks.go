package memory

import "errors"

// ErrNoAllocator indicates a package-level Alloc before any Install call.
var ErrNoAllocator = errors.New("memory: no allocator installed")

// current is the process-wide allocation hook. Explicit injection of an
// Allocator into each consumer is the preferred wiring; the hook exists for
// embedders that want a drop-in replacement for the global heap without
// threading an allocator through every call site.
var current Allocator

// Install sets a as the implementation behind the package-level Alloc and
// Free. Passing nil uninstalls the hook. Install must not race with in-flight
// Alloc or Free calls; like the allocator itself it relies on external
// serialization.
func Install(a Allocator) {
	current = a
}

// Installed returns the allocator behind the package-level hook, or nil.
func Installed() Allocator {
	return current
}

// Alloc routes through the installed allocator.
func Alloc(n int) (Ref, []byte, error) {
	if current == nil {
		return NilRef, nil, ErrNoAllocator
	}
	return current.Alloc(n)
}

// Free routes through the installed allocator. Before Install it is a no-op,
// so teardown paths that free on a best-effort basis stay safe.
func Free(ref Ref) {
	if current == nil {
		return
	}
	current.Free(ref)
}
