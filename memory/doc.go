// Package memory defines the dynamic-memory contract the rest of the library
// builds on: the opaque block handle, the Allocator interface, and the
// process-level injection point that replaces the general-purpose heap with a
// caller-supplied arena.
//
// # Overview
//
// Components in this library never call the Go runtime allocator for
// protocol or key material directly. They request memory through an
// Allocator, either one handed to them explicitly (preferred) or the one
// installed process-wide with Install. The production implementation is
// memory/buffer, which serves every request from a single fixed buffer.
//
// # Handles
//
// A Ref is an opaque uint32 offset into the owning allocator's buffer.
// Refs replace raw pointers so that no component aliases allocator metadata;
// the zero Ref is the nil handle and is always safe to Free.
//
// # Thread Safety
//
// Neither the hook variables nor the buffer allocator synchronize
// internally. Callers that share an allocator across goroutines must wrap it
// with their own mutual exclusion.
package memory
