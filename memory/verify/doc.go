// Package verify provides validation of the allocator's block chain.
//
// # Overview
//
// The block chain is a doubly linked, strictly address-ordered list of
// headers embedded in the arena buffer. This package walks that chain and
// checks every invariant the allocator relies on:
//
//   - Sentinels: each header's Magic1/Magic2 match the fixed constants
//   - Allocation flag: strictly 0 (free) or 1 (used)
//   - Back-links: each block's prev field names the previously visited
//     block; the head's prev is nil
//   - Partition: each block starts exactly where its predecessor ends and
//     the final block ends exactly at the arena boundary, so no byte is
//     orphaned or double-claimed
//
// Verification never mutates the arena and costs one linear walk. It is the
// single authority for "is the arena consistent": the allocator wraps it
// with a fatal-on-failure policy after mutations when the corresponding
// verify flag is set, and callers may invoke it standalone as a diagnostic
// without triggering termination.
//
// # ValidationError
//
// All checks report failure as *ValidationError carrying the error category,
// a human-readable message, the arena offset of the offending header and,
// where useful, a Details map with the observed versus expected values:
//
//	if err := verify.Chain(data, head); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at %#x: %s\n", verr.Type, verr.Offset, verr.Message)
//	    }
//	}
package verify
