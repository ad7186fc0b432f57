package memory

// Ref is an opaque handle to an allocated block: the uint32 offset of the
// block's payload within the owning allocator's buffer. Handles are only
// meaningful to the allocator that issued them.
type Ref = uint32

// NilRef is the nil handle. Freeing it is a no-op, mirroring free(NULL).
// No valid payload can sit at offset 0 because every payload is preceded by
// its header.
const NilRef Ref = 0
