//go:build !unix

package mmbuf

// Buffer is a plain heap-backed region on platforms without mmap support.
// Map is unavailable; Anonymous degrades to a regular allocation so callers
// keep working, just without the persistence and mlock guarantees.
type Buffer struct {
	data []byte
}

// Map is not supported on this platform.
func Map(path string, size int) (*Buffer, error) {
	return nil, ErrUnsupported
}

// Anonymous returns a heap-backed buffer of the given size.
func Anonymous(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, ErrUnsupported
	}
	return &Buffer{data: make([]byte, size)}, nil
}

// Bytes returns the region.
func (b *Buffer) Bytes() []byte { return b.data }

// Sync is a no-op without a backing mapping.
func (b *Buffer) Sync() error { return nil }

// Lock is unavailable without mmap; callers treat the error as advisory.
func (b *Buffer) Lock() error { return ErrUnsupported }

// Unlock mirrors Lock.
func (b *Buffer) Unlock() error { return nil }

// Close scrubs the region.
func (b *Buffer) Close() error {
	for i := range b.data {
		b.data[i] = 0
	}
	b.data = nil
	return nil
}
