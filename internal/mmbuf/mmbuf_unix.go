//go:build unix

package mmbuf

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Buffer is a mapped memory region usable as an allocator arena.
type Buffer struct {
	f      *os.File // nil for anonymous mappings
	data   []byte
	locked bool
}

// Map creates (or truncates) the file at path to size bytes and maps it
// read-write and shared, so the arena survives as an on-disk image across
// Sync calls.
func Map(path string, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmbuf: invalid mapping size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Buffer{f: f, data: data}, nil
}

// Anonymous maps a private region with no backing file. Pair with Lock to
// keep a key-bearing arena out of swap.
func Anonymous(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmbuf: invalid mapping size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data}, nil
}

// Bytes returns the mapped region. The slice aliases the mapping and is
// invalid after Close.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Sync flushes the mapping to its backing file. No-op for anonymous
// mappings.
func (b *Buffer) Sync() error {
	if b.f == nil {
		return nil
	}
	return unix.Msync(b.data, unix.MS_SYNC)
}

// Lock pins the mapping into RAM so it cannot be written to swap.
func (b *Buffer) Lock() error {
	if b.locked {
		return nil
	}
	if err := unix.Mlock(b.data); err != nil {
		return err
	}
	b.locked = true
	return nil
}

// Unlock releases the RAM pin.
func (b *Buffer) Unlock() error {
	if !b.locked {
		return nil
	}
	if err := unix.Munlock(b.data); err != nil {
		return err
	}
	b.locked = false
	return nil
}

// Close scrubs and unmaps the region and closes the backing file if any.
// Double close is a no-op.
func (b *Buffer) Close() error {
	if b.data == nil {
		return nil
	}
	for i := range b.data {
		b.data[i] = 0
	}
	if b.locked {
		// Unlock before unmap; failure here does not block teardown.
		_ = unix.Munlock(b.data)
		b.locked = false
	}
	err := unix.Munmap(b.data)
	b.data = nil
	if errors.Is(err, unix.EINVAL) {
		err = nil
	}
	if b.f != nil {
		if cerr := b.f.Close(); err == nil {
			err = cerr
		}
		b.f = nil
	}
	return err
}
