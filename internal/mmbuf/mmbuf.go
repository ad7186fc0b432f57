// Package mmbuf supplies arena buffers backed by memory mappings for
// deployments that want the arena outside the Go heap: a file-backed
// mapping gives a persistent arena image, an anonymous mapping gives a
// page-aligned region that can be locked into RAM so key material never
// reaches swap.
package mmbuf

import "errors"

// ErrUnsupported indicates memory mappings are not available on this platform.
var ErrUnsupported = errors.New("mmbuf: memory mappings not supported on this platform")
