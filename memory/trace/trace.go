// Package trace provides optional call-site capture for the allocator.
//
// Capture is a pluggable observer kept outside the allocation and free
// algorithms: the allocator invokes the configured Recorder once per
// allocation and stores the returned frames alongside the block, releasing
// them when the block is freed or merged. With no Recorder configured the
// hot paths never touch this package.
package trace

import (
	"fmt"
	"runtime"
)

// MaxDepth caps the number of frames a Recorder walks per capture.
const MaxDepth = 20

// Recorder produces a description of the current call site.
type Recorder interface {
	// Capture returns one string per stack frame, innermost first.
	Capture() []string
}

// callers records the live call stack via runtime.Callers.
type callers struct {
	skip  int
	depth int
}

// Callers returns a Recorder that walks the calling goroutine's stack.
// skip counts frames to drop above the allocator's own entry point; depth
// bounds the walk and is clamped to MaxDepth.
func Callers(skip, depth int) Recorder {
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}
	return &callers{skip: skip, depth: depth}
}

func (c *callers) Capture() []string {
	pcs := make([]uintptr, c.depth)
	// +2 skips runtime.Callers and Capture itself.
	n := runtime.Callers(c.skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}
	return out
}
