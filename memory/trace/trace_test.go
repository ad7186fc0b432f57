package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallersCapturesThisFunction(t *testing.T) {
	r := Callers(0, 8)
	frames := r.Capture()
	require.NotEmpty(t, frames)
	require.Contains(t, frames[0], "TestCallersCapturesThisFunction",
		"innermost frame should be the caller of Capture")
	require.Contains(t, frames[0], "trace_test.go")
}

func TestCallersDepthClamp(t *testing.T) {
	r := Callers(0, 1)
	require.Len(t, r.Capture(), 1)

	// Out-of-range depths fall back to MaxDepth rather than failing.
	r = Callers(0, -5)
	require.NotEmpty(t, r.Capture())
	require.LessOrEqual(t, len(r.Capture()), MaxDepth)
}

func TestCallersSkip(t *testing.T) {
	inner := func() []string {
		return Callers(1, 8).Capture()
	}
	frames := inner()
	require.NotEmpty(t, frames)
	// skip=1 drops the inner closure, leaving this test as the top frame.
	require.Contains(t, frames[0], "TestCallersSkip")
}
