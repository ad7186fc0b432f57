package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hev-TOMU/mbed-crypto/internal/format"
)

// abortRecorder stands in for the default abort handler so fatal paths can
// be asserted on instead of terminating the test binary.
type abortRecorder struct {
	errs []error
}

func (r *abortRecorder) handle(err error) {
	r.errs = append(r.errs, err)
}

func (r *abortRecorder) last() error {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

// newTestArena builds an allocator over a fresh buffer of the given size
// with a recording abort handler installed.
func newTestArena(t *testing.T, size int, opts ...Option) (*Allocator, *abortRecorder) {
	t.Helper()

	rec := &abortRecorder{}
	opts = append([]Option{WithAbortHandler(rec.handle)}, opts...)
	a, err := New(make([]byte, size), opts...)
	require.NoError(t, err, "New should accept a %d-byte buffer", size)
	return a, rec
}

// assertInvariants checks the chain verifies cleanly and that every arena
// byte is accounted for exactly once (conservation).
func assertInvariants(t *testing.T, a *Allocator) {
	t.Helper()

	require.NoError(t, a.Verify(), "chain must verify")
	s := a.Stats()
	require.Equal(t, a.Len(), s.FreeBytes+s.UsedBytes+s.HeaderBytes,
		"headers plus payloads must cover the arena exactly")
	require.Equal(t, s.BlockCount, s.FreeBlocks+s.UsedBlocks)
	require.Equal(t, s.BlockCount*format.HeaderSize, s.HeaderBytes)
}

// mustAlloc allocates or fails the test.
func mustAlloc(t *testing.T, a *Allocator, n int) uint32 {
	t.Helper()

	ref, payload, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d) should succeed", n)
	require.NotZero(t, ref)
	require.GreaterOrEqual(t, len(payload), n)
	return ref
}
