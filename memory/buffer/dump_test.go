package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hev-TOMU/mbed-crypto/memory/trace"
)

func TestWriteStatusFreshArena(t *testing.T) {
	a, _ := newTestArena(t, 4096)

	var sb strings.Builder
	a.WriteStatus(&sb)

	out := sb.String()
	assert.Contains(t, out, "all memory de-allocated")
	assert.Contains(t, out, "free")
	assert.NotContains(t, out, "used")
}

func TestWriteStatusShowsAllocations(t *testing.T) {
	a, _ := newTestArena(t, 4096)
	ref := mustAlloc(t, a, 64)

	var sb strings.Builder
	a.WriteStatus(&sb)

	out := sb.String()
	assert.Contains(t, out, "1 block(s) allocated")
	assert.Contains(t, out, "used")
	assert.Contains(t, out, "size=64")

	a.Free(ref)
}

func TestWriteStatusNotInitialized(t *testing.T) {
	var a Allocator
	var sb strings.Builder
	a.WriteStatus(&sb)
	assert.Contains(t, sb.String(), "not initialized")
}

// TestCallSiteCapture exercises the diagnostics observer end to end: the
// allocation records this test's frame, the dump shows it, and freeing the
// block releases it.
func TestCallSiteCapture(t *testing.T) {
	a, _ := newTestArena(t, 4096, WithRecorder(trace.Callers(0, 8)))

	ref := mustAlloc(t, a, 64)

	var sb strings.Builder
	a.WriteStatus(&sb)
	require.Contains(t, sb.String(), "dump_test.go", "dump must include the recorded call site")

	a.Free(ref)
	sb.Reset()
	a.WriteStatus(&sb)
	assert.NotContains(t, sb.String(), "dump_test.go", "sites are released with the block")
	assert.Empty(t, a.sites, "no site entries may outlive their blocks")
}

// TestCallSitesReleasedOnMerge frees blocks in an order that merges an
// allocated region away and checks its diagnostic record goes with it.
func TestCallSitesReleasedOnMerge(t *testing.T) {
	a, _ := newTestArena(t, 1024, WithRecorder(trace.Callers(0, 4)))

	p1 := mustAlloc(t, a, 64)
	p2 := mustAlloc(t, a, 64)

	a.Free(p2) // merges with tail
	a.Free(p1) // absorbs the merged free successor

	assert.Empty(t, a.sites)
	assertInvariants(t, a)
}
