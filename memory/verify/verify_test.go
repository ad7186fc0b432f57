package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hev-TOMU/mbed-crypto/internal/format"
)

// buildChain writes a chain of blocks with the given payload sizes into a
// fresh arena buffer sized to fit them exactly. All blocks are marked free;
// tests flip flags as needed.
func buildChain(t *testing.T, sizes ...uint32) []byte {
	t.Helper()

	total := 0
	for _, s := range sizes {
		total += format.HeaderSize + int(s)
	}
	data := make([]byte, total)

	off := uint32(0)
	prev := format.NilOff
	for i, s := range sizes {
		next := format.NilOff
		if i < len(sizes)-1 {
			next = off + format.HeaderSize + s
		}
		format.WriteHeader(data, off, format.Header{
			Magic1: format.Magic1,
			Size:   s,
			Prev:   prev,
			Next:   next,
			Magic2: format.Magic2,
		})
		prev = off
		off += format.HeaderSize + s
	}
	return data
}

func TestChainValid(t *testing.T) {
	data := buildChain(t, 64, 32, 128)
	require.NoError(t, Chain(data, 0), "well-formed chain should verify")
}

func TestChainSingleBlock(t *testing.T) {
	data := buildChain(t, 96)
	require.NoError(t, Chain(data, 0))
}

func TestHeaderSentinelMismatch(t *testing.T) {
	data := buildChain(t, 64)

	format.PutU32(data, format.Magic1Offset, 0xDEADBEEF)
	err := Header(data, 0)
	require.Error(t, err, "corrupted magic1 must fail")
	require.Contains(t, err.Error(), "magic1 mismatch")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 0, verr.Offset)
	require.Equal(t, format.Magic1, verr.Details["expected"])
}

func TestHeaderTrailingSentinelMismatch(t *testing.T) {
	data := buildChain(t, 64)

	format.PutU32(data, format.Magic2Offset, 0)
	err := Header(data, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "magic2 mismatch")
}

func TestHeaderIllegalAllocFlag(t *testing.T) {
	data := buildChain(t, 64)

	format.PutU32(data, format.AllocOffset, 7)
	err := Chain(data, 0)
	require.Error(t, err, "allocation flag outside {0,1} must fail")
	require.Contains(t, err.Error(), "illegal value")
}

func TestChainHeadBackLink(t *testing.T) {
	data := buildChain(t, 64, 32)

	// Point the head's prev at itself.
	format.PutU32(data, format.PrevOffset, 0)
	err := Chain(data, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "head block has a back-link")
}

func TestChainBrokenBackLink(t *testing.T) {
	data := buildChain(t, 64, 32, 16)

	// Second block: corrupt its prev field.
	second := uint32(format.HeaderSize + 64)
	format.PutU32(data, int(second)+format.PrevOffset, 4)
	err := Chain(data, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "back-link does not match")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, int(second), verr.Offset)
}

func TestChainGapBetweenBlocks(t *testing.T) {
	data := buildChain(t, 64, 32)

	// Shrink the head's recorded size so its successor no longer starts at
	// the head's end.
	format.PutU32(data, format.SizeOffset, 56)
	err := Chain(data, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not start at predecessor's end")
}

func TestChainTailShort(t *testing.T) {
	data := buildChain(t, 64)

	// Arena longer than the chain claims.
	data = append(data, make([]byte, 8)...)
	err := Chain(data, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tail block does not end at arena boundary")
}

func TestChainNextOutOfBounds(t *testing.T) {
	data := buildChain(t, 64, 32)

	// Grow the head's size so the next link points past the arena. The
	// partition check rejects it before any out-of-bounds read happens.
	format.PutU32(data, format.SizeOffset, 1<<20)
	require.Error(t, Chain(data, 0))
}

func TestChainHeadNotAtBase(t *testing.T) {
	data := buildChain(t, 64)
	require.Error(t, Chain(data, 8))
}
