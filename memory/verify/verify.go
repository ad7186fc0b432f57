package verify

import (
	"fmt"

	"github.com/Hev-TOMU/mbed-crypto/internal/format"
)

// ValidationError describes a single failed invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Header validates the sentinels and allocation flag of the block header at
// off. It performs no chain-level checks.
func Header(data []byte, off uint32) error {
	hdr, err := format.ReadHeader(data, off)
	if err != nil {
		return &ValidationError{
			Type:    "Header",
			Message: err.Error(),
			Offset:  int(off),
		}
	}
	return checkHeader(hdr, off)
}

func checkHeader(hdr format.Header, off uint32) error {
	if hdr.Magic1 != format.Magic1 {
		return &ValidationError{
			Type:    "Header",
			Message: "magic1 mismatch",
			Offset:  int(off),
			Details: map[string]interface{}{
				"got":      hdr.Magic1,
				"expected": format.Magic1,
			},
		}
	}
	if hdr.Magic2 != format.Magic2 {
		return &ValidationError{
			Type:    "Header",
			Message: "magic2 mismatch",
			Offset:  int(off),
			Details: map[string]interface{}{
				"got":      hdr.Magic2,
				"expected": format.Magic2,
			},
		}
	}
	if hdr.Alloc > 1 {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("allocation flag has illegal value %d", hdr.Alloc),
			Offset:  int(off),
		}
	}
	return nil
}

// Chain walks the block chain from head to tail and returns the first
// invariant violation found, or nil when the arena is consistent.
//
// Beyond the per-header checks it verifies the back-links, that each block
// starts exactly where its predecessor ends, and that the final block ends
// exactly at the arena boundary. Progress through the chain is strictly
// monotonic, so a corrupted next link cannot trap the walk in a cycle.
func Chain(data []byte, head uint32) error {
	if head != 0 {
		return &ValidationError{
			Type:    "Chain",
			Message: "head block does not sit at the arena base",
			Offset:  int(head),
		}
	}
	hdr, err := format.ReadHeader(data, head)
	if err != nil {
		return &ValidationError{Type: "Chain", Message: err.Error(), Offset: int(head)}
	}
	if err := checkHeader(hdr, head); err != nil {
		return err
	}
	if hdr.Prev != format.NilOff {
		return &ValidationError{
			Type:    "Chain",
			Message: "head block has a back-link",
			Offset:  int(head),
			Details: map[string]interface{}{"prev": hdr.Prev},
		}
	}

	prev := head
	for hdr.Next != format.NilOff {
		off := hdr.Next
		if want := hdr.End(prev); off != want {
			return &ValidationError{
				Type:    "Chain",
				Message: "block does not start at predecessor's end",
				Offset:  int(off),
				Details: map[string]interface{}{
					"got":      off,
					"expected": want,
				},
			}
		}

		hdr, err = format.ReadHeader(data, off)
		if err != nil {
			return &ValidationError{Type: "Chain", Message: err.Error(), Offset: int(off)}
		}
		if err := checkHeader(hdr, off); err != nil {
			return err
		}
		if hdr.Prev != prev {
			return &ValidationError{
				Type:    "Chain",
				Message: "back-link does not match previous block",
				Offset:  int(off),
				Details: map[string]interface{}{
					"got":      hdr.Prev,
					"expected": prev,
				},
			}
		}
		prev = off
	}

	if end := hdr.End(prev); int(end) != len(data) {
		return &ValidationError{
			Type:    "Chain",
			Message: "tail block does not end at arena boundary",
			Offset:  int(prev),
			Details: map[string]interface{}{
				"got":      end,
				"expected": len(data),
			},
		}
	}
	return nil
}
