package buffer

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/Hev-TOMU/mbed-crypto/internal/format"
)

// WriteStatus writes a human-readable dump of every block in the chain,
// including recorded call sites when capture is enabled. Purely
// observational; it is what the default abort handler prints before
// terminating and what memctl renders for inspection.
func (a *Allocator) WriteStatus(w io.Writer) {
	if a.data == nil {
		fmt.Fprintln(w, "arena: not initialized")
		return
	}

	s := a.Stats()
	if s.UsedBlocks == 0 {
		fmt.Fprintf(w, "arena: %s, all memory de-allocated\n",
			humanize.IBytes(uint64(len(a.data))))
	} else {
		fmt.Fprintf(w, "arena: %s, %d block(s) allocated (%s in use)\n",
			humanize.IBytes(uint64(len(a.data))), s.UsedBlocks,
			humanize.IBytes(uint64(s.UsedBytes)))
	}

	off := a.head
	for {
		hdr, err := format.ReadHeader(a.data, off)
		if err != nil {
			fmt.Fprintf(w, "  !! unreadable header at %#x: %v\n", off, err)
			return
		}

		state := "free"
		if !hdr.Free() {
			state = "used"
		}
		fmt.Fprintf(w, "  %#08x  %s  size=%-10d prev=%s next=%s",
			off, state, hdr.Size, refString(hdr.Prev), refString(hdr.Next))
		if !hdr.Valid() {
			fmt.Fprint(w, "  !! invalid header")
		}
		fmt.Fprintln(w)

		for _, site := range a.sites[off] {
			fmt.Fprintf(w, "      %s\n", site)
		}

		if hdr.Next == format.NilOff {
			return
		}
		off = hdr.Next
	}
}

func refString(off uint32) string {
	if off == format.NilOff {
		return "nil"
	}
	return fmt.Sprintf("%#x", off)
}
