package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Hev-TOMU/mbed-crypto/internal/mmbuf"
	"github.com/Hev-TOMU/mbed-crypto/memory"
	"github.com/Hev-TOMU/mbed-crypto/memory/buffer"
	"github.com/Hev-TOMU/mbed-crypto/memory/trace"
)

var (
	stressSize     int
	stressOps      int
	stressMaxAlloc int
	stressSeed     int64
	stressMmap     string
	stressVerify   bool
	stressTrace    bool
	stressDump     bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressSize, "size", 1<<20, "Arena size in bytes")
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of allocate/release operations")
	cmd.Flags().IntVar(&stressMaxAlloc, "max-alloc", 1024, "Largest single allocation in bytes")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload RNG seed")
	cmd.Flags().StringVar(&stressMmap, "mmap", "", "Back the arena with a file mapping at this path")
	cmd.Flags().BoolVar(&stressVerify, "verify", false, "Run full-chain verification after every operation")
	cmd.Flags().BoolVar(&stressTrace, "trace", false, "Record allocation call sites")
	cmd.Flags().BoolVar(&stressDump, "dump", false, "Dump the final block chain")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocate/release workload",
		Long: `The stress command drives an arena with a reproducible random
workload, then reports utilization, fragmentation and chain health.

Example:
  memctl stress --size 1048576 --ops 250000 --seed 7
  memctl stress --mmap arena.img --verify --dump`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

func runStress() error {
	log := logger()

	var buf []byte
	if stressMmap != "" {
		m, err := mmbuf.Map(stressMmap, stressSize)
		if err != nil {
			return fmt.Errorf("mapping arena: %w", err)
		}
		defer m.Close()
		buf = m.Bytes()
		log.Debug("arena mapped", "path", stressMmap, "size", stressSize)
	} else {
		buf = make([]byte, stressSize)
	}

	opts := []buffer.Option{}
	if stressVerify {
		opts = append(opts, buffer.WithVerify(buffer.VerifyAlways))
	}
	if stressTrace {
		opts = append(opts, buffer.WithRecorder(trace.Callers(0, 8)))
	}
	a, err := buffer.New(buf, opts...)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(stressSeed))
	live := make([]memory.Ref, 0, 1024)
	var allocs, frees, oom int

	for i := 0; i < stressOps; i++ {
		if len(live) > 0 && rng.Intn(2) == 0 {
			j := rng.Intn(len(live))
			a.Free(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			frees++
			continue
		}
		n := 1 + rng.Intn(stressMaxAlloc)
		ref, _, err := a.Alloc(n)
		if err != nil {
			// Fatal conditions abort before reaching here; an error is
			// the ordinary out-of-memory path.
			oom++
			continue
		}
		live = append(live, ref)
		allocs++
	}

	for _, ref := range live {
		a.Free(ref)
	}

	if err := a.Verify(); err != nil {
		return fmt.Errorf("chain verification failed after workload: %w", err)
	}

	s := a.Stats()
	printInfo("arena      %s\n", humanize.IBytes(uint64(a.Len())))
	printInfo("operations %d (%d allocs, %d frees, %d out-of-memory)\n",
		stressOps, allocs, frees, oom)
	printInfo("blocks     %d (%d free, %d used)\n", s.BlockCount, s.FreeBlocks, s.UsedBlocks)
	printInfo("free       %s (largest contiguous %s)\n",
		humanize.IBytes(uint64(s.FreeBytes)), humanize.IBytes(uint64(s.LargestFree)))
	printInfo("verify     ok\n")

	if stressDump {
		a.WriteStatus(os.Stdout)
	}
	return nil
}

// printInfo prints an info message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
