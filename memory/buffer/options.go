package buffer

import "github.com/Hev-TOMU/mbed-crypto/memory/trace"

// VerifyMode selects when the allocator runs full-chain verification as an
// internal guard. Any failure under these guards is fatal; standalone
// verification via Verify never is.
type VerifyMode uint8

const (
	// VerifyNone disables the internal verification guards.
	VerifyNone VerifyMode = 0

	// VerifyAlloc verifies the whole chain after every allocation.
	VerifyAlloc VerifyMode = 1 << 0

	// VerifyFree verifies the whole chain after every release.
	VerifyFree VerifyMode = 1 << 1

	// VerifyAlways verifies after every mutation.
	VerifyAlways = VerifyAlloc | VerifyFree
)

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithVerify sets the initial verification mode. It can be changed later
// with SetVerify.
func WithVerify(mode VerifyMode) Option {
	return func(a *Allocator) { a.verify = mode }
}

// WithRecorder enables call-site capture for diagnostics. Each allocation
// records the frames returned by r; the frames are released when the block
// is freed or merged away. A nil recorder disables capture.
func WithRecorder(r trace.Recorder) Option {
	return func(a *Allocator) { a.rec = r }
}

// WithAbortHandler replaces the fatal-condition handler. The default writes
// the error and, when call-site capture is enabled, a status dump to stderr,
// then terminates the process. A custom handler that returns leaves the
// failed operation abandoned: the allocator makes no further writes on that
// call path, but the arena must be considered unusable.
func WithAbortHandler(fn func(error)) Option {
	return func(a *Allocator) { a.abort = fn }
}
