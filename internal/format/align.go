package format

// Alignment utilities for the arena layout. Every payload size is rounded up
// to an Alignment multiple so that consecutive headers stay aligned too.

// Align returns n aligned up to the next Alignment boundary.
//
// Example:
//
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}
