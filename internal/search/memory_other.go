//go:build !linux

package search

// totalMemory is unknown here; allocation failures are still recovered.
func totalMemory() uint64 {
	return 0
}
