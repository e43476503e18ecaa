// Package hipmath configuration constants
package hipmath

// Thread and block dimensions
const (
	// Default block size for ParallelMap launches
	DefaultBlockSize = 256

	// Maximum threads per block (HIP compatibility)
	MaxThreadsPerBlock = 1024
)

// Memory pool parameters
const (
	// Memory alignment for allocations (cache line)
	MemoryAlignment = 64
)
