package hipmath

import (
	"fmt"
	"runtime"
	"sync"
)

// launchInternal implements the core kernel execution logic
func (ctx *Context) launchInternal(
	kernelFunc func(ThreadID, ...interface{}),
	grid, block Dim3,
	stream *Stream,
	args ...interface{},
) error {
	if stream == nil {
		return NewInvalidArgError("Launch", "nil stream")
	}
	if grid.X < 0 || grid.Y < 0 || grid.Z < 0 || block.X < 0 || block.Y < 0 || block.Z < 0 {
		return NewInvalidArgError("Launch", fmt.Sprintf("negative launch dimensions grid=%v block=%v", grid, block))
	}
	grid = grid.normalize()
	block = block.normalize()

	gridSize := grid.Size()
	blockSize := block.Size()
	if blockSize > MaxThreadsPerBlock {
		return NewInvalidArgError("Launch", fmt.Sprintf("block of %d threads exceeds %d", blockSize, MaxThreadsPerBlock))
	}

	numWorkers := runtime.NumCPU()
	if gridSize < numWorkers {
		numWorkers = gridSize
	}

	// Each worker owns a contiguous run of blocks.
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for workerID := 0; workerID < numWorkers; workerID++ {
			startBlock := workerID * blocksPerWorker
			endBlock := startBlock + blocksPerWorker
			if endBlock > gridSize {
				endBlock = gridSize
			}

			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						stream.fail(NewExecutionError("Kernel", fmt.Sprintf("kernel panicked: %v", r), ErrKernelFailed))
					}
				}()

				for blockID := startBlock; blockID < endBlock; blockID++ {
					blockIdx := linearTo3D(blockID, grid)

					// Threads of a block run sequentially on one goroutine.
					for threadID := 0; threadID < blockSize; threadID++ {
						tid := ThreadID{
							BlockIdx:  blockIdx,
							ThreadIdx: linearTo3D(threadID, block),
							BlockDim:  block,
							GridDim:   grid,
						}
						kernelFunc(tid, args...)
					}
				}
			}()
		}

		wg.Wait()
	})

	return nil
}

// linearTo3D converts a linear index to 3D coordinates
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}

// ParallelMap runs fn for every index in [0, n) on exec and returns once all
// of them completed. It is the launch-then-wait pattern every check uses.
func ParallelMap(exec Executor, n int, fn func(i int)) error {
	if n < 0 {
		return NewInvalidArgError("ParallelMap", fmt.Sprintf("negative range %d", n))
	}
	if n == 0 {
		return nil
	}
	block := DefaultBlockSize
	if n < block {
		block = n
	}
	grid := Dim3{X: (n + block - 1) / block, Y: 1, Z: 1}

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		if idx := tid.Global(); idx < n {
			fn(idx)
		}
	})
	if err := exec.LaunchFunc(kernel, grid, Dim3{X: block, Y: 1, Z: 1}); err != nil {
		return err
	}
	return exec.Synchronize()
}
