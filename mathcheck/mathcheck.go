// Package mathcheck holds the device math function checks. Each check
// allocates its buffers, copies inputs to the device, launches a kernel
// calling one math intrinsic, copies the results back and compares them
// with exact equality.
package mathcheck

import (
	"github.com/LynnColeArt/hipmath"
)

// Reporter is the pass/fail protocol of the surrounding harness. Failed is
// expected to end the run; checks return right after calling it regardless.
type Reporter interface {
	Failed(format string, args ...interface{})
	Passed()
}

// CheckObserver is implemented by reporters that want per-check outcomes.
type CheckObserver interface {
	ObserveCheck(name string, ok bool)
}

// Runtime is the device API the checks use. *hipmath.Context implements it.
type Runtime interface {
	Malloc(size int) (hipmath.DevicePtr, error)
	Free(ptr hipmath.DevicePtr) error
	Memcpy(dst, src interface{}, size int, kind hipmath.MemcpyKind) error
	LaunchFunc(fn hipmath.KernelFunc, grid, block hipmath.Dim3, args ...interface{}) error
}

var _ Runtime = (*hipmath.Context)(nil)

// checkRun tracks one check's device allocations and its first failure.
type checkRun struct {
	r      Reporter
	rt     Runtime
	failed bool
	allocs []hipmath.DevicePtr
}

func begin(r Reporter, rt Runtime) *checkRun {
	return &checkRun{r: r, rt: rt}
}

func (c *checkRun) fail(format string, args ...interface{}) {
	if c.failed {
		return
	}
	c.failed = true
	c.r.Failed(format, args...)
}

func (c *checkRun) malloc(size int) (hipmath.DevicePtr, bool) {
	ptr, err := c.rt.Malloc(size)
	if err != nil {
		c.fail("hipMalloc(%d) failed: %v", size, err)
		return hipmath.DevicePtr{}, false
	}
	c.allocs = append(c.allocs, ptr)
	return ptr, true
}

func (c *checkRun) memcpy(dst, src interface{}, size int, kind hipmath.MemcpyKind) bool {
	if err := c.rt.Memcpy(dst, src, size, kind); err != nil {
		c.fail("hipMemcpy(%s) failed: %v", kind, err)
		return false
	}
	return true
}

func (c *checkRun) launch(fn hipmath.KernelFunc, grid, block hipmath.Dim3, args ...interface{}) bool {
	if err := c.rt.LaunchFunc(fn, grid, block, args...); err != nil {
		c.fail("hipLaunchKernelGGL failed: %v", err)
		return false
	}
	return true
}

// release frees the check's device buffers, newest first.
func (c *checkRun) release() {
	for i := len(c.allocs) - 1; i >= 0; i-- {
		if err := c.rt.Free(c.allocs[i]); err != nil {
			c.fail("hipFree failed: %v", err)
		}
	}
	c.allocs = nil
}

// ok reports whether the check has not failed so far.
func (c *checkRun) ok() bool {
	return !c.failed
}
