package hipmath

import (
	"testing"
)

// newTestContext creates a context destroyed at the end of the test.
func newTestContext(t testing.TB) *Context {
	t.Helper()
	ctx := NewContext()
	t.Cleanup(func() {
		if err := ctx.Destroy(); err != nil {
			t.Errorf("Destroy failed: %v", err)
		}
	})
	return ctx
}

// mallocOrFail allocates device memory and fails the test if unsuccessful
func mallocOrFail(t testing.TB, ctx *Context, size int) DevicePtr {
	t.Helper()
	ptr, err := ctx.Malloc(size)
	if err != nil {
		t.Fatalf("Failed to allocate %d bytes: %v", size, err)
	}
	return ptr
}

// memcpyOrFail copies data and fails the test if unsuccessful
func memcpyOrFail(t testing.TB, ctx *Context, dst, src interface{}, size int, kind MemcpyKind) {
	t.Helper()
	if err := ctx.Memcpy(dst, src, size, kind); err != nil {
		t.Fatalf("Memcpy(%s) failed: %v", kind, err)
	}
}

// launchOrFail launches a kernel and fails the test if unsuccessful
func launchOrFail(t testing.TB, ctx *Context, kernel KernelFunc, grid, block Dim3, args ...interface{}) {
	t.Helper()
	if err := ctx.LaunchFunc(kernel, grid, block, args...); err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
}
