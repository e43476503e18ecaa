package hipmath

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// MemcpyKind specifies the direction of memory transfer.
// All memory is CPU-accessible, but every copy touching device memory is
// ordered after previously launched kernels.
type MemcpyKind int

const (
	MemcpyHostToHost     MemcpyKind = iota // Host to host transfer
	MemcpyHostToDevice                     // Host to device transfer
	MemcpyDeviceToHost                     // Device to host transfer
	MemcpyDeviceToDevice                   // Device to device transfer
	MemcpyDefault                          // Default transfer (infer direction)
)

// String returns the HIP spelling of the transfer kind.
func (k MemcpyKind) String() string {
	switch k {
	case MemcpyHostToHost:
		return "hipMemcpyHostToHost"
	case MemcpyHostToDevice:
		return "hipMemcpyHostToDevice"
	case MemcpyDeviceToHost:
		return "hipMemcpyDeviceToHost"
	case MemcpyDeviceToDevice:
		return "hipMemcpyDeviceToDevice"
	case MemcpyDefault:
		return "hipMemcpyDefault"
	default:
		return fmt.Sprintf("MemcpyKind(%d)", int(k))
	}
}

// touchesDevice reports whether a copy of this kind may read or overwrite
// memory a queued kernel still uses.
func (k MemcpyKind) touchesDevice() bool {
	return k != MemcpyHostToHost
}

// Element is the set of types a device buffer can be viewed as.
type Element interface {
	constraints.Integer | constraints.Float
}

// MemoryPool manages device memory allocation with reuse.
// It keeps a free list of previously allocated blocks.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[uintptr]*allocation
	freeList   []*allocation
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	buf  []byte
	size int
	used bool
}

// NewMemoryPool creates a new memory pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		allocated: make(map[uintptr]*allocation),
	}
}

// Malloc allocates device memory of the specified size in bytes.
// The memory is aligned to MemoryAlignment.
func (ctx *Context) Malloc(size int) (DevicePtr, error) {
	return ctx.memory.Allocate(size)
}

// Free releases device memory allocated by Malloc.
// It is safe to call Free with a zero DevicePtr.
func (ctx *Context) Free(ptr DevicePtr) error {
	if ptr.ptr == nil {
		return nil
	}
	return ctx.memory.Free(ptr)
}

// MemoryStats returns bytes currently allocated and the peak.
func (ctx *Context) MemoryStats() (allocated, peak int64) {
	return ctx.memory.GetStats()
}

// Memcpy copies memory between host and device.
// Supports DevicePtr, unsafe.Pointer and host slices of byte, int32,
// int64, float32, float64 and Float16.
//
// Parameters:
//   - dst: Destination (DevicePtr or Go slice)
//   - src: Source (DevicePtr or Go slice)
//   - size: Number of bytes to copy
//   - kind: Transfer direction
func (ctx *Context) Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	if size < 0 {
		return NewInvalidArgError("Memcpy", fmt.Sprintf("negative size %d", size))
	}

	dstPtr, dstLen, err := memoryOf(dst)
	if err != nil {
		return NewInvalidArgError("Memcpy", fmt.Sprintf("unsupported dst type: %T", dst))
	}
	srcPtr, srcLen, err := memoryOf(src)
	if err != nil {
		return NewInvalidArgError("Memcpy", fmt.Sprintf("unsupported src type: %T", src))
	}

	if dstLen >= 0 && size > dstLen {
		return NewInvalidArgError("Memcpy", fmt.Sprintf("copy of %d bytes overflows %d byte destination", size, dstLen))
	}
	if srcLen >= 0 && size > srcLen {
		return NewInvalidArgError("Memcpy", fmt.Sprintf("copy of %d bytes overruns %d byte source", size, srcLen))
	}

	// Blocking copy: device memory is only read or written after queued
	// kernels finish.
	if kind.touchesDevice() {
		if err := ctx.defaultStream.Synchronize(); err != nil {
			return NewExecutionError("Memcpy", kind.String(), err)
		}
	}

	if size == 0 {
		return nil
	}
	if dstPtr == nil || srcPtr == nil {
		return ErrNullPointer
	}
	copy(unsafe.Slice((*byte)(dstPtr), size), unsafe.Slice((*byte)(srcPtr), size))
	return nil
}

// memoryOf returns the base pointer and byte length of v. A length of -1
// means the extent is unknown (raw unsafe.Pointer).
func memoryOf(v interface{}) (unsafe.Pointer, int, error) {
	switch m := v.(type) {
	case DevicePtr:
		return m.ptr, m.size, nil
	case unsafe.Pointer:
		return m, -1, nil
	case []byte:
		return sliceMemory(m)
	case []int32:
		return sliceMemory(m)
	case []int64:
		return sliceMemory(m)
	case []float32:
		return sliceMemory(m)
	case []float64:
		return sliceMemory(m)
	case []Float16:
		return sliceMemory(m)
	default:
		return nil, 0, fmt.Errorf("unsupported type %T", v)
	}
}

func sliceMemory[T any](s []T) (unsafe.Pointer, int, error) {
	if len(s) == 0 {
		return nil, 0, nil
	}
	var zero T
	return unsafe.Pointer(&s[0]), len(s) * int(unsafe.Sizeof(zero)), nil
}

// CopyToDevice copies the host slice into dst.
func CopyToDevice[T Element](ctx *Context, dst DevicePtr, src []T) error {
	var zero T
	return ctx.Memcpy(dst, unsafe.Pointer(unsafe.SliceData(src)), len(src)*int(unsafe.Sizeof(zero)), MemcpyHostToDevice)
}

// CopyToHost copies len(dst) elements from src into the host slice,
// waiting for queued kernels first.
func CopyToHost[T Element](ctx *Context, dst []T, src DevicePtr) error {
	var zero T
	size := len(dst) * int(unsafe.Sizeof(zero))
	if size > src.size {
		return NewInvalidArgError("CopyToHost", fmt.Sprintf("copy of %d bytes overruns %d byte source", size, src.size))
	}
	return ctx.Memcpy(unsafe.Pointer(unsafe.SliceData(dst)), src, size, MemcpyDeviceToHost)
}

// MemoryPool methods

// Allocate allocates memory from the pool
func (mp *MemoryPool) Allocate(size int) (DevicePtr, error) {
	if size <= 0 {
		return DevicePtr{}, ErrInvalidSize
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	alignedSize := (size + MemoryAlignment - 1) &^ (MemoryAlignment - 1)

	for i, alloc := range mp.freeList {
		if alloc.size >= alignedSize {
			mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
			alloc.used = true
			clear(alloc.buf)
			mp.track(int64(alloc.size))
			return DevicePtr{ptr: unsafe.Pointer(&alloc.buf[0]), size: size}, nil
		}
	}

	// Over-allocate so the returned base can be aligned.
	raw := make([]byte, alignedSize+MemoryAlignment)
	shift := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) % MemoryAlignment); rem != 0 {
		shift = MemoryAlignment - rem
	}
	buf := raw[shift : shift+alignedSize : shift+alignedSize]

	alloc := &allocation{
		buf:  buf,
		size: alignedSize,
		used: true,
	}
	mp.allocated[uintptr(unsafe.Pointer(&buf[0]))] = alloc
	mp.track(int64(alignedSize))

	return DevicePtr{ptr: unsafe.Pointer(&buf[0]), size: size}, nil
}

func (mp *MemoryPool) track(n int64) {
	mp.totalAlloc += n
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}
}

// Free returns memory to the pool
func (mp *MemoryPool) Free(ptr DevicePtr) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	alloc, ok := mp.allocated[uintptr(ptr.ptr)]
	if !ok || ptr.offset != 0 {
		return NewMemoryError("Free", "pointer not found in allocation pool", nil)
	}
	if !alloc.used {
		return ErrDoubleFree
	}

	alloc.used = false
	mp.freeList = append(mp.freeList, alloc)
	mp.totalAlloc -= int64(alloc.size)
	return nil
}

// GetStats returns memory pool statistics
func (mp *MemoryPool) GetStats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// DevicePtr methods

// View returns a typed slice over the device memory. Trailing bytes that do
// not fill a whole element are not part of the view.
func View[T Element](d DevicePtr) []T {
	if d.ptr == nil {
		return nil
	}
	var zero T
	return unsafe.Slice((*T)(d.ptr), d.size/int(unsafe.Sizeof(zero)))
}

// Int64 returns an int64 slice view of the device memory.
func (d DevicePtr) Int64() []int64 {
	return View[int64](d)
}

// Float64 returns a float64 slice view of the device memory.
func (d DevicePtr) Float64() []float64 {
	return View[float64](d)
}

// Float32 returns a float32 slice view of the device memory.
func (d DevicePtr) Float32() []float32 {
	return View[float32](d)
}

// Int32 returns an int32 slice view of the device memory.
func (d DevicePtr) Int32() []int32 {
	return View[int32](d)
}

// Byte returns a byte slice view of the whole region.
func (d DevicePtr) Byte() []byte {
	return View[byte](d)
}

// Offset returns a new DevicePtr offset by the given number of bytes.
// The returned DevicePtr shares the same underlying memory and cannot be
// passed to Free.
func (d DevicePtr) Offset(bytes int) DevicePtr {
	if bytes < 0 || bytes > d.size {
		panic(fmt.Sprintf("hipmath: offset %d outside %d byte region", bytes, d.size))
	}
	return DevicePtr{
		ptr:    unsafe.Add(d.ptr, bytes),
		size:   d.size - bytes,
		offset: d.offset + bytes,
	}
}

// Size returns the size in bytes of the memory region
func (d DevicePtr) Size() int {
	return d.size
}

// IsNil reports whether d is the zero DevicePtr.
func (d DevicePtr) IsNil() bool {
	return d.ptr == nil
}

// getSystemMemory returns total system memory in bytes
func getSystemMemory() uint64 {
	return 16 * 1024 * 1024 * 1024
}
