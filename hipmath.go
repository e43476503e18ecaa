// Package hipmath provides a HIP-compatible device runtime for CPU execution
// together with the device math library it exposes to kernels.
//
// Kernels are ordinary Go functions launched over a grid of thread blocks.
// Device memory is host memory owned by the runtime's pool, but all access
// goes through the same Malloc/Memcpy/Launch/Free sequence a GPU program uses,
// so code written against this package reads like its device counterpart.
//
// Example usage:
//
//	d_in, _ := hipmath.Malloc(n * 8)
//	d_out, _ := hipmath.Malloc(n * 8)
//	defer hipmath.Free(d_in)
//	defer hipmath.Free(d_out)
//
//	hipmath.Memcpy(d_in, h_in, n*8, hipmath.MemcpyHostToDevice)
//	hipmath.LaunchFunc(kernel, hipmath.Dim3{X: 1}, hipmath.Dim3{X: n}, d_in, d_out)
//	hipmath.Memcpy(h_out, d_out, n*8, hipmath.MemcpyDeviceToHost)
package hipmath

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents a compute device. Here it is the host CPU with its
// cores and the instruction set extensions relevant to device math.
type Device struct {
	ID         int      // Unique device identifier
	Name       string   // Human-readable device name
	TotalMem   uint64   // Total available memory in bytes
	NumCores   int      // Number of CPU cores
	MaxThreads int      // Maximum concurrent threads
	Features   []string // Detected instruction set extensions
}

// Context represents an execution context for device operations.
// It owns the memory pool and the streams kernels are queued on.
type Context struct {
	device        *Device
	mu            sync.Mutex
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
}

// Stream represents an ordered sequence of operations that execute
// asynchronously. Operations within a stream execute in order.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup

	errMu sync.Mutex
	err   error
}

// Dim3 represents 3D dimensions for grid and block configurations.
// A zero component is treated as 1 at launch, matching dim3 defaults.
type Dim3 struct {
	X, Y, Z int
}

// ThreadID identifies a thread's position within the execution hierarchy.
// It carries the same indexing as blockIdx, threadIdx, blockDim and gridDim.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Kernel represents a compute kernel that can be executed in parallel.
// Execute is called concurrently for distinct blocks.
type Kernel interface {
	Execute(tid ThreadID, args ...interface{})
}

// KernelFunc is a function that can be launched as a kernel.
type KernelFunc func(tid ThreadID, args ...interface{})

// Executor is the launch capability kernels are submitted to. A launch is
// asynchronous; Synchronize blocks until every submitted kernel completed.
type Executor interface {
	Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error
	LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error
	Synchronize() error
}

var _ Executor = (*Context)(nil)

// DevicePtr represents a pointer to device memory. Use the typed views
// (Int64, Float64, Float32, Float16) or View to access the data.
type DevicePtr struct {
	ptr    unsafe.Pointer
	size   int
	offset int
}

// Global runtime state
var (
	defaultDevice  *Device
	defaultContext *Context
	initOnce       sync.Once
)

func init() {
	initOnce.Do(func() {
		defaultDevice = &Device{
			ID:         0,
			Name:       "CPU",
			TotalMem:   getSystemMemory(),
			NumCores:   runtime.NumCPU(),
			MaxThreads: runtime.NumCPU() * 2,
			Features:   cpuFeatures.List(),
		}
		defaultContext = NewContext()
	})
}

// NewContext creates an execution context on the default device with its
// own memory pool and default stream. Contexts are independent of each other.
func NewContext() *Context {
	ctx := &Context{
		device:  defaultDevice,
		streams: make(map[int]*Stream),
		memory:  NewMemoryPool(),
	}
	ctx.defaultStream = ctx.CreateStream()
	return ctx
}

// DefaultContext returns the context used by the package-level functions.
func DefaultContext() *Context {
	return defaultContext
}

// Malloc allocates device memory of the specified size in bytes.
//
// Example:
//
//	d_data, err := hipmath.Malloc(8 * 8) // eight int64s
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer hipmath.Free(d_data)
func Malloc(size int) (DevicePtr, error) {
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc.
// It is safe to call Free with a zero-value DevicePtr.
func Free(ptr DevicePtr) error {
	return defaultContext.Free(ptr)
}

// Memcpy copies memory between host and device. Copies reading device memory
// wait for all work queued on the default stream first.
//
// Parameters:
//   - dst: Destination (DevicePtr or Go slice)
//   - src: Source (DevicePtr or Go slice)
//   - size: Number of bytes to copy
//   - kind: Transfer direction (MemcpyHostToDevice, MemcpyDeviceToHost, etc.)
func Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	return defaultContext.Memcpy(dst, src, size, kind)
}

// Launch executes a kernel on the default stream.
func Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return defaultContext.Launch(kernel, grid, block, args...)
}

// LaunchFunc executes a kernel function on the default stream.
func LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return defaultContext.LaunchFunc(fn, grid, block, args...)
}

// Synchronize waits for all operations on all streams to complete and
// returns the first kernel failure observed since the previous call.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// GetDevice returns the current device information.
func GetDevice() *Device {
	return defaultDevice
}

// SetDevice sets the active device. Only device 0 exists.
func SetDevice(id int) error {
	if id != 0 {
		return ErrInvalidDevice
	}
	return nil
}

// GetDeviceCount returns the number of available devices.
func GetDeviceCount() int {
	return 1
}

// GetDeviceProperties returns device properties
func GetDeviceProperties(id int) (*Device, error) {
	if id != 0 {
		return nil, NewInvalidArgError("GetDeviceProperties", fmt.Sprintf("invalid device ID: %d", id))
	}
	return defaultDevice, nil
}

// String describes the device in one line.
func (d *Device) String() string {
	return fmt.Sprintf("%s (id %d, %d cores, features: %v)", d.Name, d.ID, d.NumCores, d.Features)
}

// Context methods

// Device returns the device the context executes on.
func (ctx *Context) Device() *Device {
	return ctx.device
}

// CreateStream creates a new execution stream
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), 1000),
		done:  make(chan struct{}),
	}

	go stream.worker()

	ctx.mu.Lock()
	ctx.streams[id] = stream
	ctx.mu.Unlock()
	return stream
}

// Destroy drains every stream and stops its worker. The context must not be
// used afterwards.
func (ctx *Context) Destroy() error {
	err := ctx.Synchronize()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	for id, stream := range ctx.streams {
		close(stream.tasks)
		<-stream.done
		delete(ctx.streams, id)
	}
	return err
}

// Launch executes a kernel on the default stream
func (ctx *Context) Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchStream(kernel, grid, block, ctx.defaultStream, args...)
}

// LaunchFunc executes a kernel function on the default stream
func (ctx *Context) LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchFuncStream(fn, grid, block, ctx.defaultStream, args...)
}

// LaunchStream executes a kernel on a specific stream
func (ctx *Context) LaunchStream(kernel Kernel, grid, block Dim3, stream *Stream, args ...interface{}) error {
	if kernel == nil {
		return NewInvalidArgError("Launch", "nil kernel")
	}
	return ctx.launchInternal(kernel.Execute, grid, block, stream, args...)
}

// LaunchFuncStream executes a kernel function on a specific stream
func (ctx *Context) LaunchFuncStream(fn KernelFunc, grid, block Dim3, stream *Stream, args ...interface{}) error {
	if fn == nil {
		return NewInvalidArgError("LaunchFunc", "nil kernel function")
	}
	return ctx.launchInternal(fn, grid, block, stream, args...)
}

// Synchronize waits for all streams to complete
func (ctx *Context) Synchronize() error {
	ctx.mu.Lock()
	streams := make([]*Stream, 0, len(ctx.streams))
	for _, stream := range ctx.streams {
		streams = append(streams, stream)
	}
	ctx.mu.Unlock()

	var first error
	for _, stream := range streams {
		if err := stream.Synchronize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stream methods

// worker processes tasks for a stream
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Synchronize waits for all tasks in the stream to complete and returns
// the first task failure recorded since the last call.
func (s *Stream) Synchronize() error {
	s.wg.Wait()
	s.errMu.Lock()
	defer s.errMu.Unlock()
	err := s.err
	s.err = nil
	return err
}

// Submit adds a task to the stream
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// fail records err unless an earlier failure is still pending.
func (s *Stream) fail(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
}

// Helper functions

// Global returns the global thread index
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// Size returns the total number of elements
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// normalize replaces zero components with 1.
func (d Dim3) normalize() Dim3 {
	if d.X == 0 {
		d.X = 1
	}
	if d.Y == 0 {
		d.Y = 1
	}
	if d.Z == 0 {
		d.Z = 1
	}
	return d
}

// Execute implements Kernel.
func (fn KernelFunc) Execute(tid ThreadID, args ...interface{}) {
	fn(tid, args...)
}
