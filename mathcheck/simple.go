package mathcheck

import (
	"runtime"
	"unsafe"

	"github.com/LynnColeArt/hipmath"
)

// Scalar is the set of result types CheckSimple compares.
type Scalar interface {
	float32 | float64 | hipmath.Float16
}

// CheckSimple evaluates f in a single device thread and compares the stored
// result with expected. A mismatch is reported with the caller's file and
// line. It returns whether the check passed.
func CheckSimple[T Scalar](r Reporter, rt Runtime, f func() T, expected T) bool {
	_, file, line, _ := runtime.Caller(1)
	return checkSimpleAt(r, rt, f, expected, file, line)
}

func checkSimpleAt[T Scalar](r Reporter, rt Runtime, f func() T, expected T, file string, line int) bool {
	var zero T
	memsize := int(unsafe.Sizeof(zero))

	c := begin(r, rt)
	defer c.release()

	outputCPU := make([]T, 1)
	outputGPU, ok := c.malloc(memsize)
	if !ok {
		return false
	}

	kernel := hipmath.KernelFunc(func(tid hipmath.ThreadID, args ...interface{}) {
		out := hipmath.View[T](args[0].(hipmath.DevicePtr))
		out[0] = f()
	})
	if !c.launch(kernel, hipmath.Dim3{X: 1}, hipmath.Dim3{X: 1}, outputGPU) {
		return false
	}
	if !c.memcpy(outputCPU, outputGPU, memsize, hipmath.MemcpyDeviceToHost) {
		return false
	}

	if !scalarEqual(outputCPU[0], expected) {
		c.fail("%s line %d : check failed (output = %f, expected = %f, %d ulp apart)",
			file, line, toFloat64(outputCPU[0]), toFloat64(expected), ulpDiff(outputCPU[0], expected))
		return false
	}
	return c.ok()
}

// scalarEqual compares by value, so NaN never matches and -0 matches +0.
func scalarEqual[T Scalar](a, b T) bool {
	switch x := any(a).(type) {
	case hipmath.Float16:
		return x.Equal(any(b).(hipmath.Float16))
	case float32:
		return x == any(b).(float32)
	case float64:
		return x == any(b).(float64)
	}
	return false
}

func toFloat64[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case hipmath.Float16:
		return x.ToFloat64()
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func ulpDiff[T Scalar](a, b T) int64 {
	switch x := any(a).(type) {
	case hipmath.Float16:
		return hipmath.Float16ULPDiff(x, any(b).(hipmath.Float16))
	case float32:
		return hipmath.Float32ULPDiff(x, any(b).(float32))
	case float64:
		return hipmath.Float64ULPDiff(x, any(b).(float64))
	}
	return 0
}
