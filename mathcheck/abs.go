package mathcheck

import (
	"github.com/LynnColeArt/hipmath"
)

const absInt64Inputs = 8

// Negative/positive pairs at three magnitudes plus a small pair.
var absInt64Input = [absInt64Inputs]int64{
	-81985529216486895, 81985529216486895,
	-1250999896491, 1250999896491,
	-19088743, 19088743,
	-291, 291,
}

func kernelAbsInt64(abs func(int64) int64) hipmath.KernelFunc {
	return func(tid hipmath.ThreadID, args ...interface{}) {
		input := args[0].(hipmath.DevicePtr).Int64()
		output := args[1].(hipmath.DevicePtr).Int64()
		tx := tid.ThreadIdx.X
		output[tx] = abs(input[tx])
	}
}

// CheckAbsInt64 checks abs on 64-bit integers.
//
// Every output is compared with the output of the pair's positive element,
// not with an independently computed |x|. An abs that is wrong in the same
// way for both elements of every pair passes.
func CheckAbsInt64(r Reporter, rt Runtime) {
	checkAbsInt64(r, rt, hipmath.AbsInt64)
}

func checkAbsInt64(r Reporter, rt Runtime, abs func(int64) int64) {
	const memsize = absInt64Inputs * 8

	c := begin(r, rt)
	defer c.release()

	inputCPU := make([]int64, absInt64Inputs)
	outputCPU := make([]int64, absInt64Inputs)
	inputGPU, ok := c.malloc(memsize)
	if !ok {
		return
	}
	outputGPU, ok := c.malloc(memsize)
	if !ok {
		return
	}

	copy(inputCPU, absInt64Input[:])

	if !c.memcpy(inputGPU, inputCPU, memsize, hipmath.MemcpyHostToDevice) {
		return
	}
	if !c.launch(kernelAbsInt64(abs), hipmath.Dim3{X: 1}, hipmath.Dim3{X: absInt64Inputs}, inputGPU, outputGPU) {
		return
	}
	if !c.memcpy(outputCPU, outputGPU, memsize, hipmath.MemcpyDeviceToHost) {
		return
	}

	for i := range inputCPU {
		// i|1 is the positive sibling of the pair.
		expected := outputCPU[i|1]
		if outputCPU[i] != expected {
			c.fail("check_abs_int64 failed on %d (output = %d, expected = %d)", inputCPU[i], outputCPU[i], expected)
			return
		}
	}
}
