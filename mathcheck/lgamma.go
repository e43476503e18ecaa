package mathcheck

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/LynnColeArt/hipmath"
)

const lgammaInputs = 8

func kernelLgammaDouble(lgamma func(float64) float64) hipmath.KernelFunc {
	return func(tid hipmath.ThreadID, args ...interface{}) {
		input := args[0].(hipmath.DevicePtr).Float64()
		output := args[1].(hipmath.DevicePtr).Float64()
		tx := tid.ThreadIdx.X
		output[tx] = lgamma(input[tx])
	}
}

// CheckLgammaDouble compares the device lgamma of -3.5, -2.5, ..., 3.5 with
// the host math library, bit for bit. It is not part of the default
// sequence.
func CheckLgammaDouble(r Reporter, rt Runtime) {
	checkLgammaDouble(r, rt, hipmath.Lgamma)
}

func checkLgammaDouble(r Reporter, rt Runtime, lgamma func(float64) float64) {
	const memsize = lgammaInputs * 8

	c := begin(r, rt)
	defer c.release()

	inputCPU := floats.Span(make([]float64, lgammaInputs), -3.5, -3.5+lgammaInputs-1)
	outputCPU := make([]float64, lgammaInputs)
	inputGPU, ok := c.malloc(memsize)
	if !ok {
		return
	}
	outputGPU, ok := c.malloc(memsize)
	if !ok {
		return
	}

	if !c.memcpy(inputGPU, inputCPU, memsize, hipmath.MemcpyHostToDevice) {
		return
	}
	if !c.launch(kernelLgammaDouble(lgamma), hipmath.Dim3{X: 1}, hipmath.Dim3{X: lgammaInputs}, inputGPU, outputGPU) {
		return
	}
	if !c.memcpy(outputCPU, outputGPU, memsize, hipmath.MemcpyDeviceToHost) {
		return
	}

	for i, in := range inputCPU {
		expected, _ := math.Lgamma(in)
		if outputCPU[i] != expected {
			c.fail("check_lgamma_double failed on %f (output = %f, expected = %f)", in, outputCPU[i], expected)
			return
		}
	}
}
