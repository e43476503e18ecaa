package hipmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Device math library. Every function here is pure and may be called from
// any kernel thread.

// AbsInt64 returns |x|. As on the device, math.MinInt64 has no positive
// counterpart and is returned unchanged.
func AbsInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Lgamma returns the natural logarithm of |Γ(x)|.
// The result is bit-identical to the host library's math.Lgamma.
func Lgamma(x float64) float64 {
	lg, _ := math.Lgamma(x)
	return lg
}

// Tgamma returns Γ(x).
func Tgamma(x float64) float64 {
	return math.Gamma(x)
}

// Min returns the smaller of a and b. For floats a NaN operand yields the
// other operand, matching fmin.
func Min[T constraints.Ordered](a, b T) T {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if b < a {
		return b
	}
	return a
}

// Max returns the larger of a and b with fmax NaN handling.
func Max[T constraints.Ordered](a, b T) T {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if b > a {
		return b
	}
	return a
}

// MinHalf is min<__fp16>.
func MinHalf(a, b Float16) Float16 {
	switch {
	case a.IsNaN():
		return b
	case b.IsNaN():
		return a
	case b.Less(a):
		return b
	}
	return a
}

// MaxHalf is max<__fp16>.
func MaxHalf(a, b Float16) Float16 {
	switch {
	case a.IsNaN():
		return b
	case b.IsNaN():
		return a
	case a.Less(b):
		return b
	}
	return a
}

// Powif raises x to an integer power in single precision (powif).
func Powif(x float32, n int32) float32 {
	return float32(pown(float64(x), n, func(v float64) float64 {
		return float64(float32(v))
	}))
}

// Powi raises x to an integer power in double precision (powi).
func Powi(x float64, n int32) float64 {
	return pown(x, n, func(v float64) float64 { return v })
}

// pown computes x**n by repeated squaring, rounding every intermediate
// product to the operand precision with round.
func pown(x float64, n int32, round func(float64) float64) float64 {
	if n == 0 {
		return 1
	}
	neg := n < 0
	// int64 keeps -MinInt32 representable.
	e := int64(n)
	if neg {
		e = -e
	}

	result := 1.0
	base := x
	for e > 0 {
		if e&1 == 1 {
			result = round(result * base)
		}
		e >>= 1
		if e > 0 {
			base = round(base * base)
		}
	}
	if neg {
		return round(1 / result)
	}
	return result
}

// Powf is pow for float operands. The double precision result is rounded
// once to float32.
func Powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// Pow is pow for double operands.
func Pow(x, y float64) float64 {
	return math.Pow(x, y)
}

// PowHalf is pow for half operands, rounded once to half.
func PowHalf(x, y Float16) Float16 {
	return FromFloat64(math.Pow(x.ToFloat64(), y.ToFloat64()))
}

// PownHalf raises a half to an integer power.
func PownHalf(x Float16, n int32) Float16 {
	return FromFloat64(pown(x.ToFloat64(), n, func(v float64) float64 {
		return FromFloat64(v).ToFloat64()
	}))
}
