package hipmath

import (
	"math"
)

// ULP distances are diagnostic context for failed exact comparisons; no
// check accepts a result that is merely close.

// Float64ULPDiff returns the number of representable float64 values between
// a and b. Values of opposite sign are measured through zero. NaN operands
// give math.MaxInt64.
func Float64ULPDiff(a, b float64) int64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.MaxInt64
	}
	return ulpDistance(orderedBits64(math.Float64bits(a)), orderedBits64(math.Float64bits(b)))
}

// Float32ULPDiff is Float64ULPDiff for float32.
func Float32ULPDiff(a, b float32) int64 {
	if a != a || b != b {
		return math.MaxInt64
	}
	return ulpDistance(orderedBits32(math.Float32bits(a)), orderedBits32(math.Float32bits(b)))
}

// Float16ULPDiff is Float64ULPDiff for Float16.
func Float16ULPDiff(a, b Float16) int64 {
	if a.IsNaN() || b.IsNaN() {
		return math.MaxInt64
	}
	return ulpDistance(orderedBits16(uint16(a)), orderedBits16(uint16(b)))
}

// orderedBits* map IEEE bit patterns onto a monotonic integer line with
// both zeros at 0.
func orderedBits64(bits uint64) int64 {
	if bits&(1<<63) != 0 {
		return -int64(bits &^ (1 << 63))
	}
	return int64(bits)
}

func orderedBits32(bits uint32) int64 {
	if bits&(1<<31) != 0 {
		return -int64(bits &^ (1 << 31))
	}
	return int64(bits)
}

func orderedBits16(bits uint16) int64 {
	if bits&float16SignMask != 0 {
		return -int64(bits &^ float16SignMask)
	}
	return int64(bits)
}

func ulpDistance(a, b int64) int64 {
	if a > b {
		a, b = b, a
	}
	d := b - a
	if d < 0 {
		// Only reachable across the full float64 range.
		return math.MaxInt64
	}
	return d
}
