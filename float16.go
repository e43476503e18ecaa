package hipmath

import (
	"fmt"
	"math"
)

// Float16 represents an IEEE 754 binary16 value, the device's half type.
type Float16 uint16

// Float16 layout constants
const (
	float16SignMask     = 0x8000
	float16ExponentMask = 0x7C00
	float16MantissaMask = 0x03FF
	float16ExponentBias = 15
	float16MantissaBits = 10
	float16QuietBit     = 0x0200
)

// Commonly used half values
const (
	Float16Zero   Float16 = 0x0000
	Float16One    Float16 = 0x3C00
	Float16Two    Float16 = 0x4000
	Float16Four   Float16 = 0x4400
	Float16Inf    Float16 = 0x7C00
	Float16NegInf Float16 = 0xFC00
	Float16NaN    Float16 = 0x7E00
	Float16Max    Float16 = 0x7BFF // 65504
)

// ToFloat64 converts f to float64. The conversion is exact.
func (f Float16) ToFloat64() float64 {
	sign := 1.0
	if f&float16SignMask != 0 {
		sign = -1.0
	}
	exponent := int(f&float16ExponentMask) >> float16MantissaBits
	mantissa := int(f & float16MantissaMask)

	switch exponent {
	case 0:
		// Zero or subnormal: mantissa * 2^-24
		return sign * math.Ldexp(float64(mantissa), -24)
	case 0x1F:
		if mantissa == 0 {
			return math.Inf(int(sign))
		}
		return math.NaN()
	}
	return sign * math.Ldexp(float64(mantissa|1<<float16MantissaBits), exponent-float16ExponentBias-float16MantissaBits)
}

// ToFloat32 converts f to float32. The conversion is exact.
func (f Float16) ToFloat32() float32 {
	if f.IsNaN() {
		// Keep sign and payload instead of a canonical NaN.
		sign := uint32(f&float16SignMask) << 16
		return math.Float32frombits(sign | 0x7FC00000 | uint32(f&float16MantissaMask)<<13)
	}
	return float32(f.ToFloat64())
}

// FromFloat32 converts a float32 to the nearest Float16, ties to even.
func FromFloat32(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & float16SignMask
	exponent := int(bits>>23) & 0xFF
	mantissa := uint64(bits & 0x7FFFFF)

	if exponent == 0xFF {
		if mantissa == 0 {
			return Float16(sign | float16ExponentMask)
		}
		return Float16(sign | float16ExponentMask | float16QuietBit | uint16(mantissa>>13))
	}
	if exponent == 0 && mantissa == 0 {
		return Float16(sign)
	}
	return packHalf(sign, exponent-127+float16ExponentBias, mantissa, 23)
}

// FromFloat64 converts a float64 to the nearest Float16, ties to even.
// The value is rounded once, not through float32.
func FromFloat64(f float64) Float16 {
	bits := math.Float64bits(f)
	sign := uint16(bits>>48) & float16SignMask
	exponent := int(bits>>52) & 0x7FF
	mantissa := bits & (1<<52 - 1)

	if exponent == 0x7FF {
		if mantissa == 0 {
			return Float16(sign | float16ExponentMask)
		}
		return Float16(sign | float16ExponentMask | float16QuietBit | uint16(mantissa>>42))
	}
	if exponent == 0 && mantissa == 0 {
		return Float16(sign)
	}
	return packHalf(sign, exponent-1023+float16ExponentBias, mantissa, 52)
}

// packHalf rounds a finite nonzero value with biased half exponent e and
// fraction of mantBits bits to binary16.
func packHalf(sign uint16, e int, mantissa uint64, mantBits uint) Float16 {
	if e >= 0x1F {
		return Float16(sign | float16ExponentMask)
	}

	var v uint64
	var shift uint
	if e <= 0 {
		// Below half of the smallest subnormal everything rounds to zero.
		if e < -10 {
			return Float16(sign)
		}
		v = mantissa | 1<<mantBits
		shift = mantBits - float16MantissaBits + uint(1-e)
	} else {
		v = uint64(e)<<mantBits | mantissa
		shift = mantBits - float16MantissaBits
	}

	rounded := v >> shift
	rem := v & (1<<shift - 1)
	halfway := uint64(1) << (shift - 1)
	if rem > halfway || (rem == halfway && rounded&1 == 1) {
		// A carry out of the mantissa bumps the exponent, up to Inf.
		rounded++
	}
	return Float16(uint64(sign) | rounded)
}

// IsNaN reports whether f is a NaN.
func (f Float16) IsNaN() bool {
	return f&float16ExponentMask == float16ExponentMask && f&float16MantissaMask != 0
}

// IsInf reports whether f is an infinity. sign > 0 tests for +Inf, sign < 0
// for -Inf and sign == 0 for either.
func (f Float16) IsInf(sign int) bool {
	switch {
	case sign > 0:
		return f == Float16Inf
	case sign < 0:
		return f == Float16NegInf
	}
	return f&^float16SignMask == Float16Inf
}

// Neg returns -f.
func (f Float16) Neg() Float16 {
	return f ^ float16SignMask
}

// Equal compares by value: NaN is unequal to everything and -0 equals +0.
func (f Float16) Equal(g Float16) bool {
	return f.ToFloat32() == g.ToFloat32()
}

// Less reports f < g by value.
func (f Float16) Less(g Float16) bool {
	return f.ToFloat32() < g.ToFloat32()
}

// String formats f as its float32 value.
func (f Float16) String() string {
	return fmt.Sprint(f.ToFloat32())
}

// Float16 returns a Float16 view of the device memory.
func (d DevicePtr) Float16() []Float16 {
	return View[Float16](d)
}
