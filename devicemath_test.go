package hipmath

import (
	"math"
	"testing"
)

func TestAbsInt64(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{-81985529216486895, 81985529216486895},
		{81985529216486895, 81985529216486895},
		{-1250999896491, 1250999896491},
		{-19088743, 19088743},
		{-291, 291},
		{0, 0},
		{math.MaxInt64, math.MaxInt64},
		{math.MinInt64, math.MinInt64},
	}
	for _, tt := range tests {
		if got := AbsInt64(tt.in); got != tt.want {
			t.Errorf("AbsInt64(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGamma(t *testing.T) {
	for x := -3.5; x <= 3.5; x++ {
		want, _ := math.Lgamma(x)
		if got := Lgamma(x); got != want {
			t.Errorf("Lgamma(%v) = %v, want %v", x, got, want)
		}
	}
	if got := Tgamma(5); got != 24 {
		t.Errorf("Tgamma(5) = %v, want 24", got)
	}
	if got, want := Lgamma(0.5), math.Log(math.Sqrt(math.Pi)); math.Abs(got-want) > 1e-15 {
		t.Errorf("Lgamma(0.5) = %v, want %v", got, want)
	}
}

func TestMinMax(t *testing.T) {
	one, two := FromFloat32(1), FromFloat32(2)
	if got := MaxHalf(one, two); got != two {
		t.Errorf("MaxHalf(1, 2) = %v", got)
	}
	if got := MinHalf(one, two); got != one {
		t.Errorf("MinHalf(1, 2) = %v", got)
	}
	if got := MaxHalf(Float16NaN, one); got != one {
		t.Errorf("MaxHalf(NaN, 1) = %v", got)
	}
	if got := MinHalf(two, Float16NaN); got != two {
		t.Errorf("MinHalf(2, NaN) = %v", got)
	}
	if got := MinHalf(Float16NegInf, one); got != Float16NegInf {
		t.Errorf("MinHalf(-Inf, 1) = %v", got)
	}

	if got := Min(3, -4); got != -4 {
		t.Errorf("Min(3, -4) = %v", got)
	}
	if got := Max(1.0, math.NaN()); got != 1.0 {
		t.Errorf("Max(1, NaN) = %v", got)
	}
	if got := Min(math.NaN(), 2.0); got != 2.0 {
		t.Errorf("Min(NaN, 2) = %v", got)
	}
}

func TestPow(t *testing.T) {
	if got := Powif(2, 2); got != 4 {
		t.Errorf("Powif(2, 2) = %v", got)
	}
	if got := Powi(2, 2); got != 4 {
		t.Errorf("Powi(2, 2) = %v", got)
	}
	if got := Powf(2, 2); got != 4 {
		t.Errorf("Powf(2, 2) = %v", got)
	}
	if got := Pow(2, 2); got != 4 {
		t.Errorf("Pow(2, 2) = %v", got)
	}
	if got := PowHalf(Float16Two, Float16Two); got != Float16Four {
		t.Errorf("PowHalf(2, 2) = %v", got)
	}

	tests := []struct {
		x    float64
		n    int32
		want float64
	}{
		{3, 5, 243},
		{2, -2, 0.25},
		{-2, 3, -8},
		{0, 0, 1},
		{7, 0, 1},
		{0.5, 10, 1.0 / 1024},
		{2, 1023, math.Ldexp(1, 1023)},
		{2, 1024, math.Inf(1)},
	}
	for _, tt := range tests {
		if got := Powi(tt.x, tt.n); got != tt.want {
			t.Errorf("Powi(%v, %d) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}

	if got := Powif(2, 128); !math.IsInf(float64(got), 1) {
		t.Errorf("Powif(2, 128) = %v, want +Inf", got)
	}
	if got := PownHalf(FromFloat32(1.5), 2); got != FromFloat32(2.25) {
		t.Errorf("PownHalf(1.5, 2) = %v", got)
	}
	if got := PownHalf(Float16Two, 16); got != Float16Inf {
		t.Errorf("PownHalf(2, 16) = %v, want Inf", got)
	}
	if got := Powf(2, 0.5); got != float32(math.Sqrt2) {
		t.Errorf("Powf(2, 0.5) = %v", got)
	}
}

// The intrinsics are pure: repeated evaluation gives identical bits.
func TestIntrinsicsDeterministic(t *testing.T) {
	ctx := newTestContext(t)
	const N = 512
	first := make([]float64, N)
	second := make([]float64, N)

	eval := func(out []float64) {
		if err := ParallelMap(ctx, N, func(i int) {
			x := float64(i)/16 - 8
			out[i] = Lgamma(x) + Powi(x, 3) + float64(PowHalf(FromFloat64(x/4), Float16Two).ToFloat32())
		}); err != nil {
			t.Fatal(err)
		}
	}
	eval(first)
	eval(second)
	for i := range first {
		if math.Float64bits(first[i]) != math.Float64bits(second[i]) {
			t.Fatalf("element %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}
