package mathcheck

import (
	"fmt"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LynnColeArt/hipmath"
)

func TestCheckSimple(t *testing.T) {
	ctx := newTestContext(t)

	t.Run("match", func(t *testing.T) {
		r := &recordingReporter{}
		assert.True(t, CheckSimple(r, ctx, func() float64 { return hipmath.Pow(3, 2) }, 9))
		assert.True(t, CheckSimple(r, ctx, func() float32 { return hipmath.Powif(0.5, 3) }, 0.125))
		assert.True(t, CheckSimple(r, ctx, func() hipmath.Float16 { return hipmath.Float16Two }, hipmath.FromFloat32(2)))
		assert.Empty(t, r.failures)
	})

	t.Run("mismatch reports caller file and line", func(t *testing.T) {
		r := &recordingReporter{}
		_, file, line, _ := runtime.Caller(0)
		ok := CheckSimple(r, ctx, func() float32 { return 3 }, 4)

		assert.False(t, ok)
		require.Len(t, r.failures, 1)
		prefix := fmt.Sprintf("%s line %d : check failed (output = 3.000000, expected = 4.000000, ", file, line+1)
		assert.Contains(t, r.failures[0], prefix)
		assert.Contains(t, r.failures[0], "ulp apart)")
	})

	t.Run("exact comparison has no tolerance", func(t *testing.T) {
		r := &recordingReporter{}
		next := math.Nextafter(4, 5)
		assert.False(t, CheckSimple(r, ctx, func() float64 { return next }, 4))
		require.Len(t, r.failures, 1)
		assert.Contains(t, r.failures[0], "1 ulp apart")
	})

	t.Run("NaN never matches", func(t *testing.T) {
		r := &recordingReporter{}
		nan := math.NaN()
		assert.False(t, CheckSimple(r, ctx, func() float64 { return nan }, nan))
		assert.False(t, CheckSimple(r, ctx, func() hipmath.Float16 { return hipmath.Float16NaN }, hipmath.Float16NaN))
		assert.Len(t, r.failures, 2)
	})

	t.Run("signed zeros match", func(t *testing.T) {
		r := &recordingReporter{}
		assert.True(t, CheckSimple(r, ctx, func() hipmath.Float16 { return hipmath.Float16Zero.Neg() }, hipmath.Float16Zero))
		assert.True(t, CheckSimple(r, ctx, func() float32 { return float32(math.Copysign(0, -1)) }, 0))
		assert.Empty(t, r.failures)
	})

	requireReleased(t, ctx)
}
