package mathcheck

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LynnColeArt/hipmath"
	"github.com/LynnColeArt/hipmath/harness"
)

func TestDefaultChecks(t *testing.T) {
	checks := DefaultChecks(SuiteOptions{})

	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{NameAbsInt64, NameLgammaDouble, NameFP16, NamePown}, names)
	assert.True(t, checks[1].Disabled)

	checks = DefaultChecks(SuiteOptions{Lgamma: true})
	for _, c := range checks {
		assert.False(t, c.Disabled, c.Name)
	}
}

func TestSuite_DefaultRunPasses(t *testing.T) {
	ctx := newTestContext(t)
	r := &recordingReporter{}

	ok := NewDefaultSuite(SuiteOptions{}, zaptest.NewLogger(t)).Run(r, ctx)

	assert.True(t, ok)
	assert.Empty(t, r.failures)
	assert.Equal(t, 1, r.passed)
	assert.Equal(t, []string{"abs_int64:true", "fp16:true", "pown:true"}, r.observed)
	requireReleased(t, ctx)
}

func TestSuite_LgammaEnabled(t *testing.T) {
	ctx := newTestContext(t)
	r := &recordingReporter{}

	ok := NewDefaultSuite(SuiteOptions{Lgamma: true, Iterations: 3}, nil).Run(r, ctx)

	assert.True(t, ok)
	assert.Empty(t, r.failures)
	assert.Equal(t, 1, r.passed)
	assert.Equal(t, []string{"abs_int64:true", "lgamma_double:true", "fp16:true", "pown:true"}, r.observed)
}

func TestSuite_StopsAtFirstFailure(t *testing.T) {
	ctx := newTestContext(t)
	r := &recordingReporter{}

	var ran []string
	record := func(name string, run func(Reporter, Runtime)) Check {
		return Check{Name: name, Run: func(r Reporter, rt Runtime) {
			ran = append(ran, name)
			run(r, rt)
		}}
	}
	s := &Suite{Checks: []Check{
		record("first", CheckPown),
		{Name: "skipped", Run: func(Reporter, Runtime) { t.Error("disabled check ran") }, Disabled: true},
		record("broken", func(r Reporter, rt Runtime) {
			CheckSimple(r, rt, func() float64 { return hipmath.Pow(2, 3) }, 9)
		}),
		record("never", CheckHalfMinMax),
	}}

	ok := s.Run(r, ctx)

	assert.False(t, ok)
	assert.Equal(t, []string{"first", "broken"}, ran)
	assert.Zero(t, r.passed)
	require.Len(t, r.failures, 1)
	assert.Contains(t, r.failures[0], "check failed (output = 8.000000, expected = 9.000000")
	assert.Equal(t, []string{"first:true", "broken:false"}, r.observed)
}

func TestSuite_DetectsChangingResults(t *testing.T) {
	ctx := newTestContext(t)
	r := &recordingReporter{}

	// Each run is self-consistent but copies back a different value.
	n := 0
	drifting := Check{Name: "drifting", Run: func(r Reporter, rt Runtime) {
		n++
		v := float64(n)
		CheckSimple(r, rt, func() float64 { return v }, v)
	}}

	ok := (&Suite{Checks: []Check{drifting}, Iterations: 3}).Run(r, ctx)

	assert.False(t, ok)
	assert.Equal(t, 2, n, "suite stops at the first changed iteration")
	assert.Zero(t, r.passed)
	require.Len(t, r.failures, 1)
	assert.Contains(t, r.failures[0], "drifting: results changed on iteration 1")
	assert.Equal(t, []string{"drifting:false"}, r.observed)
	requireReleased(t, ctx)
}

func TestSuite_EmptyPasses(t *testing.T) {
	r := &recordingReporter{}

	assert.True(t, (&Suite{}).Run(r, nil))
	assert.Equal(t, 1, r.passed)
}

func TestDigestRuntime(t *testing.T) {
	ctx := newTestContext(t)

	sum := func(values []float64) uint64 {
		d := newDigestRuntime(ctx)
		ptr, err := ctx.Malloc(len(values) * 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, ctx.Free(ptr)) }()

		require.NoError(t, d.Memcpy(ptr, values, len(values)*8, hipmath.MemcpyHostToDevice))
		out := make([]float64, len(values))
		require.NoError(t, d.Memcpy(out, ptr, len(values)*8, hipmath.MemcpyDeviceToHost))
		assert.Equal(t, values, out)
		return d.Sum()
	}

	a := sum([]float64{1, 2, 3})
	assert.Equal(t, a, sum([]float64{1, 2, 3}))
	assert.NotEqual(t, a, sum([]float64{1, 2, 4}))
}

func TestSuite_FailedCheckCountedBeforeExit(t *testing.T) {
	ctx := newTestContext(t)
	opts := harness.DefaultOptions()
	opts.MetricsTextfile = filepath.Join(t.TempDir(), "hipmath.prom")

	// The exit function sees the metrics exactly as a terminated process
	// would have left them.
	var atExit string
	h := harness.New(opts, zaptest.NewLogger(t),
		harness.WithOutput(io.Discard, io.Discard),
		harness.WithExit(func(code int) {
			assert.Equal(t, 1, code)
			data, err := os.ReadFile(opts.MetricsTextfile)
			require.NoError(t, err)
			atExit = string(data)
		}))

	s := &Suite{Checks: []Check{
		{Name: "good", Run: CheckPown},
		{Name: "bad", Run: func(r Reporter, rt Runtime) {
			CheckSimple(r, rt, func() float64 { return hipmath.Pow(2, 3) }, 9)
		}},
	}}

	assert.False(t, s.Run(h, ctx))
	assert.Contains(t, atExit, `hipmath_checks_total{check="good",result="passed"} 1`)
	assert.Contains(t, atExit, `hipmath_checks_total{check="bad",result="failed"} 1`)
	assert.NotContains(t, atExit, `check="bad",result="passed"`)
}
