// Package harness implements the pass/fail protocol of device tests: standard
// argument parsing, failure reporting that ends the run, and the single
// success report.
package harness

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Harness reports the outcome of a test run. Failed and Passed end the
// process through the exit function; each run reports exactly once.
type Harness struct {
	opts    Options
	log     *zap.Logger
	metrics *Metrics
	stdout  io.Writer
	stderr  io.Writer
	exit    func(code int)

	once     sync.Once
	exitCode int
	reported bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithExit replaces os.Exit.
func WithExit(exit func(code int)) Option {
	return func(h *Harness) {
		h.exit = exit
	}
}

// WithOutput replaces os.Stdout and os.Stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(h *Harness) {
		h.stdout = stdout
		h.stderr = stderr
	}
}

// New creates a harness for opts.
func New(opts Options, log *zap.Logger, options ...Option) *Harness {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Harness{
		opts:    opts,
		log:     log,
		metrics: NewMetrics(opts.MetricsTextfile),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
	for _, o := range options {
		o(h)
	}
	return h
}

// Options returns the parsed standard arguments.
func (h *Harness) Options() Options {
	return h.opts
}

// Logger returns the run's logger.
func (h *Harness) Logger() *zap.Logger {
	return h.log
}

// Metrics returns the run's metrics.
func (h *Harness) Metrics() *Metrics {
	return h.metrics
}

// Failed reports a failure and ends the run with a non-zero exit code.
func (h *Harness) Failed(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	h.finish(1, func() {
		h.log.Error("test failed", zap.String("reason", msg))
		fmt.Fprintf(h.stderr, "error: %s\n", msg)
		fmt.Fprintln(h.stderr, "error: TEST FAILED")
	})
}

// Passed reports success and ends the run with exit code 0.
func (h *Harness) Passed() {
	h.finish(0, func() {
		h.log.Info("test passed")
		fmt.Fprintln(h.stdout, "PASSED!")
	})
}

// ObserveCheck records a check outcome in the run's metrics.
func (h *Harness) ObserveCheck(name string, ok bool) {
	h.log.Debug("check finished", zap.String("check", name), zap.Bool("ok", ok))
	h.metrics.ObserveCheck(name, ok)
}

// Reported reports whether the run already ended and with which code.
func (h *Harness) Reported() (code int, ok bool) {
	return h.exitCode, h.reported
}

// finish emits the single outcome of the run. Later calls are ignored so an
// exit function that returns cannot produce a second verdict.
func (h *Harness) finish(code int, report func()) {
	h.once.Do(func() {
		h.exitCode = code
		h.reported = true
		report()
		if err := h.metrics.Flush(); err != nil {
			h.log.Warn("failed to write metrics textfile", zap.String("path", h.opts.MetricsTextfile), zap.Error(err))
		}
		_ = h.log.Sync()
		h.exit(code)
	})
}
