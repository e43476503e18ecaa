package mathcheck

import (
	"go.uber.org/zap"
)

// Check names
const (
	NameAbsInt64     = "abs_int64"
	NameLgammaDouble = "lgamma_double"
	NameFP16         = "fp16"
	NamePown         = "pown"
)

// Check is one named check procedure.
type Check struct {
	Name     string
	Run      func(r Reporter, rt Runtime)
	Disabled bool
}

// Suite runs checks in order and reports the run's single outcome.
type Suite struct {
	Checks []Check

	// Iterations repeats every check; each repetition must copy back
	// exactly the bytes of the first one.
	Iterations int

	Log *zap.Logger
}

// SuiteOptions selects the optional parts of the default sequence.
type SuiteOptions struct {
	Lgamma     bool
	Iterations int
}

// DefaultChecks returns the fixed check sequence: abs on int64, lgamma on
// double (disabled unless requested), half min/max, then the power functions.
func DefaultChecks(opts SuiteOptions) []Check {
	return []Check{
		{Name: NameAbsInt64, Run: CheckAbsInt64},
		{Name: NameLgammaDouble, Run: CheckLgammaDouble, Disabled: !opts.Lgamma},
		{Name: NameFP16, Run: CheckHalfMinMax},
		{Name: NamePown, Run: CheckPown},
	}
}

// NewDefaultSuite returns a suite over DefaultChecks.
func NewDefaultSuite(opts SuiteOptions, log *zap.Logger) *Suite {
	return &Suite{
		Checks:     DefaultChecks(opts),
		Iterations: opts.Iterations,
		Log:        log,
	}
}

// Run executes the enabled checks sequentially. It stops at the first failed
// check; if none failed it calls r.Passed once. It returns whether the run
// passed.
//
// A failed check is observed before the failure reaches r, since Failed may
// end the process.
func (s *Suite) Run(r Reporter, rt Runtime) bool {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	observer, _ := r.(CheckObserver)

	for _, check := range s.Checks {
		if check.Disabled {
			log.Debug("check disabled", zap.String("check", check.Name))
			continue
		}
		log.Debug("running check", zap.String("check", check.Name))
		if !s.runCheck(check, r, rt, observer) {
			return false
		}
		if observer != nil {
			observer.ObserveCheck(check.Name, true)
		}
	}

	r.Passed()
	return true
}

func (s *Suite) runCheck(check Check, r Reporter, rt Runtime, observer CheckObserver) bool {
	iterations := s.Iterations
	if iterations < 1 {
		iterations = 1
	}

	var first uint64
	for i := 0; i < iterations; i++ {
		cr := &checkReporter{Reporter: r, name: check.Name, observer: observer}
		d := newDigestRuntime(rt)
		check.Run(cr, d)
		if cr.failed {
			return false
		}
		if i == 0 {
			first = d.Sum()
			continue
		}
		if sum := d.Sum(); sum != first {
			cr.Failed("%s: results changed on iteration %d (digest %016x, first run %016x)", check.Name, i, sum, first)
			return false
		}
	}
	return true
}

// checkReporter records a check's failure, and observes it, before passing
// it on.
type checkReporter struct {
	Reporter
	name     string
	observer CheckObserver
	failed   bool
}

func (c *checkReporter) Failed(format string, args ...interface{}) {
	if !c.failed && c.observer != nil {
		c.observer.ObserveCheck(c.name, false)
	}
	c.failed = true
	c.Reporter.Failed(format, args...)
}
