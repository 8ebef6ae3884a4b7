package scope

// Phased is a guard built from a single two-phase procedure: a setup segment
// that runs on Enter and a teardown segment that runs on Exit. It models a
// function split at one suspension point; the value produced at the
// suspension point becomes the guard's handle.
//
// The teardown segment runs exactly once across the guard's lifetime; a
// consumed flag enforces this structurally. A nil teardown segment is a
// no-op that always propagates.
type Phased struct {
	setup    func() (any, error)
	teardown func(outcome Outcome) (Decision, error)

	entered  bool
	consumed bool
}

// NewPhased builds a two-phase guard. The teardown segment receives the
// protected block's outcome so it can branch on the failure kind, and may
// suppress by returning Suppress. Pass nil for a teardown-free guard.
//
// Example:
//
//	guard := scope.NewPhased(
//	    func() (any, error) { return conn.Begin() },
//	    func(o scope.Outcome) (scope.Decision, error) {
//	        if o.Failed() {
//	            return scope.Propagate, conn.Abort()
//	        }
//	        return scope.Propagate, conn.Finish()
//	    },
//	)
func NewPhased(setup func() (any, error), teardown func(outcome Outcome) (Decision, error)) *Phased {
	return &Phased{setup: setup, teardown: teardown}
}

// NewPhasedCleanup builds a two-phase guard whose teardown segment runs the
// same code regardless of outcome and never suppresses. This covers the
// common unconditional-cleanup pattern (timers, scratch state).
//
// Example:
//
//	start := time.Now()
//	guard := scope.NewPhasedCleanup(
//	    func() (any, error) { return start, nil },
//	    func() error { metrics.Observe(time.Since(start)); return nil },
//	)
func NewPhasedCleanup(setup func() (any, error), cleanup func() error) *Phased {
	var teardown func(Outcome) (Decision, error)
	if cleanup != nil {
		teardown = func(Outcome) (Decision, error) {
			return Propagate, cleanup()
		}
	}
	return &Phased{setup: setup, teardown: teardown}
}

// Enter implements Guard. It runs the setup segment up to the suspension
// point and returns the value produced there.
func (p *Phased) Enter() (any, error) {
	if p.entered {
		return nil, ErrGuardReused
	}
	p.entered = true

	if p.setup == nil {
		return nil, nil
	}
	handle, err := p.setup()
	if err != nil {
		return nil, WrapError(err, KindSetup, "phased setup failed")
	}
	return handle, nil
}

// Exit implements Guard. It resumes past the suspension point, running the
// teardown segment exactly once. With no teardown segment, Exit is a no-op
// returning Propagate for any outcome.
func (p *Phased) Exit(outcome Outcome) (Decision, error) {
	if p.consumed {
		return Propagate, ErrGuardReused
	}
	p.consumed = true

	if p.teardown == nil {
		return Propagate, nil
	}
	decision, err := p.teardown(outcome)
	if err != nil {
		return decision, WrapError(err, KindTeardown, "phased teardown failed")
	}
	return decision, nil
}
