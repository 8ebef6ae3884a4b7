package scope

import "io"

// Decision is a guard's answer to a failure outcome: absorb it or let it
// propagate to the caller. A decision is only meaningful for a failure
// outcome; suppressing a success is a no-op.
type Decision string

const (
	// Propagate lets the outcome continue to the caller unchanged.
	Propagate Decision = "PROPAGATE"

	// Suppress absorbs a failure outcome so it does not reach the caller.
	Suppress Decision = "SUPPRESS"
)

// Suppressed returns true if the decision absorbs the failure.
func (d Decision) Suppressed() bool {
	return d == Suppress
}

// Guard is a unit of guaranteed setup/teardown around a protected block.
//
// A guard's lifetime is exactly one Enter/Exit pair. Exit runs exactly once
// for every guard whose Enter succeeded, on every execution path; it is never
// called for a guard whose Enter failed. Implementations must reject a second
// Enter with ErrGuardReused.
//
// A guard exclusively owns any resource handle it acquires until its Exit
// completes, and must leave no partially-released state behind.
type Guard interface {
	// Enter performs setup, acquires the guarded resource, and returns a
	// handle usable by the protected block.
	Enter() (any, error)

	// Exit performs teardown. It receives the outcome of the protected
	// block and decides whether a failure outcome is suppressed or
	// propagated. A non-nil error reports a teardown failure; it must
	// still leave the guard fully released.
	Exit(outcome Outcome) (Decision, error)
}

// resourceGuard adapts an acquire/release collaborator pair into a Guard.
type resourceGuard struct {
	acquire func() (any, error)
	release func(handle any) error

	handle  any
	entered bool
	exited  bool
}

// NewResource builds a guard from an acquire/release pair. The release
// function runs unconditionally on Exit, receives the handle returned by
// acquire, and never suppresses; a release error is reported as a
// KindTeardown failure.
//
// Example:
//
//	guard := scope.NewResource(
//	    func() (any, error) { return pool.Get() },
//	    func(h any) error { return pool.Put(h.(*Conn)) },
//	)
func NewResource(acquire func() (any, error), release func(handle any) error) Guard {
	return &resourceGuard{acquire: acquire, release: release}
}

func (g *resourceGuard) Enter() (any, error) {
	if g.entered {
		return nil, ErrGuardReused
	}
	g.entered = true

	handle, err := g.acquire()
	if err != nil {
		return nil, WrapError(err, KindSetup, "resource acquisition failed")
	}
	g.handle = handle
	return handle, nil
}

func (g *resourceGuard) Exit(Outcome) (Decision, error) {
	if g.exited {
		return Propagate, ErrGuardReused
	}
	g.exited = true

	if g.release == nil {
		return Propagate, nil
	}
	if err := g.release(g.handle); err != nil {
		return Propagate, WrapError(err, KindTeardown, "resource release failed")
	}
	return Propagate, nil
}

// Closing wraps an already-acquired io.Closer as a guard: Enter returns the
// closer itself and Exit closes it.
//
// Example:
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	err = scope.Compose(scope.Closing(f)).Run(func(handles []any) error {
//	    return parse(handles[0].(*os.File))
//	})
func Closing(c io.Closer) Guard {
	return NewResource(
		func() (any, error) { return c, nil },
		func(any) error { return c.Close() },
	)
}
