package scope

import (
	"context"
	stderrors "errors"
)

// Composite aggregates an ordered sequence of guards entered together. Guards
// enter in acquisition order and exit in strict reverse order, on every
// execution path: body success, body failure, a failed Enter partway through
// the sequence, and teardown failures elsewhere in the chain.
//
// A composite owns its member guards for its lifetime and is single use: a
// second Run is rejected with ErrScopeConsumed.
type Composite struct {
	guards   []Guard
	consumed bool
}

// Compose builds a composite from guards in acquisition order. Nesting is
// expressed by flattening: Compose(outer, inner) enters outer first and exits
// it last.
func Compose(guards ...Guard) *Composite {
	owned := make([]Guard, len(guards))
	copy(owned, guards)
	return &Composite{guards: owned}
}

// Run enters every guard in order, executes body with the handles returned by
// the guards (in acquisition order), and exits every entered guard in reverse
// order with the body's outcome.
//
// The returned error is nil if the body succeeded and no teardown failed, or
// if every failure was suppressed by some guard in the chain. Otherwise it is
// the first unsuppressed failure; teardown failures discovered after an
// unsuppressed body failure are joined to it rather than dropped.
func (c *Composite) Run(body func(handles []any) error) error {
	return c.RunContext(context.Background(), body)
}

// RunContext is Run with cancellation support. A context error is converted
// into a KindCanceled failure outcome and drives the same single teardown
// pass as any other failure: if the context is already done the body does not
// run, and a cancellation that occurs during the body surfaces after it
// returns.
func (c *Composite) RunContext(ctx context.Context, body func(handles []any) error) error {
	if c.consumed {
		return ErrScopeConsumed
	}
	c.consumed = true
	if ctx == nil {
		ctx = context.Background()
	}

	handles := make([]any, 0, len(c.guards))
	for i, g := range c.guards {
		handle, err := g.Enter()
		if err != nil {
			// Guards after the failed one never entered and are owed
			// no Exit; the ones before it are unwound in reverse with
			// the setup failure as their outcome.
			return c.unwind(i, setupOutcome(err))
		}
		handles = append(handles, handle)
	}

	bodyErr := ctx.Err()
	if bodyErr == nil {
		bodyErr = body(handles)
		if bodyErr == nil {
			bodyErr = ctx.Err()
		}
	}
	if stderrors.Is(bodyErr, context.Canceled) || stderrors.Is(bodyErr, context.DeadlineExceeded) {
		bodyErr = WrapError(bodyErr, KindCanceled, "scope canceled")
	}

	return c.unwind(len(c.guards), OutcomeOf(bodyErr))
}

// unwind exits guards[0:entered] in reverse order, delivering the original
// outcome to each, and aggregates suppression decisions and teardown
// failures into the composite's reported error.
//
// Every guard in the chain receives the original outcome even after an
// earlier-run guard suppressed it; suppression only changes what the caller
// sees. The one exception: when the original outcome is a success, a
// teardown failure becomes the outcome shown to the guards that run after
// it, so a suppressor placed earlier in acquisition order can absorb it.
func (c *Composite) unwind(entered int, original Outcome) error {
	var (
		originalSuppressed bool
		teardownErrs       []error
		teardownSuppressed bool
	)

	for i := entered - 1; i >= 0; i-- {
		shown := original
		showingTeardown := false
		if !original.Failed() && len(teardownErrs) > 0 {
			shown = OutcomeOf(teardownErrs[0])
			showingTeardown = true
		}

		decision, err := c.guards[i].Exit(shown)
		if shown.Failed() && decision.Suppressed() {
			if showingTeardown {
				teardownSuppressed = true
			} else {
				originalSuppressed = true
			}
		}
		if err != nil {
			teardownErrs = append(teardownErrs, teardownError(err))
		}
	}

	if original.Failed() && !originalSuppressed {
		return stderrors.Join(append([]error{original.Err()}, teardownErrs...)...)
	}
	if teardownSuppressed {
		teardownErrs = teardownErrs[1:]
	}
	if len(teardownErrs) > 0 {
		return stderrors.Join(teardownErrs...)
	}
	return nil
}

// setupOutcome classifies a failed Enter. Guards that already construct
// ScopeErrors keep their kind; plain errors are classified as KindSetup.
func setupOutcome(err error) Outcome {
	if asScopeError(err) != nil {
		return OutcomeOf(err)
	}
	return OutcomeOf(WrapError(err, KindSetup, "guard setup failed"))
}

// teardownError classifies a failed Exit as KindTeardown unless the guard
// already classified it.
func teardownError(err error) error {
	if asScopeError(err) != nil {
		return err
	}
	return WrapError(err, KindTeardown, "guard teardown failed")
}
