package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// traceGuard records the order of its Enter/Exit calls and the outcome it was
// shown, and can be configured to fail either phase or to suppress.
type traceGuard struct {
	name     string
	log      *[]string
	enterErr error
	exitErr  error
	decision Decision

	entered     int
	exited      int
	lastOutcome Outcome
}

func (g *traceGuard) Enter() (any, error) {
	g.entered++
	*g.log = append(*g.log, "enter:"+g.name)
	if g.enterErr != nil {
		return nil, g.enterErr
	}
	return g.name, nil
}

func (g *traceGuard) Exit(outcome Outcome) (Decision, error) {
	g.exited++
	g.lastOutcome = outcome
	*g.log = append(*g.log, "exit:"+g.name)

	decision := g.decision
	if decision == "" {
		decision = Propagate
	}
	return decision, g.exitErr
}

func TestCompose_ReverseOrderExit(t *testing.T) {
	var log []string
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log}
	g3 := &traceGuard{name: "g3", log: &log}

	err := Compose(g1, g2, g3).Run(func(handles []any) error {
		log = append(log, "body")
		require.Equal(t, []any{"g1", "g2", "g3"}, handles)
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, []string{
		"enter:g1", "enter:g2", "enter:g3",
		"body",
		"exit:g3", "exit:g2", "exit:g1",
	}, log)
}

func TestCompose_ExactlyOnceExit(t *testing.T) {
	tests := []struct {
		name    string
		bodyErr error
		exitErr error
	}{
		{"body success", nil, nil},
		{"body failure", errors.New("boom"), nil},
		{"teardown failure elsewhere", nil, errors.New("release failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			g1 := &traceGuard{name: "g1", log: &log}
			g2 := &traceGuard{name: "g2", log: &log, exitErr: tt.exitErr}
			g3 := &traceGuard{name: "g3", log: &log}

			_ = Compose(g1, g2, g3).Run(func([]any) error { return tt.bodyErr })

			for _, g := range []*traceGuard{g1, g2, g3} {
				require.Equal(t, 1, g.entered, "guard %s", g.name)
				require.Equal(t, 1, g.exited, "guard %s", g.name)
			}
		})
	}
}

func TestCompose_BodyFailurePropagates(t *testing.T) {
	var log []string
	g := &traceGuard{name: "g", log: &log}
	bodyErr := errors.New("boom")

	err := Compose(g).Run(func([]any) error { return bodyErr })

	require.ErrorIs(t, err, bodyErr)
	require.True(t, g.lastOutcome.Failed())
	require.Equal(t, KindBody, g.lastOutcome.Kind())
}

func TestCompose_PartialEnterCleanup(t *testing.T) {
	var log []string
	setupErr := errors.New("no slots left")
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log}
	g3 := &traceGuard{name: "g3", log: &log, enterErr: setupErr}
	g4 := &traceGuard{name: "g4", log: &log}

	err := Compose(g1, g2, g3, g4).Run(func([]any) error {
		t.Fatal("body must not run after a failed enter")
		return nil
	})

	require.ErrorIs(t, err, setupErr)
	require.Equal(t, KindSetup, GetKind(err))
	require.Equal(t, []string{
		"enter:g1", "enter:g2", "enter:g3",
		"exit:g2", "exit:g1",
	}, log)

	// The entered guards saw the setup failure as their outcome.
	require.True(t, g1.lastOutcome.Failed())
	require.True(t, g1.lastOutcome.Kind().Is(KindSetup))
	require.Equal(t, 0, g3.exited)
	require.Equal(t, 0, g4.entered)
	require.Equal(t, 0, g4.exited)
}

func TestCompose_SuppressedBodyFailure(t *testing.T) {
	// Scenario: [A, B], body fails with a kind B is configured to
	// suppress. Exit order is B then A; A still sees the original
	// failure; the composite reports success.
	valueErr := Register("COMPOSITE_TEST_VALUE_ERROR", KindBody)

	var log []string
	a := &traceGuard{name: "a", log: &log}
	b := NewSuppressor([]Kind{valueErr})

	err := Compose(a, b).Run(func([]any) error {
		return NewError(valueErr, "bad value")
	})

	require.NoError(t, err)
	require.Equal(t, []string{"enter:a", "exit:a"}, log)
	require.True(t, a.lastOutcome.Failed())
	require.Equal(t, valueErr, a.lastOutcome.Kind())
}

func TestCompose_SuppressionDoesNotHideFailureFromLaterGuards(t *testing.T) {
	// g1 exits after the suppressor g2 and must still see the original
	// failure even though g2 already absorbed it.
	var log []string
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log, decision: Suppress}

	err := Compose(g1, g2).Run(func([]any) error {
		return NewError(KindBody, "boom")
	})

	require.NoError(t, err)
	require.True(t, g1.lastOutcome.Failed())
	require.Equal(t, "boom", g1.lastOutcome.Message())
}

func TestCompose_SetupFailureSuppressed(t *testing.T) {
	// The suppressor entered before the failing guard absorbs the setup
	// failure; the composite reports success and the body never runs.
	var log []string
	sup := NewSuppressor([]Kind{KindSetup})
	failing := &traceGuard{name: "failing", log: &log, enterErr: errors.New("nope")}

	bodyRan := false
	err := Compose(sup, failing).Run(func([]any) error {
		bodyRan = true
		return nil
	})

	require.NoError(t, err)
	require.False(t, bodyRan)
}

func TestCompose_TeardownFailureAfterSuccess(t *testing.T) {
	var log []string
	releaseErr := errors.New("release failed")
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log, exitErr: releaseErr}

	err := Compose(g1, g2).Run(func([]any) error { return nil })

	require.ErrorIs(t, err, releaseErr)
	require.Equal(t, KindTeardown, GetKind(err))

	// g1 exits after g2's failure and is shown the teardown failure so it
	// could have suppressed it.
	require.True(t, g1.lastOutcome.Failed())
	require.Equal(t, KindTeardown, g1.lastOutcome.Kind())
}

func TestCompose_TeardownFailureSuppressed(t *testing.T) {
	releaseErr := errors.New("release failed")
	sup := NewSuppressor([]Kind{KindTeardown})

	var log []string
	failing := &traceGuard{name: "failing", log: &log, exitErr: releaseErr}

	err := Compose(sup, failing).Run(func([]any) error { return nil })

	require.NoError(t, err)
}

func TestCompose_TeardownFailureChainedToBodyFailure(t *testing.T) {
	bodyErr := errors.New("body boom")
	releaseErr := errors.New("release failed")

	var log []string
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log, exitErr: releaseErr}

	err := Compose(g1, g2).Run(func([]any) error { return bodyErr })

	// The body failure is primary; the teardown failure is chained, not
	// dropped.
	require.ErrorIs(t, err, bodyErr)
	require.ErrorIs(t, err, releaseErr)

	// g1 was shown the original body failure, not the teardown failure.
	require.Equal(t, KindBody, g1.lastOutcome.Kind())
}

func TestCompose_TeardownFailureDoesNotAbortChain(t *testing.T) {
	var log []string
	g1 := &traceGuard{name: "g1", log: &log}
	g2 := &traceGuard{name: "g2", log: &log, exitErr: errors.New("mid failed")}
	g3 := &traceGuard{name: "g3", log: &log}

	err := Compose(g1, g2, g3).Run(func([]any) error { return nil })

	require.Error(t, err)
	require.Equal(t, []string{
		"enter:g1", "enter:g2", "enter:g3",
		"exit:g3", "exit:g2", "exit:g1",
	}, log)
}

func TestCompose_SingleUse(t *testing.T) {
	c := Compose()

	require.NoError(t, c.Run(func([]any) error { return nil }))
	require.ErrorIs(t, c.Run(func([]any) error { return nil }), ErrScopeConsumed)
}

func TestCompose_EmptyComposite(t *testing.T) {
	bodyErr := errors.New("boom")
	err := Compose().Run(func(handles []any) error {
		require.Empty(t, handles)
		return bodyErr
	})
	require.ErrorIs(t, err, bodyErr)
}

func TestRunContext_CanceledBeforeBody(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log []string
	g := &traceGuard{name: "g", log: &log}

	bodyRan := false
	err := Compose(g).RunContext(ctx, func([]any) error {
		bodyRan = true
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, KindCanceled, GetKind(err))
	require.False(t, bodyRan)

	// Cancellation still drives exactly one teardown pass.
	require.Equal(t, []string{"enter:g", "exit:g"}, log)
	require.True(t, g.lastOutcome.Kind().Is(KindBody))
}

func TestRunContext_CanceledDuringBody(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var log []string
	g := &traceGuard{name: "g", log: &log}

	err := Compose(g).RunContext(ctx, func([]any) error {
		cancel()
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, g.exited)
}

func TestRunContext_CancellationSuppressible(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sup := NewSuppressor([]Kind{KindCanceled})
	err := Compose(sup).RunContext(ctx, func([]any) error { return nil })

	require.NoError(t, err)
}
