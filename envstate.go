package scope

import "os"

// EnvGuard treats a set of process environment variables as a guarded
// resource. Enter records each variable's prior value (including absence),
// then applies the configured values; Exit restores the prior state
// unconditionally, on success and on failure alike.
//
// The prior values are the guard's snapshot and are private to it. Because
// the process environment is process-wide state, scopes guarding overlapping
// variables must not interleave.
type EnvGuard struct {
	vars map[string]string

	// prior maps each guarded key to its value before Enter; a nil entry
	// means the variable was unset.
	prior   map[string]*string
	entered bool
	exited  bool
}

// NewEnv builds a guard that sets the given environment variables for the
// duration of the scope.
//
// Example:
//
//	guard := scope.NewEnv(map[string]string{"NO_COLOR": "1", "TERM": "dumb"})
//	err := scope.Compose(guard).Run(func(handles []any) error {
//	    return runTool()
//	})
func NewEnv(vars map[string]string) *EnvGuard {
	owned := make(map[string]string, len(vars))
	for k, v := range vars {
		owned[k] = v
	}
	return &EnvGuard{vars: owned}
}

// Enter implements Guard. It snapshots the prior values and applies the
// configured ones. The handle is a copy of the applied variable map.
func (g *EnvGuard) Enter() (any, error) {
	if g.entered {
		return nil, ErrGuardReused
	}
	g.entered = true

	g.prior = make(map[string]*string, len(g.vars))
	for key, value := range g.vars {
		if old, ok := os.LookupEnv(key); ok {
			prior := old
			g.prior[key] = &prior
		} else {
			g.prior[key] = nil
		}
		if err := os.Setenv(key, value); err != nil {
			// Roll back anything already applied before failing the
			// setup, so a failed Enter leaves no partial state.
			g.restore()
			return nil, WrapErrorf(err, KindSetup, "failed to set %s", key)
		}
	}

	applied := make(map[string]string, len(g.vars))
	for k, v := range g.vars {
		applied[k] = v
	}
	return applied, nil
}

// Exit implements Guard. It restores every guarded variable to its prior
// value regardless of outcome and never suppresses.
func (g *EnvGuard) Exit(Outcome) (Decision, error) {
	if g.exited {
		return Propagate, ErrGuardReused
	}
	g.exited = true

	if err := g.restore(); err != nil {
		return Propagate, WrapError(err, KindTeardown, "failed to restore environment")
	}
	return Propagate, nil
}

// restore puts every snapshotted variable back, continuing past individual
// failures and returning the first one.
func (g *EnvGuard) restore() error {
	var firstErr error
	for key, prior := range g.prior {
		var err error
		if prior == nil {
			err = os.Unsetenv(key)
		} else {
			err = os.Setenv(key, *prior)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.prior = nil
	return firstErr
}
