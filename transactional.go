package scope

import (
	"maps"
	"slices"
)

// Transactional is a guard that snapshots a mutable target on Enter and
// restores it on a failure Exit. The body mutates the target directly through
// the returned handle; on failure every mutation is discarded, on success the
// mutations stand.
//
// Rollback does not itself suppress: the original failure still surfaces
// unless a suppressor elsewhere in the chain absorbs it.
//
// The snapshot depth is the clone function's responsibility: a shallow clone
// rolls back the container but not state reachable through shared pointers.
type Transactional[T any] struct {
	target *T
	clone  func(T) T

	snapshot T
	entered  bool
	exited   bool
}

// NewTransactional builds a transactional guard over target using clone to
// take the Enter-time snapshot.
//
// Example:
//
//	cfg := Config{Retries: 3}
//	tx := scope.NewTransactional(&cfg, func(c Config) Config { return c })
func NewTransactional[T any](target *T, clone func(T) T) *Transactional[T] {
	return &Transactional[T]{target: target, clone: clone}
}

// NewTransactionalSlice builds a transactional guard over a slice, snapshot
// taken with slices.Clone.
func NewTransactionalSlice[S ~[]E, E any](target *S) *Transactional[S] {
	return NewTransactional(target, func(s S) S { return slices.Clone(s) })
}

// NewTransactionalMap builds a transactional guard over a map, snapshot taken
// with maps.Clone.
func NewTransactionalMap[M ~map[K]V, K comparable, V any](target *M) *Transactional[M] {
	return NewTransactional(target, func(m M) M { return maps.Clone(m) })
}

// Enter implements Guard. It snapshots the target and returns the target
// pointer as the handle so the body can mutate it directly.
func (t *Transactional[T]) Enter() (any, error) {
	if t.entered {
		return nil, ErrGuardReused
	}
	t.entered = true

	t.snapshot = t.clone(*t.target)
	return t.target, nil
}

// Exit implements Guard. On a failure outcome the target's contents are
// replaced with the snapshot; on success the snapshot is discarded and the
// body's mutations stand. The decision is always Propagate.
func (t *Transactional[T]) Exit(outcome Outcome) (Decision, error) {
	if t.exited {
		return Propagate, ErrGuardReused
	}
	t.exited = true

	if outcome.Failed() {
		*t.target = t.snapshot
	}
	var zero T
	t.snapshot = zero
	return Propagate, nil
}

// Snapshotter is the contract of a transactional collaborator that manages
// its own snapshot representation.
type Snapshotter interface {
	// Snapshot returns an immutable copy of the collaborator's state.
	Snapshot() any

	// Restore replaces the collaborator's state with a prior snapshot.
	Restore(state any)
}

// snapshotGuard adapts a Snapshotter into a transactional guard.
type snapshotGuard struct {
	target Snapshotter

	state   any
	entered bool
	exited  bool
}

// NewSnapshotGuard builds a transactional guard over a collaborator exposing
// Snapshot/Restore. The handle returned by Enter is the collaborator itself.
func NewSnapshotGuard(target Snapshotter) Guard {
	return &snapshotGuard{target: target}
}

func (g *snapshotGuard) Enter() (any, error) {
	if g.entered {
		return nil, ErrGuardReused
	}
	g.entered = true

	g.state = g.target.Snapshot()
	return g.target, nil
}

func (g *snapshotGuard) Exit(outcome Outcome) (Decision, error) {
	if g.exited {
		return Propagate, ErrGuardReused
	}
	g.exited = true

	if outcome.Failed() {
		g.target.Restore(g.state)
	}
	g.state = nil
	return Propagate, nil
}
