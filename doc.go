// Package scope provides guaranteed setup/teardown around protected blocks.
//
// This package implements scoped resource lifecycle management: a Guard pairs
// an Enter (setup/acquire) with an Exit (teardown/release) that is guaranteed
// to run exactly once, whether the protected block succeeded or failed. Guards
// compose into a Composite that tears down in strict reverse acquisition
// order, and a guard may decide to suppress a failure so it does not reach the
// caller.
//
// # Features
//
//   - Exactly-once teardown on every execution path
//   - Deterministic reverse-order teardown for composed guards
//   - Tree-shaped failure-kind taxonomy with ancestor-based suppression matching
//   - Transactional guards that snapshot mutable state and roll back on failure
//   - Two-phase guards built from a setup closure and a teardown closure
//   - Adapters for acquire/release collaborators and io.Closer values
//
// # Design Principles
//
//   - Standard library compatibility (errors.Is, errors.As, errors.Unwrap)
//   - Immutability (outcomes and errors are immutable once created)
//   - Single use (a guard's lifetime is one Enter/Exit pair)
//   - Simplicity (minimal API surface, easy to use correctly)
//
// # Quick Start
//
// Guarding a single resource:
//
//	guard := scope.NewResource(
//	    func() (any, error) { return db.Acquire() },
//	    func(h any) error { return db.Release(h.(*Conn)) },
//	)
//	err := scope.Compose(guard).Run(func(handles []any) error {
//	    conn := handles[0].(*Conn)
//	    return conn.Ping()
//	})
//
// Rolling back mutations on failure:
//
//	items := []int{1, 2, 3}
//	tx := scope.NewTransactionalSlice(&items)
//	err := scope.Compose(tx).Run(func(handles []any) error {
//	    items = append(items, 4)
//	    return process(items) // on error, items is restored to [1 2 3]
//	})
//
// Suppressing a failure kind:
//
//	sup := scope.SuppressKinds(scope.KindBody)
//	err := scope.Compose(sup).Run(func(handles []any) error {
//	    return scope.NewError(scope.KindBody, "ignorable")
//	})
//	// err is nil; the failure was absorbed by the suppressor.
package scope
