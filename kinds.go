package scope

import "sync"

// Kind identifies a failure kind in a tree-shaped taxonomy.
// Kinds are string-based for debuggability and natural log output.
//
// Every kind except KindFailure has exactly one parent; KindFailure is the
// root of the taxonomy. Suppression matching is ancestor-based: a kind is
// covered by any of its ancestors, not only by an exact match (see Covers).
type Kind string

const (
	// KindFailure is the root of the taxonomy. Every registered kind is a
	// descendant of KindFailure.
	KindFailure Kind = "FAILURE"

	// KindSetup indicates a guard's Enter failed. No teardown is owed for
	// the guard whose setup failed.
	KindSetup Kind = "SETUP_FAILED"

	// KindBody indicates the protected block failed.
	KindBody Kind = "BODY_FAILED"

	// KindTeardown indicates a guard's Exit itself failed while tearing
	// down. It must not abort the remaining teardowns.
	KindTeardown Kind = "TEARDOWN_FAILED"

	// KindSuppressed indicates a failure absorbed by a suppressor. It is
	// not surfaced to the caller.
	KindSuppressed Kind = "SUPPRESSED"

	// KindCanceled indicates the scope was canceled by its context. It is
	// a descendant of KindBody: cancellation is injected as a failure of
	// the protected block and drives one normal teardown pass.
	KindCanceled Kind = "CANCELED"
)

// taxonomy maps each kind to its parent. KindFailure is absent: it is the
// root and has no parent. Guarded by taxonomyMu so callers may register
// kinds from init functions in different packages.
var (
	taxonomyMu sync.RWMutex
	taxonomy   = map[Kind]Kind{
		KindSetup:      KindFailure,
		KindBody:       KindFailure,
		KindTeardown:   KindFailure,
		KindSuppressed: KindFailure,
		KindCanceled:   KindBody,
	}
)

// Register adds a kind to the taxonomy under the given parent and returns it.
// Registering an already-known kind moves it under the new parent.
//
// The parent must already be registered (or be KindFailure); unknown parents
// are attached to KindFailure so the taxonomy stays connected.
//
// Example:
//
//	var KindConflict = scope.Register("CONFLICT", scope.KindBody)
func Register(kind, parent Kind) Kind {
	taxonomyMu.Lock()
	defer taxonomyMu.Unlock()

	if parent != KindFailure {
		if _, known := taxonomy[parent]; !known {
			taxonomy[parent] = KindFailure
		}
	}
	taxonomy[kind] = parent
	return kind
}

// Parent returns the parent of a kind and whether the kind is registered.
// KindFailure reports itself as unregistered since it has no parent.
func Parent(kind Kind) (Kind, bool) {
	taxonomyMu.RLock()
	defer taxonomyMu.RUnlock()

	parent, ok := taxonomy[kind]
	return parent, ok
}

// Is reports whether k equals ancestor or is a strict descendant of ancestor
// in the taxonomy. Unregistered kinds match only themselves and KindFailure.
func (k Kind) Is(ancestor Kind) bool {
	if k == ancestor {
		return true
	}
	if ancestor == KindFailure {
		return true
	}

	taxonomyMu.RLock()
	defer taxonomyMu.RUnlock()

	// Walk toward the root. The walk is bounded by the map size, so a
	// registration that accidentally introduced a cycle cannot hang the
	// matcher.
	cur := k
	for range len(taxonomy) {
		parent, ok := taxonomy[cur]
		if !ok {
			return false
		}
		if parent == ancestor {
			return true
		}
		cur = parent
	}
	return false
}

// Covers reports whether kind is covered by the given set: covered means the
// kind equals a member of the set or descends from one. An empty set covers
// nothing.
func Covers(set []Kind, kind Kind) bool {
	for _, member := range set {
		if kind.Is(member) {
			return true
		}
	}
	return false
}
