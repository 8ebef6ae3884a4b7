package scope

import "errors"

// ScopeError extends the standard error interface with the failure kind used
// by suppression matching.
//
// ScopeError maintains compatibility with standard library error handling
// (errors.Is, errors.As, errors.Unwrap).
type ScopeError interface {
	error

	// Kind returns the failure kind identifying where in the guard
	// lifecycle the error arose.
	Kind() Kind

	// Message returns the human-readable error message.
	Message() string

	// Unwrap returns the wrapped error for errors.Is and errors.As
	// compatibility. Returns nil if this error does not wrap another error.
	Unwrap() error
}

// Sentinel errors for guard lifecycle misuse.
var (
	// ErrGuardReused is returned by Enter when a guard is entered a second
	// time. A guard's lifetime is exactly one Enter/Exit pair.
	ErrGuardReused = errors.New("scope: guard already used")

	// ErrScopeConsumed is returned by Run when a Composite is run a second
	// time. A composite does not outlive its enclosing block.
	ErrScopeConsumed = errors.New("scope: composite already consumed")
)
