package scope

import (
	stderrors "errors"
	"fmt"
)

// NewError creates a new ScopeError with the given kind and message.
//
// Example:
//
//	err := scope.NewError(scope.KindBody, "record validation failed")
func NewError(kind Kind, message string) ScopeError {
	return &scopeError{
		kind:    kind,
		message: message,
		cause:   nil,
	}
}

// Errorf creates a new ScopeError with a formatted message.
//
// Example:
//
//	err := scope.Errorf(scope.KindSetup, "acquire failed after %d attempts", attempts)
func Errorf(kind Kind, format string, args ...interface{}) ScopeError {
	return &scopeError{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
		cause:   nil,
	}
}

// WrapError wraps an error with a kind and message while preserving the
// original error. The wrapped error is accessible via Unwrap() and compatible
// with errors.Is and errors.As.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := fs.Remove(path); err != nil {
//	    return scope.WrapError(err, scope.KindTeardown, "failed to remove scratch file")
//	}
func WrapError(err error, kind Kind, message string) ScopeError {
	if err == nil {
		return nil
	}
	return &scopeError{
		kind:    kind,
		message: message,
		cause:   err,
	}
}

// WrapErrorf wraps an error with a formatted message.
//
// Returns nil if err is nil.
func WrapErrorf(err error, kind Kind, format string, args ...interface{}) ScopeError {
	if err == nil {
		return nil
	}
	return WrapError(err, kind, fmt.Sprintf(format, args...))
}

// GetKind extracts the failure kind from an error.
// Returns KindFailure if the error is nil or carries no ScopeError in its
// chain: the root kind is the safe default since every suppressor set that
// covers it covers everything.
//
// This function handles the error chain and will extract the kind from the
// outermost ScopeError in the chain.
func GetKind(err error) Kind {
	if err == nil {
		return KindFailure
	}

	var scopeErr ScopeError
	if stderrors.As(err, &scopeErr) {
		return scopeErr.Kind()
	}

	return KindFailure
}
