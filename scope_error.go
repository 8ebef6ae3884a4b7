package scope

import (
	stderrors "errors"
	"fmt"
)

// scopeError is the concrete implementation of ScopeError.
// It is private to enforce construction through package functions.
type scopeError struct {
	kind    Kind
	message string
	cause   error
}

// Error returns the string representation of the error.
// Format: "[KIND] message" or "[KIND] message: cause" if cause is present.
func (e *scopeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.kind, e.message)
}

// Kind returns the failure kind.
func (e *scopeError) Kind() Kind {
	return e.kind
}

// Message returns the error message.
func (e *scopeError) Message() string {
	return e.message
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *scopeError) Unwrap() error {
	return e.cause
}

// asScopeError returns the outermost ScopeError in err's chain, or nil.
func asScopeError(err error) ScopeError {
	var scopeErr ScopeError
	if stderrors.As(err, &scopeErr) {
		return scopeErr
	}
	return nil
}
