package scope

// Outcome describes how a protected block ended: success, or a failure
// carrying a kind and message. Outcomes are immutable values; exactly one
// variant is active.
type Outcome struct {
	err error
	// kind caches the failure kind so it survives wrapping.
	kind Kind
}

// Success returns the success outcome.
func Success() Outcome {
	return Outcome{}
}

// Failure returns a failure outcome with the given kind and message.
func Failure(kind Kind, message string) Outcome {
	return Outcome{
		err:  NewError(kind, message),
		kind: kind,
	}
}

// OutcomeOf classifies an error as an outcome. A nil error is Success. If the
// error chain carries a ScopeError its kind is used; otherwise the failure is
// classified as KindBody, the kind of a failed protected block.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Success()
	}

	kind := KindBody
	if scopeErr := asScopeError(err); scopeErr != nil {
		kind = scopeErr.Kind()
	}
	return Outcome{err: err, kind: kind}
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.err != nil
}

// Kind returns the failure kind. Returns KindFailure for a success outcome;
// callers should check Failed first.
func (o Outcome) Kind() Kind {
	if o.err == nil {
		return KindFailure
	}
	return o.kind
}

// Message returns the failure message, or "" for a success outcome.
func (o Outcome) Message() string {
	if o.err == nil {
		return ""
	}
	if scopeErr := asScopeError(o.err); scopeErr != nil {
		return scopeErr.Message()
	}
	return o.err.Error()
}

// Err returns the underlying error of a failure outcome, or nil for success.
func (o Outcome) Err() error {
	return o.err
}
