package scope

import "log/slog"

// Suppressor is a guard that absorbs failure outcomes whose kind is covered
// by its configured kind set. It acquires nothing: Enter returns a nil
// handle. An empty kind set never suppresses anything, and a success outcome
// is always propagated untouched.
type Suppressor struct {
	kinds      []Kind
	logger     *slog.Logger
	onSuppress func(Outcome)

	entered bool
	exited  bool
}

// SuppressOption configures a Suppressor.
type SuppressOption func(*Suppressor)

// WithLogger reports each suppressed failure on the given logger at Warn
// level. Reporting is guard-local policy: suppressed failures stay invisible
// to the caller either way.
func WithLogger(logger *slog.Logger) SuppressOption {
	return func(s *Suppressor) {
		s.logger = logger
	}
}

// WithOnSuppress registers a callback invoked with each suppressed failure
// outcome. Useful for tests and metrics.
func WithOnSuppress(fn func(Outcome)) SuppressOption {
	return func(s *Suppressor) {
		s.onSuppress = fn
	}
}

// SuppressKinds builds a guard that suppresses failures of the given kinds
// and their descendants.
//
// Example:
//
//	sup := scope.SuppressKinds(scope.KindTeardown)
//	err := scope.Compose(fileGuard, sup).Run(body)
func SuppressKinds(kinds ...Kind) *Suppressor {
	return NewSuppressor(kinds)
}

// NewSuppressor builds a Suppressor from a kind set and options.
func NewSuppressor(kinds []Kind, opts ...SuppressOption) *Suppressor {
	s := &Suppressor{kinds: kinds}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enter implements Guard. A suppressor acquires no resource; the handle is
// nil.
func (s *Suppressor) Enter() (any, error) {
	if s.entered {
		return nil, ErrGuardReused
	}
	s.entered = true
	return nil, nil
}

// Exit implements Guard. It suppresses a failure iff the failure's kind
// equals a configured kind or descends from one.
func (s *Suppressor) Exit(outcome Outcome) (Decision, error) {
	if s.exited {
		return Propagate, ErrGuardReused
	}
	s.exited = true

	if !outcome.Failed() {
		return Propagate, nil
	}
	if !Covers(s.kinds, outcome.Kind()) {
		return Propagate, nil
	}

	if s.logger != nil {
		s.logger.Warn("suppressed failure",
			"kind", string(outcome.Kind()),
			"message", outcome.Message(),
		)
	}
	if s.onSuppress != nil {
		s.onSuppress(outcome)
	}
	return Suppress, nil
}
