package game

import "errors"

var (
	// ErrInvariant marks a structurally impossible state. The game that hit it
	// is aborted; batch drivers may discard the sample and retry.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrConfig marks a roster or catalog problem found at construction.
	// Retrying with fresh randomness cannot fix it.
	ErrConfig = errors.New("invalid game configuration")

	// ErrEmptyDiscard is returned by Draw when both a deck and its discard
	// pile are exhausted.
	ErrEmptyDiscard = errors.New("draw and discard piles are both empty")

	// ErrEncounterLimit is returned when a game exceeds its encounter budget.
	ErrEncounterLimit = errors.New("encounter limit reached")
)

// invariantError ties a specific cause to ErrInvariant so errors.Is matches
// both the category and the cause.
type invariantError struct {
	msg   string
	cause error
}

func (e *invariantError) Error() string {
	if e.cause != nil {
		return "internal invariant violated: " + e.msg + ": " + e.cause.Error()
	}
	return "internal invariant violated: " + e.msg
}

func (e *invariantError) Is(target error) bool {
	return target == ErrInvariant
}

func (e *invariantError) Unwrap() error {
	return e.cause
}

func invariant(msg string, cause error) error {
	return &invariantError{msg: msg, cause: cause}
}
