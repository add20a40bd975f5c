package types

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNotOwner     = errors.New("action restricted to the reporting user")

	// ErrInvalidTransition is returned when a reverse status transition
	// is attempted; pending->found and unclaimed->claimed are the only
	// directions exposed.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrTooManyImages   = errors.New("too many images attached to report")
	ErrMissingField    = errors.New("missing required field")
	ErrBadCategory     = errors.New("unknown category")
	ErrSignInCancelled = errors.New("sign-in was cancelled")
)
