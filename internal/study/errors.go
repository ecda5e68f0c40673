package study

import (
	"errors"
	"fmt"
)

var (
	ErrNoCurrentItem  = errors.New("no current item to rate")
	ErrInvalidRating  = errors.New("rating must be between 1 (again) and 4 (easy)")
	ErrRatingInFlight = errors.New("a rating for this item is already being submitted")
	ErrInvalidOptions = errors.New("invalid queue options")
	ErrStaleRequest   = errors.New("request superseded by a newer one")
)

// ValidationError reports a caller mistake detected before any network call.
// It is never retried automatically.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NetworkError reports that a remote collaborator could not be reached or
// rejected the call. State is left consistent so the operation can be retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
