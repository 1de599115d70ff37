package amatino

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidSessionFile indicates a saved session file is malformed
	ErrInvalidSessionFile = errors.New("invalid session file: create a new session with email or user id and secret")
	// ErrInvalidDenomination indicates a zero Denomination or one with both unit ids set
	ErrInvalidDenomination = errors.New("denomination must have exactly one of global or custom unit")
	// ErrInvalidArgument indicates a caller supplied an unusable value
	ErrInvalidArgument = errors.New("invalid argument")
)

// MismatchedIDError is returned when the API answers an update of one
// resource with a different resource.
type MismatchedIDError struct {
	Resource string
	Want     string
	Got      string
}

func (e *MismatchedIDError) Error() string {
	return fmt.Sprintf("%s update returned id %s, expected %s", e.Resource, e.Got, e.Want)
}
