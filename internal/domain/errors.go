package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotInitialized     = errors.New("registry not initialized")
	ErrAlreadyInitialized = errors.New("registry already initialized")
	ErrInvalidTask        = errors.New("invalid task")
	ErrMediumUnavailable  = errors.New("durable medium unavailable")
	ErrMediumFull         = errors.New("durable medium out of space")
)

// ValidationKind classifies why a candidate task text was rejected.
type ValidationKind string

// Validation failure kinds, first matching rule wins.
const (
	KindNotString ValidationKind = "not_a_string" // stored record text absent or not a string
	KindEmpty     ValidationKind = "empty"        // trimmed text is empty
	KindTooLong   ValidationKind = "too_long"     // trimmed text exceeds MaxTextLength
	KindUnsafe    ValidationKind = "unsafe"       // text matches an unsafe markup pattern
)

// ValidationError reports a rejected task text. It is always recoverable:
// the caller gets the error and no mutation is performed.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Message)
}

// AsValidationError unwraps err into a *ValidationError, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
