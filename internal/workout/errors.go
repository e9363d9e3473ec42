package workout

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange    = errors.New("index out of range")
	ErrInvalidValue  = errors.New("invalid value")
	ErrNotActive     = errors.New("no active workout session")
	ErrAlreadyActive = errors.New("workout session already active")
	// ErrConfirmDiscard is returned when ending a session without any exercises.
	// Not a failure: the caller has to either discard or add exercises.
	ErrConfirmDiscard = errors.New("session has no exercises, confirm discard")
	ErrNotFound       = errors.New("not found")
	ErrUserExists     = errors.New("user with that email already exists")
)

// ValidationError is a rejected call: bad index or malformed value. Session state is unchanged.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistenceError means the workout write failed and nothing was committed.
// The session stays active so the same snapshot can be saved again.
type PersistenceError struct {
	Attempts int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save workout failed after %d attempt(s): %s", e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PRComputationError is a non-fatal failure of personal record evaluation,
// after the workout was already committed.
type PRComputationError struct {
	WorkoutID int64
	Err       error
}

func (e *PRComputationError) Error() string {
	return fmt.Sprintf("personal records for workout %d: %s", e.WorkoutID, e.Err)
}

func (e *PRComputationError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
