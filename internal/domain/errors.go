package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound signals a missing lost or found report.
	ErrItemNotFound = errors.New("item not found")
	// ErrConnectionNotFound signals a missing connection.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrMessageNotFound signals a missing contact message.
	ErrMessageNotFound = errors.New("message not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals a report or request that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition signals a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionError wraps ErrInvalidTransition with the offending statuses.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError creates an invalid transition error.
func NewTransitionError(from, to string) error {
	return &TransitionError{From: from, To: to}
}
