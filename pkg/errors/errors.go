package errors

import (
	"fmt"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when input validation fails (bad file type,
// oversized upload, malformed payload). Reported inline, no retry.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrPrecondition is returned when an operation runs before its
// requirements are met (missing photo, missing selection, missing
// variant). No state is mutated when this is returned.
type ErrPrecondition struct {
	Message string
}

func (e *ErrPrecondition) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "precondition failed"
}

// ErrExternal is returned when an outbound call (catalog, cart, webhook)
// fails. Callers mask these behind demo/placeholder fallbacks so the
// widget never shows a raw failure state.
type ErrExternal struct {
	Service string
	Err     error
}

func (e *ErrExternal) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ErrExternal) Unwrap() error {
	return e.Err
}

// ErrInvalidStateTransition is returned when a session phase transition
// is attempted out of order
type ErrInvalidStateTransition struct {
	From domain.SessionPhase
	To   domain.SessionPhase
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
