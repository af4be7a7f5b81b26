package formflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInFlight is returned when a submit or field change arrives while a
	// collaborator call for the same instance is still pending.
	ErrInFlight = errors.New("submission already in progress")

	// ErrClosed is returned once the instance has succeeded.
	ErrClosed = errors.New("form already submitted")

	ErrUnknownForm = errors.New("unknown form")
	ErrNotFound    = errors.New("form instance not found")
)

// ValidationError is a local, synchronous rejection of the current fields.
// It never reaches a collaborator.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// CollaboratorError carries the external service's message verbatim.
type CollaboratorError struct {
	Message string
	Err     error
}

func (e *CollaboratorError) Error() string {
	return e.Message
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError is returned when a state change is not allowed.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// AsValidation unwraps err into a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsCollaborator unwraps err into a *CollaboratorError.
func AsCollaborator(err error) (*CollaboratorError, bool) {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
