package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a store for an unknown submission id.
	ErrNotFound = errors.New("submission not found")
	// ErrInvalidTransition matches every *InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrTranscriptionFailed wraps transcription collaborator failures.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrPostingFailed wraps posting collaborator failures.
	ErrPostingFailed = errors.New("posting failed")
	// ErrDeliveryFailed wraps notification collaborator failures.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrInvalidInput marks a request rejected before reaching the state machine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration marks unusable configuration that was replaced by a default.
	ErrConfiguration = errors.New("configuration error")
)

// InvalidTransitionError reports an operation that is illegal for the current status.
type InvalidTransitionError struct {
	Current   Status
	Operation string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s submission with status %s", e.Operation, e.Current)
}

// Is makes errors.Is(err, ErrInvalidTransition) true.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
