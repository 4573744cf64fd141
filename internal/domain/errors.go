package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrTransport is returned when a search or language-model call fails on the wire
	ErrTransport = errors.New("upstream transport failure")

	// ErrParse is returned when a single upstream field cannot be parsed
	ErrParse = errors.New("malformed upstream field")

	// ErrValidation is returned when a judge reply is not a usable answer
	ErrValidation = errors.New("invalid judge response")

	// ErrExhausted is returned when every refinement strategy misses the product threshold
	ErrExhausted = errors.New("refinement strategies exhausted")

	// ErrIntentGeneration is returned when no gift intents could be generated
	ErrIntentGeneration = errors.New("intent generation unavailable")

	// ErrNoCandidates is returned when an intent has no unconsumed products to bind
	ErrNoCandidates = errors.New("no candidate products")

	// ErrCollaboratorDisabled is returned by collaborators running without credentials
	ErrCollaboratorDisabled = errors.New("collaborator not configured")
)

// ParseError describes a record field that could not be parsed.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: field %s=%q", ErrParse, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ValidationError describes a judge reply that could not be used.
type ValidationError struct {
	Reply  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s (reply %q)", ErrValidation, e.Reason, e.Reply)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
