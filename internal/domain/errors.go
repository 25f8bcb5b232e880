package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrJobNotFound signals a missing job record.
	ErrJobNotFound = errors.New("job not found")
	// ErrSessionNotFound signals a missing or expired agent session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrValidation signals a malformed request rejected at the boundary.
	ErrValidation = errors.New("validation failed")
	// ErrCorpusNotReady signals that no corpus snapshot has been loaded yet.
	ErrCorpusNotReady = errors.New("corpus not ready")
	// ErrSkillExtraction signals a failure of the resume skill extractor.
	ErrSkillExtraction = errors.New("skill extraction failed")
)

// FieldError wraps ErrValidation with the offending request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError creates a validation error for a single field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
