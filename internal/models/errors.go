package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingInspectorName  = errors.New("inspector name is required")
	ErrMissingInspectorEmail = errors.New("inspector email is required")
	ErrInvalidInspectorEmail = errors.New("inspector email is not a valid email address")
	ErrMissingInspectionDate = errors.New("inspection date is required")
	ErrMissingUserName       = errors.New("name is required")
	ErrInvalidUserEmail      = errors.New("a valid email is required")
	ErrMissingUserPhone      = errors.New("phone number is required")
	ErrInvalidRole           = errors.New("role must be technician, manager or admin")
	ErrUnknownSection        = errors.New("unknown section")
)

// Sentinel errors for entity lookups and access control.
var (
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrUserNotFound       = errors.New("user not found")

	// ErrNotAuthenticated indicates the session is missing or expired.
	// Surfaced distinctly from validation errors and halts the pending
	// transition without side effects.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden indicates an ownership or editability violation: a
	// non-admin actor touching an inspection it does not own, or one that
	// is no longer a draft.
	ErrForbidden = errors.New("forbidden")

	// ErrMissingInspectionID indicates a section save was attempted before
	// the aggregate was first created (precondition failure).
	ErrMissingInspectionID = errors.New("inspection id is required before saving sections")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// StepError reports which form step failed validation and why. It is always
// recoverable locally and never logged as a system fault.
type StepError struct {
	Step    int
	Message string
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return e.Message
}

// NewStepError builds a StepError for the given step.
func NewStepError(step int, format string, args ...any) *StepError {
	return &StepError{Step: step, Message: fmt.Sprintf(format, args...)}
}
