package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrForbidden indicates that the caller may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a uniqueness violation such as a duplicate email
	ErrConflict = errors.New("conflict")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidationFailed) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ForbiddenError carries the reason a permission check failed.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return ErrForbidden.Error()
	}
	return "forbidden: " + e.Reason
}

// Is lets errors.Is(err, ErrForbidden) match any ForbiddenError.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
