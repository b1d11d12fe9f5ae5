package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStorage       = errors.New("storage failure")
)

// ValidationError reports missing or invalid request fields. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields  []string
	Message string
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// MissingFields builds the error returned when required fields are absent or empty.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: "missing required field: " + strings.Join(fields, ", "),
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
