package services

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Controllers map these onto HTTP statuses:
// ValidationError -> 400, ErrNotFound -> 404, ErrReferenced -> 409.

var (
	ErrNotFound   = errors.New("record not found")
	ErrReferenced = errors.New("record is referenced by dependent records")
)

// ValidationError reports malformed or out-of-range input. Recoverable by the
// caller correcting the request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation failure
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
