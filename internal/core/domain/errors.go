package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrCityNotFound       = errors.New("city not found")
	ErrCityExists         = errors.New("city with this name already exists")
	ErrCityUnavailable    = errors.New("selected city is not available")
	ErrCityInUse          = errors.New("city is still referenced by users")
	ErrInvalidRole        = errors.New("valid role (ADMIN or USER) is required")
	ErrSelfDemotion       = errors.New("you cannot demote yourself")
	ErrSelfDeletion       = errors.New("you cannot delete yourself")
	ErrForbidden          = errors.New("access forbidden")
)

// FieldError describes one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a request. Nothing is applied
// when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation errors: " + strings.Join(msgs, "; ")
}

// NewValidationError is a shorthand for a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
