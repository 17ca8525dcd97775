package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the parent of every "entity absent" error
	ErrNotFound = errors.New("not found")

	// ErrJobNotFound is returned when a job id does not resolve
	ErrJobNotFound = fmt.Errorf("job %w", ErrNotFound)

	// ErrApplicationNotFound is returned when an application id does not resolve
	ErrApplicationNotFound = fmt.Errorf("application %w", ErrNotFound)

	// ErrAdminUserNotFound is returned when no admin has the given email
	ErrAdminUserNotFound = fmt.Errorf("admin user %w", ErrNotFound)

	// ErrAdminUserExists is returned when an admin with the email is already registered
	ErrAdminUserExists = errors.New("admin user already exists")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	// ErrInvalidCredentials is returned for any failed sign-in; the message does not
	// reveal whether the email exists
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when a session is missing, unknown or expired
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation is the parent of ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks failures writing a resume or a row
	ErrStorage = errors.New("storage failure")
)

// ValidationError lists the offending fields of a write request
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewMissingFieldsError reports required fields that were left empty
func NewMissingFieldsError(fields ...string) error {
	return &ValidationError{Fields: fields, Reason: "missing required fields"}
}

// NewInvalidFieldError reports a field carrying an unacceptable value
func NewInvalidFieldError(field, reason string) error {
	return &ValidationError{Fields: []string{field}, Reason: reason}
}
