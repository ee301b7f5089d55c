// Package shared contains the error vocabulary used by every domain package.
// It has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, matched with errors.Is().
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorage marks failures to persist state. These are never recoverable
	// by retrying the same operation blindly.
	ErrStorage = errors.New("storage failure")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "student", "ledger", "account"
	Op      string // operation that failed, e.g. "AddStudent"
	Kind    error  // base error kind for errors.Is()
	Message string
	Err     error // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching on both the kind and the cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// StorageError wraps a persistence failure.
func StorageError(domain, op, message string, err error) *DomainError {
	return WrapError(domain, op, ErrStorage, message, err)
}

// Student record errors.
var (
	ErrStudentNotFound    = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentIDTaken     = NewDomainError("student", "Add", ErrAlreadyExists, "student id already exists")
	ErrUsernameTaken      = NewDomainError("student", "Add", ErrAlreadyExists, "username already exists")
	ErrBlankStudentID     = NewDomainError("student", "Validate", ErrEmptyValue, "student id is required")
	ErrBlankUsername      = NewDomainError("student", "Validate", ErrEmptyValue, "username is required")
	ErrBlankPassword      = NewDomainError("student", "Validate", ErrEmptyValue, "password is required")
	ErrBlankSubject       = NewDomainError("student", "Validate", ErrEmptyValue, "subject is required")
	ErrBlankDate          = NewDomainError("student", "Validate", ErrEmptyValue, "date is required")
	ErrScoreOutOfRange    = NewDomainError("student", "Validate", ErrValueOutOfRange, "score must be between 0 and 100")
	ErrInvalidAttendance  = NewDomainError("student", "Validate", ErrInvalidInput, "status must be Present or Absent")
	ErrReservedCharacter  = NewDomainError("student", "Validate", ErrInvalidFormat, "value contains a reserved delimiter")
	ErrUnstorablePassword = NewDomainError("student", "Validate", ErrInvalidFormat, "password contains characters that cannot be stored")
	ErrInvalidCredentials = NewDomainError("account", "Authenticate", ErrUnauthorized, "invalid username or password")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is any kind of input rejection.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound)
}

// IsStorage checks if the error came from a failed write.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
