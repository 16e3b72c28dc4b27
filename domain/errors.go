package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeValidation           ErrorCode = "VALIDATION"
	ErrCodeComplianceIncomplete ErrorCode = "COMPLIANCE_INCOMPLETE"
	ErrCodeInvalidPackage       ErrorCode = "INVALID_PACKAGE"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeStorage              ErrorCode = "STORAGE"
	ErrCodeInternal             ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrOrderNotFound     = NewError(ErrCodeNotFound, "order not found")
	ErrSupplierNotFound  = NewError(ErrCodeNotFound, "supplier not found")
	ErrPackageNotFound   = NewError(ErrCodeNotFound, "package not found")
	ErrNoteNotFound      = NewError(ErrCodeNotFound, "note not found")
	ErrUserNotFound      = NewError(ErrCodeNotFound, "user not found")
	ErrOTPNotFound       = NewError(ErrCodeNotFound, "no code issued for this email")
	ErrTrackingCodeTaken = NewError(ErrCodeConflict, "tracking code already in use")
	ErrUnauthorized      = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrForbidden         = NewError(ErrCodeForbidden, "operation not allowed for this role")
	ErrInvalidPayload    = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
