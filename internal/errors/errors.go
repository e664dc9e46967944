package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the predefined values
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code && e.Message == t.Message
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Error codes
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeStorage             = "STORAGE_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// Predefined domain errors
var (
	// Input errors
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "invalid input")
	ErrUserExists         = NewDomainError(CodeInvalidInput, "Username or email already registered")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid credentials")
	ErrEmptyMessage       = NewDomainError(CodeInvalidInput, "message must not be empty")
	ErrInvalidContent     = NewDomainError(CodeInvalidInput, "content must be a valid JSON document")

	// Authentication errors
	ErrUnauthenticated     = NewDomainError(CodeUnauthenticated, "Not authenticated")
	ErrInvalidToken        = NewDomainError(CodeUnauthenticated, "Invalid or expired token")
	ErrInvalidRefreshToken = NewDomainError(CodeUnauthenticated, "Invalid or expired refresh token")
	ErrNoRefreshToken      = NewDomainError(CodeUnauthenticated, "No refresh token provided")
	ErrInactiveUser        = NewDomainError(CodeUnauthenticated, "User is inactive")

	// Authorization errors
	ErrForbidden = NewDomainError(CodeForbidden, "Access forbidden")

	// Lookup errors
	ErrUserNotFound         = NewDomainError(CodeNotFound, "User not found")
	ErrRefreshTokenNotFound = NewDomainError(CodeNotFound, "Refresh token not found")
	ErrLeadNotFound         = NewDomainError(CodeNotFound, "Lead not found")
	ErrBlogNotFound         = NewDomainError(CodeNotFound, "Blog not found")

	// System errors
	ErrStorage             = NewDomainError(CodeStorage, "storage error")
	ErrDefaultRoleMissing  = NewDomainError(CodeStorage, "Default role not found")
	ErrUpstreamUnavailable = NewDomainError(CodeUpstreamUnavailable, "upstream service unavailable")
	ErrInternal            = NewDomainError(CodeInternal, "internal server error")
)

// NewForbidden reports a missing module:action permission
func NewForbidden(permission string) *DomainError {
	return NewDomainError(CodeForbidden, "Missing permission: "+permission)
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// HasCode reports whether err is a domain error with the given code
func HasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case CodeInvalidInput, CodeInvalidCredentials:
		return http.StatusBadRequest

	case CodeUnauthenticated:
		return http.StatusUnauthorized

	case CodeForbidden:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	case CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
