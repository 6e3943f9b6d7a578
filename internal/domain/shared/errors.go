package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that a
// detailed error built with NewDomainError matches its category sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	CodeUpstream          = "UPSTREAM_ERROR"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConfiguration     = NewDomainError(CodeConfiguration, "Billing configuration is incomplete")
	ErrValidation        = NewDomainError(CodeValidation, "Billing input failed validation")
	ErrUnsupportedMethod = NewDomainError(CodeUnsupportedMethod, "Calculation method is not supported")
	ErrUpstream          = NewDomainError(CodeUpstream, "External service call failed")
)

// NewConfigurationError creates a CONFIGURATION_ERROR with a specific message
func NewConfigurationError(message string) *DomainError {
	return NewDomainError(CodeConfiguration, message)
}

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewUnsupportedMethodError creates an UNSUPPORTED_METHOD error with a specific message
func NewUnsupportedMethodError(message string) *DomainError {
	return NewDomainError(CodeUnsupportedMethod, message)
}

// ErrorCode returns the DomainError code carried by err, or "" for foreign errors
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
