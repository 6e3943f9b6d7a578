package dto

import (
	"net/http"

	"github.com/propertyhub/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeServiceUnavailable is used when a required collaborator is not configured
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Input error codes
const (
	// ErrCodeValidation is the base code for request and billing input validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Billing error codes
const (
	// ErrCodeNotFound is used when a building, unit or type is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConfiguration is used when building or utility setup is unusable
	ErrCodeConfiguration = "ERR_CONFIGURATION"
	// ErrCodeUnsupportedMethod is used for calculation methods the engine cannot price
	ErrCodeUnsupportedMethod = "ERR_UNSUPPORTED_METHOD"
	// ErrCodeUpstream is used when the contract or invoice service fails
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConfiguration:     http.StatusUnprocessableEntity,
	ErrCodeUnsupportedMethod: http.StatusUnprocessableEntity,
	ErrCodeUpstream:          http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeNotFound:          ErrCodeNotFound,
	shared.CodeInvalidInput:      ErrCodeInvalidInput,
	shared.CodeConfiguration:     ErrCodeConfiguration,
	shared.CodeValidation:        ErrCodeValidation,
	shared.CodeUnsupportedMethod: ErrCodeUnsupportedMethod,
	shared.CodeUpstream:          ErrCodeUpstream,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes that are already in API form pass through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeUnknown
}
