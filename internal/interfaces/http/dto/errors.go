package dto

import (
	"net/http"

	"github.com/chamanguitech/backend/internal/domain/shared"
)

// Error codes returned in the error envelope. Domain codes are passed
// through unchanged so clients see the same code the service produced.
const (
	ErrCodeNotFound            = shared.CodeNotFound
	ErrCodeAlreadyExists       = shared.CodeAlreadyExists
	ErrCodeValidation          = shared.CodeValidationFailed
	ErrCodeInvalidState        = shared.CodeInvalidState
	ErrCodeOverpaymentRejected = shared.CodeOverpaymentRejected
	ErrCodeTransactionFailed   = shared.CodeTransactionFailed
)

// Transport-level codes that have no domain counterpart.
const (
	// ErrCodeInternal is used when an error carries no domain code
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed bodies and path parameters
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when the bearer token is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key was already seen
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusConflict,
	ErrCodeOverpaymentRejected: http.StatusConflict,
	ErrCodeTransactionFailed:   http.StatusInternalServerError,

	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForError returns the envelope code for err. Errors without a domain
// code are reported as internal errors.
func CodeForError(err error) string {
	if code := shared.CodeOf(err); code != "" {
		return code
	}
	return ErrCodeInternal
}
