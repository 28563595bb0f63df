package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error codes understood by the HTTP layer.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidState        = "INVALID_STATE"
	CodeOverpaymentRejected = "OVERPAYMENT_REJECTED"
	CodeTransactionFailed   = "TRANSACTION_FAILED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) matches every not-found error.
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

// WrapDomainError creates a domain error that keeps cause reachable through errors.Unwrap.
func WrapDomainError(code string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: cause.Error(),
		Err:     cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidationFailed    = NewDomainError(CodeValidationFailed, "Validation failed")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrOverpaymentRejected = NewDomainError(CodeOverpaymentRejected, "Payment exceeds the expected total")
	ErrTransactionFailed   = NewDomainError(CodeTransactionFailed, "Transaction failed")
)

// NotFound builds a NOT_FOUND error naming the missing entity.
func NotFound(entity string, id uuid.UUID) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id))
}

// Validation builds a VALIDATION_FAILED error.
func Validation(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidationFailed, fmt.Sprintf(format, args...))
}

// InvalidState builds an INVALID_STATE error.
func InvalidState(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidState, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
