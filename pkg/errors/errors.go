package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")
	ErrClientNotFound = errors.New("client not found")
	ErrLoanNotFound   = errors.New("loan not found")
	ErrStorage        = errors.New("storage failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeDivisionByZero = "DIVISION_BY_ZERO"
	ErrCodeClientNotFound = "CLIENT_NOT_FOUND"
	ErrCodeLoanNotFound   = "LOAN_NOT_FOUND"
	ErrCodeStorageError   = "STORAGE_ERROR"
)

// WrapInvalidInput reports a value that failed its precondition.
func WrapInvalidInput(field, reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf("%s %s", field, reason),
		ErrInvalidInput,
	)
}

func WrapDivisionByZero(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDivisionByZero,
		fmt.Sprintf("Loan with ID %s has a zero amount", loanID),
		ErrDivisionByZero,
	)
}

func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", clientID),
		ErrClientNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

// WrapStorageError keeps the store's error in the chain alongside ErrStorage.
func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		fmt.Errorf("%w: %w", ErrStorage, err),
	)
}

// Code extracts the business error code from err, or "" if there is none.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
