package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessErrorChain(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
		contains string
	}{
		{
			name:     "invalid input",
			err:      WrapInvalidInput("principal", "must be greater than 0"),
			sentinel: ErrInvalidInput,
			code:     ErrCodeInvalidInput,
			contains: "principal must be greater than 0",
		},
		{
			name:     "division by zero",
			err:      WrapDivisionByZero("L1"),
			sentinel: ErrDivisionByZero,
			code:     ErrCodeDivisionByZero,
			contains: "L1",
		},
		{
			name:     "loan not found",
			err:      WrapLoanNotFound("L2"),
			sentinel: ErrLoanNotFound,
			code:     ErrCodeLoanNotFound,
			contains: "Loan with ID L2 not found",
		},
		{
			name:     "client not found",
			err:      WrapClientNotFound("C1"),
			sentinel: ErrClientNotFound,
			code:     ErrCodeClientNotFound,
			contains: "C1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.code, Code(tt.err))
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestWrapStorageErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapStorageError(cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrCodeStorageError, Code(err))
}

func TestCodeWithoutBusinessError(t *testing.T) {
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.Equal(t, "", Code(nil))
}
