package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state a payment was recorded with.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed:
		return true
	}
	return false
}

// PaymentMethod is how the borrower paid.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodGCash        PaymentMethod = "GCash"
	PaymentMethodATMCard      PaymentMethod = "ATM Card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodGCash, PaymentMethodATMCard:
		return true
	}
	return false
}

// Payment is a single ledger entry for a loan. It references the loan by ID
// only and is never modified after it is recorded.
type Payment struct {
	ID          string          `json:"id"`
	LoanID      string          `json:"loanId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Status      PaymentStatus   `json:"status"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`
}

// RecordPaymentRequest is the add payment form.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Method      PaymentMethod   `json:"method" validate:"omitempty,oneof='Cash' 'Bank Transfer' 'GCash' 'ATM Card'"`
	Status      PaymentStatus   `json:"status" validate:"omitempty,oneof=Completed Pending Failed"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description" validate:"required"`
	Notes       string          `json:"notes,omitempty"`
}
