package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is the record stored for each borrower. Fields were added over time,
// so everything but ID and Name is optional and may be missing from old data.
type Client struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone,omitempty"`
	Employment      string           `json:"employment,omitempty"`
	FacebookLink    string           `json:"facebookLink,omitempty"`
	Address         string           `json:"address,omitempty"`
	LoanAmount      *decimal.Decimal `json:"loanAmount,omitempty"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	InterestAmount  *decimal.Decimal `json:"interestAmount,omitempty"`
	InterestPercent *decimal.Decimal `json:"interestPercent,omitempty"`
	LoanStatus      LoanStatus       `json:"loanStatus,omitempty"`
}

// HasLoan reports whether a loan amount was entered for the client.
func (c Client) HasLoan() bool {
	return c.LoanAmount != nil
}

// Loan returns the loan recorded on the client and whether there is one.
func (c Client) Loan() (Loan, bool) {
	if !c.HasLoan() {
		return Loan{}, false
	}

	status := c.LoanStatus
	if status == "" {
		status = LoanStatusActive
	}

	return Loan{
		ID:              c.ID,
		ClientName:      c.Name,
		ClientPhone:     c.Phone,
		Amount:          *c.LoanAmount,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		InterestAmount:  c.InterestAmount,
		InterestPercent: c.InterestPercent,
		Status:          status,
	}, true
}

// SaveClientRequest is the add/edit client form. Dates are ISO-8601 strings.
type SaveClientRequest struct {
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name" validate:"required"`
	Phone           string           `json:"phone"`
	Employment      string           `json:"employment"`
	FacebookLink    string           `json:"facebookLink"`
	Address         string           `json:"address"`
	LoanAmount      *decimal.Decimal `json:"loanAmount,omitempty" validate:"omitempty,gte=0"`
	StartDate       string           `json:"startDate,omitempty"`
	EndDate         string           `json:"endDate,omitempty"`
	InterestAmount  *decimal.Decimal `json:"interestAmount,omitempty" validate:"omitempty,gte=0"`
	InterestPercent *decimal.Decimal `json:"interestPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	LoanStatus      LoanStatus       `json:"loanStatus,omitempty" validate:"omitempty,oneof=Active Paid"`
}
