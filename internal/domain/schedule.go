package domain

import (
	"github.com/shopspring/decimal"
)

// TermUnit is the unit a loan term is entered in.
type TermUnit string

const (
	TermUnitMonths TermUnit = "months"
	TermUnitYears  TermUnit = "years"
)

// LoanTerms are the inputs of an amortization calculation.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TermValue         int
	TermUnit          TermUnit
}

// TotalMonths converts the term to months.
func (t LoanTerms) TotalMonths() int {
	if t.TermUnit == TermUnitYears {
		return t.TermValue * 12
	}
	return t.TermValue
}

// MonthlyRate is the annual percentage rate as a monthly fraction.
func (t LoanTerms) MonthlyRate() decimal.Decimal {
	return t.AnnualRatePercent.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
}

// AmortizationResult summarizes a fixed-payment loan.
type AmortizationResult struct {
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	TotalPayment    decimal.Decimal `json:"totalPayment"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	TotalMonths     int             `json:"totalMonths"`
	MonthlyRate     decimal.Decimal `json:"monthlyRate"`
}

// AmortizationEntry is one month of an amortization schedule.
type AmortizationEntry struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// DTOs for requests and responses

type CalculateRequest struct {
	Principal         decimal.Decimal `json:"principal" validate:"gt=0"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent" validate:"gte=0,lte=100"`
	Term              int             `json:"term" validate:"gt=0"`
	TermUnit          TermUnit        `json:"termUnit" validate:"omitempty,oneof=months years"`
	Rows              int             `json:"rows" validate:"gte=0"`
}

type CalculateResponse struct {
	Result    AmortizationResult  `json:"result"`
	Schedule  []AmortizationEntry `json:"schedule"`
	Formatted FormattedResult     `json:"formatted"`
}

// FormattedResult carries display strings for the calculator screen.
type FormattedResult struct {
	MonthlyPayment string `json:"monthlyPayment"`
	TotalPayment   string `json:"totalPayment"`
	TotalInterest  string `json:"totalInterest"`
}
