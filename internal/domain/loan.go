package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored records are shared with clients that expect plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// LoanStatus is the persisted lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "Active"
	LoanStatusPaid   LoanStatus = "Paid"
)

// TermStatus is derived from the loan's end date relative to now.
type TermStatus string

const (
	TermStatusActive    TermStatus = "Active"
	TermStatusOverdue   TermStatus = "Overdue"
	TermStatusCompleted TermStatus = "Completed"
)

// Loan represents a loan entity. A loan is owned by the client record it was
// entered on and shares that client's ID.
type Loan struct {
	ID              string           `json:"id"`
	ClientName      string           `json:"clientName"`
	ClientPhone     string           `json:"clientPhone,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	InterestAmount  *decimal.Decimal `json:"interestAmount,omitempty"`
	InterestPercent *decimal.Decimal `json:"interestPercent,omitempty"`
	Status          LoanStatus       `json:"status"`
}

// LoanOverview pairs a loan with its metrics for list views. Metrics is nil
// when they cannot be computed, e.g. for a zero-amount loan.
type LoanOverview struct {
	Loan    Loan         `json:"loan"`
	Metrics *LoanMetrics `json:"metrics,omitempty"`
}

// LoanDetails is the detail view of a single loan.
type LoanDetails struct {
	Loan     Loan         `json:"loan"`
	Payments []Payment    `json:"payments"`
	Metrics  *LoanMetrics `json:"metrics,omitempty"`
}

// LoanMetrics is derived from a loan, its payments and the current time. It
// is never persisted.
type LoanMetrics struct {
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
	DaysElapsed        int             `json:"daysElapsed"`
	TotalDays          int             `json:"totalDays"`
	DaysRemaining      *int            `json:"daysRemaining,omitempty"`
	IsOverdue          bool            `json:"isOverdue"`
	Status             TermStatus      `json:"status"`
	NextPaymentDate    time.Time       `json:"nextPaymentDate"`
	NextPaymentAmount  decimal.Decimal `json:"nextPaymentAmount"`
}

// PortfolioSummary aggregates every loan a lender is tracking.
type PortfolioSummary struct {
	ActiveLoans            int             `json:"activeLoans"`
	OverdueLoans           int             `json:"overdueLoans"`
	TotalLent              decimal.Decimal `json:"totalLent"`
	TotalOutstanding       decimal.Decimal `json:"totalOutstanding"`
	PaymentsThisMonth      int             `json:"paymentsThisMonth"`
	TotalPaymentsThisMonth decimal.Decimal `json:"totalPaymentsThisMonth"`
}
