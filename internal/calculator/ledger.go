package calculator

import (
	"sort"
	"time"

	"github.com/segyhp/lendbook/internal/domain"
	customError "github.com/segyhp/lendbook/pkg/errors"

	"github.com/shopspring/decimal"
)

// DefaultSuggestionInterval is the gap between suggested payments.
const DefaultSuggestionInterval = 7 * day

var (
	// DefaultInstallment is the suggested payment when none is configured.
	DefaultInstallment = decimal.NewFromInt(500)
	hundred            = decimal.NewFromInt(100)
)

// MetricsOptions tunes the next-payment suggestion. Zero values fall back to
// DefaultInstallment and DefaultSuggestionInterval.
type MetricsOptions struct {
	Installment        decimal.Decimal
	SuggestionInterval time.Duration
}

func (o MetricsOptions) withDefaults() MetricsOptions {
	if !o.Installment.IsPositive() {
		o.Installment = DefaultInstallment
	}
	if o.SuggestionInterval <= 0 {
		o.SuggestionInterval = DefaultSuggestionInterval
	}
	return o
}

// ComputeMetrics aggregates a loan's payments into its progress as of now.
// Only completed payments count towards the total paid. The remaining balance
// is not clamped, so an overpaid loan reports a negative balance.
func ComputeMetrics(loan domain.Loan, payments []domain.Payment, now time.Time, opts MetricsOptions) (domain.LoanMetrics, error) {
	if loan.Amount.IsZero() {
		return domain.LoanMetrics{}, customError.WrapDivisionByZero(loan.ID)
	}
	opts = opts.withDefaults()

	totalPaid := TotalPaid(payments)
	remaining := loan.Amount.Sub(totalPaid)

	progress := totalPaid.Div(loan.Amount).Mul(hundred)
	if progress.GreaterThan(hundred) {
		progress = hundred
	}

	status := DeriveStatus(loan.StartDate, loan.EndDate, now)

	return domain.LoanMetrics{
		TotalPaid:          totalPaid,
		RemainingBalance:   remaining,
		ProgressPercentage: progress,
		DaysElapsed:        status.DaysElapsed,
		TotalDays:          status.TotalDays,
		DaysRemaining:      status.DaysRemaining,
		IsOverdue:          status.IsOverdue,
		Status:             status.Status,
		NextPaymentDate:    NextPaymentDate(loan, payments, now, opts.SuggestionInterval),
		NextPaymentAmount:  decimal.Min(opts.Installment, remaining),
	}, nil
}

// TotalPaid sums the completed payments.
func TotalPaid(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentStatusCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// NextPaymentDate suggests when the next installment is due: one interval
// after the latest payment, or after the loan start (or now) if nothing has
// been paid yet.
func NextPaymentDate(loan domain.Loan, payments []domain.Payment, now time.Time, interval time.Duration) time.Time {
	if len(payments) == 0 {
		if loan.StartDate != nil {
			return loan.StartDate.Add(interval)
		}
		return now.Add(interval)
	}
	return SortNewestFirst(payments)[0].Date.Add(interval)
}

// SortNewestFirst returns a copy of payments ordered by date, latest first.
// Payments on the same date keep their relative order.
func SortNewestFirst(payments []domain.Payment) []domain.Payment {
	sorted := make([]domain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// MergePayments inserts incoming payments, given in submission order, at the
// head of an existing newest-first ledger. Entries are deduplicated by ID and
// the last write wins.
func MergePayments(existing []domain.Payment, incoming ...domain.Payment) []domain.Payment {
	merged := make([]domain.Payment, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	keep := func(p domain.Payment) {
		if _, ok := seen[p.ID]; ok {
			return
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}

	for i := len(incoming) - 1; i >= 0; i-- {
		keep(incoming[i])
	}
	for _, p := range existing {
		keep(p)
	}

	return merged
}
