package calculator

import (
	"math"

	"github.com/segyhp/lendbook/internal/domain"
	customError "github.com/segyhp/lendbook/pkg/errors"

	"github.com/shopspring/decimal"
)

const (
	// DefaultScheduleRows is how many months a schedule preview shows.
	DefaultScheduleRows = 12

	// MaxTermMonths is the longest term accepted, 100 years.
	MaxTermMonths = 1200

	// scheduleScale bounds the digits carried through the running balance.
	scheduleScale = 10
)

var (
	maxAnnualRate = decimal.NewFromInt(100)
	// Final-month balances below a cent are floating-point drift.
	balanceDrift = decimal.New(1, -2)
)

// ValidateTerms checks the preconditions of an amortization calculation.
func ValidateTerms(terms domain.LoanTerms) error {
	if !terms.Principal.IsPositive() {
		return customError.WrapInvalidInput("principal", "must be greater than 0")
	}
	if terms.AnnualRatePercent.IsNegative() || terms.AnnualRatePercent.GreaterThan(maxAnnualRate) {
		return customError.WrapInvalidInput("annual rate", "must be between 0 and 100 percent")
	}
	if terms.TermValue <= 0 {
		return customError.WrapInvalidInput("term", "must be greater than 0")
	}
	maxValue := MaxTermMonths
	switch terms.TermUnit {
	case domain.TermUnitMonths:
	case domain.TermUnitYears:
		maxValue = MaxTermMonths / 12
	default:
		return customError.WrapInvalidInput("term unit", "must be months or years")
	}
	if terms.TermValue > maxValue {
		return customError.WrapInvalidInput("term", "must not exceed 100 years")
	}
	return nil
}

// ComputeAmortization calculates the fixed monthly payment of a loan and the
// totals paid over its term.
//
// The calculation uses:
//
//	monthlyRate = annualRatePercent / 100 / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)
//
// An interest-free loan is split evenly over its months.
func ComputeAmortization(terms domain.LoanTerms) (domain.AmortizationResult, error) {
	if err := ValidateTerms(terms); err != nil {
		return domain.AmortizationResult{}, err
	}

	totalMonths := terms.TotalMonths()
	months := decimal.NewFromInt(int64(totalMonths))
	monthlyRate := terms.MonthlyRate()

	if monthlyRate.IsZero() {
		return domain.AmortizationResult{
			MonthlyPayment:  terms.Principal.Div(months),
			TotalPayment:    terms.Principal,
			TotalInterest:   decimal.Zero,
			PrincipalAmount: terms.Principal,
			TotalMonths:     totalMonths,
			MonthlyRate:     monthlyRate,
		}, nil
	}

	payment := annuityPayment(terms.Principal.InexactFloat64(), monthlyRate.InexactFloat64(), totalMonths)

	monthlyPayment := decimal.NewFromFloat(payment)
	totalPayment := monthlyPayment.Mul(months)

	return domain.AmortizationResult{
		MonthlyPayment:  monthlyPayment,
		TotalPayment:    totalPayment,
		TotalInterest:   totalPayment.Sub(terms.Principal),
		PrincipalAmount: terms.Principal,
		TotalMonths:     totalMonths,
		MonthlyRate:     monthlyRate,
	}, nil
}

// annuityPayment is the fixed payment of a loan of p over n months at monthly
// rate r. The power is taken in float64, money stays in decimal. Once (1+r)^n
// overflows the payment is at its limit p*r.
func annuityPayment(p, r float64, n int) float64 {
	factor := math.Pow(1+r, float64(n))
	if math.IsInf(factor, 0) {
		return p * r
	}

	payment := p * r * factor / (factor - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return p * r
	}
	return payment
}

// GenerateSchedule builds the month-by-month breakdown of a fixed payment.
// At most maxRows rows are returned; maxRows <= 0 returns every month.
// Interest-free loans have no schedule and return nil.
func GenerateSchedule(
	principal decimal.Decimal,
	monthlyRate decimal.Decimal,
	totalMonths int,
	monthlyPayment decimal.Decimal,
	maxRows int,
) []domain.AmortizationEntry {
	if totalMonths <= 0 || !principal.IsPositive() || monthlyRate.IsZero() {
		return nil
	}

	rows := totalMonths
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}

	schedule := make([]domain.AmortizationEntry, 0, rows)
	balance := principal

	for month := 1; month <= rows; month++ {
		interest := balance.Mul(monthlyRate).Round(scheduleScale)
		principalPart := monthlyPayment.Sub(interest)

		balance = balance.Sub(principalPart)
		if month == totalMonths && balance.Abs().LessThan(balanceDrift) {
			balance = decimal.Zero
		}
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		schedule = append(schedule, domain.AmortizationEntry{
			Month:     month,
			Payment:   monthlyPayment,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return schedule
}
