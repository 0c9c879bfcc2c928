package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lendbook/internal/domain"
	customError "github.com/segyhp/lendbook/pkg/errors"
)

func payment(id string, amount int64, status domain.PaymentStatus, date time.Time) domain.Payment {
	return domain.Payment{
		ID:          id,
		LoanID:      "L1",
		Amount:      decimal.NewFromInt(amount),
		Method:      domain.PaymentMethodCash,
		Status:      status,
		Date:        date,
		Description: "installment",
	}
}

func TestComputeMetrics_NoPayments(t *testing.T) {
	loan := domain.Loan{ID: "L1", Amount: decimal.NewFromInt(5000), Status: domain.LoanStatusActive}

	metrics, err := ComputeMetrics(loan, nil, now, MetricsOptions{})
	require.NoError(t, err)

	assert.True(t, metrics.TotalPaid.IsZero())
	assert.True(t, metrics.RemainingBalance.Equal(loan.Amount))
	assert.True(t, metrics.ProgressPercentage.IsZero())
	assert.Equal(t, now.Add(7*24*time.Hour), metrics.NextPaymentDate)
	assert.True(t, metrics.NextPaymentAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.TermStatusActive, metrics.Status)
}

func TestComputeMetrics_CountsCompletedOnly(t *testing.T) {
	loan := domain.Loan{ID: "L1", Amount: decimal.NewFromInt(5000)}
	payments := []domain.Payment{
		payment("p2", 300, domain.PaymentStatusPending, now.AddDate(0, 0, -1)),
		payment("p1", 500, domain.PaymentStatusCompleted, now.AddDate(0, 0, -8)),
	}

	metrics, err := ComputeMetrics(loan, payments, now, MetricsOptions{})
	require.NoError(t, err)

	assert.True(t, metrics.TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, metrics.RemainingBalance.Equal(decimal.NewFromInt(4500)))
	assert.True(t, metrics.ProgressPercentage.Equal(decimal.NewFromInt(10)), "got %s", metrics.ProgressPercentage)
}

func TestComputeMetrics_Overpaid(t *testing.T) {
	loan := domain.Loan{ID: "L1", Amount: decimal.NewFromInt(1000)}
	payments := []domain.Payment{
		payment("p1", 700, domain.PaymentStatusCompleted, now.AddDate(0, 0, -14)),
		payment("p2", 700, domain.PaymentStatusCompleted, now.AddDate(0, 0, -7)),
	}

	metrics, err := ComputeMetrics(loan, payments, now, MetricsOptions{})
	require.NoError(t, err)

	assert.True(t, metrics.RemainingBalance.Equal(decimal.NewFromInt(-400)))
	assert.True(t, metrics.ProgressPercentage.Equal(decimal.NewFromInt(100)))
	assert.True(t, metrics.NextPaymentAmount.Equal(decimal.NewFromInt(-400)))
}

func TestComputeMetrics_ZeroAmount(t *testing.T) {
	loan := domain.Loan{ID: "L0", Amount: decimal.Zero}

	_, err := ComputeMetrics(loan, nil, now, MetricsOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrDivisionByZero))
}

func TestComputeMetrics_NextPayment(t *testing.T) {
	start := now.AddDate(0, 0, -20)
	end := now.AddDate(0, 0, 40)
	loan := domain.Loan{ID: "L1", Amount: decimal.NewFromInt(1200), StartDate: &start, EndDate: &end}

	t.Run("from start date when nothing paid", func(t *testing.T) {
		metrics, err := ComputeMetrics(loan, nil, now, MetricsOptions{})
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 7), metrics.NextPaymentDate)
		assert.Equal(t, 20, metrics.DaysElapsed)
		assert.Equal(t, 60, metrics.TotalDays)
		require.NotNil(t, metrics.DaysRemaining)
		assert.Equal(t, 40, *metrics.DaysRemaining)
	})

	t.Run("from latest payment regardless of order", func(t *testing.T) {
		latest := now.AddDate(0, 0, -2)
		payments := []domain.Payment{
			payment("old", 100, domain.PaymentStatusCompleted, now.AddDate(0, 0, -15)),
			payment("new", 100, domain.PaymentStatusFailed, latest),
			payment("mid", 100, domain.PaymentStatusCompleted, now.AddDate(0, 0, -9)),
		}

		metrics, err := ComputeMetrics(loan, payments, now, MetricsOptions{})
		require.NoError(t, err)
		assert.Equal(t, latest.AddDate(0, 0, 7), metrics.NextPaymentDate)
	})

	t.Run("custom installment and interval", func(t *testing.T) {
		opts := MetricsOptions{Installment: decimal.NewFromInt(250), SuggestionInterval: 14 * 24 * time.Hour}
		metrics, err := ComputeMetrics(loan, nil, now, opts)
		require.NoError(t, err)
		assert.True(t, metrics.NextPaymentAmount.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, start.AddDate(0, 0, 14), metrics.NextPaymentDate)
	})

	t.Run("installment capped by remaining balance", func(t *testing.T) {
		payments := []domain.Payment{payment("p1", 1000, domain.PaymentStatusCompleted, now)}
		metrics, err := ComputeMetrics(loan, payments, now, MetricsOptions{})
		require.NoError(t, err)
		assert.True(t, metrics.NextPaymentAmount.Equal(decimal.NewFromInt(200)))
	})
}

func TestComputeMetrics_Overdue(t *testing.T) {
	end := now.AddDate(0, 0, -3)
	loan := domain.Loan{ID: "L1", Amount: decimal.NewFromInt(1000), EndDate: &end}

	metrics, err := ComputeMetrics(loan, nil, now, MetricsOptions{})
	require.NoError(t, err)

	assert.True(t, metrics.IsOverdue)
	assert.Equal(t, domain.TermStatusOverdue, metrics.Status)
}

func TestSortNewestFirst(t *testing.T) {
	payments := []domain.Payment{
		payment("a", 1, domain.PaymentStatusCompleted, now.AddDate(0, 0, -3)),
		payment("b", 1, domain.PaymentStatusCompleted, now),
		payment("c", 1, domain.PaymentStatusCompleted, now.AddDate(0, 0, -3)),
	}

	sorted := SortNewestFirst(payments)

	assert.Equal(t, []string{"b", "a", "c"}, ids(sorted))
	assert.Equal(t, []string{"a", "b", "c"}, ids(payments), "input must not be reordered")
}

func TestMergePayments(t *testing.T) {
	existing := []domain.Payment{
		payment("p2", 200, domain.PaymentStatusCompleted, now.AddDate(0, 0, -1)),
		payment("p1", 100, domain.PaymentStatusPending, now.AddDate(0, 0, -7)),
	}

	t.Run("new payment goes to the head", func(t *testing.T) {
		merged := MergePayments(existing, payment("p3", 300, domain.PaymentStatusCompleted, now))
		assert.Equal(t, []string{"p3", "p2", "p1"}, ids(merged))
	})

	t.Run("duplicate id replaced by the new entry", func(t *testing.T) {
		replacement := payment("p1", 150, domain.PaymentStatusCompleted, now)
		merged := MergePayments(existing, replacement)

		require.Len(t, merged, 2)
		count := 0
		for _, p := range merged {
			if p.ID == "p1" {
				count++
				assert.Equal(t, replacement, p)
			}
		}
		assert.Equal(t, 1, count)
		assert.Equal(t, "p1", merged[0].ID)
	})

	t.Run("last incoming write wins", func(t *testing.T) {
		first := payment("p9", 10, domain.PaymentStatusPending, now)
		second := payment("p9", 20, domain.PaymentStatusCompleted, now)
		merged := MergePayments(nil, first, second)

		require.Len(t, merged, 1)
		assert.Equal(t, second, merged[0])
	})

	t.Run("stored duplicates collapse to the newest", func(t *testing.T) {
		dirty := append([]domain.Payment{payment("p1", 999, domain.PaymentStatusCompleted, now)}, existing...)
		merged := MergePayments(dirty)

		assert.Equal(t, []string{"p1", "p2"}, ids(merged))
		assert.True(t, merged[0].Amount.Equal(decimal.NewFromInt(999)))
	})
}

func ids(payments []domain.Payment) []string {
	out := make([]string, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ID)
	}
	return out
}
