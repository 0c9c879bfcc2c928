package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lendbook/internal/config"
	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/tests/mocks"
)

func overview(id string, remaining int64, daysRemaining int) domain.LoanOverview {
	return domain.LoanOverview{
		Loan: domain.Loan{ID: id, ClientName: "Client " + id, Amount: decimal.NewFromInt(5000)},
		Metrics: &domain.LoanMetrics{
			TotalPaid:          decimal.NewFromInt(5000 - remaining),
			ProgressPercentage: decimal.NewFromInt(5000 - remaining).Div(decimal.NewFromInt(50)),
			RemainingBalance:   decimal.NewFromInt(remaining),
			DaysRemaining:      &daysRemaining,
			NextPaymentDate:    time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
			NextPaymentAmount:  decimal.NewFromInt(500),
		},
	}
}

func TestSetupCronJobs(t *testing.T) {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{
			OverdueCron:    "0 0 0 * * *",
			ReminderCron:   "0 0 9 * * SUN",
			ReminderWindow: "72h",
		},
	}
	c := cron.New(cron.WithSeconds())

	require.NoError(t, setupCronJobs(c, cfg, &mocks.MockLedgerService{}, zerolog.Nop()))
	assert.Len(t, c.Entries(), 2)

	cfg.Scheduler.ReminderCron = "whenever"
	assert.Error(t, setupCronJobs(cron.New(cron.WithSeconds()), cfg, &mocks.MockLedgerService{}, zerolog.Nop()))
}

func TestReportOverdue(t *testing.T) {
	ledger := &mocks.MockLedgerService{}
	ledger.On("Overdue", mock.Anything).Return([]domain.LoanOverview{overview("L1", 2000, -3)}, nil).Once()

	var logs bytes.Buffer
	count := reportOverdue(ledger, zerolog.New(&logs), "PHP")

	assert.Equal(t, 1, count)
	assert.Contains(t, logs.String(), `"loan_id":"L1"`)
	assert.Contains(t, logs.String(), `"days_overdue":3`)
	assert.Contains(t, logs.String(), `"remaining":"PHP 2,000.00"`)
	assert.Contains(t, logs.String(), `"progress":"60.0%"`)
	ledger.AssertExpectations(t)
}

func TestReportOverdue_Error(t *testing.T) {
	ledger := &mocks.MockLedgerService{}
	ledger.On("Overdue", mock.Anything).Return(nil, errors.New("store down"))

	var logs bytes.Buffer
	assert.Zero(t, reportOverdue(ledger, zerolog.New(&logs), "PHP"))
	assert.Contains(t, logs.String(), "overdue scan failed")
}

func TestSendPaymentReminders(t *testing.T) {
	ledger := &mocks.MockLedgerService{}
	ledger.On("DueSoon", mock.Anything, 72*time.Hour).
		Return([]domain.LoanOverview{overview("L1", 4500, 100), overview("L2", 800, 20)}, nil)

	var logs bytes.Buffer
	count := sendPaymentReminders(ledger, 72*time.Hour, zerolog.New(&logs), "PHP")

	assert.Equal(t, 2, count)
	assert.Contains(t, logs.String(), `"amount":"PHP 500.00"`)
	assert.Contains(t, logs.String(), `"progress":"10.0%"`)
	assert.Contains(t, logs.String(), `"progress":"84.0%"`)
	ledger.AssertExpectations(t)
}
