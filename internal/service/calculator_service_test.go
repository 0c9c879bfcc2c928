package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lendbook/internal/domain"
	customError "github.com/segyhp/lendbook/pkg/errors"
)

func TestCalculate_Success(t *testing.T) {
	svc := NewCalculatorService(12, "PHP")

	resp, err := svc.Calculate(context.Background(), &domain.CalculateRequest{
		Principal:         decimal.NewFromInt(100000),
		AnnualRatePercent: decimal.NewFromInt(12),
		Term:              1,
	})
	require.NoError(t, err)

	assert.Equal(t, "8884.88", resp.Result.MonthlyPayment.StringFixed(2))
	assert.Equal(t, 12, resp.Result.TotalMonths)
	assert.Len(t, resp.Schedule, 12)
	assert.True(t, resp.Schedule[11].Balance.IsZero())
	assert.Equal(t, "PHP 8,884.88", resp.Formatted.MonthlyPayment)
	assert.Equal(t, "PHP 106,618.55", resp.Formatted.TotalPayment)
	assert.Equal(t, "PHP 6,618.55", resp.Formatted.TotalInterest)
}

func TestCalculate_Rows(t *testing.T) {
	svc := NewCalculatorService(0, "$")
	ctx := context.Background()

	request := &domain.CalculateRequest{
		Principal:         decimal.NewFromInt(200000),
		AnnualRatePercent: decimal.NewFromInt(6),
		Term:              30,
		TermUnit:          domain.TermUnitYears,
	}

	resp, err := svc.Calculate(ctx, request)
	require.NoError(t, err)
	assert.Len(t, resp.Schedule, 12, "preview falls back to the default row count")
	assert.Equal(t, "$ 1,199.10", resp.Formatted.MonthlyPayment)

	request.Rows = 360
	resp, err = svc.Calculate(ctx, request)
	require.NoError(t, err)
	assert.Len(t, resp.Schedule, 360)
	assert.True(t, resp.Schedule[359].Balance.IsZero())
}

func TestCalculate_ZeroRateHasNoSchedule(t *testing.T) {
	svc := NewCalculatorService(12, "PHP")

	resp, err := svc.Calculate(context.Background(), &domain.CalculateRequest{
		Principal:         decimal.NewFromInt(1200),
		AnnualRatePercent: decimal.Zero,
		Term:              6,
		TermUnit:          domain.TermUnitMonths,
	})
	require.NoError(t, err)

	assert.True(t, resp.Result.MonthlyPayment.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.Result.TotalInterest.IsZero())
	assert.NotNil(t, resp.Schedule)
	assert.Empty(t, resp.Schedule)
}

func TestCalculate_LongestTermAtMaxRate(t *testing.T) {
	svc := NewCalculatorService(12, "PHP")

	resp, err := svc.Calculate(context.Background(), &domain.CalculateRequest{
		Principal:         decimal.NewFromInt(1000),
		AnnualRatePercent: decimal.NewFromInt(100),
		Term:              100,
	})
	require.NoError(t, err)

	assert.Equal(t, 1200, resp.Result.TotalMonths)
	assert.Equal(t, "PHP 83.33", resp.Formatted.MonthlyPayment)
	assert.Len(t, resp.Schedule, 12)
}

func TestCalculate_InvalidInput(t *testing.T) {
	svc := NewCalculatorService(12, "PHP")

	tests := []struct {
		name    string
		request domain.CalculateRequest
	}{
		{"zero principal", domain.CalculateRequest{Principal: decimal.Zero, AnnualRatePercent: decimal.NewFromInt(5), Term: 1}},
		{"rate above 100", domain.CalculateRequest{Principal: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(101), Term: 1}},
		{"zero term", domain.CalculateRequest{Principal: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(5)}},
		{"unknown unit", domain.CalculateRequest{Principal: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(5), Term: 1, TermUnit: "weeks"}},
		{"term above 100 years", domain.CalculateRequest{Principal: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(100), Term: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Calculate(context.Background(), &tt.request)
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, errors.Is(err, customError.ErrInvalidInput))
		})
	}
}
