package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/segyhp/lendbook/internal/calculator"
	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/internal/metrics"
	"github.com/segyhp/lendbook/pkg/utils"
)

var tracer = otel.Tracer("github.com/segyhp/lendbook/internal/service")

type CalculatorService struct {
	previewRows    int
	currencySymbol string
}

// NewCalculatorService returns a calculator that previews previewRows schedule
// rows unless a request asks for a different count.
func NewCalculatorService(previewRows int, currencySymbol string) *CalculatorService {
	if previewRows <= 0 {
		previewRows = calculator.DefaultScheduleRows
	}
	return &CalculatorService{
		previewRows:    previewRows,
		currencySymbol: currencySymbol,
	}
}

// Calculate computes the amortization result and a schedule preview.
func (s *CalculatorService) Calculate(ctx context.Context, request *domain.CalculateRequest) (*domain.CalculateResponse, error) {
	_, span := tracer.Start(ctx, "CalculatorService.Calculate")
	defer span.End()

	unit := request.TermUnit
	if unit == "" {
		unit = domain.TermUnitYears
	}

	terms := domain.LoanTerms{
		Principal:         request.Principal,
		AnnualRatePercent: request.AnnualRatePercent,
		TermValue:         request.Term,
		TermUnit:          unit,
	}
	span.SetAttributes(
		attribute.Int("loan.term_months", terms.TotalMonths()),
		attribute.String("loan.rate_percent", terms.AnnualRatePercent.String()),
	)

	result, err := calculator.ComputeAmortization(terms)
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues("invalid").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rows := request.Rows
	if rows <= 0 {
		rows = s.previewRows
	}

	// Interest-free loans amortize evenly and get no schedule.
	schedule := []domain.AmortizationEntry{}
	if !result.MonthlyRate.IsZero() {
		schedule = calculator.GenerateSchedule(
			result.PrincipalAmount,
			result.MonthlyRate,
			result.TotalMonths,
			result.MonthlyPayment,
			rows,
		)
	}

	metrics.CalculationsTotal.WithLabelValues("ok").Inc()

	return &domain.CalculateResponse{
		Result:   result,
		Schedule: schedule,
		Formatted: domain.FormattedResult{
			MonthlyPayment: utils.FormatCurrency(result.MonthlyPayment, s.currencySymbol),
			TotalPayment:   utils.FormatCurrency(result.TotalPayment, s.currencySymbol),
			TotalInterest:  utils.FormatCurrency(result.TotalInterest, s.currencySymbol),
		},
	}, nil
}
