package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/segyhp/lendbook/internal/calculator"
	"github.com/segyhp/lendbook/internal/clock"
	"github.com/segyhp/lendbook/internal/config"
	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/internal/metrics"
	"github.com/segyhp/lendbook/internal/repository"
	customError "github.com/segyhp/lendbook/pkg/errors"
	"github.com/segyhp/lendbook/pkg/utils"
)

type LedgerService struct {
	ClientRepo  repository.ClientRepository
	PaymentRepo repository.PaymentRepository
	config      *config.Config
	now         clock.Clock
	logger      zerolog.Logger
}

func NewLedgerService(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	config *config.Config,
	now clock.Clock,
	logger zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		ClientRepo:  clientRepo,
		PaymentRepo: paymentRepo,
		config:      config,
		now:         now,
		logger:      logger,
	}
}

func (s *LedgerService) metricsOptions() calculator.MetricsOptions {
	return calculator.MetricsOptions{
		Installment:        s.config.GetDefaultInstallment(),
		SuggestionInterval: s.config.GetSuggestionInterval(),
	}
}

// SaveClient adds a client, or updates the existing one when an ID is given.
func (s *LedgerService) SaveClient(ctx context.Context, request *domain.SaveClientRequest) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.SaveClient")
	defer span.End()

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, customError.WrapInvalidInput("name", "is required")
	}
	if request.LoanAmount != nil && request.LoanAmount.IsNegative() {
		return nil, customError.WrapInvalidInput("loan amount", "must not be negative")
	}

	startDate, err := utils.ParseOptionalDate(request.StartDate)
	if err != nil {
		return nil, customError.WrapInvalidInput("start date", "must be YYYY-MM-DD or RFC 3339")
	}
	endDate, err := utils.ParseOptionalDate(request.EndDate)
	if err != nil {
		return nil, customError.WrapInvalidInput("end date", "must be YYYY-MM-DD or RFC 3339")
	}

	id := request.ID
	if id == "" {
		id = ulid.Make().String()
	} else if _, err := s.ClientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapClientNotFound(id)
		}
		return nil, s.storageError(span, err)
	}

	client := &domain.Client{
		ID:              id,
		Name:            name,
		Phone:           strings.TrimSpace(request.Phone),
		Employment:      strings.TrimSpace(request.Employment),
		FacebookLink:    strings.TrimSpace(request.FacebookLink),
		Address:         strings.TrimSpace(request.Address),
		LoanAmount:      request.LoanAmount,
		StartDate:       startDate,
		EndDate:         endDate,
		InterestAmount:  request.InterestAmount,
		InterestPercent: request.InterestPercent,
		LoanStatus:      request.LoanStatus,
	}
	if client.HasLoan() && client.LoanStatus == "" {
		client.LoanStatus = domain.LoanStatusActive
	}

	if err := s.ClientRepo.Save(ctx, client); err != nil {
		return nil, s.storageError(span, err)
	}

	metrics.ClientsSaved.Inc()
	s.logger.Info().
		Str("client_id", client.ID).
		Bool("has_loan", client.HasLoan()).
		Msg("client saved")

	return client, nil
}

// ListClients returns the clients matching query: a case-insensitive match on
// name or address, or a substring of the phone number. An empty query matches all.
func (s *LedgerService) ListClients(ctx context.Context, query string) ([]domain.Client, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListClients")
	defer span.End()

	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return nil, s.storageError(span, err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return clients, nil
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Address), needle) ||
			strings.Contains(c.Phone, query) {
			matched = append(matched, c)
		}
	}

	return matched, nil
}

// GetClient returns a single client.
func (s *LedgerService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.GetClient")
	defer span.End()

	client, err := s.ClientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapClientNotFound(id)
		}
		return nil, s.storageError(span, err)
	}

	return client, nil
}

// ListLoans returns every loan with its metrics.
func (s *LedgerService) ListLoans(ctx context.Context) ([]domain.LoanOverview, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListLoans")
	defer span.End()

	overviews, err := s.loadOverviews(ctx, span)
	if err != nil {
		return nil, err
	}

	loans := make([]domain.LoanOverview, 0, len(overviews))
	for _, o := range overviews {
		loans = append(loans, o.LoanOverview)
	}
	span.SetAttributes(attribute.Int("loans.count", len(loans)))

	return loans, nil
}

// GetLoanDetails returns a loan with its payments, newest first, and metrics.
func (s *LedgerService) GetLoanDetails(ctx context.Context, loanID string) (*domain.LoanDetails, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.GetLoanDetails", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer span.End()

	loan, err := s.getLoan(ctx, span, loanID)
	if err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, s.storageError(span, err)
	}

	loanMetrics, err := calculator.ComputeMetrics(loan, payments, s.now(), s.metricsOptions())
	if err != nil {
		return nil, err
	}

	return &domain.LoanDetails{
		Loan:     loan,
		Payments: calculator.SortNewestFirst(payments),
		Metrics:  &loanMetrics,
	}, nil
}

// RecordPayment stores a new payment at the head of the loan's ledger.
func (s *LedgerService) RecordPayment(ctx context.Context, loanID string, request *domain.RecordPaymentRequest) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.RecordPayment", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer span.End()

	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidInput("amount", "must be greater than 0")
	}
	description := strings.TrimSpace(request.Description)
	if description == "" {
		return nil, customError.WrapInvalidInput("description", "is required")
	}

	method := request.Method
	if method == "" {
		method = domain.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, customError.WrapInvalidInput("method", "must be one of Cash, Bank Transfer, GCash, ATM Card")
	}

	status := request.Status
	if status == "" {
		status = domain.PaymentStatusCompleted
	}
	if !status.Valid() {
		return nil, customError.WrapInvalidInput("status", "must be one of Completed, Pending, Failed")
	}

	date := s.now()
	if strings.TrimSpace(request.Date) != "" {
		parsed, err := utils.ParseDate(request.Date)
		if err != nil {
			return nil, customError.WrapInvalidInput("date", "must be YYYY-MM-DD or RFC 3339")
		}
		date = parsed
	}

	if _, err := s.getLoan(ctx, span, loanID); err != nil {
		return nil, err
	}

	payment := domain.Payment{
		ID:          uuid.New().String(),
		LoanID:      loanID,
		Amount:      request.Amount,
		Method:      method,
		Status:      status,
		Date:        date,
		Description: description,
		Notes:       strings.TrimSpace(request.Notes),
	}

	if err := s.PaymentRepo.Append(ctx, loanID, payment); err != nil {
		return nil, s.storageError(span, err)
	}

	metrics.ObservePayment(string(payment.Method), string(payment.Status), payment.Amount)
	s.logger.Info().
		Str("loan_id", loanID).
		Str("payment_id", payment.ID).
		Str("amount", payment.Amount.String()).
		Str("status", string(payment.Status)).
		Msg("payment recorded")

	return &payment, nil
}

// ListPayments returns a loan's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.ListPayments", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer span.End()

	if _, err := s.getLoan(ctx, span, loanID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, s.storageError(span, err)
	}

	return calculator.SortNewestFirst(payments), nil
}

// Summary aggregates the whole portfolio. Outstanding balances count active
// loans only and never go below zero; payments this month count completed
// payments dated from the first of the current month.
func (s *LedgerService) Summary(ctx context.Context) (*domain.PortfolioSummary, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.Summary")
	defer span.End()

	overviews, err := s.loadOverviews(ctx, span)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := utils.StartOfMonth(now)
	summary := &domain.PortfolioSummary{
		TotalLent:              decimal.Zero,
		TotalOutstanding:       decimal.Zero,
		TotalPaymentsThisMonth: decimal.Zero,
	}

	for _, o := range overviews {
		summary.TotalLent = summary.TotalLent.Add(o.Loan.Amount)

		for _, p := range o.payments {
			if p.Status == domain.PaymentStatusCompleted && !p.Date.Before(monthStart) && !p.Date.After(now) {
				summary.PaymentsThisMonth++
				summary.TotalPaymentsThisMonth = summary.TotalPaymentsThisMonth.Add(p.Amount)
			}
		}

		if o.Loan.Status != domain.LoanStatusActive {
			continue
		}
		summary.ActiveLoans++

		if o.Metrics == nil {
			continue
		}
		if o.Metrics.IsOverdue {
			summary.OverdueLoans++
		}
		if o.Metrics.RemainingBalance.IsPositive() {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(o.Metrics.RemainingBalance)
		}
	}

	metrics.OverdueLoans.Set(float64(summary.OverdueLoans))

	return summary, nil
}

// Overdue returns the active loans past their end date.
func (s *LedgerService) Overdue(ctx context.Context) ([]domain.LoanOverview, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.Overdue")
	defer span.End()

	overviews, err := s.loadOverviews(ctx, span)
	if err != nil {
		return nil, err
	}

	overdue := make([]domain.LoanOverview, 0)
	for _, o := range overviews {
		if o.Loan.Status == domain.LoanStatusActive && o.Metrics != nil && o.Metrics.IsOverdue {
			overdue = append(overdue, o.LoanOverview)
		}
	}

	metrics.OverdueLoans.Set(float64(len(overdue)))

	return overdue, nil
}

// DueSoon returns the active loans with an outstanding balance whose next
// suggested payment falls within the given window, including ones already late.
func (s *LedgerService) DueSoon(ctx context.Context, within time.Duration) ([]domain.LoanOverview, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.DueSoon")
	defer span.End()

	overviews, err := s.loadOverviews(ctx, span)
	if err != nil {
		return nil, err
	}

	horizon := s.now().Add(within)
	due := make([]domain.LoanOverview, 0)
	for _, o := range overviews {
		if o.Loan.Status != domain.LoanStatusActive || o.Metrics == nil {
			continue
		}
		if o.Metrics.RemainingBalance.IsPositive() && !o.Metrics.NextPaymentDate.After(horizon) {
			due = append(due, o.LoanOverview)
		}
	}

	return due, nil
}

type loanOverview struct {
	domain.LoanOverview
	payments []domain.Payment
}

// loadOverviews reads every loan with its payments and metrics. A loan whose
// metrics cannot be computed is kept without them.
func (s *LedgerService) loadOverviews(ctx context.Context, span trace.Span) ([]loanOverview, error) {
	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return nil, s.storageError(span, err)
	}

	now := s.now()
	opts := s.metricsOptions()

	overviews := make([]loanOverview, 0, len(clients))
	for _, c := range clients {
		loan, ok := c.Loan()
		if !ok {
			continue
		}

		payments, err := s.PaymentRepo.ListByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, s.storageError(span, err)
		}

		o := loanOverview{
			LoanOverview: domain.LoanOverview{Loan: loan},
			payments:     payments,
		}

		loanMetrics, err := calculator.ComputeMetrics(loan, payments, now, opts)
		switch {
		case err == nil:
			o.Metrics = &loanMetrics
		case errors.Is(err, customError.ErrDivisionByZero):
			s.logger.Debug().Str("loan_id", loan.ID).Msg("skipping metrics for zero-amount loan")
		default:
			return nil, err
		}

		overviews = append(overviews, o)
	}

	return overviews, nil
}

func (s *LedgerService) getLoan(ctx context.Context, span trace.Span, loanID string) (domain.Loan, error) {
	client, err := s.ClientRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Loan{}, customError.WrapLoanNotFound(loanID)
		}
		return domain.Loan{}, s.storageError(span, err)
	}

	loan, ok := client.Loan()
	if !ok {
		return domain.Loan{}, customError.WrapLoanNotFound(loanID)
	}

	return loan, nil
}

func (s *LedgerService) storageError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error().Err(err).Msg("storage operation failed")
	return customError.WrapStorageError(err)
}
