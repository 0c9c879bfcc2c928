package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/lendbook/internal/domain"
)

type MockCalculatorService struct {
	mock.Mock
}

func (m *MockCalculatorService) Calculate(ctx context.Context, request *domain.CalculateRequest) (*domain.CalculateResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalculateResponse), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) SaveClient(ctx context.Context, request *domain.SaveClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockLedgerService) ListClients(ctx context.Context, query string) ([]domain.Client, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockLedgerService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockLedgerService) ListLoans(ctx context.Context) ([]domain.LoanOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanOverview), args.Error(1)
}

func (m *MockLedgerService) GetLoanDetails(ctx context.Context, loanID string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, loanID string, request *domain.RecordPaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockLedgerService) Summary(ctx context.Context) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}

func (m *MockLedgerService) Overdue(ctx context.Context) ([]domain.LoanOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanOverview), args.Error(1)
}

func (m *MockLedgerService) DueSoon(ctx context.Context, within time.Duration) ([]domain.LoanOverview, error) {
	args := m.Called(ctx, within)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanOverview), args.Error(1)
}
