package repository

import (
	"context"
	"sync"

	"github.com/segyhp/lendbook/internal/calculator"
	"github.com/segyhp/lendbook/internal/domain"
)

type paymentRepository struct {
	store KVStore
	mu    sync.Mutex
}

// NewPaymentRepository stores each loan's ledger under PaymentsKey(loanID).
func NewPaymentRepository(store KVStore) PaymentRepository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	return loadJSON[domain.Payment](ctx, r.store, PaymentsKey(loanID))
}

func (r *paymentRepository) Append(ctx context.Context, loanID string, payments ...domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.ListByLoanID(ctx, loanID)
	if err != nil {
		return err
	}

	return saveJSON(ctx, r.store, PaymentsKey(loanID), calculator.MergePayments(existing, payments...))
}
