package repository

import (
	"context"
	"errors"

	"github.com/segyhp/lendbook/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store keys
const (
	ClientsKey        = "clients"
	PaymentsKeyPrefix = "payments_"
)

// PaymentsKey is the key holding the ledger of one loan.
func PaymentsKey(loanID string) string {
	return PaymentsKeyPrefix + loanID
}

// KVStore is a string key-value store holding JSON documents.
type KVStore interface {
	// Get returns the value under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// List returns every stored client in insertion order
	List(ctx context.Context) ([]domain.Client, error)

	// GetByID retrieves a client by ID, or ErrNotFound
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// Save adds a client or replaces the one with the same ID
	Save(ctx context.Context, client *domain.Client) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// ListByLoanID retrieves the ledger of a loan, newest first
	ListByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)

	// Append merges payments into the head of the loan's ledger
	Append(ctx context.Context, loanID string, payments ...domain.Payment) error
}
