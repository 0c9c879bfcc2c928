package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/pkg/response"
)

// LedgerService is the client, loan and payment operations exposed over HTTP.
type LedgerService interface {
	SaveClient(ctx context.Context, request *domain.SaveClientRequest) (*domain.Client, error)
	ListClients(ctx context.Context, query string) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListLoans(ctx context.Context) ([]domain.LoanOverview, error)
	GetLoanDetails(ctx context.Context, loanID string) (*domain.LoanDetails, error)
	RecordPayment(ctx context.Context, loanID string, request *domain.RecordPaymentRequest) (*domain.Payment, error)
	ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error)
	Summary(ctx context.Context) (*domain.PortfolioSummary, error)
}

type LedgerHandler struct {
	service   LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
	}
}

// ListClients handles GET /clients?q=
func (h *LedgerHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, clients)
}

// CreateClient handles POST /clients
func (h *LedgerHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var request domain.SaveClientRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}
	request.ID = ""

	client, err := h.service.SaveClient(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, client)
}

// GetClient handles GET /clients/{id}
func (h *LedgerHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.service.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, client)
}

// UpdateClient handles PUT /clients/{id}
func (h *LedgerHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var request domain.SaveClientRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}
	request.ID = mux.Vars(r)["id"]

	client, err := h.service.SaveClient(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, client)
}

// ListLoans handles GET /loans
func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loans)
}

// GetLoan handles GET /loans/{loanId}
func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetLoanDetails(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, details)
}

// ListPayments handles GET /loans/{loanId}/payments
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}

// RecordPayment handles POST /loans/{loanId}/payments
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordPaymentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), mux.Vars(r)["loanId"], &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, payment)
}

// Summary handles GET /summary
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, summary)
}
