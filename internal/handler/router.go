package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/segyhp/lendbook/internal/metrics"
	"github.com/segyhp/lendbook/pkg/response"
)

// NewRouter wires every HTTP route.
func NewRouter(
	calculatorHandler *CalculatorHandler,
	ledgerHandler *LedgerHandler,
	healthHandler *HealthHandler,
	logger zerolog.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	router.Use(
		response.RecoveryMiddleware(logger),
		response.LoggingMiddleware(logger),
		metrics.Middleware,
		response.CORSMiddleware,
	)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/calculator", calculatorHandler.Calculate).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/clients", ledgerHandler.ListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients", ledgerHandler.CreateClient).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/clients/{id}", ledgerHandler.GetClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", ledgerHandler.UpdateClient).Methods(http.MethodPut, http.MethodOptions)

	api.HandleFunc("/loans", ledgerHandler.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}", ledgerHandler.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/payments", ledgerHandler.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/payments", ledgerHandler.RecordPayment).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/summary", ledgerHandler.Summary).Methods(http.MethodGet)

	return router
}
