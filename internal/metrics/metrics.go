package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	// Calculator metrics
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lendbook_calculations_total",
			Help: "Total amortization calculations by outcome",
		},
		[]string{"outcome"},
	)

	// Ledger metrics
	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lendbook_payments_recorded_total",
			Help: "Total payments recorded by method and status",
		},
		[]string{"method", "status"},
	)
	PaymentAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lendbook_payment_amount",
		Help:    "Recorded payment amounts",
		Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
	})
	ClientsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendbook_clients_saved_total",
		Help: "Total client saves",
	})
	OverdueLoans = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lendbook_overdue_loans",
		Help: "Overdue loans seen by the last portfolio scan",
	})

	// Store metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lendbook_store_operations_total",
			Help: "Total key-value store operations",
		},
		[]string{"driver", "operation"},
	)
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lendbook_store_errors_total",
			Help: "Total key-value store errors",
		},
		[]string{"driver", "operation"},
	)

	// API metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lendbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lendbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lendbook_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	})
)

// ObservePayment records a newly stored payment.
func ObservePayment(method, status string, amount decimal.Decimal) {
	PaymentsRecorded.WithLabelValues(method, status).Inc()
	PaymentAmount.Observe(amount.InexactFloat64())
}

// ObserveStore counts a store call and its failure, if any.
func ObserveStore(driver, operation string, err error) {
	StoreOperations.WithLabelValues(driver, operation).Inc()
	if err != nil {
		StoreErrors.WithLabelValues(driver, operation).Inc()
	}
}

// Middleware records HTTP metrics labelled by the matched route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePath(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePath keeps label cardinality bounded: /api/v1/loans/{loanId}, not the ID.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
