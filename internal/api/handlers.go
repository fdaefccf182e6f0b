// Package api exposes the payment terminal's operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dwgops/pospay/internal/domain"
	"github.com/dwgops/pospay/internal/journal"
	"github.com/dwgops/pospay/internal/receipt"
	"github.com/dwgops/pospay/internal/service"
	"github.com/dwgops/pospay/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "endpoint"})

	paymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_payments_total",
		Help: "Payment submissions by terminal state",
	}, []string{"state"})
)

type Handler struct {
	orchestrator *service.Orchestrator
	journal      *journal.Journal
	accounts     *store.AccountStore
	receipts     receipt.Sender
	failures     service.FailureRecorder
}

func NewHandler(
	orchestrator *service.Orchestrator,
	j *journal.Journal,
	accounts *store.AccountStore,
	receipts receipt.Sender,
	failures service.FailureRecorder,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		journal:      j,
		accounts:     accounts,
		receipts:     receipts,
		failures:     failures,
	}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/payments"))
	defer timer.ObserveDuration()

	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/payments", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	outcome := h.orchestrator.Process(r.Context(), req)
	paymentsTotal.WithLabelValues(string(outcome.State)).Inc()

	code := statusForState(outcome.State)
	httpRequestsTotal.WithLabelValues("POST", "/payments", strconv.Itoa(code)).Inc()
	respondWithJSON(w, code, outcome)
}

func statusForState(state domain.TerminalState) int {
	switch state {
	case domain.StateSuccess:
		return http.StatusOK
	case domain.StateDeclinedKnown, domain.StateDeclinedUnknown:
		return http.StatusPaymentRequired
	case domain.StateValidationRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) GetJournalHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.Recent()
	if err != nil {
		httpRequestsTotal.WithLabelValues("GET", "/journal", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, "Journal unreadable")
		return
	}
	httpRequestsTotal.WithLabelValues("GET", "/journal", "200").Inc()
	respondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "404").Inc()
		respondWithError(w, http.StatusNotFound, "Account not found")
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		if domain.KindOf(err) == domain.KindLedgerNotFound {
			httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "404").Inc()
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, "Account lookup failed")
		return
	}

	httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "200").Inc()
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) SearchAccountsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httpRequestsTotal.WithLabelValues("GET", "/accounts", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Missing q parameter")
		return
	}

	accounts, err := h.accounts.SearchAccounts(r.Context(), q)
	if err != nil {
		httpRequestsTotal.WithLabelValues("GET", "/accounts", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, "Account search failed")
		return
	}

	httpRequestsTotal.WithLabelValues("GET", "/accounts", "200").Inc()
	respondWithJSON(w, http.StatusOK, accounts)
}

// ReceiptRequest asks for an HTML receipt to be emailed.
type ReceiptRequest struct {
	To       string `json:"to"`
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	UnixTime int64  `json:"unix_time"`
	AuthCode string `json:"auth_code"`
}

func (h *Handler) SendReceiptHandler(w http.ResponseWriter, r *http.Request) {
	var req ReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/receipts", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if req.To == "" {
		httpRequestsTotal.WithLabelValues("POST", "/receipts", "422").Inc()
		respondWithError(w, http.StatusUnprocessableEntity, "Recipient address required")
		return
	}

	body, err := receipt.Render(req.Customer, req.Amount, time.Unix(req.UnixTime, 0), req.AuthCode)
	if err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/receipts", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, "Receipt render failed")
		return
	}
	if err := h.receipts.Send(req.To, body); err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/receipts", "502").Inc()
		respondWithError(w, http.StatusBadGateway, "Receipt email could not be sent")
		return
	}

	httpRequestsTotal.WithLabelValues("POST", "/receipts", "200").Inc()
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// RecoverMiddleware converts residual panics into the generic failure path:
// record to the failure log, answer 500, keep serving.
func (h *Handler) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.failures.Record("http "+r.Method+" "+r.URL.Path, errorFromPanic(rec))
				respondWithError(w, http.StatusInternalServerError,
					"An error has occurred. Please check your inputs and try again.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func errorFromPanic(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return errors.New(toString(rec))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
