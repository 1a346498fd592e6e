package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/venexhq/venex/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	exchangeSvc *service.ExchangeService,
	tokenSvc *service.TokenService,
	webhookSvc *service.WebhookService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	accountH := NewAccountHandler(exchangeSvc)
	orderH := NewOrderHandler(exchangeSvc)
	tokenH := NewTokenHandler(tokenSvc)
	webhookH := NewWebhookHandler(webhookSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Account routes.
	r.Post("/accounts/{account}/deposits", accountH.Deposit)
	r.Post("/accounts/{account}/withdrawals", accountH.Withdraw)
	r.Get("/accounts/{account}/balances/{asset}", accountH.GetBalance)
	r.Get("/accounts/{account}/trades", accountH.ListTrades)

	// Order routes.
	r.Post("/orders", orderH.MakeOrder)
	r.Get("/orders", orderH.ListOrders)
	r.Get("/orders/{order_id}", orderH.GetOrder)
	r.Delete("/orders/{order_id}", orderH.CancelOrder)
	r.Post("/orders/{order_id}/fill", orderH.FillOrder)

	// Token ledger routes. Holders fund and approve here before the
	// exchange can pull a token deposit into custody.
	r.Get("/tokens", tokenH.List)
	r.Get("/tokens/{symbol}", tokenH.Get)
	r.Get("/tokens/{symbol}/balances/{account}", tokenH.GetBalance)
	r.Post("/tokens/{symbol}/transfers", tokenH.Transfer)
	r.Post("/tokens/{symbol}/approvals", tokenH.Approve)

	// Funds only enter through deposits. Direct transfers to the exchange
	// are refused so value cannot land outside the ledger.
	r.Post("/transfers", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusBadRequest, "direct_transfer_refused",
			"Direct transfers are not accepted. Use the deposit endpoint instead.")
	})

	// Webhook routes.
	r.Post("/webhooks", webhookH.Upsert)
	r.Get("/webhooks", webhookH.List)
	r.Delete("/webhooks/{webhook_id}", webhookH.Delete)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
