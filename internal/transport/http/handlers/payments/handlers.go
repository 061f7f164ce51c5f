package paymentshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paykey/internal/domain/payroll"
	"paykey/internal/platform/payments/intasend"
	"paykey/internal/transport/http/api"
	"paykey/internal/transport/http/middleware"
)

type Handler struct {
	Payroll       *payroll.Service
	WebhookSecret string
}

func NewHandler(service *payroll.Service, webhookSecret string) *Handler {
	return &Handler{Payroll: service, WebhookSecret: webhookSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/payments/intasend/webhook", h.handleWebhook)
}

// handleWebhook backfills the provider's tracking id onto the transaction
// matching the delivery's api_ref. Unknown references are acknowledged so
// the provider does not keep retrying deliveries for transactions this
// service never created.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read body", requestID)
		return
	}
	if !intasend.VerifySignature(h.WebhookSecret, body, r.Header.Get("X-IntaSend-Signature")) {
		api.Fail(w, http.StatusUnauthorized, "invalid_signature", "webhook signature verification failed", requestID)
		return
	}

	var event intasend.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if event.APIRef == "" || event.TrackingID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "api_ref and tracking_id are required", requestID)
		return
	}

	err = h.Payroll.BackfillProviderRef(r.Context(), event.APIRef, event.TrackingID)
	if errors.Is(err, payroll.ErrTransactionNotFound) {
		slog.Warn("webhook for unknown reference", "apiRef", event.APIRef)
		api.Success(w, map[string]bool{"matched": false}, requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.Success(w, map[string]bool{"matched": true}, requestID)
}
