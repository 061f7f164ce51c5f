package workershandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paykey/internal/domain/workers"
	"paykey/internal/transport/http/api"
	"paykey/internal/transport/http/middleware"
	"paykey/internal/transport/http/shared"
)

type Handler struct {
	Workers *workers.Service
}

func NewHandler(service *workers.Service) *Handler {
	return &Handler{Workers: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.Get("/", h.handleListWorkers)
		r.Get("/{workerID}", h.handleGetWorker)
		r.Post("/{workerID}/terminate", h.handleTerminate)
	})
	r.Get("/terminations", h.handleListTerminations)
}

func (h *Handler) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	list, err := h.Workers.ListWorkers(r.Context(), employerID, activeOnly)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	worker, err := h.Workers.Worker(r.Context(), employerID, chi.URLParam(r, "workerID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, worker, middleware.GetRequestID(r.Context()))
}

type terminatePayload struct {
	TerminationDate     string          `json:"terminationDate"`
	Reason              string          `json:"reason"`
	SeverancePay        decimal.Decimal `json:"severancePay"`
	OutstandingPayments decimal.Decimal `json:"outstandingPayments"`
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload terminatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return
	}
	terminationDate, err := shared.ParseDate(payload.TerminationDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	termination, err := h.Workers.Terminate(r.Context(), employerID, workers.TerminationInput{
		WorkerID:            chi.URLParam(r, "workerID"),
		TerminationDate:     terminationDate,
		Reason:              payload.Reason,
		SeverancePay:        payload.SeverancePay,
		OutstandingPayments: payload.OutstandingPayments,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, termination, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTerminations(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Workers.ListTerminations(r.Context(), employerID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}
