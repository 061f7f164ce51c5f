package payrollhandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paykey/internal/domain/payroll"
	"paykey/internal/transport/http/api"
	"paykey/internal/transport/http/middleware"
	"paykey/internal/transport/http/shared"
)

type Handler struct {
	Periods   *payroll.Service
	Processor *payroll.Processor
	Payslips  *payroll.PayslipGenerator
}

func NewHandler(periods *payroll.Service, processor *payroll.Processor, payslips *payroll.PayslipGenerator) *Handler {
	return &Handler{Periods: periods, Processor: processor, Payslips: payslips}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pay-periods", func(r chi.Router) {
		r.Get("/", h.handleListPeriods)
		r.Post("/", h.handleCreatePeriod)
		r.Get("/{periodID}", h.handleGetPeriod)
		r.Delete("/{periodID}", h.handleDeletePeriod)
		r.Post("/{periodID}/activate", h.handleActivate)
		r.Post("/{periodID}/complete", h.handleComplete)
		r.Post("/{periodID}/close", h.handleClose)
		r.Get("/{periodID}/statistics", h.handleStatistics)
	})
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/process", h.handleProcess)
		r.Post("/calculate", h.handleCalculate)
		r.Get("/transactions/{txID}", h.handleGetTransaction)
		r.Get("/transactions/{txID}/payslip", h.handlePayslip)
	})
}

type periodPayload struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload periodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	period, err := h.Periods.CreatePeriod(r.Context(), employerID, payroll.PeriodInput{
		Name:      payload.Name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	periods, err := h.Periods.ListPeriods(r.Context(), employerID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	period, err := h.Periods.Period(r.Context(), employerID, chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Periods.DeletePeriod(r.Context(), employerID, chi.URLParam(r, "periodID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.Periods.Activate)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.Periods.Complete)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.Periods.Close)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context, employerID, periodID string) (*payroll.Period, error)) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	period, err := transition(r.Context(), employerID, chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	stats, err := h.Periods.Statistics(r.Context(), employerID, chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	var input payroll.BatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return
	}
	result, err := h.Processor.Process(r.Context(), employerID, input)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type calculatePayload struct {
	WorkerIDs []string `json:"workerIds"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return
	}
	computations, err := h.Processor.Preview(r.Context(), employerID, payload.WorkerIDs)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, computations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	tx, err := h.Periods.Transaction(r.Context(), employerID, chi.URLParam(r, "txID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, tx, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	filePath, err := h.Payslips.Generate(r.Context(), employerID, chi.URLParam(r, "txID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}
