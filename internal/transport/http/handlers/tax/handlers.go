package taxhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
	"paykey/internal/transport/http/api"
	"paykey/internal/transport/http/middleware"
	"paykey/internal/transport/http/shared"
)

type Handler struct {
	Taxes *tax.Service
}

func NewHandler(service *tax.Service) *Handler {
	return &Handler{Taxes: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax", func(r chi.Router) {
		r.Get("/submissions", h.handleListSubmissions)
		r.Post("/submissions/{submissionID}/file", h.handleFileSubmission)
		r.Get("/tables", h.handleListTables)
		r.Post("/tables", h.handleCreateTable)
	})
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	submissions, err := h.Taxes.Submissions(r.Context(), employerID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, submissions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFileSubmission(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.GetEmployerID(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "employer identity required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Taxes.MarkFiled(r.Context(), employerID, chi.URLParam(r, "submissionID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": tax.SubmissionStatusFiled}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Taxes.ListTables(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, tables, middleware.GetRequestID(r.Context()))
}

type tablePayload struct {
	EffectiveFrom   string          `json:"effectiveFrom"`
	NSSF            tax.NSSF        `json:"nssf"`
	NHIFRate        decimal.Decimal `json:"nhifRate"`
	HousingLevyRate decimal.Decimal `json:"housingLevyRate"`
	PAYEBands       []tax.Band      `json:"payeBands"`
	PersonalRelief  decimal.Decimal `json:"personalRelief"`
}

func (h *Handler) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var payload tablePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return
	}
	effectiveFrom, err := shared.ParseDate(payload.EffectiveFrom)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Taxes.CreateTable(r.Context(), tax.Table{
		EffectiveFrom:   effectiveFrom,
		NSSF:            payload.NSSF,
		NHIFRate:        payload.NHIFRate,
		HousingLevyRate: payload.HousingLevyRate,
		PAYEBands:       payload.PAYEBands,
		PersonalRelief:  payload.PersonalRelief,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
