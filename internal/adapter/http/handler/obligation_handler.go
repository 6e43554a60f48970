package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafehenola/ledger/internal/adapter/http/dto"
	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

// ObligationHandler handles obligation-related HTTP requests.
type ObligationHandler struct {
	obligationUC *usecase.ObligationUseCase
}

// NewObligationHandler creates a new ObligationHandler.
func NewObligationHandler(obligationUC *usecase.ObligationUseCase) *ObligationHandler {
	return &ObligationHandler{obligationUC: obligationUC}
}

// Create registers a new obligation.
func (h *ObligationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	obligation, err := h.obligationUC.CreateObligation(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create obligation", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ObligationFromDomain(obligation))
}

// Get retrieves an obligation by ID.
func (h *ObligationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	obligation, err := h.obligationUC.GetObligation(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get obligation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ObligationFromDomain(obligation))
}

// List lists obligations, optionally filtered by kind.
func (h *ObligationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	obligations, err := h.obligationUC.ListObligations(r.Context(), usecase.ListObligationsInput{
		Kind:   domain.ObligationKind(r.URL.Query().Get("kind")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list obligations", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ObligationsFromDomain(obligations))
}

// UpdateStatus transitions an obligation's status. Used by the back office
// to correct misclassified obligations; voided stays terminal.
func (h *ObligationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	var req dto.UpdateObligationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.obligationUC.MarkStatus(r.Context(), id, domain.ObligationStatus(req.Status)); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update obligation status", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}
