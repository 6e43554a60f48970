package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafehenola/ledger/internal/adapter/http/dto"
	"github.com/cafehenola/ledger/internal/usecase"
)

// LedgerHandler handles movement and balance HTTP requests.
type LedgerHandler struct {
	ledgerUC  *usecase.LedgerUseCase
	balanceUC *usecase.BalanceUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, balanceUC *usecase.BalanceUseCase) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:  ledgerUC,
		balanceUC: balanceUC,
	}
}

// RecordMovement records a delivery movement against an obligation.
func (h *LedgerHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(obligationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quantity", err.Error())
		return
	}

	movement, err := h.ledgerUC.RecordMovement(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record movement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// ImportMovements bulk-loads legacy ledger rows against an obligation. Raw
// quantities coerce leniently and free-text "ANULADO" tags (any casing)
// import as voided, so the new books match the old spreadsheet.
func (h *LedgerHandler) ImportMovements(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	var req dto.ImportMovementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(obligationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quantity", err.Error())
		return
	}

	movements, err := h.ledgerUC.ImportMovements(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to import movements", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementsFromDomain(movements))
}

// GetMovement retrieves a movement by ID.
func (h *LedgerHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	movement, err := h.ledgerUC.GetMovement(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// VoidMovement voids a movement. Voiding a voided movement is a no-op
// success, so retried voids cannot fail.
func (h *LedgerHandler) VoidMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	if err := h.ledgerUC.VoidMovement(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to void movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "voided"})
}

// ListMovements lists the active movements of an obligation.
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	movements, err := h.ledgerUC.ListActiveMovements(r.Context(), obligationID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list movements", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// GetBalance computes the outstanding balance of an obligation. The value
// is derived from the movement rows on every call.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), obligationID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
