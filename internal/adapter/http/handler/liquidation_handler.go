package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafehenola/ledger/internal/adapter/http/dto"
	"github.com/cafehenola/ledger/internal/usecase"
)

// LiquidationHandler handles liquidation batch HTTP requests.
type LiquidationHandler struct {
	liquidationUC *usecase.LiquidationUseCase
}

// NewLiquidationHandler creates a new LiquidationHandler.
func NewLiquidationHandler(liquidationUC *usecase.LiquidationUseCase) *LiquidationHandler {
	return &LiquidationHandler{liquidationUC: liquidationUC}
}

// Create settles an obligation with a batch of movements.
func (h *LiquidationHandler) Create(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	var req dto.CreateLiquidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	batch, err := h.liquidationUC.CreateLiquidation(r.Context(), req.ToUseCaseInput(obligationID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create liquidation", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LiquidationFromDomain(batch))
}

// Get retrieves a liquidation batch by ID.
func (h *LiquidationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing liquidation ID", "")
		return
	}

	batch, err := h.liquidationUC.GetLiquidation(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get liquidation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LiquidationFromDomain(batch))
}

// ListByObligation lists the batches settling an obligation.
func (h *LiquidationHandler) ListByObligation(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "id")
	if obligationID == "" {
		writeError(w, http.StatusBadRequest, "missing obligation ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	batches, err := h.liquidationUC.ListLiquidationsByObligation(r.Context(), obligationID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list liquidations", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LiquidationsFromDomain(batches))
}

// Void reverses a liquidation batch: the batch and its member movements
// flip to voided and the affected obligations re-open. Re-voiding a voided
// batch succeeds without changing anything.
func (h *LiquidationHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing liquidation ID", "")
		return
	}

	if err := h.liquidationUC.VoidLiquidation(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to void liquidation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "voided"})
}
