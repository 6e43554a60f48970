package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/adapter/http/dto"
	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
	"github.com/cafehenola/ledger/internal/usecase/mocks"
)

func newLiquidationTestRouter(t *testing.T) (chi.Router, *mocks.MockObligationRepository, *mocks.MockMovementRepository) {
	t.Helper()

	obligationRepo := mocks.NewMockObligationRepository()
	movementRepo := mocks.NewMockMovementRepository()
	batchRepo := mocks.NewMockLiquidationRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	liquidationUC := usecase.NewLiquidationUseCase(
		txMgr, mocks.NewMockRetrier(), obligationRepo, movementRepo, batchRepo, nil, idGen, nil,
	)
	h := NewLiquidationHandler(liquidationUC)

	r := chi.NewRouter()
	r.Post("/obligations/{id}/liquidations", h.Create)
	r.Get("/obligations/{id}/liquidations", h.ListByObligation)
	r.Get("/liquidations/{id}", h.Get)
	r.Post("/liquidations/{id}/void", h.Void)

	return r, obligationRepo, movementRepo
}

func TestLiquidationHandler_CreateAndVoid(t *testing.T) {
	router, obligationRepo, movementRepo := newLiquidationTestRouter(t)
	obligationRepo.Seed(&domain.Obligation{
		ID:           "ob-1",
		CommittedQty: decimal.NewFromInt(50),
		Status:       domain.StatusPending,
	})

	body := `{"note":"liquidacion semanal","movements":[{"quantity":"10"},{"quantity":"15"}]}`
	req := httptest.NewRequest(http.MethodPost, "/obligations/ob-1/liquidations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body: %s)", rec.Code, rec.Body)
	}

	var created dto.LiquidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Status != string(domain.LiquidationActive) {
		t.Fatalf("batch status = %s, want active", created.Status)
	}

	voidReq := httptest.NewRequest(http.MethodPost, "/liquidations/"+created.ID+"/void", nil)
	voidRec := httptest.NewRecorder()
	router.ServeHTTP(voidRec, voidReq)

	if voidRec.Code != http.StatusOK {
		t.Fatalf("void status = %d, want 200 (body: %s)", voidRec.Code, voidRec.Body)
	}

	active, _ := movementRepo.ListActiveByObligation(context.Background(), "ob-1")
	if len(active) != 0 {
		t.Fatalf("active movements after void = %d, want 0", len(active))
	}

	ob, _ := obligationRepo.GetByID(context.Background(), "ob-1")
	if ob.Status != domain.StatusPending {
		t.Fatalf("obligation status = %s, want pending", ob.Status)
	}
}

func TestLiquidationHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "no movements", body: `{"movements":[]}`, want: http.StatusBadRequest},
		{name: "missing movements field", body: `{"note":"x"}`, want: http.StatusBadRequest},
		{name: "negative quantity", body: `{"movements":[{"quantity":"-3"}]}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, obligationRepo, _ := newLiquidationTestRouter(t)
			obligationRepo.Seed(&domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusPending,
			})

			req := httptest.NewRequest(http.MethodPost, "/obligations/ob-1/liquidations", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestLiquidationHandler_VoidUnknown(t *testing.T) {
	router, _, _ := newLiquidationTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/liquidations/missing/void", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
