package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
	"github.com/cafehenola/ledger/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockObligationRepository, *mocks.MockMovementRepository, *mocks.MockTransactionManager) {
	obligationRepo := mocks.NewMockObligationRepository()
	movementRepo := mocks.NewMockMovementRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	uc := usecase.NewLedgerUseCase(txMgr, obligationRepo, movementRepo, mocks.NewMockAuditRepository(), idGen, nil)

	return uc, obligationRepo, movementRepo, txMgr
}

func TestLedgerUseCase_RecordMovement(t *testing.T) {
	tests := []struct {
		name      string
		seed      *domain.Obligation
		input     usecase.RecordMovementInput
		wantErr   error
		wantState domain.ObligationStatus
	}{
		{
			name: "partial delivery advances status",
			seed: &domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusPending,
			},
			input:     usecase.RecordMovementInput{ObligationID: "ob-1", Quantity: decimal.NewFromInt(20)},
			wantState: domain.StatusPartiallyFulfilled,
		},
		{
			name: "full delivery fulfills",
			seed: &domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusPending,
			},
			input:     usecase.RecordMovementInput{ObligationID: "ob-1", Quantity: decimal.NewFromInt(50)},
			wantState: domain.StatusFulfilled,
		},
		{
			name: "zero quantity tolerated",
			seed: &domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusPending,
			},
			input:     usecase.RecordMovementInput{ObligationID: "ob-1", Quantity: decimal.Zero},
			wantState: domain.StatusPending,
		},
		{
			name:    "unknown obligation",
			input:   usecase.RecordMovementInput{ObligationID: "missing", Quantity: decimal.NewFromInt(1)},
			wantErr: domain.ErrObligationNotFound,
		},
		{
			name: "voided obligation rejected",
			seed: &domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusVoided,
			},
			input:   usecase.RecordMovementInput{ObligationID: "ob-1", Quantity: decimal.NewFromInt(10)},
			wantErr: domain.ErrObligationVoided,
		},
		{
			name: "negative quantity rejected",
			seed: &domain.Obligation{
				ID:           "ob-1",
				CommittedQty: decimal.NewFromInt(50),
				Status:       domain.StatusPending,
			},
			input:   usecase.RecordMovementInput{ObligationID: "ob-1", Quantity: decimal.NewFromInt(-10)},
			wantErr: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, obligationRepo, _, _ := newLedgerFixture()
			if tt.seed != nil {
				obligationRepo.Seed(tt.seed)
			}

			movement, err := uc.RecordMovement(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if movement.Category != domain.CategoryDelivery {
				t.Errorf("category = %q, want default %q", movement.Category, domain.CategoryDelivery)
			}

			ob, _ := obligationRepo.GetByID(context.Background(), tt.seed.ID)
			if ob.Status != tt.wantState {
				t.Errorf("obligation status = %s, want %s", ob.Status, tt.wantState)
			}
		})
	}
}

func TestLedgerUseCase_ImportMovements(t *testing.T) {
	uc, obligationRepo, movementRepo, _ := newLedgerFixture()

	obligationRepo.Seed(&domain.Obligation{
		ID:           "ob-1",
		CommittedQty: decimal.NewFromInt(50),
		Status:       domain.StatusPending,
	})

	movements, err := uc.ImportMovements(context.Background(), usecase.ImportMovementsInput{
		ObligationID: "ob-1",
		Rows: []usecase.ImportMovementRow{
			{Quantity: decimal.NewFromInt(20), Status: domain.MovementActive},
			{Quantity: decimal.NewFromInt(30), Status: domain.MovementVoided},
			{Quantity: decimal.NewFromInt(10), Status: domain.MovementActive},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("imported %d movements, want 3", len(movements))
	}

	// The voided row is kept for history but does not count toward delivery.
	active, _ := movementRepo.ListActiveByObligation(context.Background(), "ob-1")
	if len(active) != 2 {
		t.Fatalf("active movements = %d, want 2", len(active))
	}

	ob, _ := obligationRepo.GetByID(context.Background(), "ob-1")
	if ob.Status != domain.StatusPartiallyFulfilled {
		t.Errorf("obligation status = %s, want partially_fulfilled", ob.Status)
	}
}

func TestLedgerUseCase_ImportMovementsValidation(t *testing.T) {
	tests := []struct {
		name    string
		seed    *domain.Obligation
		input   usecase.ImportMovementsInput
		wantErr error
	}{
		{
			name:    "empty import rejected",
			input:   usecase.ImportMovementsInput{ObligationID: "ob-1"},
			wantErr: domain.ErrEmptyImport,
		},
		{
			name:  "negative quantity rejected",
			seed:  &domain.Obligation{ID: "ob-1", CommittedQty: decimal.NewFromInt(50), Status: domain.StatusPending},
			input: usecase.ImportMovementsInput{
				ObligationID: "ob-1",
				Rows:         []usecase.ImportMovementRow{{Quantity: decimal.NewFromInt(-5), Status: domain.MovementActive}},
			},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:  "unknown obligation",
			input: usecase.ImportMovementsInput{
				ObligationID: "missing",
				Rows:         []usecase.ImportMovementRow{{Quantity: decimal.NewFromInt(5), Status: domain.MovementActive}},
			},
			wantErr: domain.ErrObligationNotFound,
		},
		{
			name:  "voided obligation rejected",
			seed:  &domain.Obligation{ID: "ob-1", CommittedQty: decimal.NewFromInt(50), Status: domain.StatusVoided},
			input: usecase.ImportMovementsInput{
				ObligationID: "ob-1",
				Rows:         []usecase.ImportMovementRow{{Quantity: decimal.NewFromInt(5), Status: domain.MovementActive}},
			},
			wantErr: domain.ErrObligationVoided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, obligationRepo, _, _ := newLedgerFixture()
			if tt.seed != nil {
				obligationRepo.Seed(tt.seed)
			}

			if _, err := uc.ImportMovements(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLedgerUseCase_VoidMovementIdempotent(t *testing.T) {
	uc, obligationRepo, movementRepo, txMgr := newLedgerFixture()

	obligationRepo.Seed(&domain.Obligation{
		ID:           "ob-1",
		CommittedQty: decimal.NewFromInt(50),
		Status:       domain.StatusPartiallyFulfilled,
	})
	movementRepo.Seed(&domain.Movement{
		ID:           "mv-1",
		ObligationID: "ob-1",
		Quantity:     decimal.NewFromInt(20),
		Status:       domain.MovementActive,
	})

	if err := uc.VoidMovement(context.Background(), "mv-1"); err != nil {
		t.Fatalf("first void: %v", err)
	}

	mv, _ := movementRepo.GetByID(context.Background(), "mv-1")
	if mv.Status != domain.MovementVoided {
		t.Fatalf("status = %s, want voided", mv.Status)
	}

	txCount := len(txMgr.Transactions)

	if err := uc.VoidMovement(context.Background(), "mv-1"); err != nil {
		t.Fatalf("second void should succeed, got %v", err)
	}

	// The second void short-circuits without committing anything new.
	if last := txMgr.Last(); len(txMgr.Transactions) == txCount+1 && last.Committed {
		t.Error("idempotent void should not commit a second mutation")
	}
}

func TestLedgerUseCase_VoidUnknownMovement(t *testing.T) {
	uc, _, _, _ := newLedgerFixture()

	err := uc.VoidMovement(context.Background(), "missing")
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Errorf("err = %v, want ErrMovementNotFound", err)
	}
}

func TestLedgerUseCase_ListActiveMovements(t *testing.T) {
	uc, obligationRepo, movementRepo, _ := newLedgerFixture()

	obligationRepo.Seed(&domain.Obligation{ID: "ob-1", Status: domain.StatusPending})
	movementRepo.Seed(&domain.Movement{ID: "mv-1", ObligationID: "ob-1", Status: domain.MovementActive})
	movementRepo.Seed(&domain.Movement{ID: "mv-2", ObligationID: "ob-1", Status: domain.MovementVoided})
	movementRepo.Seed(&domain.Movement{ID: "mv-3", ObligationID: "ob-other", Status: domain.MovementActive})

	movements, err := uc.ListActiveMovements(context.Background(), "ob-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movements) != 1 || movements[0].ID != "mv-1" {
		t.Errorf("got %d movements, want exactly mv-1", len(movements))
	}

	if _, err := uc.ListActiveMovements(context.Background(), "missing"); !errors.Is(err, domain.ErrObligationNotFound) {
		t.Errorf("err = %v, want ErrObligationNotFound", err)
	}
}
