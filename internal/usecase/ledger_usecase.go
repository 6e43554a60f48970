package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
)

// LedgerUseCase is the movement ledger: append-only signed entries against an
// obligation, voidable in place.
type LedgerUseCase struct {
	txManager      TransactionManager
	obligationRepo ObligationRepository
	movementRepo   MovementRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	obligationRepo ObligationRepository,
	movementRepo MovementRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:      txManager,
		obligationRepo: obligationRepo,
		movementRepo:   movementRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// RecordMovementInput represents input for recording a movement.
type RecordMovementInput struct {
	ObligationID string
	Quantity     decimal.Decimal
	Category     string
}

// RecordMovement appends a fulfillment movement to an obligation's ledger
// and advances the obligation status inside the same transaction.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.Movement, error) {
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	obligation, err := uc.obligationRepo.GetByIDForUpdate(txCtx, tx, input.ObligationID)
	if err != nil {
		return nil, err
	}

	if obligation.IsVoided() {
		return nil, domain.ErrObligationVoided
	}

	now := time.Now().UTC()
	movement := &domain.Movement{
		ID:           uc.idGen.Generate(),
		ObligationID: input.ObligationID,
		Quantity:     input.Quantity,
		Category:     domain.NormalizeCategory(input.Category),
		Status:       domain.MovementActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
		return nil, err
	}

	delivered, err := uc.movementRepo.SumActiveByObligationTx(txCtx, tx, input.ObligationID)
	if err != nil {
		return nil, err
	}

	next := domain.StatusForDelivered(obligation.CommittedQty, delivered)
	if next != obligation.Status {
		if err := uc.obligationRepo.UpdateStatus(txCtx, tx, obligation.ID, next, now); err != nil {
			return nil, err
		}
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(ctx, domain.AuditActionMovementRecord, movement.ID)
		log.AfterState = domain.MarshalState(movement)
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.Inc()
	}

	return movement, nil
}

// ImportMovementRow is one legacy ledger row, already coerced and
// classified at the boundary. Voided rows keep their voided status so the
// imported history matches the old books.
type ImportMovementRow struct {
	Quantity decimal.Decimal
	Category string
	Status   domain.MovementStatus
}

// ImportMovementsInput represents input for a bulk legacy import.
type ImportMovementsInput struct {
	ObligationID string
	Rows         []ImportMovementRow
}

// ImportMovements appends a batch of legacy rows to an obligation's ledger
// in one transaction and recomputes the obligation status from the rows
// that arrived active.
func (uc *LedgerUseCase) ImportMovements(ctx context.Context, input ImportMovementsInput) ([]*domain.Movement, error) {
	if len(input.Rows) == 0 {
		return nil, domain.ErrEmptyImport
	}
	for _, row := range input.Rows {
		if err := domain.ValidateQuantity(row.Quantity); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	obligation, err := uc.obligationRepo.GetByIDForUpdate(txCtx, tx, input.ObligationID)
	if err != nil {
		return nil, err
	}

	if obligation.IsVoided() {
		return nil, domain.ErrObligationVoided
	}

	now := time.Now().UTC()
	movements := make([]*domain.Movement, 0, len(input.Rows))
	for _, row := range input.Rows {
		movement := &domain.Movement{
			ID:           uc.idGen.Generate(),
			ObligationID: input.ObligationID,
			Quantity:     row.Quantity,
			Category:     domain.NormalizeCategory(row.Category),
			Status:       row.Status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	delivered, err := uc.movementRepo.SumActiveByObligationTx(txCtx, tx, input.ObligationID)
	if err != nil {
		return nil, err
	}

	next := domain.StatusForDelivered(obligation.CommittedQty, delivered)
	if next != obligation.Status {
		if err := uc.obligationRepo.UpdateStatus(txCtx, tx, obligation.ID, next, now); err != nil {
			return nil, err
		}
	}

	if uc.auditRepo != nil {
		ids := make([]string, len(movements))
		for i, m := range movements {
			ids[i] = m.ID
		}
		log := uc.auditLog(ctx, domain.AuditActionMovementImport, input.ObligationID)
		log.AfterState = domain.JSON{"imported": len(ids), "movement_ids": ids}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.Add(float64(len(movements)))
	}

	return movements, nil
}

// VoidMovement flips a movement to voided in place. Voiding an already
// voided movement is a no-op success.
func (uc *LedgerUseCase) VoidMovement(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	movement, err := uc.movementRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	if !movement.IsActive() {
		return nil
	}

	now := time.Now().UTC()
	if err := uc.movementRepo.UpdateStatus(txCtx, tx, id, domain.MovementVoided, now); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(ctx, domain.AuditActionMovementVoid, id)
		log.BeforeState = domain.MarshalState(movement)
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsVoided.Inc()
	}

	return nil
}

// GetMovement retrieves a movement by ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListActiveMovements returns the snapshot of non-voided movements for an
// obligation.
func (uc *LedgerUseCase) ListActiveMovements(ctx context.Context, obligationID string) ([]*domain.Movement, error) {
	if _, err := uc.obligationRepo.GetByID(ctx, obligationID); err != nil {
		return nil, err
	}

	return uc.movementRepo.ListActiveByObligation(ctx, obligationID)
}

func (uc *LedgerUseCase) auditLog(ctx context.Context, action domain.AuditAction, resourceID string) *domain.AuditLog {
	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "movement",
		ResourceID:   resourceID,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
}
