package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
)

// LiquidationUseCase groups movements into voidable settlement batches. The
// void reversal is the one multi-table atomic operation in the system: batch
// status, member movement statuses and the affected obligation status all
// flip together or not at all.
type LiquidationUseCase struct {
	txManager       TransactionManager
	retrier         Retrier
	obligationRepo  ObligationRepository
	movementRepo    MovementRepository
	liquidationRepo LiquidationRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewLiquidationUseCase creates a new LiquidationUseCase.
func NewLiquidationUseCase(
	txManager TransactionManager,
	retrier Retrier,
	obligationRepo ObligationRepository,
	movementRepo MovementRepository,
	liquidationRepo LiquidationRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LiquidationUseCase {
	return &LiquidationUseCase{
		txManager:       txManager,
		retrier:         retrier,
		obligationRepo:  obligationRepo,
		movementRepo:    movementRepo,
		liquidationRepo: liquidationRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// MovementSpec describes one movement inside a liquidation batch.
type MovementSpec struct {
	Quantity decimal.Decimal
	Category string
}

// CreateLiquidationInput represents input for creating a liquidation batch.
type CreateLiquidationInput struct {
	ObligationID string
	Note         string
	Movements    []MovementSpec
}

// CreateLiquidation creates a batch and its member movements atomically,
// then advances the obligation status from the resulting balance.
func (uc *LiquidationUseCase) CreateLiquidation(ctx context.Context, input CreateLiquidationInput) (*domain.LiquidationBatch, error) {
	if len(input.Movements) == 0 {
		return nil, domain.ErrEmptyLiquidation
	}

	for _, spec := range input.Movements {
		if err := domain.ValidateQuantity(spec.Quantity); err != nil {
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
	batch := &domain.LiquidationBatch{
		ID:           uc.idGen.Generate(),
		ObligationID: input.ObligationID,
		Note:         input.Note,
		Status:       domain.LiquidationActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.liquidationRepo.Create(txCtx, tx, batch); err != nil {
		return nil, err
	}

	for _, spec := range input.Movements {
		batchID := batch.ID
		movement := &domain.Movement{
			ID:           uc.idGen.Generate(),
			ObligationID: input.ObligationID,
			BatchID:      &batchID,
			Quantity:     spec.Quantity,
			Category:     domain.NormalizeCategory(spec.Category),
			Status:       domain.MovementActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return nil, err
		}
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
		log := uc.auditLog(ctx, domain.AuditActionLiquidationCreate, batch.ID)
		log.AfterState = domain.MarshalState(batch)
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LiquidationsCreated.Inc()
	}

	return batch, nil
}

// VoidLiquidation atomically reverses a liquidation batch: the batch and
// every member movement flip to voided and the affected obligations revert
// to pending, re-opening them for re-liquidation. Voiding a voided batch is
// a no-op success. The reversal runs in a serializable transaction and is
// retried on serialization failures.
func (uc *LiquidationUseCase) VoidLiquidation(ctx context.Context, id string) error {
	start := time.Now()

	op := func() error { return uc.voidOnce(ctx, id) }

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LiquidationsVoided.Inc()
		uc.metrics.VoidDuration.Observe(time.Since(start).Seconds())
	}

	return nil
}

func (uc *LiquidationUseCase) voidOnce(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.BeginSerializable(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	batch, err := uc.liquidationRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	if batch.IsVoided() {
		return nil
	}

	now := time.Now().UTC()
	if err := uc.liquidationRepo.UpdateStatus(txCtx, tx, id, domain.LiquidationVoided, now); err != nil {
		return err
	}

	movements, err := uc.movementRepo.ListByBatch(txCtx, tx, id)
	if err != nil {
		return err
	}

	affected := make(map[string]bool)
	for _, m := range movements {
		if m.IsActive() {
			if err := uc.movementRepo.UpdateStatus(txCtx, tx, m.ID, domain.MovementVoided, now); err != nil {
				return err
			}
		}

		affected[m.ObligationID] = true
	}

	for obligationID := range affected {
		if err := uc.obligationRepo.UpdateStatus(txCtx, tx, obligationID, domain.StatusPending, now); err != nil {
			return err
		}
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(ctx, domain.AuditActionLiquidationVoid, id)
		log.BeforeState = domain.MarshalState(batch)
		log.AfterState = domain.JSON{"status": string(domain.LiquidationVoided), "movements_voided": len(movements)}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

// GetLiquidation retrieves a liquidation batch by ID.
func (uc *LiquidationUseCase) GetLiquidation(ctx context.Context, id string) (*domain.LiquidationBatch, error) {
	return uc.liquidationRepo.GetByID(ctx, id)
}

// ListLiquidationsByObligation lists batches settling an obligation.
func (uc *LiquidationUseCase) ListLiquidationsByObligation(ctx context.Context, obligationID string, limit, offset int) ([]*domain.LiquidationBatch, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.liquidationRepo.ListByObligation(ctx, obligationID, limit, offset)
}

func (uc *LiquidationUseCase) auditLog(ctx context.Context, action domain.AuditAction, resourceID string) *domain.AuditLog {
	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "liquidation",
		ResourceID:   resourceID,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
}
