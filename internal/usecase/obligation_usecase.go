package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
)

// ObligationUseCase owns the obligation registry: contracts, deposits and
// sale commitments whose fulfillment the ledger tracks.
type ObligationUseCase struct {
	txManager      TransactionManager
	obligationRepo ObligationRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

// NewObligationUseCase creates a new ObligationUseCase.
func NewObligationUseCase(
	txManager TransactionManager,
	obligationRepo ObligationRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ObligationUseCase {
	return &ObligationUseCase{
		txManager:      txManager,
		obligationRepo: obligationRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// CreateObligationInput represents input for creating an obligation.
type CreateObligationInput struct {
	Kind           domain.ObligationKind
	CounterpartyID string
	ProductID      string
	CommittedQty   decimal.Decimal
	UnitPrice      decimal.Decimal
	Label          string
}

// CreateObligation registers a new obligation. The committed quantity is
// immutable after this point.
func (uc *ObligationUseCase) CreateObligation(ctx context.Context, input CreateObligationInput) (*domain.Obligation, error) {
	now := time.Now().UTC()

	obligation := &domain.Obligation{
		ID:             uc.idGen.Generate(),
		Kind:           input.Kind,
		CounterpartyID: input.CounterpartyID,
		ProductID:      input.ProductID,
		CommittedQty:   input.CommittedQty,
		UnitPrice:      input.UnitPrice,
		Status:         domain.StatusPending,
		Label:          input.Label,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := obligation.Validate(); err != nil {
		return nil, err
	}

	if err := uc.obligationRepo.Create(ctx, obligation); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		uc.audit(ctx, domain.AuditActionObligationCreate, obligation.ID, nil, domain.MarshalState(obligation))
	}

	if uc.metrics != nil {
		uc.metrics.ObligationsCreated.Inc()
	}

	return obligation, nil
}

// GetObligation retrieves an obligation by ID.
func (uc *ObligationUseCase) GetObligation(ctx context.Context, id string) (*domain.Obligation, error) {
	return uc.obligationRepo.GetByID(ctx, id)
}

// ListObligationsInput represents input for listing obligations.
type ListObligationsInput struct {
	Kind   domain.ObligationKind
	Limit  int
	Offset int
}

// ListObligations lists obligations, optionally filtered by kind.
func (uc *ObligationUseCase) ListObligations(ctx context.Context, input ListObligationsInput) ([]*domain.Obligation, error) {
	if input.Kind != "" && !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.obligationRepo.List(ctx, input.Kind, limit, offset)
}

// MarkStatus transitions an obligation to the given status. The only
// legality check is that voided is terminal; everything else is left to the
// back office, which uses this to correct misclassified obligations.
func (uc *ObligationUseCase) MarkStatus(ctx context.Context, id string, status domain.ObligationStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	obligation, err := uc.obligationRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	if obligation.IsVoided() && status != domain.StatusVoided {
		return domain.ErrVoidedIsTerminal
	}

	now := time.Now().UTC()
	if err := uc.obligationRepo.UpdateStatus(txCtx, tx, id, status, now); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		log := uc.auditLog(ctx, domain.AuditActionObligationStatus, id)
		log.BeforeState = domain.JSON{"status": string(obligation.Status)}
		log.AfterState = domain.JSON{"status": string(status)}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

func (uc *ObligationUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after domain.JSON) {
	log := uc.auditLog(ctx, action, resourceID)
	log.BeforeState = before
	log.AfterState = after
	_ = uc.auditRepo.Create(ctx, log)
}

func (uc *ObligationUseCase) auditLog(ctx context.Context, action domain.AuditAction, resourceID string) *domain.AuditLog {
	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "obligation",
		ResourceID:   resourceID,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
}
