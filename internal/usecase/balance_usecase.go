package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
)

// BalanceUseCase derives outstanding balances from the movement ledger.
// Balances are recomputed on every call; no running balance is persisted,
// so a voided movement changes the reported balance with no reconciliation
// step. Reads take no locks and observe committed state only.
type BalanceUseCase struct {
	obligationRepo ObligationRepository
	movementRepo   MovementRepository
	metrics        *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	obligationRepo ObligationRepository,
	movementRepo MovementRepository,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		obligationRepo: obligationRepo,
		movementRepo:   movementRepo,
		metrics:        metrics,
	}
}

// GetBalance computes the outstanding balance for an obligation.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, obligationID string) (*domain.Balance, error) {
	obligation, err := uc.obligationRepo.GetByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	delivered, err := uc.movementRepo.SumActiveByObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	balance := domain.ComputeBalance(obligation, delivered)

	if uc.metrics != nil {
		uc.metrics.BalanceQueries.Inc()
	}

	return &balance, nil
}

// OutstandingQuantity returns the committed quantity minus the active
// movement sum, floored at zero.
func (uc *BalanceUseCase) OutstandingQuantity(ctx context.Context, obligationID string) (decimal.Decimal, error) {
	balance, err := uc.GetBalance(ctx, obligationID)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.OutstandingQty, nil
}

// OutstandingAmount returns the outstanding quantity priced at the
// obligation's unit price.
func (uc *BalanceUseCase) OutstandingAmount(ctx context.Context, obligationID string) (decimal.Decimal, error) {
	balance, err := uc.GetBalance(ctx, obligationID)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.OutstandingAmount, nil
}

// IsFulfilled reports whether the obligation has no outstanding quantity.
func (uc *BalanceUseCase) IsFulfilled(ctx context.Context, obligationID string) (bool, error) {
	balance, err := uc.GetBalance(ctx, obligationID)
	if err != nil {
		return false, err
	}

	return balance.Fulfilled, nil
}
