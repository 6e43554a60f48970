package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
)

// ObligationRepository defines data access for obligations.
type ObligationRepository interface {
	Create(ctx context.Context, obligation *domain.Obligation) error
	GetByID(ctx context.Context, id string) (*domain.Obligation, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Obligation, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ObligationStatus, updatedAt time.Time) error
	List(ctx context.Context, kind domain.ObligationKind, limit, offset int) ([]*domain.Obligation, error)
}

// MovementRepository defines data access for ledger movements.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Movement, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.MovementStatus, updatedAt time.Time) error
	ListActiveByObligation(ctx context.Context, obligationID string) ([]*domain.Movement, error)
	ListByBatch(ctx context.Context, tx Transaction, batchID string) ([]*domain.Movement, error)
	SumActiveByObligation(ctx context.Context, obligationID string) (decimal.Decimal, error)
	SumActiveByObligationTx(ctx context.Context, tx Transaction, obligationID string) (decimal.Decimal, error)
}

// LiquidationRepository defines data access for liquidation batches.
type LiquidationRepository interface {
	Create(ctx context.Context, tx Transaction, batch *domain.LiquidationBatch) error
	GetByID(ctx context.Context, id string) (*domain.LiquidationBatch, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LiquidationBatch, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.LiquidationStatus, updatedAt time.Time) error
	ListByObligation(ctx context.Context, obligationID string, limit, offset int) ([]*domain.LiquidationBatch, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. BeginSerializable is
// used by the liquidation reversal, which must not expose partial state to
// concurrent balance reads.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	BeginSerializable(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
