package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create writes an audit log outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	args, err := auditArgs(log)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsert, args...)

	return wrapConnectivity(err)
}

// CreateTx writes an audit log inside the given transaction, so the audit
// row commits or rolls back together with the mutation it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	args, err := auditArgs(log)
	if err != nil {
		return err
	}

	_, err = tx.(*Tx).PgxTx().Exec(ctx, auditInsert, args...)

	return wrapConnectivity(err)
}

const auditInsert = `
	INSERT INTO audit_log (id, user_id, action, resource_type, resource_id, before_state, after_state, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func auditArgs(log *domain.AuditLog) ([]any, error) {
	before, err := marshalJSON(log.BeforeState)
	if err != nil {
		return nil, err
	}
	after, err := marshalJSON(log.AfterState)
	if err != nil {
		return nil, err
	}

	return []any{
		log.ID, log.UserID, log.Action, log.ResourceType, log.ResourceID,
		before, after, log.Status, timeToPgTimestamptz(log.CreatedAt),
	}, nil
}

func marshalJSON(j domain.JSON) ([]byte, error) {
	if j == nil {
		return nil, nil
	}

	return json.Marshal(j)
}
