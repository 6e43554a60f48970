package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

const liquidationColumns = `id, obligation_id, note, status, created_at, updated_at`

// LiquidationRepository implements usecase.LiquidationRepository.
type LiquidationRepository struct {
	pool *pgxpool.Pool
}

// NewLiquidationRepository creates a new LiquidationRepository.
func NewLiquidationRepository(pool *pgxpool.Pool) *LiquidationRepository {
	return &LiquidationRepository{pool: pool}
}

// Create creates a new liquidation batch inside the given transaction.
func (r *LiquidationRepository) Create(ctx context.Context, tx usecase.Transaction, b *domain.LiquidationBatch) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO liquidation_batches (`+liquidationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.ObligationID, b.Note, string(b.Status),
		timeToPgTimestamptz(b.CreatedAt), timeToPgTimestamptz(b.UpdatedAt),
	)

	return wrapConnectivity(err)
}

// GetByID retrieves a liquidation batch by ID.
func (r *LiquidationRepository) GetByID(ctx context.Context, id string) (*domain.LiquidationBatch, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+liquidationColumns+`
		FROM liquidation_batches WHERE id = $1`, id)

	return scanLiquidation(row)
}

// GetByIDForUpdate retrieves a liquidation batch with a FOR UPDATE lock.
func (r *LiquidationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LiquidationBatch, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+liquidationColumns+`
		FROM liquidation_batches WHERE id = $1 FOR UPDATE`, id)

	return scanLiquidation(row)
}

// UpdateStatus updates the status of a liquidation batch.
func (r *LiquidationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.LiquidationStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE liquidation_batches SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return wrapConnectivity(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLiquidationNotFound
	}

	return nil
}

// ListByObligation lists the batches settling an obligation, newest first.
func (r *LiquidationRepository) ListByObligation(ctx context.Context, obligationID string, limit, offset int) ([]*domain.LiquidationBatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+liquidationColumns+`
		FROM liquidation_batches
		WHERE obligation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		obligationID, limit, offset,
	)
	if err != nil {
		return nil, wrapConnectivity(err)
	}
	defer rows.Close()

	batches := make([]*domain.LiquidationBatch, 0, limit)
	for rows.Next() {
		b, err := scanLiquidation(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

func scanLiquidation(row pgx.Row) (*domain.LiquidationBatch, error) {
	var (
		b         domain.LiquidationBatch
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&b.ID, &b.ObligationID, &b.Note, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLiquidationNotFound
		}
		return nil, wrapConnectivity(err)
	}

	b.Status = domain.LiquidationStatus(status)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
