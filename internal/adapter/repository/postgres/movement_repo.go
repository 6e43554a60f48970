package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

const movementColumns = `id, obligation_id, batch_id, quantity, category, status, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository. Movements are
// append-only: rows are never deleted, a void flips the status in place.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create creates a new movement inside the given transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ObligationID, m.BatchID,
		decimalToNumeric(m.Quantity), m.Category, string(m.Status),
		timeToPgTimestamptz(m.CreatedAt), timeToPgTimestamptz(m.UpdatedAt),
	)

	return wrapConnectivity(err)
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements WHERE id = $1`, id)

	return scanMovement(row)
}

// GetByIDForUpdate retrieves a movement by ID with a FOR UPDATE lock.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements WHERE id = $1 FOR UPDATE`, id)

	return scanMovement(row)
}

// UpdateStatus updates the status of a movement.
func (r *MovementRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.MovementStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE movements SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return wrapConnectivity(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// ListActiveByObligation lists the active movements of an obligation,
// oldest first.
func (r *MovementRepository) ListActiveByObligation(ctx context.Context, obligationID string) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE obligation_id = $1 AND status = $2
		ORDER BY created_at ASC`,
		obligationID, string(domain.MovementActive),
	)
	if err != nil {
		return nil, wrapConnectivity(err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// ListByBatch lists every movement belonging to a liquidation batch,
// regardless of status.
func (r *MovementRepository) ListByBatch(ctx context.Context, tx usecase.Transaction, batchID string) ([]*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements WHERE batch_id = $1
		ORDER BY created_at ASC`, batchID)
	if err != nil {
		return nil, wrapConnectivity(err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// SumActiveByObligation sums the quantities of an obligation's active
// movements. The sum is computed in SQL on every call, never cached.
func (r *MovementRepository) SumActiveByObligation(ctx context.Context, obligationID string) (decimal.Decimal, error) {
	return sumActive(ctx, r.pool, obligationID)
}

// SumActiveByObligationTx is SumActiveByObligation inside a transaction, so
// the sum sees rows the transaction itself wrote.
func (r *MovementRepository) SumActiveByObligationTx(ctx context.Context, tx usecase.Transaction, obligationID string) (decimal.Decimal, error) {
	return sumActive(ctx, tx.(*Tx).PgxTx(), obligationID)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sumActive(ctx context.Context, q rowQuerier, obligationID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM movements
		WHERE obligation_id = $1 AND status = $2`,
		obligationID, string(domain.MovementActive),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, wrapConnectivity(err)
	}

	return numericToDecimal(sum), nil
}

func collectMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m         domain.Movement
		status    string
		quantity  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&m.ID, &m.ObligationID, &m.BatchID,
		&quantity, &m.Category, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, wrapConnectivity(err)
	}

	m.Status = domain.MovementStatus(status)
	m.Quantity = numericToDecimal(quantity)
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}
