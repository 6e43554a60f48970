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

const obligationColumns = `id, kind, counterparty_id, product_id, committed_qty, unit_price, status, label, created_at, updated_at`

// ObligationRepository implements usecase.ObligationRepository.
type ObligationRepository struct {
	pool *pgxpool.Pool
}

// NewObligationRepository creates a new ObligationRepository.
func NewObligationRepository(pool *pgxpool.Pool) *ObligationRepository {
	return &ObligationRepository{pool: pool}
}

// Create creates a new obligation.
func (r *ObligationRepository) Create(ctx context.Context, o *domain.Obligation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO obligations (`+obligationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, string(o.Kind), o.CounterpartyID, o.ProductID,
		decimalToNumeric(o.CommittedQty), decimalToNumeric(o.UnitPrice),
		string(o.Status), o.Label,
		timeToPgTimestamptz(o.CreatedAt), timeToPgTimestamptz(o.UpdatedAt),
	)

	return wrapConnectivity(err)
}

// GetByID retrieves an obligation by ID.
func (r *ObligationRepository) GetByID(ctx context.Context, id string) (*domain.Obligation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+obligationColumns+`
		FROM obligations WHERE id = $1`, id)

	return scanObligation(row)
}

// GetByIDForUpdate retrieves an obligation by ID with a FOR UPDATE lock.
func (r *ObligationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Obligation, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+obligationColumns+`
		FROM obligations WHERE id = $1 FOR UPDATE`, id)

	return scanObligation(row)
}

// UpdateStatus updates the status of an obligation.
func (r *ObligationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ObligationStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE obligations SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return wrapConnectivity(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObligationNotFound
	}

	return nil
}

// List lists obligations, optionally filtered by kind, newest first.
func (r *ObligationRepository) List(ctx context.Context, kind domain.ObligationKind, limit, offset int) ([]*domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations`
	args := []any{limit, offset}
	if kind != "" {
		query += ` WHERE kind = $3`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapConnectivity(err)
	}
	defer rows.Close()

	obligations := make([]*domain.Obligation, 0, limit)
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, o)
	}

	return obligations, rows.Err()
}

func scanObligation(row pgx.Row) (*domain.Obligation, error) {
	var (
		o            domain.Obligation
		kind, status string
		committed    pgtype.Numeric
		price        pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&o.ID, &kind, &o.CounterpartyID, &o.ProductID,
		&committed, &price, &status, &o.Label,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrObligationNotFound
		}
		return nil, wrapConnectivity(err)
	}

	o.Kind = domain.ObligationKind(kind)
	o.Status = domain.ObligationStatus(status)
	o.CommittedQty = numericToDecimal(committed)
	o.UnitPrice = numericToDecimal(price)
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
