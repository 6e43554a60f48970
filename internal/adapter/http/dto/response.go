package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
)

// ObligationResponse represents an obligation in API responses.
type ObligationResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	CounterpartyID string          `json:"counterparty_id"`
	ProductID      string          `json:"product_id"`
	CommittedQty   decimal.Decimal `json:"committed_qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Status         string          `json:"status"`
	Label          string          `json:"label,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ObligationFromDomain converts a domain obligation to a response.
func ObligationFromDomain(o *domain.Obligation) *ObligationResponse {
	return &ObligationResponse{
		ID:             o.ID,
		Kind:           string(o.Kind),
		CounterpartyID: o.CounterpartyID,
		ProductID:      o.ProductID,
		CommittedQty:   o.CommittedQty,
		UnitPrice:      o.UnitPrice,
		Status:         string(o.Status),
		Label:          o.Label,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ObligationsFromDomain converts domain obligations to responses.
func ObligationsFromDomain(obligations []*domain.Obligation) []*ObligationResponse {
	result := make([]*ObligationResponse, len(obligations))
	for i, o := range obligations {
		result[i] = ObligationFromDomain(o)
	}
	return result
}

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID           string          `json:"id"`
	ObligationID string          `json:"obligation_id"`
	BatchID      *string         `json:"batch_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		ObligationID: m.ObligationID,
		BatchID:      m.BatchID,
		Quantity:     m.Quantity,
		Category:     m.Category,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// LiquidationResponse represents a liquidation batch in API responses.
type LiquidationResponse struct {
	ID           string    `json:"id"`
	ObligationID string    `json:"obligation_id"`
	Note         string    `json:"note,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LiquidationFromDomain converts a domain liquidation batch to a response.
func LiquidationFromDomain(b *domain.LiquidationBatch) *LiquidationResponse {
	return &LiquidationResponse{
		ID:           b.ID,
		ObligationID: b.ObligationID,
		Note:         b.Note,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// LiquidationsFromDomain converts domain liquidation batches to responses.
func LiquidationsFromDomain(batches []*domain.LiquidationBatch) []*LiquidationResponse {
	result := make([]*LiquidationResponse, len(batches))
	for i, b := range batches {
		result[i] = LiquidationFromDomain(b)
	}
	return result
}

// BalanceResponse represents a computed balance in API responses.
type BalanceResponse struct {
	ObligationID      string          `json:"obligation_id"`
	CommittedQty      decimal.Decimal `json:"committed_qty"`
	DeliveredQty      decimal.Decimal `json:"delivered_qty"`
	OutstandingQty    decimal.Decimal `json:"outstanding_qty"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Fulfilled         bool            `json:"fulfilled"`
	ComputedAt        time.Time       `json:"computed_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		ObligationID:      b.ObligationID,
		CommittedQty:      b.CommittedQty,
		DeliveredQty:      b.DeliveredQty,
		OutstandingQty:    b.OutstandingQty,
		OutstandingAmount: b.OutstandingAmount,
		UnitPrice:         b.UnitPrice,
		Fulfilled:         b.Fulfilled,
		ComputedAt:        b.ComputedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
