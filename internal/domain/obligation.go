package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationKind distinguishes the three commitment types the trading desk
// manages: purchase contracts, coffee deposits, and sale commitments.
type ObligationKind string

const (
	KindContract ObligationKind = "contract"
	KindDeposit  ObligationKind = "deposit"
	KindSale     ObligationKind = "sale"
)

var validKinds = map[ObligationKind]bool{
	KindContract: true,
	KindDeposit:  true,
	KindSale:     true,
}

// IsValid checks if the kind is a known obligation kind.
func (k ObligationKind) IsValid() bool {
	return validKinds[k]
}

// ObligationStatus is the lifecycle state of an obligation.
type ObligationStatus string

const (
	StatusPending            ObligationStatus = "pending"
	StatusPartiallyFulfilled ObligationStatus = "partially_fulfilled"
	StatusFulfilled          ObligationStatus = "fulfilled"
	StatusVoided             ObligationStatus = "voided"
)

var validStatuses = map[ObligationStatus]bool{
	StatusPending:            true,
	StatusPartiallyFulfilled: true,
	StatusFulfilled:          true,
	StatusVoided:             true,
}

// IsValid checks if the status is a known obligation status.
func (s ObligationStatus) IsValid() bool {
	return validStatuses[s]
}

// Obligation represents a commitment with a quantity to be fulfilled over
// time by ledger movements. CommittedQty is immutable after creation; only
// the derived outstanding balance changes as movements accumulate.
type Obligation struct {
	ID             string
	Kind           ObligationKind
	CounterpartyID string
	ProductID      string
	CommittedQty   decimal.Decimal
	UnitPrice      decimal.Decimal
	Status         ObligationStatus
	Label          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates a new obligation.
func (o *Obligation) Validate() error {
	if o.CounterpartyID == "" {
		return ErrMissingCounterparty
	}

	if o.ProductID == "" {
		return ErrMissingProduct
	}

	if !o.Kind.IsValid() {
		return ErrInvalidKind
	}

	if o.CommittedQty.IsNegative() {
		return ErrInvalidQuantity
	}

	if o.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	return nil
}

// IsVoided reports whether the obligation has been voided. Voided is
// terminal: no status transition out of it is legal.
func (o *Obligation) IsVoided() bool {
	return o.Status == StatusVoided
}

// StatusForDelivered derives the forward lifecycle status from the committed
// quantity and the sum of active movement quantities.
func StatusForDelivered(committed, delivered decimal.Decimal) ObligationStatus {
	switch {
	case delivered.GreaterThanOrEqual(committed):
		return StatusFulfilled
	case delivered.IsPositive():
		return StatusPartiallyFulfilled
	default:
		return StatusPending
	}
}
