package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the derived outstanding position of an obligation. It is never
// persisted; it is recomputed from the active movement set on every read so
// that voiding a movement retroactively changes the reported balance.
type Balance struct {
	ObligationID      string
	CommittedQty      decimal.Decimal
	DeliveredQty      decimal.Decimal
	OutstandingQty    decimal.Decimal
	OutstandingAmount decimal.Decimal
	UnitPrice         decimal.Decimal
	Fulfilled         bool
	ComputedAt        time.Time
}

// ComputeBalance derives the outstanding balance from an obligation and the
// sum of its active movement quantities. The raw subtraction is clamped to
// zero: the desk never reports a negative outstanding balance.
func ComputeBalance(o *Obligation, delivered decimal.Decimal) Balance {
	outstanding := o.CommittedQty.Sub(delivered)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return Balance{
		ObligationID:      o.ID,
		CommittedQty:      o.CommittedQty,
		DeliveredQty:      delivered,
		OutstandingQty:    outstanding,
		OutstandingAmount: outstanding.Mul(o.UnitPrice),
		UnitPrice:         o.UnitPrice,
		Fulfilled:         outstanding.LessThanOrEqual(decimal.Zero),
		ComputedAt:        time.Now().UTC(),
	}
}
