package domain

import "time"

// LiquidationStatus is the batch state. Voided is terminal; there is no
// re-activation path.
type LiquidationStatus string

const (
	LiquidationActive LiquidationStatus = "active"
	LiquidationVoided LiquidationStatus = "voided"
)

// LiquidationBatch groups movements created together to settle part of an
// obligation. The batch is voidable as a unit: voiding it voids every member
// movement and re-opens the obligation.
type LiquidationBatch struct {
	ID           string
	ObligationID string
	Note         string
	Status       LiquidationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsVoided reports whether the batch has been voided.
func (b *LiquidationBatch) IsVoided() bool {
	return b.Status == LiquidationVoided
}
