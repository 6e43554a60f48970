package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementStatus is the ledger entry state. Voiding mutates the row in place
// rather than inserting a compensating entry.
type MovementStatus string

const (
	MovementActive MovementStatus = "active"
	MovementVoided MovementStatus = "voided"
)

// Default movement category when the caller does not provide one.
const CategoryDelivery = "entrega"

// Movement is a single ledger entry recording partial fulfillment against an
// obligation. BatchID is set when the movement was created as part of a
// liquidation batch.
type Movement struct {
	ID           string
	ObligationID string
	BatchID      *string
	Quantity     decimal.Decimal
	Category     string
	Status       MovementStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the movement counts toward balance aggregation.
func (m *Movement) IsActive() bool {
	return m.Status == MovementActive
}

// IsLegacyVoidTag reports whether a free-text movement tag from the legacy
// system marks the row as voided. The old data carries "ANULADO", "Anulado"
// and "anulado" interchangeably, so the comparison is case-insensitive.
func IsLegacyVoidTag(tag string) bool {
	return strings.EqualFold(strings.TrimSpace(tag), "anulado")
}

// StatusFromLegacyTag maps a legacy free-text tag to the status enumeration.
func StatusFromLegacyTag(tag string) MovementStatus {
	if IsLegacyVoidTag(tag) {
		return MovementVoided
	}

	return MovementActive
}

// NormalizeCategory trims the category and falls back to the default
// delivery category when empty.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryDelivery
	}

	return category
}
