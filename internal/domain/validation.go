package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pagination limits
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// CoerceQuantity converts free-form numeric input into a quantity, keeping
// the permissive policy of the system being replaced: missing or garbage
// input coerces to zero instead of being rejected. An explicitly negative
// value is still an error.
func CoerceQuantity(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	q, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, nil
	}

	if q.IsNegative() {
		return decimal.Zero, ErrInvalidQuantity
	}

	return q, nil
}

// ValidateQuantity validates a strictly-parsed quantity.
func ValidateQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return ErrInvalidQuantity
	}

	return nil
}

// ValidatePrice validates a strictly-parsed unit price.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return ErrInvalidPrice
	}

	return nil
}

// ValidatePagination clamps pagination parameters into the allowed range.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
