package domain

import "errors"

var (
	// Obligation errors
	ErrObligationNotFound  = errors.New("obligation not found")
	ErrObligationVoided    = errors.New("obligation is voided")
	ErrVoidedIsTerminal    = errors.New("voided obligation cannot change status")
	ErrMissingCounterparty = errors.New("counterparty is required")
	ErrMissingProduct      = errors.New("product is required")
	ErrInvalidKind         = errors.New("invalid obligation kind")
	ErrInvalidStatus       = errors.New("invalid obligation status")
	ErrInvalidQuantity     = errors.New("quantity must be a non-negative number")
	ErrInvalidPrice        = errors.New("unit price must be a non-negative number")

	// Movement errors
	ErrMovementNotFound = errors.New("movement not found")
	ErrEmptyImport      = errors.New("import requires at least one row")

	// Liquidation errors
	ErrLiquidationNotFound = errors.New("liquidation not found")
	ErrEmptyLiquidation    = errors.New("liquidation requires at least one movement")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// ErrStorageUnavailable replaces low-level driver connection failures
	// with a message safe to show a caller.
	ErrStorageUnavailable = errors.New("service temporarily unavailable: storage unreachable")
)
