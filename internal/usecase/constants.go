package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds every mutating database transaction
	// so a stuck liquidation reversal cannot hold row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second
)
