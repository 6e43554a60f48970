package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who performed a mutating action and the state it changed.
// Void operations write their audit row inside the same transaction as the
// reversal itself.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data.
type JSON map[string]any

// AuditAction represents the auditable actions.
type AuditAction string

const (
	AuditActionObligationCreate  AuditAction = "obligation.create"
	AuditActionObligationStatus  AuditAction = "obligation.status"
	AuditActionMovementRecord    AuditAction = "movement.record"
	AuditActionMovementImport    AuditAction = "movement.import"
	AuditActionMovementVoid      AuditAction = "movement.void"
	AuditActionLiquidationCreate AuditAction = "liquidation.create"
	AuditActionLiquidationVoid   AuditAction = "liquidation.void"
)

const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
