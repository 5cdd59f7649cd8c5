package domain

import (
	"encoding/json"
	"time"
)

// AuditResourceType names the entity an audit entry refers to.
type AuditResourceType string

const (
	AuditResourceAccount      AuditResourceType = "ACCOUNT"
	AuditResourceTransaction  AuditResourceType = "TRANSACTION"
	AuditResourceFixedDeposit AuditResourceType = "FIXED_DEPOSIT"
)

// Audit actions.
const (
	ActionAccountCreated        = "ACCOUNT_CREATED"
	ActionAccountStatusChanged  = "ACCOUNT_STATUS_CHANGED"
	ActionDeposit               = "DEPOSIT"
	ActionWithdrawal            = "WITHDRAWAL"
	ActionTransfer              = "TRANSFER"
	ActionInterestPosted        = "INTEREST_POSTED"
	ActionFixedDepositCreated   = "FD_CREATED"
	ActionFixedDepositMatured   = "FD_MATURED"
	ActionFixedDepositPremature = "FD_PREMATURE_CLOSURE"
)

// AuditLog is an append-only record of a state change.
type AuditLog struct {
	AuditID      string            `json:"auditID"`
	ResourceType AuditResourceType `json:"resourceType"`
	ResourceID   string            `json:"resourceID"`
	Action       string            `json:"action"`
	OldValue     json.RawMessage   `json:"oldValue,omitempty"`
	NewValue     json.RawMessage   `json:"newValue,omitempty"`
	Actor        string            `json:"actor"`
	Timestamp    time.Time         `json:"timestamp"`
}
