package models

import "time"

// AuditLog is the row shape of the audit_logs table. Values are JSONB.
type AuditLog struct {
	AuditID      string    `db:"audit_id"`
	ResourceType string    `db:"resource_type"`
	ResourceID   string    `db:"resource_id"`
	Action       string    `db:"action"`
	OldValue     []byte    `db:"old_value"`
	NewValue     []byte    `db:"new_value"`
	Actor        string    `db:"actor"`
	Timestamp    time.Time `db:"created_at"`
}
