package mapping

import (
	"encoding/json"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
)

// ToModelAuditLog converts a domain AuditLog to a model AuditLog
func ToModelAuditLog(d domain.AuditLog) models.AuditLog {
	return models.AuditLog{
		AuditID:      d.AuditID,
		ResourceType: string(d.ResourceType),
		ResourceID:   d.ResourceID,
		Action:       d.Action,
		OldValue:     rawOrNil(d.OldValue),
		NewValue:     rawOrNil(d.NewValue),
		Actor:        d.Actor,
		Timestamp:    d.Timestamp,
	}
}

// ToDomainAuditLog converts a model AuditLog to a domain AuditLog
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		AuditID:      m.AuditID,
		ResourceType: domain.AuditResourceType(m.ResourceType),
		ResourceID:   m.ResourceID,
		Action:       m.Action,
		OldValue:     json.RawMessage(m.OldValue),
		NewValue:     json.RawMessage(m.NewValue),
		Actor:        m.Actor,
		Timestamp:    m.Timestamp,
	}
}

func rawOrNil(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
