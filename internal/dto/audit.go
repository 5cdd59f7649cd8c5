package dto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// ListAuditLogsParams filters the audit trail either by resource or by actor.
type ListAuditLogsParams struct {
	ResourceType domain.AuditResourceType `form:"resourceType" binding:"omitempty,oneof=ACCOUNT TRANSACTION FIXED_DEPOSIT"`
	ResourceID   string                   `form:"resourceID"`
	Actor        string                   `form:"actor"`
	Limit        int                      `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken    *string                  `form:"nextToken"`
}

// ByResource reports whether the query targets a single resource's history.
func (p ListAuditLogsParams) ByResource() bool {
	return p.ResourceID != ""
}

// Check enforces that exactly one filter is usable.
func (p ListAuditLogsParams) Check() error {
	switch {
	case p.ResourceID != "" && p.ResourceType == "":
		return errors.New("resourceType is required with resourceID")
	case p.ResourceID == "" && p.Actor == "":
		return errors.New("either resourceType and resourceID or actor is required")
	}
	return nil
}

// AuditLogResponse defines the data returned for one audit entry.
type AuditLogResponse struct {
	AuditID      string                   `json:"auditID"`
	ResourceType domain.AuditResourceType `json:"resourceType"`
	ResourceID   string                   `json:"resourceID"`
	Action       string                   `json:"action"`
	OldValue     json.RawMessage          `json:"oldValue,omitempty" swaggertype:"object"`
	NewValue     json.RawMessage          `json:"newValue,omitempty" swaggertype:"object"`
	Actor        string                   `json:"actor"`
	Timestamp    time.Time                `json:"timestamp"`
}

func ToAuditLogResponse(a *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:      a.AuditID,
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		Action:       a.Action,
		OldValue:     a.OldValue,
		NewValue:     a.NewValue,
		Actor:        a.Actor,
		Timestamp:    a.Timestamp,
	}
}

// ListAuditLogsResponse wraps audit entries. NextToken is set only for
// actor queries that have more results.
type ListAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"auditLogs"`
	NextToken *string            `json:"nextToken,omitempty"`
}

func ToListAuditLogsResponse(logs []domain.AuditLog, nextToken *string) ListAuditLogsResponse {
	res := make([]AuditLogResponse, len(logs))
	for i := range logs {
		res[i] = ToAuditLogResponse(&logs[i])
	}
	return ListAuditLogsResponse{AuditLogs: res, NextToken: nextToken}
}
