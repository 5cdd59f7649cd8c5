package repositories

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// AuditLogReader exposes read-only projections of the audit trail.
type AuditLogReader interface {
	// ListAuditLogsByResource returns entries for one resource, newest first.
	ListAuditLogsByResource(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error)

	// ListAuditLogsByActor pages through an actor's entries newest first using an opaque token.
	ListAuditLogsByActor(ctx context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error)
}
