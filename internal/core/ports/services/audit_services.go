package services

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// AuditSvcFacade appends to and reads from the audit trail. There are no
// update or delete operations.
type AuditSvcFacade interface {
	// Record persists a standalone entry.
	Record(ctx context.Context, resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (*domain.AuditLog, error)
	// Build prepares an entry for inclusion in a larger atomic batch.
	Build(resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (domain.AuditLog, error)
	ListByResource(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error)
	ListByActor(ctx context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error)
}
