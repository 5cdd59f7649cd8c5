package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

const maxAuditPageSize = 200

type auditRecorder struct {
	BaseService
	reader portsrepo.AuditLogReader
	writer portsrepo.LedgerWriter
}

// NewAuditRecorder creates the append-only audit service.
func NewAuditRecorder(reader portsrepo.AuditLogReader, writer portsrepo.LedgerWriter, clock Clock) portssvc.AuditSvcFacade {
	return &auditRecorder{
		BaseService: BaseService{clock: clock},
		reader:      reader,
		writer:      writer,
	}
}

var _ portssvc.AuditSvcFacade = (*auditRecorder)(nil)

func (r *auditRecorder) Build(resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (domain.AuditLog, error) {
	if actor == "" {
		return domain.AuditLog{}, fmt.Errorf("%w: audit actor is required", apperrors.ErrValidation)
	}
	if resourceID == "" || action == "" {
		return domain.AuditLog{}, fmt.Errorf("%w: audit resource and action are required", apperrors.ErrValidation)
	}
	oldJSON, err := snapshot(oldValue)
	if err != nil {
		return domain.AuditLog{}, err
	}
	newJSON, err := snapshot(newValue)
	if err != nil {
		return domain.AuditLog{}, err
	}
	return domain.AuditLog{
		AuditID:      uuid.NewString(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		OldValue:     oldJSON,
		NewValue:     newJSON,
		Actor:        actor,
		Timestamp:    r.Now(),
	}, nil
}

func (r *auditRecorder) Record(ctx context.Context, resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (*domain.AuditLog, error) {
	entry, err := r.Build(resourceType, resourceID, action, oldValue, newValue, actor)
	if err != nil {
		return nil, err
	}
	if err := r.writer.CommitBatch(ctx, portsrepo.LedgerBatch{AuditLogs: []domain.AuditLog{entry}}); err != nil {
		r.LogError(ctx, err, "Failed to record audit entry", slog.String("resource_id", resourceID), slog.String("action", action))
		return nil, err
	}
	return &entry, nil
}

func (r *auditRecorder) ListByResource(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error) {
	return r.reader.ListAuditLogsByResource(ctx, resourceType, resourceID)
}

func (r *auditRecorder) ListByActor(ctx context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	if actor == "" {
		return nil, nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	if limit <= 0 || limit > maxAuditPageSize {
		limit = 50
	}
	return r.reader.ListAuditLogsByActor(ctx, actor, limit, nextToken)
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot audit value: %w", err)
	}
	return b, nil
}
