package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
	"github.com/SscSPs/core_banking_ledger/internal/utils/mapping"
	"github.com/SscSPs/core_banking_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const (
	auditColumns          = `audit_id, resource_type, resource_id, action, old_value, new_value, actor, created_at`
	defaultAuditPageLimit = 20
)

func (s *Store) queryAuditLogs(ctx context.Context, query string, args ...any) ([]domain.AuditLog, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query audit logs", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AuditLog])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan audit logs", err)
	}
	out := make([]domain.AuditLog, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAuditLog(m)
	}
	return out, nil
}

// ListAuditLogsByResource returns the full trail of one resource, newest first.
func (s *Store) ListAuditLogsByResource(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error) {
	return s.queryAuditLogs(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC, seq DESC;`, string(resourceType), resourceID)
}

// ListAuditLogsByActor pages through an actor's entries newest first using a keyset cursor.
func (s *Store) ListAuditLogsByActor(ctx context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	if limit <= 0 {
		limit = defaultAuditPageLimit
	}

	var (
		logs []domain.AuditLog
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursorTS, cursorID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		logs, err = s.queryAuditLogs(ctx, `
			SELECT `+auditColumns+`
			FROM audit_logs
			WHERE actor = $1 AND (created_at, audit_id) < ($2, $3)
			ORDER BY created_at DESC, audit_id DESC
			LIMIT $4;`, actor, cursorTS, cursorID, limit+1)
	} else {
		logs, err = s.queryAuditLogs(ctx, `
			SELECT `+auditColumns+`
			FROM audit_logs
			WHERE actor = $1
			ORDER BY created_at DESC, audit_id DESC
			LIMIT $2;`, actor, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(logs) <= limit {
		return logs, nil, nil
	}
	page := logs[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.Timestamp, last.AuditID)
	return page, &token, nil
}
