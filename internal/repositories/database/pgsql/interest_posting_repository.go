package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
	"github.com/SscSPs/core_banking_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const postingColumns = `posting_id, resource_type, resource_id, period_key, period_start, period_end, posting_date,
	interest_amount, balance_used, rate_applied, days_calculated, status, transaction_id`

func (s *Store) queryPostings(ctx context.Context, query string, args ...any) ([]domain.InterestPosting, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query interest postings", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.InterestPosting])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan interest postings", err)
	}
	out := make([]domain.InterestPosting, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainInterestPosting(m)
	}
	return out, nil
}

func (s *Store) FindPosting(ctx context.Context, resourceID, periodKey string) (*domain.InterestPosting, error) {
	postings, err := s.queryPostings(ctx,
		`SELECT `+postingColumns+` FROM interest_postings WHERE resource_id = $1 AND period_key = $2;`, resourceID, periodKey)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%w: posting %s for %s", apperrors.ErrNotFound, periodKey, resourceID)
	}
	return &postings[0], nil
}

func (s *Store) ListPostingsByResource(ctx context.Context, resourceID string) ([]domain.InterestPosting, error) {
	return s.queryPostings(ctx,
		`SELECT `+postingColumns+` FROM interest_postings WHERE resource_id = $1 ORDER BY period_start DESC, period_key DESC;`, resourceID)
}
