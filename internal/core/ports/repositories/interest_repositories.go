package repositories

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// InterestPostingReader defines read operations for interest postings.
type InterestPostingReader interface {
	// FindPosting returns the posting for a resource and period key, or apperrors.ErrNotFound.
	FindPosting(ctx context.Context, resourceID, periodKey string) (*domain.InterestPosting, error)

	// ListPostingsByResource returns postings newest period first.
	ListPostingsByResource(ctx context.Context, resourceID string) ([]domain.InterestPosting, error)
}
