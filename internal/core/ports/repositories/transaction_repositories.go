package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// TransactionReader defines read operations over the immutable ledger rows.
type TransactionReader interface {
	// FindTransactionsByReference returns all rows sharing a reference. Empty when unknown.
	FindTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount returns a page of rows newest first plus the total row count.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, int, error)

	// ListTransactionsByAccountAndDateRange returns rows dated in [from, to), oldest first.
	ListTransactionsByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// FindLastTransactionBefore returns the latest row dated strictly before the given time.
	// Returns apperrors.ErrNotFound when the account had no activity yet.
	FindLastTransactionBefore(ctx context.Context, accountID string, before time.Time) (*domain.Transaction, error)
}
