package repositories

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its customer facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByCustomer returns every account owned by a customer, oldest first.
	ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)

	// ListActiveAccountsByTypes returns ACTIVE accounts of the given types.
	ListActiveAccountsByTypes(ctx context.Context, types []domain.AccountType) ([]domain.Account, error)

	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
}
