package services

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for accounts
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	ListAccounts(ctx context.Context, customerID string) ([]domain.Account, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, customerID string, accountType domain.AccountType, actor string) (*domain.Account, error)
	// UpdateStatus changes an account's lifecycle state under the account lock.
	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus, actor string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
