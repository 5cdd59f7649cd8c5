package services

import (
	"context"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionExecutor moves money between accounts atomically.
type TransactionExecutor interface {
	// Execute runs a deposit, withdrawal or transfer. Replaying a committed
	// reference returns the original primary row with a nil error.
	Execute(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)

	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error)

	// Cancel aborts a request that is still waiting for its account locks.
	Cancel(ctx context.Context, reference, actor string) error
}

// TransactionReaderSvc exposes the ledger history.
type TransactionReaderSvc interface {
	GetByReference(ctx context.Context, reference string) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context, accountID string, page, size int) (*domain.TransactionPage, error)
	ListTransactionsByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines execution and history.
type TransactionSvcFacade interface {
	TransactionExecutor
	TransactionReaderSvc
}
