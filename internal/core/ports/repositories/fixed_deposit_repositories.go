package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// FixedDepositReader defines read operations for fixed deposits.
type FixedDepositReader interface {
	FindFixedDepositByID(ctx context.Context, fixedDepositID string) (*domain.FixedDeposit, error)
	FindFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error)

	// FindFixedDepositByOpeningTransaction resolves a replayed creation request.
	FindFixedDepositByOpeningTransaction(ctx context.Context, transactionID string) (*domain.FixedDeposit, error)

	// ListFixedDepositsByCustomer and ListFixedDepositsByFundingAccount return
	// the most recently opened deposit first.
	ListFixedDepositsByCustomer(ctx context.Context, customerID string) ([]domain.FixedDeposit, error)
	ListFixedDepositsByFundingAccount(ctx context.Context, accountID string) ([]domain.FixedDeposit, error)

	// ListMaturedFixedDeposits returns ACTIVE deposits whose maturity date is on or before asOf.
	ListMaturedFixedDeposits(ctx context.Context, asOf time.Time) ([]domain.FixedDeposit, error)

	FixedDepositNumberExists(ctx context.Context, fdNumber string) (bool, error)
}
