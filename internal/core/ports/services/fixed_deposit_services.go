package services

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// FixedDepositSvcFacade manages the fixed deposit lifecycle.
type FixedDepositSvcFacade interface {
	CreateFixedDeposit(ctx context.Context, req domain.FixedDepositRequest) (*domain.FixedDeposit, error)
	// ClosePremature pays out principal plus penalty-reduced interest.
	ClosePremature(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error)
	GetFixedDeposit(ctx context.Context, fixedDepositID string) (*domain.FixedDeposit, error)
	GetFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.FixedDeposit, error)
	ListByFundingAccount(ctx context.Context, accountID string) ([]domain.FixedDeposit, error)
}
