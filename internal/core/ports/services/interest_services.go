package services

import (
	"context"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InterestCalculator holds the pure interest formulas backed by configured rates.
type InterestCalculator interface {
	// FixedDepositTerms returns the tenure rate and maturity amount for a principal.
	FixedDepositTerms(principal decimal.Decimal, tenureMonths int) (rate, maturityAmount decimal.Decimal, err error)
	// CalculateSavingsInterest previews a period's interest without posting it.
	CalculateSavingsInterest(ctx context.Context, accountID string, period domain.Period) (*domain.InterestPosting, error)
	// ActiveRates lists the balance bands configured for an account type.
	ActiveRates(accountType domain.AccountType) []domain.InterestRateBand
}

// InterestPoster credits interest through the transaction processor.
type InterestPoster interface {
	PostSavingsInterest(ctx context.Context, accountID string, period domain.Period, actor string) (*domain.InterestPosting, error)
	RunSavingsAccrual(ctx context.Context, period domain.Period, actor string) (*domain.SweepSummary, error)
	MatureFixedDeposit(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error)
	RunMaturitySweep(ctx context.Context, asOf time.Time, actor string) (*domain.SweepSummary, error)
}

// InterestSvcFacade combines all interest operations.
type InterestSvcFacade interface {
	InterestCalculator
	InterestPoster
	ListPostings(ctx context.Context, resourceID string) ([]domain.InterestPosting, error)
}
