package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/utils"
	"github.com/SscSPs/core_banking_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	fdNumberDigits   = 9
	numberRetryLimit = 5
)

// FixedDepositConfig holds the opening and early-closure rules.
type FixedDepositConfig struct {
	MinPrincipal      decimal.Decimal
	PrematurePenalty  decimal.Decimal // percentage points
	PrematureBaseRate decimal.Decimal // used when less than the shortest tenure has elapsed
	TenureRates       domain.TenureRates
	DayCount          int
}

type fixedDepositManager struct {
	BaseService
	accounts  portsrepo.AccountReader
	deposits  portsrepo.FixedDepositReader
	processor portssvc.TransactionExecutor
	interest  portssvc.InterestSvcFacade
	audit     portssvc.AuditSvcFacade
	cfg       FixedDepositConfig
}

// NewFixedDepositManager creates the fixed deposit lifecycle service.
func NewFixedDepositManager(
	repos portsrepo.RepositoryProvider,
	processor portssvc.TransactionExecutor,
	interest portssvc.InterestSvcFacade,
	audit portssvc.AuditSvcFacade,
	cfg FixedDepositConfig,
	clock Clock,
) portssvc.FixedDepositSvcFacade {
	if len(cfg.TenureRates) == 0 {
		cfg.TenureRates = domain.DefaultTenureRates
	}
	if cfg.DayCount <= 0 {
		cfg.DayCount = accounting.DefaultDayCount
	}
	return &fixedDepositManager{
		BaseService: BaseService{clock: clock},
		accounts:    repos.AccountRepo,
		deposits:    repos.FixedDepositRepo,
		processor:   processor,
		interest:    interest,
		audit:       audit,
		cfg:         cfg,
	}
}

var _ portssvc.FixedDepositSvcFacade = (*fixedDepositManager)(nil)

// CreateFixedDeposit debits the funding account and opens the deposit in the
// same batch. Replaying a reference returns the deposit it opened.
func (m *fixedDepositManager) CreateFixedDeposit(ctx context.Context, req domain.FixedDepositRequest) (*domain.FixedDeposit, error) {
	if req.Actor == "" || req.FundingAccountID == "" {
		return nil, fmt.Errorf("%w: funding account and actor are required", apperrors.ErrValidation)
	}
	if err := accounting.ValidateAmount(req.Principal); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	if req.Principal.LessThan(m.cfg.MinPrincipal) {
		return nil, fmt.Errorf("%w: principal %s is below %s", apperrors.ErrBelowMinimumAmount,
			req.Principal.StringFixed(2), m.cfg.MinPrincipal.StringFixed(2))
	}
	rate, maturityAmount, err := m.interest.FixedDepositTerms(req.Principal, req.TenureMonths)
	if err != nil {
		return nil, err
	}
	funding, err := m.accounts.FindAccountByID(ctx, req.FundingAccountID)
	if err != nil {
		return nil, err
	}
	fdNumber, err := m.newFDNumber(ctx)
	if err != nil {
		return nil, err
	}

	opening, err := m.processor.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestWithdrawal,
		SourceAccountID: funding.AccountID,
		Amount:          req.Principal,
		Description:     "Opening of fixed deposit " + fdNumber,
		Reference:       req.Reference,
		Mode:            domain.ModeFDOpening,
		Actor:           req.Actor,
		Link: func(primary domain.Transaction) (domain.LinkedRecords, error) {
			start := primary.TransactionDate
			fd := domain.FixedDeposit{
				FixedDepositID:       uuid.NewString(),
				FDNumber:             fdNumber,
				CustomerID:           funding.CustomerID,
				FundingAccountID:     funding.AccountID,
				Principal:            req.Principal,
				InterestRate:         rate,
				TenureMonths:         req.TenureMonths,
				StartDate:            start,
				MaturityDate:         domain.AddMonths(start, req.TenureMonths),
				MaturityAmount:       maturityAmount,
				Status:               domain.FixedDepositActive,
				OpeningTransactionID: primary.TransactionID,
				AuditFields: domain.AuditFields{
					CreatedAt:     start,
					CreatedBy:     req.Actor,
					LastUpdatedAt: start,
					LastUpdatedBy: req.Actor,
					Version:       1,
				},
			}
			entry, err := m.audit.Build(domain.AuditResourceFixedDeposit, fd.FixedDepositID, domain.ActionFixedDepositCreated, nil, fd, req.Actor)
			if err != nil {
				return domain.LinkedRecords{}, err
			}
			return domain.LinkedRecords{NewFixedDeposit: &fd, Audit: &entry}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	fd, err := m.deposits.FindFixedDepositByOpeningTransaction(ctx, opening.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: reference %s belongs to a different transaction", apperrors.ErrDuplicate, opening.Reference)
		}
		return nil, err
	}
	m.LogInfo(ctx, "Fixed deposit opened",
		slog.String("fd_number", fd.FDNumber),
		slog.String("principal", fd.Principal.StringFixed(2)),
		slog.Int("tenure_months", fd.TenureMonths))
	return fd, nil
}

func (m *fixedDepositManager) newFDNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < numberRetryLimit; attempt++ {
		digits, err := utils.GenerateRandomDigits(fdNumberDigits)
		if err != nil {
			return "", err
		}
		candidate := "FD" + digits
		exists, err := m.deposits.FixedDepositNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a fixed deposit number", apperrors.ErrInternal)
}

// ClosePremature pays out principal plus interest at the reduced rate. A
// deposit already past its maturity date is matured instead.
func (m *fixedDepositManager) ClosePremature(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	fd, err := m.deposits.FindFixedDepositByID(ctx, fixedDepositID)
	if err != nil {
		return nil, err
	}
	if fd.Status != domain.FixedDepositActive {
		return nil, fmt.Errorf("%w: fixed deposit %s is %s", apperrors.ErrInvalidState, fd.FDNumber, fd.Status)
	}
	now := m.Now()
	if fd.IsMatured(now) {
		return m.interest.MatureFixedDeposit(ctx, fixedDepositID, actor)
	}

	rate := m.prematureRate(*fd, domain.WholeMonthsBetween(fd.StartDate, now))
	days := domain.DaysBetween(fd.StartDate, now)
	interest := accounting.SimpleInterest(fd.Principal, rate, days, m.cfg.DayCount)
	payout := fd.Principal.Add(interest)

	reference := domain.PrematureClosureReference(fd.FDNumber)
	paid, err := m.processor.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestDeposit,
		SourceAccountID: fd.FundingAccountID,
		Amount:          payout,
		Description:     "Premature closure of fixed deposit " + fd.FDNumber,
		Reference:       reference,
		Mode:            domain.ModeFDPrematureClosure,
		Actor:           actor,
		Guard: func(ctx context.Context) error {
			return requireActiveDeposit(ctx, m.deposits, fd.FixedDepositID)
		},
		Link: func(primary domain.Transaction) (domain.LinkedRecords, error) {
			updated := closeDeposit(*fd, domain.FixedDepositPrematureClosure, primary, payout, actor)
			held := domain.Period{Start: domain.StartOfDay(fd.StartDate), End: domain.StartOfDay(primary.TransactionDate)}
			posting := domain.InterestPosting{
				PostingID:      uuid.NewString(),
				ResourceType:   domain.PostingResourceFixedDeposit,
				ResourceID:     fd.FixedDepositID,
				PeriodKey:      held.Key(),
				PeriodStart:    held.Start,
				PeriodEnd:      held.End,
				PostingDate:    primary.TransactionDate,
				InterestAmount: interest,
				BalanceUsed:    fd.Principal,
				RateApplied:    rate,
				DaysCalculated: days,
				Status:         domain.PostingPosted,
				TransactionID:  primary.TransactionID,
			}
			entry, err := m.audit.Build(domain.AuditResourceFixedDeposit, fd.FixedDepositID, domain.ActionFixedDepositPremature, fd, updated, actor)
			if err != nil {
				return domain.LinkedRecords{}, err
			}
			return domain.LinkedRecords{
				FixedDepositUpdate:         &updated,
				FixedDepositExpectedStatus: domain.FixedDepositActive,
				InterestPosting:            &posting,
				Audit:                      &entry,
			}, nil
		},
	})
	if err == nil && paid.Mode != domain.ModeFDPrematureClosure {
		err = fmt.Errorf("%w: %s holds a %s transaction", apperrors.ErrDuplicateReference, reference, paid.Mode)
	}
	if err != nil {
		m.LogWarn(ctx, err, "Premature closure failed", slog.String("fd_number", fd.FDNumber))
		return nil, err
	}

	m.LogInfo(ctx, "Fixed deposit closed early",
		slog.String("fd_number", fd.FDNumber),
		slog.String("rate", rate.StringFixed(2)),
		slog.String("payout", payout.StringFixed(2)))
	return m.deposits.FindFixedDepositByID(ctx, fixedDepositID)
}

// prematureRate is the rate earned for the time actually held, never above
// the contracted rate, less the penalty.
func (m *fixedDepositManager) prematureRate(fd domain.FixedDeposit, elapsedMonths int) decimal.Decimal {
	base, ok := m.cfg.TenureRates.RateForElapsed(elapsedMonths)
	if !ok {
		base = m.cfg.PrematureBaseRate
	}
	if base.GreaterThan(fd.InterestRate) {
		base = fd.InterestRate
	}
	return accounting.PenaltyRate(base, m.cfg.PrematurePenalty)
}

func (m *fixedDepositManager) GetFixedDeposit(ctx context.Context, fixedDepositID string) (*domain.FixedDeposit, error) {
	return m.deposits.FindFixedDepositByID(ctx, fixedDepositID)
}

func (m *fixedDepositManager) GetFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error) {
	return m.deposits.FindFixedDepositByNumber(ctx, fdNumber)
}

func (m *fixedDepositManager) ListByCustomer(ctx context.Context, customerID string) ([]domain.FixedDeposit, error) {
	return m.deposits.ListFixedDepositsByCustomer(ctx, customerID)
}

func (m *fixedDepositManager) ListByFundingAccount(ctx context.Context, accountID string) ([]domain.FixedDeposit, error) {
	if _, err := m.accounts.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return m.deposits.ListFixedDepositsByFundingAccount(ctx, accountID)
}
