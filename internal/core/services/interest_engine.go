package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// InterestConfig holds the rate tables and sweep sizing.
type InterestConfig struct {
	DayCount    int
	Workers     int
	TenureRates domain.TenureRates
	// SavingsRates overrides an account's own rate for balances inside a band.
	SavingsRates domain.InterestRateTable
}

// errAlreadyPosted stops a savings posting whose period was posted concurrently.
var errAlreadyPosted = errors.New("interest already posted for period")

type interestEngine struct {
	BaseService
	ledger       *AccountLedger
	accounts     portsrepo.AccountReader
	transactions portsrepo.TransactionReader
	deposits     portsrepo.FixedDepositReader
	postings     portsrepo.InterestPostingReader
	writer       portsrepo.LedgerWriter
	processor    portssvc.TransactionExecutor
	audit        portssvc.AuditSvcFacade
	cfg          InterestConfig
}

// NewInterestEngine creates the accrual and maturity engine. Every credit it
// makes goes through processor.
func NewInterestEngine(
	repos portsrepo.RepositoryProvider,
	ledger *AccountLedger,
	processor portssvc.TransactionExecutor,
	audit portssvc.AuditSvcFacade,
	cfg InterestConfig,
	clock Clock,
) portssvc.InterestSvcFacade {
	if cfg.DayCount <= 0 {
		cfg.DayCount = accounting.DefaultDayCount
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if len(cfg.TenureRates) == 0 {
		cfg.TenureRates = domain.DefaultTenureRates
	}
	return &interestEngine{
		BaseService:  BaseService{clock: clock},
		ledger:       ledger,
		accounts:     repos.AccountRepo,
		transactions: repos.TransactionRepo,
		deposits:     repos.FixedDepositRepo,
		postings:     repos.InterestPostingRepo,
		writer:       repos.Writer,
		processor:    processor,
		audit:        audit,
		cfg:          cfg,
	}
}

var _ portssvc.InterestSvcFacade = (*interestEngine)(nil)

func (e *interestEngine) FixedDepositTerms(principal decimal.Decimal, tenureMonths int) (decimal.Decimal, decimal.Decimal, error) {
	if err := accounting.ValidateAmount(principal); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	rate, ok := e.cfg.TenureRates.RateFor(tenureMonths)
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: unsupported tenure of %d months, supported %v",
			apperrors.ErrValidation, tenureMonths, e.cfg.TenureRates.Tenures())
	}
	return rate, accounting.MaturityAmount(principal, rate, tenureMonths), nil
}

func (e *interestEngine) CalculateSavingsInterest(ctx context.Context, accountID string, period domain.Period) (*domain.InterestPosting, error) {
	account, err := e.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.requireInterestBearing(account); err != nil {
		return nil, err
	}
	return e.calculate(ctx, account, period)
}

func (e *interestEngine) requireInterestBearing(account *domain.Account) error {
	if !e.ledger.Policies().Lookup(account.AccountType).InterestBearing {
		return fmt.Errorf("%w: %s accounts do not earn interest", apperrors.ErrValidation, account.AccountType)
	}
	return nil
}

// calculate uses the balance at the end of the period and counts days from
// the later of the period start and the opening date. The rate comes from the
// band containing that balance, else the account's own rate.
func (e *interestEngine) calculate(ctx context.Context, account *domain.Account, period domain.Period) (*domain.InterestPosting, error) {
	effective := period.ClampStart(account.OpenedAt)
	days := 0
	if effective.End.After(effective.Start) {
		days = effective.Days()
	}

	balance := decimal.Zero
	last, err := e.transactions.FindLastTransactionBefore(ctx, account.AccountID, period.End)
	switch {
	case err == nil:
		balance = last.BalanceAfter
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	rate := e.applicableRate(*account, balance)

	return &domain.InterestPosting{
		PostingID:      uuid.NewString(),
		ResourceType:   domain.PostingResourceAccount,
		ResourceID:     account.AccountID,
		PeriodKey:      period.Key(),
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		PostingDate:    e.Now(),
		InterestAmount: accounting.SimpleInterest(balance, rate, days, e.cfg.DayCount),
		BalanceUsed:    balance,
		RateApplied:    rate,
		DaysCalculated: days,
		Status:         domain.PostingCalculated,
	}, nil
}

func (e *interestEngine) applicableRate(account domain.Account, balance decimal.Decimal) decimal.Decimal {
	if rate, ok := e.cfg.SavingsRates.RateFor(account.AccountType, balance); ok {
		return rate
	}
	return account.InterestRate
}

// ActiveRates lists the configured bands of an account type.
func (e *interestEngine) ActiveRates(accountType domain.AccountType) []domain.InterestRateBand {
	return e.cfg.SavingsRates.ForType(accountType)
}

// checkPostable rejects a period that is already posted or overlaps a posted one.
func (e *interestEngine) checkPostable(ctx context.Context, accountID string, period domain.Period) error {
	if _, err := e.postings.FindPosting(ctx, accountID, period.Key()); err == nil {
		return errAlreadyPosted
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	existing, err := e.postings.ListPostingsByResource(ctx, accountID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if (domain.Period{Start: p.PeriodStart, End: p.PeriodEnd}).Overlaps(period) {
			return fmt.Errorf("%w: period %s overlaps posted period %s", apperrors.ErrInvalidState, period.Key(), p.PeriodKey)
		}
	}
	return nil
}

func (e *interestEngine) PostSavingsInterest(ctx context.Context, accountID string, period domain.Period, actor string) (*domain.InterestPosting, error) {
	posting, _, err := e.postSavings(ctx, accountID, period, actor)
	return posting, err
}

// postSavings reports whether a new posting was recorded.
func (e *interestEngine) postSavings(ctx context.Context, accountID string, period domain.Period, actor string) (*domain.InterestPosting, bool, error) {
	if actor == "" {
		return nil, false, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	account, err := e.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, false, err
	}
	if err := e.requireInterestBearing(account); err != nil {
		return nil, false, err
	}
	if !account.IsActive() {
		return nil, false, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, account.AccountNumber, account.Status)
	}
	if err := e.checkPostable(ctx, accountID, period); err != nil {
		if errors.Is(err, errAlreadyPosted) {
			existing, findErr := e.postings.FindPosting(ctx, accountID, period.Key())
			return existing, false, findErr
		}
		return nil, false, err
	}

	posting, err := e.calculate(ctx, account, period)
	if err != nil {
		return nil, false, err
	}
	if posting.InterestAmount.IsZero() {
		return e.recordZeroPosting(ctx, account, period, *posting, actor)
	}

	reference := domain.InterestReference(account.AccountID, period.Key())
	credited, err := e.processor.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestDeposit,
		SourceAccountID: account.AccountID,
		Amount:          posting.InterestAmount,
		Description:     "Interest for " + period.Key(),
		Reference:       reference,
		Mode:            domain.ModeInterest,
		Actor:           actor,
		Guard: func(ctx context.Context) error {
			return e.checkPostable(ctx, account.AccountID, period)
		},
		Link: func(primary domain.Transaction) (domain.LinkedRecords, error) {
			posted := *posting
			posted.Status = domain.PostingPosted
			posted.PostingDate = primary.TransactionDate
			posted.TransactionID = primary.TransactionID
			entry, err := e.audit.Build(domain.AuditResourceAccount, account.AccountID, domain.ActionInterestPosted,
				map[string]string{"balance": primary.BalanceAfter.Sub(primary.Amount).StringFixed(2)}, posted, actor)
			if err != nil {
				return domain.LinkedRecords{}, err
			}
			return domain.LinkedRecords{InterestPosting: &posted, Audit: &entry}, nil
		},
	})
	if err == nil && credited.Mode != domain.ModeInterest {
		err = fmt.Errorf("%w: %s holds a %s transaction", apperrors.ErrDuplicateReference, reference, credited.Mode)
	}
	if err != nil && !errors.Is(err, errAlreadyPosted) {
		return nil, false, err
	}
	stored, findErr := e.postings.FindPosting(ctx, account.AccountID, period.Key())
	return stored, err == nil && findErr == nil, findErr
}

// recordZeroPosting stores a POSTED posting with no transaction, under the
// account lock so it serializes with regular postings.
func (e *interestEngine) recordZeroPosting(ctx context.Context, account *domain.Account, period domain.Period, posting domain.InterestPosting, actor string) (*domain.InterestPosting, bool, error) {
	session, err := e.ledger.Lock(ctx, account.AccountID)
	if err != nil {
		return nil, false, err
	}
	defer session.Release()

	if err := e.checkPostable(ctx, account.AccountID, period); err != nil {
		if errors.Is(err, errAlreadyPosted) {
			existing, findErr := e.postings.FindPosting(ctx, account.AccountID, period.Key())
			return existing, false, findErr
		}
		return nil, false, err
	}
	posting.Status = domain.PostingPosted
	entry, err := e.audit.Build(domain.AuditResourceAccount, account.AccountID, domain.ActionInterestPosted, nil, posting, actor)
	if err != nil {
		return nil, false, err
	}
	err = e.writer.CommitBatch(ctx, portsrepo.LedgerBatch{
		InterestPostings: []domain.InterestPosting{posting},
		AuditLogs:        []domain.AuditLog{entry},
	})
	if err != nil {
		return nil, false, err
	}
	return &posting, true, nil
}

func (e *interestEngine) interestBearingTypes() []domain.AccountType {
	var types []domain.AccountType
	for t, policy := range e.ledger.Policies() {
		if policy.InterestBearing {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// RunSavingsAccrual posts the period for every active interest-bearing
// account. Individual failures are counted, not returned.
func (e *interestEngine) RunSavingsAccrual(ctx context.Context, period domain.Period, actor string) (*domain.SweepSummary, error) {
	accounts, err := e.accounts.ListActiveAccountsByTypes(ctx, e.interestBearingTypes())
	if err != nil {
		e.LogError(ctx, err, "Failed to list accounts for interest accrual")
		return nil, err
	}
	e.LogInfo(ctx, "Starting savings accrual", slog.String("period", period.Key()), slog.Int("accounts", len(accounts)))

	summary := &domain.SweepSummary{TotalInterest: decimal.Zero}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for _, account := range accounts {
		accountID := account.AccountID
		g.Go(func() error {
			posting, created, err := e.postSavings(ctx, accountID, period, actor)
			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			switch {
			case err != nil:
				summary.Failed++
				if isBusy(err) {
					e.LogWarn(ctx, err, "Account busy, interest left for the next run", slog.String("account_id", accountID))
				} else {
					e.LogError(ctx, err, "Interest posting failed", slog.String("account_id", accountID))
				}
			case created:
				summary.Posted++
				summary.TotalInterest = summary.TotalInterest.Add(posting.InterestAmount)
			default:
				summary.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	e.LogInfo(ctx, "Savings accrual finished",
		slog.String("period", period.Key()),
		slog.Int("posted", summary.Posted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.String("total_interest", summary.TotalInterest.StringFixed(2)))
	return summary, nil
}

func (e *interestEngine) MatureFixedDeposit(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	fd, err := e.deposits.FindFixedDepositByID(ctx, fixedDepositID)
	if err != nil {
		return nil, err
	}
	switch fd.Status {
	case domain.FixedDepositMatured:
		return fd, nil
	case domain.FixedDepositActive:
	default:
		return nil, fmt.Errorf("%w: fixed deposit %s is %s", apperrors.ErrInvalidState, fd.FDNumber, fd.Status)
	}
	if !fd.IsMatured(e.Now()) {
		return nil, fmt.Errorf("%w: fixed deposit %s matures on %s", apperrors.ErrInvalidState, fd.FDNumber, fd.MaturityDate.Format(time.DateOnly))
	}
	return e.mature(ctx, *fd, actor)
}

// mature credits the maturity amount and closes the deposit in one batch.
func (e *interestEngine) mature(ctx context.Context, fd domain.FixedDeposit, actor string) (*domain.FixedDeposit, error) {
	reference := domain.MaturityReference(fd.FDNumber)
	payout, err := e.processor.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestDeposit,
		SourceAccountID: fd.FundingAccountID,
		Amount:          fd.MaturityAmount,
		Description:     "Maturity of fixed deposit " + fd.FDNumber,
		Reference:       reference,
		Mode:            domain.ModeFDMaturity,
		Actor:           actor,
		Guard: func(ctx context.Context) error {
			return requireActiveDeposit(ctx, e.deposits, fd.FixedDepositID)
		},
		Link: func(primary domain.Transaction) (domain.LinkedRecords, error) {
			updated := closeDeposit(fd, domain.FixedDepositMatured, primary, fd.MaturityAmount, actor)
			term := domain.Period{Start: domain.StartOfDay(fd.StartDate), End: domain.StartOfDay(fd.MaturityDate)}
			posting := domain.InterestPosting{
				PostingID:      uuid.NewString(),
				ResourceType:   domain.PostingResourceFixedDeposit,
				ResourceID:     fd.FixedDepositID,
				PeriodKey:      term.Key(),
				PeriodStart:    term.Start,
				PeriodEnd:      term.End,
				PostingDate:    primary.TransactionDate,
				InterestAmount: fd.MaturityAmount.Sub(fd.Principal),
				BalanceUsed:    fd.Principal,
				RateApplied:    fd.InterestRate,
				DaysCalculated: term.Days(),
				Status:         domain.PostingPosted,
				TransactionID:  primary.TransactionID,
			}
			entry, err := e.audit.Build(domain.AuditResourceFixedDeposit, fd.FixedDepositID, domain.ActionFixedDepositMatured, fd, updated, actor)
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
	if err == nil && payout.Mode != domain.ModeFDMaturity {
		err = fmt.Errorf("%w: %s holds a %s transaction", apperrors.ErrDuplicateReference, reference, payout.Mode)
	}
	if err != nil && !errors.Is(err, apperrors.ErrInvalidState) {
		e.LogError(ctx, err, "Failed to mature fixed deposit", slog.String("fd_number", fd.FDNumber))
		return nil, err
	}
	current, findErr := e.deposits.FindFixedDepositByID(ctx, fd.FixedDepositID)
	if findErr != nil {
		return nil, findErr
	}
	if current.Status != domain.FixedDepositMatured {
		if err == nil {
			err = fmt.Errorf("%w: fixed deposit %s is %s after maturity payout", apperrors.ErrInvalidState, fd.FDNumber, current.Status)
		}
		e.LogError(ctx, err, "Fixed deposit not matured", slog.String("fd_number", fd.FDNumber))
		return nil, err
	}
	e.LogInfo(ctx, "Fixed deposit matured", slog.String("fd_number", fd.FDNumber), slog.String("payout", fd.MaturityAmount.StringFixed(2)))
	return current, nil
}

func requireActiveDeposit(ctx context.Context, deposits portsrepo.FixedDepositReader, fixedDepositID string) error {
	current, err := deposits.FindFixedDepositByID(ctx, fixedDepositID)
	if err != nil {
		return err
	}
	if current.Status != domain.FixedDepositActive {
		return fmt.Errorf("%w: fixed deposit %s is %s", apperrors.ErrInvalidState, current.FDNumber, current.Status)
	}
	return nil
}

// closeDeposit returns fd moved into a terminal status by the given payout.
func closeDeposit(fd domain.FixedDeposit, status domain.FixedDepositStatus, payoutTx domain.Transaction, payout decimal.Decimal, actor string) domain.FixedDeposit {
	closedAt := payoutTx.TransactionDate
	updated := fd
	updated.Status = status
	updated.ClosingTransactionID = payoutTx.TransactionID
	updated.PayoutAmount = &payout
	updated.ClosedAt = &closedAt
	updated.Version = fd.Version + 1
	updated.LastUpdatedAt = closedAt
	updated.LastUpdatedBy = actor
	return updated
}

// RunMaturitySweep matures every active deposit due at asOf.
func (e *interestEngine) RunMaturitySweep(ctx context.Context, asOf time.Time, actor string) (*domain.SweepSummary, error) {
	due, err := e.deposits.ListMaturedFixedDeposits(ctx, asOf)
	if err != nil {
		e.LogError(ctx, err, "Failed to list matured fixed deposits")
		return nil, err
	}
	e.LogInfo(ctx, "Starting maturity sweep", slog.Time("as_of", asOf), slog.Int("deposits", len(due)))

	summary := &domain.SweepSummary{TotalInterest: decimal.Zero}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for _, fd := range due {
		fd := fd
		g.Go(func() error {
			_, err := e.mature(ctx, fd, actor)
			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			if err != nil {
				summary.Failed++
				return nil
			}
			summary.Posted++
			summary.TotalInterest = summary.TotalInterest.Add(fd.MaturityAmount.Sub(fd.Principal))
			return nil
		})
	}
	_ = g.Wait()

	e.LogInfo(ctx, "Maturity sweep finished",
		slog.Int("posted", summary.Posted),
		slog.Int("failed", summary.Failed),
		slog.String("total_interest", summary.TotalInterest.StringFixed(2)))
	return summary, nil
}

func (e *interestEngine) ListPostings(ctx context.Context, resourceID string) ([]domain.InterestPosting, error) {
	return e.postings.ListPostingsByResource(ctx, resourceID)
}
