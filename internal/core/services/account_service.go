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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountNumberDigits = 10

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	ledger   *AccountLedger
	accounts portsrepo.AccountReader
	writer   portsrepo.LedgerWriter
	audit    portssvc.AuditSvcFacade
}

// NewAccountService creates a new account service
func NewAccountService(ledger *AccountLedger, accounts portsrepo.AccountReader, writer portsrepo.LedgerWriter, audit portssvc.AuditSvcFacade, clock Clock) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{clock: clock},
		ledger:      ledger,
		accounts:    accounts,
		writer:      writer,
		audit:       audit,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens an ACTIVE account with a zero balance and the type's
// minimum balance and interest rate.
func (s *accountService) CreateAccount(ctx context.Context, customerID string, accountType domain.AccountType, actor string) (*domain.Account, error) {
	if customerID == "" || actor == "" {
		return nil, fmt.Errorf("%w: customer and actor are required", apperrors.ErrValidation)
	}
	policy, ok := s.ledger.Policies()[accountType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountType, accountType)
	}

	for attempt := 0; attempt < numberRetryLimit; attempt++ {
		number, err := utils.GenerateRandomDigits(accountNumberDigits)
		if err != nil {
			return nil, err
		}
		exists, err := s.accounts.AccountNumberExists(ctx, number)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		now := s.Now()
		rate := decimal.Zero
		if policy.InterestBearing {
			rate = policy.DefaultRate
		}
		account := domain.Account{
			AccountID:      uuid.NewString(),
			AccountNumber:  number,
			CustomerID:     customerID,
			AccountType:    accountType,
			Balance:        decimal.Zero,
			MinimumBalance: policy.MinimumBalance,
			InterestRate:   rate,
			Status:         domain.AccountStatusActive,
			OpenedAt:       now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
				Version:       1,
			},
		}
		entry, err := s.audit.Build(domain.AuditResourceAccount, account.AccountID, domain.ActionAccountCreated, nil, account, actor)
		if err != nil {
			return nil, err
		}
		err = s.writer.CommitBatch(ctx, portsrepo.LedgerBatch{
			NewAccounts: []domain.Account{account},
			AuditLogs:   []domain.AuditLog{entry},
		})
		if errors.Is(err, apperrors.ErrDuplicate) {
			// lost a race for the number
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to save account", slog.String("customer_id", customerID))
			return nil, err
		}
		s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("type", string(accountType)))
		return &account, nil
	}
	return nil, fmt.Errorf("%w: could not allocate an account number", apperrors.ErrInternal)
}

// UpdateStatus moves an account through its lifecycle under the account lock.
func (s *accountService) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus, actor string) (*domain.Account, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}

	session, err := s.ledger.Lock(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	before, err := session.Account(accountID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if _, err := session.SetStatus(accountID, status, now); err != nil {
		return nil, err
	}
	updates := session.Updates(actor, now)
	after := updates[0].Account

	entry, err := s.audit.Build(domain.AuditResourceAccount, accountID, domain.ActionAccountStatusChanged,
		map[string]domain.AccountStatus{"status": before.Status},
		map[string]domain.AccountStatus{"status": after.Status}, actor)
	if err != nil {
		return nil, err
	}
	if err := s.writer.CommitBatch(context.WithoutCancel(ctx), portsrepo.LedgerBatch{
		AccountUpdates: updates,
		AuditLogs:      []domain.AuditLog{entry},
	}); err != nil {
		s.LogError(ctx, err, "Failed to update account status", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account status changed",
		slog.String("account_id", accountID),
		slog.String("from", string(before.Status)),
		slog.String("to", string(after.Status)))
	return &after, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accounts.FindAccountByNumber(ctx, accountNumber)
}

// ListAccounts returns every account of a customer, closed ones included.
func (s *accountService) ListAccounts(ctx context.Context, customerID string) ([]domain.Account, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer is required", apperrors.ErrValidation)
	}
	accounts, err := s.accounts.ListAccountsByCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("customer_id", customerID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.ledger.GetBalance(ctx, accountID)
}
