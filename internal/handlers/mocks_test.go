package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, customerID string) ([]domain.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, customerID string, accountType domain.AccountType, actor string) (*domain.Account, error) {
	args := m.Called(ctx, customerID, accountType, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus, actor string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, status, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Execute(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, amount, description, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, amount, description, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromAccountID, toAccountID, amount, description, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) Cancel(ctx context.Context, reference, actor string) error {
	args := m.Called(ctx, reference, actor)
	return args.Error(0)
}
func (m *MockTransactionService) GetByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, accountID string, page, size int) (*domain.TransactionPage, error) {
	args := m.Called(ctx, accountID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionPage), args.Error(1)
}
func (m *MockTransactionService) ListTransactionsByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (*domain.AuditLog, error) {
	args := m.Called(ctx, resourceType, resourceID, action, oldValue, newValue, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditLog), args.Error(1)
}
func (m *MockAuditService) Build(resourceType domain.AuditResourceType, resourceID, action string, oldValue, newValue any, actor string) (domain.AuditLog, error) {
	args := m.Called(resourceType, resourceID, action, oldValue, newValue, actor)
	return args.Get(0).(domain.AuditLog), args.Error(1)
}
func (m *MockAuditService) ListByResource(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error) {
	args := m.Called(ctx, resourceType, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}
func (m *MockAuditService) ListByActor(ctx context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	args := m.Called(ctx, actor, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.AuditLog), next, args.Error(2)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

// --- Mock FixedDepositService ---
type MockFixedDepositService struct {
	mock.Mock
}

func (m *MockFixedDepositService) CreateFixedDeposit(ctx context.Context, req domain.FixedDepositRequest) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}
func (m *MockFixedDepositService) ClosePremature(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, fixedDepositID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}
func (m *MockFixedDepositService) GetFixedDeposit(ctx context.Context, fixedDepositID string) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, fixedDepositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}
func (m *MockFixedDepositService) GetFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, fdNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}
func (m *MockFixedDepositService) ListByCustomer(ctx context.Context, customerID string) ([]domain.FixedDeposit, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FixedDeposit), args.Error(1)
}
func (m *MockFixedDepositService) ListByFundingAccount(ctx context.Context, accountID string) ([]domain.FixedDeposit, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FixedDeposit), args.Error(1)
}

var _ portssvc.FixedDepositSvcFacade = (*MockFixedDepositService)(nil)

// --- Mock InterestService ---
type MockInterestService struct {
	mock.Mock
}

func (m *MockInterestService) FixedDepositTerms(principal decimal.Decimal, tenureMonths int) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(principal, tenureMonths)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}
func (m *MockInterestService) CalculateSavingsInterest(ctx context.Context, accountID string, period domain.Period) (*domain.InterestPosting, error) {
	args := m.Called(ctx, accountID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestPosting), args.Error(1)
}
func (m *MockInterestService) ActiveRates(accountType domain.AccountType) []domain.InterestRateBand {
	args := m.Called(accountType)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.InterestRateBand)
}
func (m *MockInterestService) PostSavingsInterest(ctx context.Context, accountID string, period domain.Period, actor string) (*domain.InterestPosting, error) {
	args := m.Called(ctx, accountID, period, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestPosting), args.Error(1)
}
func (m *MockInterestService) RunSavingsAccrual(ctx context.Context, period domain.Period, actor string) (*domain.SweepSummary, error) {
	args := m.Called(ctx, period, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}
func (m *MockInterestService) MatureFixedDeposit(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, fixedDepositID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}
func (m *MockInterestService) RunMaturitySweep(ctx context.Context, asOf time.Time, actor string) (*domain.SweepSummary, error) {
	args := m.Called(ctx, asOf, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}
func (m *MockInterestService) ListPostings(ctx context.Context, resourceID string) ([]domain.InterestPosting, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterestPosting), args.Error(1)
}

var _ portssvc.InterestSvcFacade = (*MockInterestService)(nil)
