package services_test

import (
	"testing"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	ledgerSuite
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestCreateAccount_AppliesTypePolicy() {
	acct, err := s.svc.Account.CreateAccount(s.ctx, customer, domain.AccountTypeSavings, teller)
	s.Require().NoError(err)

	s.Regexp(`^[1-9][0-9]{9}$`, acct.AccountNumber)
	s.Equal(domain.AccountStatusActive, acct.Status)
	s.Equal("0.00", acct.Balance.StringFixed(2))
	s.Equal("100.00", acct.MinimumBalance.StringFixed(2))
	s.Equal("4.00", acct.InterestRate.StringFixed(2))
	s.Equal(int64(1), acct.Version)
	s.Equal(s.clock.Now(), acct.OpenedAt)

	current, err := s.svc.Account.CreateAccount(s.ctx, customer, domain.AccountTypeCurrent, teller)
	s.Require().NoError(err)
	s.True(current.InterestRate.IsZero())

	logs, err := s.svc.Audit.ListByResource(s.ctx, domain.AuditResourceAccount, acct.AccountID)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(domain.ActionAccountCreated, logs[0].Action)
}

func (s *AccountServiceTestSuite) TestCreateAccount_InvalidInput() {
	_, err := s.svc.Account.CreateAccount(s.ctx, customer, domain.AccountType("CRYPTO"), teller)
	s.ErrorIs(err, apperrors.ErrInvalidAccountType)

	_, err = s.svc.Account.CreateAccount(s.ctx, customer, domain.AccountTypeSavings, "")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestUpdateStatus_Lifecycle() {
	acct := s.openAccount(domain.AccountTypeSavings, "300.00")

	frozen, err := s.svc.Account.UpdateStatus(s.ctx, acct.AccountID, domain.AccountStatusFrozen, teller)
	s.Require().NoError(err)
	s.Equal(domain.AccountStatusFrozen, frozen.Status)

	active, err := s.svc.Account.UpdateStatus(s.ctx, acct.AccountID, domain.AccountStatusActive, teller)
	s.Require().NoError(err)
	s.Equal(domain.AccountStatusActive, active.Status)

	closed, err := s.svc.Account.UpdateStatus(s.ctx, acct.AccountID, domain.AccountStatusClosed, teller)
	s.Require().NoError(err)
	s.Require().NotNil(closed.ClosedAt)
	s.Equal("300.00", closed.Balance.StringFixed(2))

	_, err = s.svc.Account.UpdateStatus(s.ctx, acct.AccountID, domain.AccountStatusActive, teller)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	logs, err := s.svc.Audit.ListByResource(s.ctx, domain.AuditResourceAccount, acct.AccountID)
	s.Require().NoError(err)
	s.Len(logs, 4)
}

func (s *AccountServiceTestSuite) TestListAndLookup() {
	a := s.openAccount(domain.AccountTypeSavings, "")
	s.openAccount(domain.AccountTypeBusiness, "")

	accounts, err := s.svc.Account.ListAccounts(s.ctx, customer)
	s.Require().NoError(err)
	s.Len(accounts, 2)

	byNumber, err := s.svc.Account.GetAccountByNumber(s.ctx, a.AccountNumber)
	s.Require().NoError(err)
	s.Equal(a.AccountID, byNumber.AccountID)

	none, err := s.svc.Account.ListAccounts(s.ctx, "someone-else")
	s.Require().NoError(err)
	s.Empty(none)

	_, err = s.svc.Account.GetAccount(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
