package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type InterestEngineTestSuite struct {
	ledgerSuite
}

func TestInterestEngine(t *testing.T) {
	suite.Run(t, new(InterestEngineTestSuite))
}

func (s *InterestEngineTestSuite) january() domain.Period {
	return domain.MonthPeriod(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
}

func (s *InterestEngineTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	s.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
}

func (s *InterestEngineTestSuite) TestFixedDepositTerms() {
	rate, maturity, err := s.svc.Interest.FixedDepositTerms(dec("1000.00"), 12)
	s.Require().NoError(err)
	s.Equal("7.00", rate.StringFixed(2))
	s.Equal("1070.00", maturity.StringFixed(2))

	_, _, err = s.svc.Interest.FixedDepositTerms(dec("1000.00"), 5)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_Idempotent() {
	acct := s.openAccount(domain.AccountTypeSavings, "10000.00")
	s.clock.Set(time.Date(2026, 2, 1, 0, 30, 0, 0, time.UTC))

	posting, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.Require().NoError(err)
	// 10000 * 4% * 31 / 365
	s.Equal("33.97", posting.InterestAmount.StringFixed(2))
	s.Equal(31, posting.DaysCalculated)
	s.Equal("10000.00", posting.BalanceUsed.StringFixed(2))
	s.Equal(domain.PostingPosted, posting.Status)
	s.NotEmpty(posting.TransactionID)
	s.Equal("10033.97", s.balance(acct.AccountID))

	again, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.Require().NoError(err)
	s.Equal(posting.PostingID, again.PostingID)
	s.Equal("10033.97", s.balance(acct.AccountID))

	tx, err := s.svc.Transaction.GetByReference(s.ctx, domain.InterestReference(acct.AccountID, s.january().Key()))
	s.Require().NoError(err)
	s.Require().Len(tx, 1)
	s.Equal(domain.ModeInterest, tx[0].Mode)
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_UsesBalanceBand() {
	low, high := dec("9999.99"), dec("20000.00")
	cfg := testConfig()
	cfg.Interest.SavingsRates = domain.InterestRateTable{
		{AccountType: domain.AccountTypeSavings, MaxBalance: &low, Rate: dec("2.00")},
		{AccountType: domain.AccountTypeSavings, MinBalance: &high, Rate: dec("5.00")},
	}
	s.svc = services.NewServiceContainer(cfg, s.repos, s.clock.Now)

	small := s.openAccount(domain.AccountTypeSavings, "3650.00")
	large := s.openAccount(domain.AccountTypeSavings, "36500.00")
	middle := s.openAccount(domain.AccountTypeSavings, "10000.00")
	s.clock.Set(time.Date(2026, 2, 1, 0, 30, 0, 0, time.UTC))

	cases := []struct {
		account  domain.Account
		rate     string
		interest string
	}{
		// 3650 * 2% * 31 / 365
		{small, "2.00", "6.20"},
		// 36500 * 5% * 31 / 365
		{large, "5.00", "155.00"},
		// no band: the rate the account was opened with
		{middle, "4.00", "33.97"},
	}
	for _, tc := range cases {
		posting, err := s.svc.Interest.PostSavingsInterest(s.ctx, tc.account.AccountID, s.january(), teller)
		s.Require().NoError(err)
		s.Equal(tc.rate, posting.RateApplied.StringFixed(2))
		s.Equal(tc.interest, posting.InterestAmount.StringFixed(2))
	}

	bands := s.svc.Interest.ActiveRates(domain.AccountTypeSavings)
	s.Require().Len(bands, 2)
	s.Equal("2.00", bands[0].Rate.StringFixed(2))
	s.Empty(s.svc.Interest.ActiveRates(domain.AccountTypeCurrent))
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_ClampsToOpeningDate() {
	s.clock.Set(time.Date(2026, 1, 22, 12, 0, 0, 0, time.UTC))
	acct := s.openAccount(domain.AccountTypeSavings, "36500.00")
	s.clock.Set(time.Date(2026, 2, 1, 1, 0, 0, 0, time.UTC))

	posting, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.Require().NoError(err)
	s.Equal(10, posting.DaysCalculated)
	s.Equal("40.00", posting.InterestAmount.StringFixed(2))
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_OverlapRejected() {
	acct := s.openAccount(domain.AccountTypeSavings, "1000.00")
	s.clock.Set(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.Require().NoError(err)

	overlapping, err := domain.NewPeriod(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	_, err = s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, overlapping, teller)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_NotInterestBearing() {
	acct := s.openAccount(domain.AccountTypeCurrent, "1000.00")
	_, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *InterestEngineTestSuite) TestPostSavingsInterest_ZeroBalanceRecordsWithoutTransaction() {
	acct := s.openAccount(domain.AccountTypeSavings, "")
	s.clock.Set(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	posting, err := s.svc.Interest.PostSavingsInterest(s.ctx, acct.AccountID, s.january(), teller)
	s.Require().NoError(err)
	s.True(posting.InterestAmount.IsZero())
	s.Equal(domain.PostingPosted, posting.Status)
	s.Empty(posting.TransactionID)

	page, err := s.svc.Transaction.ListTransactions(s.ctx, acct.AccountID, 1, 10)
	s.Require().NoError(err)
	s.Zero(page.Total)
}

func (s *InterestEngineTestSuite) TestCalculateSavingsInterest_DoesNotPersist() {
	acct := s.openAccount(domain.AccountTypeSavings, "10000.00")
	preview, err := s.svc.Interest.CalculateSavingsInterest(s.ctx, acct.AccountID, s.january())
	s.Require().NoError(err)
	s.Equal(domain.PostingCalculated, preview.Status)

	postings, err := s.svc.Interest.ListPostings(s.ctx, acct.AccountID)
	s.Require().NoError(err)
	s.Empty(postings)
	s.Equal("10000.00", s.balance(acct.AccountID))
}

func (s *InterestEngineTestSuite) TestRunSavingsAccrual_RerunSkips() {
	for _, amount := range []string{"1000.00", "2000.00", "3000.00"} {
		s.openAccount(domain.AccountTypeSavings, amount)
	}
	s.openAccount(domain.AccountTypeCurrent, "5000.00")
	s.clock.Set(time.Date(2026, 2, 1, 0, 30, 0, 0, time.UTC))

	summary, err := s.svc.Interest.RunSavingsAccrual(s.ctx, s.january(), teller)
	s.Require().NoError(err)
	s.Equal(3, summary.Processed)
	s.Equal(3, summary.Posted)
	s.Zero(summary.Failed)
	// 3.40 + 6.79 + 10.19
	s.Equal("20.38", summary.TotalInterest.StringFixed(2))

	summary, err = s.svc.Interest.RunSavingsAccrual(s.ctx, s.january(), teller)
	s.Require().NoError(err)
	s.Equal(3, summary.Skipped)
	s.Zero(summary.Posted)
}

func (s *InterestEngineTestSuite) TestMatureFixedDeposit() {
	funding := s.openAccount(domain.AccountTypeSavings, "5000.00")
	fd, err := s.svc.FixedDeposit.CreateFixedDeposit(s.ctx, domain.FixedDepositRequest{
		FundingAccountID: funding.AccountID,
		Principal:        dec("1000.00"),
		TenureMonths:     12,
		Actor:            teller,
	})
	s.Require().NoError(err)
	s.Equal("4000.00", s.balance(funding.AccountID))

	_, err = s.svc.Interest.MatureFixedDeposit(s.ctx, fd.FixedDepositID, teller)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	s.clock.Set(fd.MaturityDate.Add(time.Hour))
	matured, err := s.svc.Interest.MatureFixedDeposit(s.ctx, fd.FixedDepositID, teller)
	s.Require().NoError(err)
	s.Equal(domain.FixedDepositMatured, matured.Status)
	s.Require().NotNil(matured.PayoutAmount)
	s.Equal("1070.00", matured.PayoutAmount.StringFixed(2))
	s.NotEmpty(matured.ClosingTransactionID)
	s.Equal("5070.00", s.balance(funding.AccountID))

	postings, err := s.svc.Interest.ListPostings(s.ctx, fd.FixedDepositID)
	s.Require().NoError(err)
	s.Require().Len(postings, 1)
	s.Equal("70.00", postings[0].InterestAmount.StringFixed(2))

	again, err := s.svc.Interest.MatureFixedDeposit(s.ctx, fd.FixedDepositID, teller)
	s.Require().NoError(err)
	s.Equal(matured.ClosingTransactionID, again.ClosingTransactionID)
	s.Equal("5070.00", s.balance(funding.AccountID))
}

func (s *InterestEngineTestSuite) TestRunMaturitySweep_ClientCannotClaimMaturityReference() {
	funding := s.openAccount(domain.AccountTypeSavings, "5000.00")
	fd, err := s.svc.FixedDeposit.CreateFixedDeposit(s.ctx, domain.FixedDepositRequest{
		FundingAccountID: funding.AccountID,
		Principal:        dec("1000.00"),
		TenureMonths:     12,
		Actor:            teller,
	})
	s.Require().NoError(err)

	_, err = s.svc.Transaction.Deposit(s.ctx, funding.AccountID, dec("1.00"), "", domain.MaturityReference(fd.FDNumber), teller)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Transaction.Deposit(s.ctx, funding.AccountID, dec("1.00"), "", domain.PrematureClosureReference(fd.FDNumber), teller)
	s.ErrorIs(err, apperrors.ErrValidation)

	asOf := fd.MaturityDate.Add(time.Hour)
	s.clock.Set(asOf)
	summary, err := s.svc.Interest.RunMaturitySweep(s.ctx, asOf, teller)
	s.Require().NoError(err)
	s.Equal(1, summary.Posted)
	s.Zero(summary.Failed)

	matured, err := s.svc.FixedDeposit.GetFixedDeposit(s.ctx, fd.FixedDepositID)
	s.Require().NoError(err)
	s.Equal(domain.FixedDepositMatured, matured.Status)
	s.Equal("5070.00", s.balance(funding.AccountID))

	legs, err := s.svc.Transaction.GetByReference(s.ctx, domain.MaturityReference(fd.FDNumber))
	s.Require().NoError(err)
	s.Require().Len(legs, 1)
	s.Equal(domain.ModeFDMaturity, legs[0].Mode)
}

func (s *InterestEngineTestSuite) TestRunMaturitySweep() {
	funding := s.openAccount(domain.AccountTypeSavings, "10000.00")
	for _, tenure := range []int{6, 12} {
		_, err := s.svc.FixedDeposit.CreateFixedDeposit(s.ctx, domain.FixedDepositRequest{
			FundingAccountID: funding.AccountID,
			Principal:        dec("2000.00"),
			TenureMonths:     tenure,
			Actor:            teller,
		})
		s.Require().NoError(err)
	}
	asOf := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	s.clock.Set(asOf)

	summary, err := s.svc.Interest.RunMaturitySweep(s.ctx, asOf, teller)
	s.Require().NoError(err)
	s.Equal(1, summary.Processed)
	s.Equal(1, summary.Posted)
	// 2000 * 6% * 6/12
	s.Equal("60.00", summary.TotalInterest.StringFixed(2))
	s.Equal("8060.00", s.balance(funding.AccountID))

	summary, err = s.svc.Interest.RunMaturitySweep(s.ctx, asOf, teller)
	s.Require().NoError(err)
	s.Zero(summary.Processed)
}
