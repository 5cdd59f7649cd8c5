package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FixedDepositHandlerTestSuite struct {
	handlerSuite
}

func (suite *FixedDepositHandlerTestSuite) activeDeposit(fdNumber string) *domain.FixedDeposit {
	fd := &domain.FixedDeposit{
		FixedDepositID: uuid.NewString(),
		FDNumber:       fdNumber,
		CustomerID:     "cust-1",
		Principal:      decimal.NewFromInt(5000),
		InterestRate:   decimal.RequireFromString("7.00"),
		TenureMonths:   12,
		MaturityAmount: decimal.RequireFromString("5350.00"),
		Status:         domain.FixedDepositActive,
	}
	suite.mockFixedDepositService.On("GetFixedDepositByNumber", mock.Anything, fdNumber).Return(fd, nil)
	return fd
}

// --- Test Cases ---

func (suite *FixedDepositHandlerTestSuite) TestCreate_Success() {
	funding := suite.savingsAccount("1234567890")
	principal := decimal.NewFromInt(5000)
	expected := &domain.FixedDeposit{
		FixedDepositID:   uuid.NewString(),
		FDNumber:         "FD0000000001",
		FundingAccountID: funding.AccountID,
		Principal:        principal,
		InterestRate:     decimal.RequireFromString("7.00"),
		TenureMonths:     12,
		Status:           domain.FixedDepositActive,
	}
	suite.mockFixedDepositService.On("CreateFixedDeposit", mock.Anything, mock.MatchedBy(func(req domain.FixedDepositRequest) bool {
		return req.FundingAccountID == funding.AccountID &&
			req.Principal.Equal(principal) &&
			req.TenureMonths == 12 &&
			req.Reference == "fd-open-1" &&
			req.Actor == suite.actor
	})).Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/fixed-deposits",
		`{"fundingAccountNumber":"1234567890","principal":"5000","tenureMonths":12}`,
		map[string]string{middleware.IdempotencyHeader: "fd-open-1"})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.FixedDepositResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("FD0000000001", body.FDNumber)
	suite.Equal(domain.FixedDepositActive, body.Status)
	suite.mockFixedDepositService.AssertExpectations(suite.T())
}

func (suite *FixedDepositHandlerTestSuite) TestCreate_ErrorMapping() {
	suite.savingsAccount("1234567890")
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"below minimum", fmt.Errorf("%w: principal 500.00 below 1000.00", apperrors.ErrBelowMinimumAmount), http.StatusBadRequest},
		{"unsupported tenure", fmt.Errorf("%w: no rate for 7 months", apperrors.ErrValidation), http.StatusBadRequest},
		{"insufficient funds", fmt.Errorf("%w: balance would fall below 500.00", apperrors.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{"reference reused", fmt.Errorf("%w: fd-1 was used by a different transaction", apperrors.ErrDuplicateReference), http.StatusConflict},
	}
	for _, tc := range cases {
		suite.mockFixedDepositService.On("CreateFixedDeposit", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

		w := suite.do(http.MethodPost, "/api/v1/fixed-deposits",
			`{"fundingAccountNumber":"1234567890","principal":"500","tenureMonths":12,"reference":"fd-1"}`, nil)

		suite.Equal(tc.status, w.Code, tc.name)
		suite.Contains(w.Body.String(), tc.err.Error(), tc.name)
	}
}

func (suite *FixedDepositHandlerTestSuite) TestCreate_RejectsBadBody() {
	for _, body := range []string{
		`{"principal":"5000","tenureMonths":12}`,
		`{"fundingAccountNumber":"1234567890","principal":"0","tenureMonths":12}`,
		`{"fundingAccountNumber":"1234567890","principal":"5000","tenureMonths":0}`,
	} {
		w := suite.do(http.MethodPost, "/api/v1/fixed-deposits", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, "body %s", body)
	}
	suite.mockFixedDepositService.AssertNotCalled(suite.T(), "CreateFixedDeposit", mock.Anything, mock.Anything)
}

func (suite *FixedDepositHandlerTestSuite) TestGet_NotFound() {
	suite.mockFixedDepositService.On("GetFixedDepositByNumber", mock.Anything, "FD404").
		Return(nil, fmt.Errorf("%w: fixed deposit FD404", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/fixed-deposits/FD404", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *FixedDepositHandlerTestSuite) TestClosePremature() {
	fd := suite.activeDeposit("FD0000000002")
	payout := decimal.RequireFromString("5125.00")
	closed := *fd
	closed.Status = domain.FixedDepositPrematureClosure
	closed.PayoutAmount = &payout
	suite.mockFixedDepositService.On("ClosePremature", mock.Anything, fd.FixedDepositID, suite.actor).Return(&closed, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/fixed-deposits/FD0000000002/premature-closure", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.FixedDepositResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.FixedDepositPrematureClosure, body.Status)
	suite.Require().NotNil(body.PayoutAmount)
	suite.True(body.PayoutAmount.Equal(payout))
}

func (suite *FixedDepositHandlerTestSuite) TestMature_NotDueIs409() {
	fd := suite.activeDeposit("FD0000000003")
	suite.mockInterestService.On("MatureFixedDeposit", mock.Anything, fd.FixedDepositID, suite.actor).
		Return(nil, fmt.Errorf("%w: FD0000000003 matures on 2027-01-01", apperrors.ErrInvalidState)).Once()

	w := suite.do(http.MethodPost, "/api/v1/fixed-deposits/FD0000000003/maturity", "", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "matures on")
	suite.mockFixedDepositService.AssertNotCalled(suite.T(), "ClosePremature", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FixedDepositHandlerTestSuite) TestListByCustomer() {
	fds := []domain.FixedDeposit{{FDNumber: "FD2"}, {FDNumber: "FD1"}}
	suite.mockFixedDepositService.On("ListByCustomer", mock.Anything, "cust-1").Return(fds, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/customers/cust-1/fixed-deposits", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListFixedDepositsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.FixedDeposits, 2)
	suite.Equal("FD2", body.FixedDeposits[0].FDNumber)
}

// --- Run Test Suite ---
func TestFixedDepositHandler(t *testing.T) {
	suite.Run(t, new(FixedDepositHandlerTestSuite))
}

type InterestHandlerTestSuite struct {
	handlerSuite
}

func periodKey(key string) any {
	return mock.MatchedBy(func(p domain.Period) bool { return p.Key() == key })
}

// --- Test Cases ---

func (suite *InterestHandlerTestSuite) TestPreview() {
	account := suite.savingsAccount("1234567890")
	preview := &domain.InterestPosting{
		ResourceType:   domain.PostingResourceAccount,
		ResourceID:     account.AccountID,
		PeriodKey:      "2026-03-01/2026-04-01",
		InterestAmount: decimal.RequireFromString("6.20"),
		RateApplied:    decimal.RequireFromString("2.00"),
		DaysCalculated: 31,
	}
	suite.mockInterestService.On("CalculateSavingsInterest", mock.Anything, account.AccountID, periodKey("2026-03-01/2026-04-01")).
		Return(preview, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1234567890/interest-preview?from=2026-03-01&to=2026-04-01", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.InterestPostingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.InterestAmount.Equal(decimal.RequireFromString("6.20")))
	suite.Equal(31, body.DaysCalculated)
}

func (suite *InterestHandlerTestSuite) TestPreview_BadPeriod() {
	for _, query := range []string{"from=2026-04-01&to=2026-03-01", "from=2026-03-01", "from=03/01/2026&to=2026-04-01"} {
		w := suite.do(http.MethodGet, "/api/v1/accounts/1234567890/interest-preview?"+query, "", nil)
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
	suite.mockInterestService.AssertNotCalled(suite.T(), "CalculateSavingsInterest", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InterestHandlerTestSuite) TestPostSavings() {
	account := suite.savingsAccount("1234567890")
	posting := &domain.InterestPosting{
		PostingID:      uuid.NewString(),
		ResourceType:   domain.PostingResourceAccount,
		ResourceID:     account.AccountID,
		PeriodKey:      "2026-03-01/2026-04-01",
		InterestAmount: decimal.RequireFromString("6.20"),
		Status:         domain.PostingPosted,
		TransactionID:  uuid.NewString(),
	}
	suite.mockInterestService.On("PostSavingsInterest", mock.Anything, account.AccountID, periodKey("2026-03-01/2026-04-01"), suite.actor).
		Return(posting, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/1234567890/interest-postings", `{"from":"2026-03-01","to":"2026-04-01"}`, nil)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), posting.TransactionID)
	suite.mockInterestService.AssertExpectations(suite.T())
}

func (suite *InterestHandlerTestSuite) TestPostSavings_OverlapIs409() {
	suite.savingsAccount("1234567890")
	suite.mockInterestService.On("PostSavingsInterest", mock.Anything, mock.Anything, mock.Anything, suite.actor).
		Return(nil, fmt.Errorf("%w: period 2026-03-15/2026-04-15 overlaps posted period 2026-03-01/2026-04-01", apperrors.ErrInvalidState)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/1234567890/interest-postings", `{"from":"2026-03-15","to":"2026-04-15"}`, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InterestHandlerTestSuite) TestListRates() {
	upper := decimal.RequireFromString("9999.99")
	lower := decimal.NewFromInt(20000)
	bands := []domain.InterestRateBand{
		{AccountType: domain.AccountTypeSavings, MaxBalance: &upper, Rate: decimal.RequireFromString("2.00")},
		{AccountType: domain.AccountTypeSavings, MinBalance: &lower, Rate: decimal.RequireFromString("5.00")},
	}
	suite.mockInterestService.On("ActiveRates", domain.AccountTypeSavings).Return(bands).Once()

	w := suite.do(http.MethodGet, "/api/v1/interest-rates?accountType=SAVINGS", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListInterestRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.Rates, 2)
	suite.Nil(body.Rates[0].MinBalance)
	suite.Require().NotNil(body.Rates[1].MinBalance)
	suite.True(body.Rates[1].MinBalance.Equal(lower))
	suite.True(body.Rates[1].Rate.Equal(decimal.RequireFromString("5.00")))
}

func (suite *InterestHandlerTestSuite) TestListRates_InvalidType() {
	for _, url := range []string{"/api/v1/interest-rates", "/api/v1/interest-rates?accountType=LOAN"} {
		w := suite.do(http.MethodGet, url, "", nil)
		suite.Equal(http.StatusBadRequest, w.Code, url)
	}
	suite.mockInterestService.AssertNotCalled(suite.T(), "ActiveRates", mock.Anything)
}

func (suite *InterestHandlerTestSuite) TestSavingsSweep() {
	summary := &domain.SweepSummary{Processed: 3, Posted: 2, Skipped: 1, TotalInterest: decimal.RequireFromString("12.40")}
	suite.mockInterestService.On("RunSavingsAccrual", mock.Anything, periodKey("2026-02-01/2026-03-01"), suite.actor).
		Return(summary, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/interest/sweeps/savings", `{"from":"2026-02-01","to":"2026-03-01"}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.SweepSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(2, body.Posted)
	suite.True(body.TotalInterest.Equal(decimal.RequireFromString("12.40")))

	w = suite.do(http.MethodPost, "/api/v1/interest/sweeps/savings", `{"from":"2026-02-01"}`, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *InterestHandlerTestSuite) TestMaturitySweep_PastCutoff() {
	cutoff := time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
	suite.mockInterestService.On("RunMaturitySweep", mock.Anything, cutoff, suite.actor).
		Return(&domain.SweepSummary{Processed: 1, Posted: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/interest/sweeps/maturity", `{"asOf":"2020-01-31"}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"posted":1`)
	suite.mockInterestService.AssertExpectations(suite.T())
}

func (suite *InterestHandlerTestSuite) TestDepositPostings() {
	fd := &domain.FixedDeposit{FixedDepositID: uuid.NewString(), FDNumber: "FD0000000009"}
	suite.mockFixedDepositService.On("GetFixedDepositByNumber", mock.Anything, "FD0000000009").Return(fd, nil).Once()
	suite.mockInterestService.On("ListPostings", mock.Anything, fd.FixedDepositID).
		Return([]domain.InterestPosting{{ResourceType: domain.PostingResourceFixedDeposit, ResourceID: fd.FixedDepositID}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/fixed-deposits/FD0000000009/interest-postings", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListInterestPostingsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.Postings, 1)
	suite.Equal(domain.PostingResourceFixedDeposit, body.Postings[0].ResourceType)
}

// --- Run Test Suite ---
func TestInterestHandler(t *testing.T) {
	suite.Run(t, new(InterestHandlerTestSuite))
}
