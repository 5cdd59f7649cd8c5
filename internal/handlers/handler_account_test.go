package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	handlerSuite
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	expected := &domain.Account{
		AccountID:      uuid.NewString(),
		AccountNumber:  "4000000001",
		CustomerID:     "cust-7",
		AccountType:    domain.AccountTypeSavings,
		MinimumBalance: decimal.NewFromInt(500),
		InterestRate:   decimal.RequireFromString("4.00"),
		Status:         domain.AccountStatusActive,
		AuditFields:    domain.AuditFields{Version: 1},
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, "cust-7", domain.AccountTypeSavings, suite.actor).
		Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/customers/cust-7/accounts", `{"accountType":"SAVINGS"}`, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(expected.AccountNumber, body.AccountNumber)
	suite.Equal(domain.AccountTypeSavings, body.AccountType)
	suite.True(body.MinimumBalance.Equal(expected.MinimumBalance))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	for _, body := range []string{`{"accountType":"LOAN"}`, `{}`, `{"accountType":`} {
		w := suite.do(http.MethodPost, "/api/v1/customers/cust-7/accounts", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, "body %s", body)
	}
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestListAccounts() {
	accounts := []domain.Account{
		{AccountID: "a1", AccountNumber: "4000000001", CustomerID: "cust-7", AccountType: domain.AccountTypeSavings},
		{AccountID: "a2", AccountNumber: "4000000002", CustomerID: "cust-7", AccountType: domain.AccountTypeCurrent},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, "cust-7").Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/customers/cust-7/accounts", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.Accounts, 2)
	suite.Equal("4000000002", body.Accounts[1].AccountNumber)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByNumber", mock.Anything, "9999999999").
		Return(nil, fmt.Errorf("%w: account 9999999999", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/9999999999", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "not found")
}

func (suite *AccountHandlerTestSuite) TestGetBalance() {
	account := suite.savingsAccount("1234567890")
	suite.mockAccountService.On("GetBalance", mock.Anything, account.AccountID).
		Return(decimal.RequireFromString("1520.75"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1234567890/balance", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("1234567890", body.AccountNumber)
	suite.True(body.Balance.Equal(decimal.RequireFromString("1520.75")))
}

func (suite *AccountHandlerTestSuite) TestAuditLogs_ByActorPaged() {
	next := "token-2"
	logs := []domain.AuditLog{{AuditID: "a9", ResourceType: domain.AuditResourceAccount, ResourceID: "acc-1", Action: domain.ActionAccountCreated, Actor: "teller-1"}}
	suite.mockAuditService.On("ListByActor", mock.Anything, "teller-1", 5,
		mock.MatchedBy(func(token *string) bool { return token != nil && *token == "token-1" })).
		Return(logs, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/audit-logs?actor=teller-1&limit=5&nextToken=token-1", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListAuditLogsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.AuditLogs, 1)
	suite.Require().NotNil(body.NextToken)
	suite.Equal("token-2", *body.NextToken)
	suite.mockAuditService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestAuditLogs_ResourceIDNeedsType() {
	w := suite.do(http.MethodGet, "/api/v1/audit-logs?resourceID=acc-1", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/audit-logs?actor=teller-1&limit=500", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
