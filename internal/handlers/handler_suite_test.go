package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/handlers"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/SscSPs/core_banking_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// handlerSuite mounts every route group over mocked services.
type handlerSuite struct {
	suite.Suite
	router                  *gin.Engine
	mockAccountService      *MockAccountService
	mockTransactionService  *MockTransactionService
	mockFixedDepositService *MockFixedDepositService
	mockInterestService     *MockInterestService
	mockAuditService        *MockAuditService
	jwtSecret               string
	actor                   string
}

func (suite *handlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())
}

func (suite *handlerSuite) SetupTest() {
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.actor = "teller-" + uuid.NewString()[:8]

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret), middleware.IdempotencyKey())

	suite.mockAccountService = new(MockAccountService)
	suite.mockTransactionService = new(MockTransactionService)
	suite.mockFixedDepositService = new(MockFixedDepositService)
	suite.mockInterestService = new(MockInterestService)
	suite.mockAuditService = new(MockAuditService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService)
	handlers.RegisterTransactionRoutes(v1, suite.mockAccountService, suite.mockTransactionService)
	handlers.RegisterFixedDepositRoutes(v1, suite.mockAccountService, suite.mockFixedDepositService, suite.mockInterestService)
	handlers.RegisterInterestRoutes(v1, suite.mockAccountService, suite.mockFixedDepositService, suite.mockInterestService)
	handlers.RegisterAuditRoutes(v1, suite.mockAuditService)
}

func (suite *handlerSuite) generateTestToken(subject string) string {
	token, err := utils.GenerateJWT(subject, suite.jwtSecret, time.Hour, "ledger-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *handlerSuite) do(method, url, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, url, nil)
	} else {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.actor))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) savingsAccount(number string) *domain.Account {
	account := &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		CustomerID:    "cust-1",
		AccountType:   domain.AccountTypeSavings,
		Status:        domain.AccountStatusActive,
	}
	suite.mockAccountService.On("GetAccountByNumber", mock.Anything, number).Return(account, nil)
	return account
}
