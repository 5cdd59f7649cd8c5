package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	customers := rg.Group("/customers/:customerID")
	{
		customers.POST("/accounts", h.createAccount)
		customers.GET("/accounts", h.listAccounts)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountNumber", h.getAccount)
		accounts.GET("/:accountNumber/balance", h.getBalance)
		accounts.PATCH("/:accountNumber/status", h.updateStatus)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens an account of the given type for a customer. The type's policy sets the minimum balance and interest rate.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /customers/{customerID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Failed to bind JSON for CreateAccount")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	customerID := c.Param("customerID")

	logger.Info("Received request to create account", slog.String("customer_id", customerID), slog.String("account_type", string(req.AccountType)))
	account, err := h.accountService.CreateAccount(c.Request.Context(), customerID, req.AccountType, actor)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List a customer's accounts
// @Tags accounts
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /customers/{customerID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by number
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountNumber} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get the current balance of an account
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	ctx := c.Request.Context()
	number := c.Param("accountNumber")
	account, err := h.accountService.GetAccountByNumber(ctx, number)
	if err != nil {
		respondError(c, err, "Failed to retrieve balance")
		return
	}
	balance, err := h.accountService.GetBalance(ctx, account.AccountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountNumber: number, Balance: balance})
}

// updateStatus godoc
// @Summary Change an account's status
// @Description Freezes, reactivates, deactivates or closes an account. Closed accounts cannot be reopened.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   status body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Failure 503 {object} map[string]string "Account busy"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/status [patch]
func (h *accountHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Failed to bind JSON for UpdateStatus")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to update account status")
		return
	}
	updated, err := h.accountService.UpdateStatus(ctx, account.AccountID, req.Status, actor)
	if err != nil {
		respondError(c, err, "Failed to update account status")
		return
	}
	logger.Info("Account status updated", slog.String("account_id", updated.AccountID), slog.String("status", string(updated.Status)))
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}
