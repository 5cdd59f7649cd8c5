package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles deposits, withdrawals, transfers and history.
type transactionHandler struct {
	accountService     portssvc.AccountReaderSvc
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(as portssvc.AccountReaderSvc, ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{accountService: as, transactionService: ts}
}

// RegisterTransactionRoutes registers money movement and history routes.
func RegisterTransactionRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(accountService, transactionService)

	accounts := rg.Group("/accounts/:accountNumber")
	{
		accounts.POST("/deposits", h.deposit)
		accounts.POST("/withdrawals", h.withdraw)
		accounts.GET("/transactions", h.listTransactions)
		accounts.GET("/statement", h.statement)
	}

	rg.POST("/transfers", h.transfer)

	txns := rg.Group("/transactions")
	{
		txns.GET("/:reference", h.getByReference)
		txns.DELETE("/pending/:reference", h.cancelPending)
	}
}

// deposit godoc
// @Summary Deposit into an account
// @Description Credits the account. Repeating a reference returns the original transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   Idempotency-Key header string false "Transaction reference, used when the body has none"
// @Param   deposit body dto.MoneyMovementRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account not active"
// @Failure 503 {object} map[string]string "Account busy"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/deposits [post]
func (h *transactionHandler) deposit(c *gin.Context) {
	h.moveMoney(c, domain.RequestDeposit)
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Debits the account subject to its minimum balance or overdraft limit.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   Idempotency-Key header string false "Transaction reference, used when the body has none"
// @Param   withdrawal body dto.MoneyMovementRequest true "Withdrawal details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds or account not active"
// @Failure 503 {object} map[string]string "Account busy"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/withdrawals [post]
func (h *transactionHandler) withdraw(c *gin.Context) {
	h.moveMoney(c, domain.RequestWithdrawal)
}

func (h *transactionHandler) moveMoney(c *gin.Context, kind domain.RequestType) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MoneyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Failed to bind JSON for "+string(kind))
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to process "+string(kind))
		return
	}

	txn, err := h.transactionService.Execute(ctx, domain.TransactionRequest{
		Type:            kind,
		SourceAccountID: account.AccountID,
		Amount:          req.Amount,
		Description:     req.Description,
		Reference:       referenceFor(c, req.Reference),
		Actor:           actor,
	})
	if err != nil {
		respondError(c, err, "Failed to process "+string(kind))
		return
	}
	logger.Info("Transaction processed", slog.String("reference", txn.Reference), slog.String("type", string(kind)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// transfer godoc
// @Summary Transfer between two accounts
// @Description Debits the source and credits the destination atomically. The response is the debit leg.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Transaction reference, used when the body has none"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount or same account"
// @Failure 404 {object} map[string]string "Source or destination not found"
// @Failure 422 {object} map[string]string "Insufficient funds or account not active"
// @Failure 503 {object} map[string]string "Account busy"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Failed to bind JSON for Transfer")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	from, err := h.accountService.GetAccountByNumber(ctx, req.FromAccountNumber)
	if err != nil {
		respondError(c, err, "Failed to process transfer")
		return
	}
	to, err := h.accountService.GetAccountByNumber(ctx, req.ToAccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = fmt.Errorf("%w: %s", apperrors.ErrDestinationNotFound, req.ToAccountNumber)
		}
		respondError(c, err, "Failed to process transfer")
		return
	}

	txn, err := h.transactionService.Transfer(ctx, from.AccountID, to.AccountID, req.Amount, req.Description, referenceFor(c, req.Reference), actor)
	if err != nil {
		respondError(c, err, "Failed to process transfer")
		return
	}
	logger.Info("Transfer processed", slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Newest first, paged.
// @Tags transactions
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   page query int false "Page number, from 1" default(1)
// @Param   size query int false "Page size, at most 100" default(20)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid paging parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "Failed to bind query for ListTransactions")
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	page, err := h.transactionService.ListTransactions(ctx, account.AccountID, params.Page, params.Size)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(page))
}

// statement godoc
// @Summary Account statement for a date range
// @Description Transactions in [from, to), oldest first.
// @Tags transactions
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   from query string true "First day, YYYY-MM-DD"
// @Param   to query string true "Day after the last, YYYY-MM-DD"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/statement [get]
func (h *transactionHandler) statement(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "Failed to bind query for Statement")
		return
	}
	period, err := params.Period()
	if err != nil {
		badRequest(c, err, "Invalid statement period")
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to build statement")
		return
	}
	txns, err := h.transactionService.ListTransactionsByDateRange(ctx, account.AccountID, period.Start, period.End)
	if err != nil {
		respondError(c, err, "Failed to build statement")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		Page:         1,
		Size:         len(txns),
		Total:        len(txns),
	})
}

// getByReference godoc
// @Summary Get the rows written under a reference
// @Tags transactions
// @Produce  json
// @Param   reference path string true "Transaction reference"
// @Success 200 {object} dto.TransactionRowsResponse
// @Failure 404 {object} map[string]string "Reference not found"
// @Security BearerAuth
// @Router /transactions/{reference} [get]
func (h *transactionHandler) getByReference(c *gin.Context) {
	reference := c.Param("reference")
	txns, err := h.transactionService.GetByReference(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.TransactionRowsResponse{Reference: reference, Transactions: dto.ToListTransactionResponse(txns)})
}

// cancelPending godoc
// @Summary Cancel a request still waiting for its account locks
// @Tags transactions
// @Param   reference path string true "Transaction reference"
// @Success 204 "Cancelled"
// @Failure 404 {object} map[string]string "No pending request"
// @Failure 409 {object} map[string]string "Request already executing or committed"
// @Security BearerAuth
// @Router /transactions/pending/{reference} [delete]
func (h *transactionHandler) cancelPending(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	reference := c.Param("reference")
	if err := h.transactionService.Cancel(c.Request.Context(), reference, actor); err != nil {
		respondError(c, err, "Failed to cancel transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Pending transaction cancelled", slog.String("reference", reference))
	c.Status(http.StatusNoContent)
}
