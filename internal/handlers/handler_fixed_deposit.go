package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fixedDepositHandler struct {
	accountService      portssvc.AccountReaderSvc
	fixedDepositService portssvc.FixedDepositSvcFacade
	interestService     portssvc.InterestSvcFacade
}

// RegisterFixedDepositRoutes registers the fixed deposit lifecycle routes.
func RegisterFixedDepositRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, fixedDepositService portssvc.FixedDepositSvcFacade, interestService portssvc.InterestSvcFacade) {
	h := &fixedDepositHandler{
		accountService:      accountService,
		fixedDepositService: fixedDepositService,
		interestService:     interestService,
	}

	fds := rg.Group("/fixed-deposits")
	{
		fds.POST("", h.create)
		fds.GET("/:fdNumber", h.get)
		fds.POST("/:fdNumber/premature-closure", h.closePremature)
		fds.POST("/:fdNumber/maturity", h.mature)
	}
	rg.GET("/customers/:customerID/fixed-deposits", h.listByCustomer)
}

// create godoc
// @Summary Open a fixed deposit
// @Description Withdraws the principal from the funding account and books the deposit at the tenure's rate.
// @Tags fixed-deposits
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Opening transaction reference, used when the body has none"
// @Param   fixedDeposit body dto.CreateFixedDepositRequest true "Deposit details"
// @Success 201 {object} dto.FixedDepositResponse
// @Failure 400 {object} map[string]string "Below minimum or unsupported tenure"
// @Failure 404 {object} map[string]string "Funding account not found"
// @Failure 422 {object} map[string]string "Insufficient funds or account not active"
// @Security BearerAuth
// @Router /fixed-deposits [post]
func (h *fixedDepositHandler) create(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFixedDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Failed to bind JSON for CreateFixedDeposit")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	funding, err := h.accountService.GetAccountByNumber(ctx, req.FundingAccountNumber)
	if err != nil {
		respondError(c, err, "Failed to create fixed deposit")
		return
	}

	fd, err := h.fixedDepositService.CreateFixedDeposit(ctx, domain.FixedDepositRequest{
		FundingAccountID: funding.AccountID,
		Principal:        req.Principal,
		TenureMonths:     req.TenureMonths,
		Reference:        referenceFor(c, req.Reference),
		Actor:            actor,
	})
	if err != nil {
		respondError(c, err, "Failed to create fixed deposit")
		return
	}
	logger.Info("Fixed deposit created", slog.String("fd_number", fd.FDNumber))
	c.JSON(http.StatusCreated, dto.ToFixedDepositResponse(fd))
}

// get godoc
// @Summary Get a fixed deposit by number
// @Tags fixed-deposits
// @Produce  json
// @Param   fdNumber path string true "Fixed deposit number"
// @Success 200 {object} dto.FixedDepositResponse
// @Failure 404 {object} map[string]string "Fixed deposit not found"
// @Security BearerAuth
// @Router /fixed-deposits/{fdNumber} [get]
func (h *fixedDepositHandler) get(c *gin.Context) {
	fd, err := h.fixedDepositService.GetFixedDepositByNumber(c.Request.Context(), c.Param("fdNumber"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fixed deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToFixedDepositResponse(fd))
}

// closePremature godoc
// @Summary Close a fixed deposit before maturity
// @Description Pays principal plus interest at the penalty-reduced rate into the funding account.
// @Tags fixed-deposits
// @Produce  json
// @Param   fdNumber path string true "Fixed deposit number"
// @Success 200 {object} dto.FixedDepositResponse
// @Failure 404 {object} map[string]string "Fixed deposit not found"
// @Failure 409 {object} map[string]string "Deposit already closed"
// @Security BearerAuth
// @Router /fixed-deposits/{fdNumber}/premature-closure [post]
func (h *fixedDepositHandler) closePremature(c *gin.Context) {
	h.close(c, h.fixedDepositService.ClosePremature, "Failed to close fixed deposit")
}

// mature godoc
// @Summary Mature a due fixed deposit
// @Description Pays the maturity amount into the funding account. Repeating the call returns the matured deposit.
// @Tags fixed-deposits
// @Produce  json
// @Param   fdNumber path string true "Fixed deposit number"
// @Success 200 {object} dto.FixedDepositResponse
// @Failure 404 {object} map[string]string "Fixed deposit not found"
// @Failure 409 {object} map[string]string "Deposit not yet due or closed early"
// @Security BearerAuth
// @Router /fixed-deposits/{fdNumber}/maturity [post]
func (h *fixedDepositHandler) mature(c *gin.Context) {
	h.close(c, h.interestService.MatureFixedDeposit, "Failed to mature fixed deposit")
}

type closeFunc func(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error)

func (h *fixedDepositHandler) close(c *gin.Context, closeFn closeFunc, failure string) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	fd, err := h.fixedDepositService.GetFixedDepositByNumber(ctx, c.Param("fdNumber"))
	if err != nil {
		respondError(c, err, failure)
		return
	}
	closed, err := closeFn(ctx, fd.FixedDepositID, actor)
	if err != nil {
		respondError(c, err, failure)
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("Fixed deposit closed", slog.String("fd_number", closed.FDNumber), slog.String("status", string(closed.Status)))
	c.JSON(http.StatusOK, dto.ToFixedDepositResponse(closed))
}

// listByCustomer godoc
// @Summary List a customer's fixed deposits
// @Tags fixed-deposits
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.ListFixedDepositsResponse
// @Security BearerAuth
// @Router /customers/{customerID}/fixed-deposits [get]
func (h *fixedDepositHandler) listByCustomer(c *gin.Context) {
	fds, err := h.fixedDepositService.ListByCustomer(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondError(c, err, "Failed to list fixed deposits")
		return
	}
	c.JSON(http.StatusOK, dto.ListFixedDepositsResponse{FixedDeposits: dto.ToListFixedDepositResponse(fds)})
}
