package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type interestHandler struct {
	accountService      portssvc.AccountReaderSvc
	fixedDepositService portssvc.FixedDepositSvcFacade
	interestService     portssvc.InterestSvcFacade
	now                 func() time.Time
}

// RegisterInterestRoutes registers interest previews, postings and the manual sweep triggers.
func RegisterInterestRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, fixedDepositService portssvc.FixedDepositSvcFacade, interestService portssvc.InterestSvcFacade) {
	h := &interestHandler{
		accountService:      accountService,
		fixedDepositService: fixedDepositService,
		interestService:     interestService,
		now:                 func() time.Time { return time.Now().UTC() },
	}

	accounts := rg.Group("/accounts/:accountNumber")
	{
		accounts.GET("/interest-preview", h.preview)
		accounts.GET("/interest-postings", h.listAccountPostings)
		accounts.POST("/interest-postings", h.postSavings)
	}
	rg.GET("/fixed-deposits/:fdNumber/interest-postings", h.listDepositPostings)
	rg.GET("/interest-rates", h.listRates)

	sweeps := rg.Group("/interest/sweeps")
	{
		sweeps.POST("/savings", h.runSavingsSweep)
		sweeps.POST("/maturity", h.runMaturitySweep)
	}
}

// preview godoc
// @Summary Preview savings interest for a period
// @Description Calculates interest on the balance at the end of the period without posting it.
// @Tags interest
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   from query string true "Period start, YYYY-MM-DD"
// @Param   to query string true "Period end (exclusive), YYYY-MM-DD"
// @Success 200 {object} dto.InterestPostingResponse
// @Failure 400 {object} map[string]string "Invalid period or account not interest bearing"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/interest-preview [get]
func (h *interestHandler) preview(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "Failed to bind query for InterestPreview")
		return
	}
	period, err := params.Period()
	if err != nil {
		badRequest(c, err, "Invalid interest period")
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to preview interest")
		return
	}
	posting, err := h.interestService.CalculateSavingsInterest(ctx, account.AccountID, period)
	if err != nil {
		respondError(c, err, "Failed to preview interest")
		return
	}
	c.JSON(http.StatusOK, dto.ToInterestPostingResponse(posting))
}

// postSavings godoc
// @Summary Post savings interest for one account and period
// @Description Idempotent per period: posting the same period again returns the existing posting.
// @Tags interest
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   period body dto.PeriodParams true "Interest period"
// @Success 201 {object} dto.InterestPostingResponse
// @Failure 400 {object} map[string]string "Invalid period or account not interest bearing"
// @Failure 409 {object} map[string]string "Period overlaps an existing posting"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/interest-postings [post]
func (h *interestHandler) postSavings(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err, "Failed to bind JSON for PostSavingsInterest")
		return
	}
	period, err := params.Period()
	if err != nil {
		badRequest(c, err, "Invalid interest period")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to post interest")
		return
	}
	posting, err := h.interestService.PostSavingsInterest(ctx, account.AccountID, period, actor)
	if err != nil {
		respondError(c, err, "Failed to post interest")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInterestPostingResponse(posting))
}

// listAccountPostings godoc
// @Summary List interest postings of an account
// @Tags interest
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 200 {object} dto.ListInterestPostingsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/interest-postings [get]
func (h *interestHandler) listAccountPostings(c *gin.Context) {
	ctx := c.Request.Context()
	account, err := h.accountService.GetAccountByNumber(ctx, c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to list interest postings")
		return
	}
	h.listPostings(c, account.AccountID)
}

// listDepositPostings godoc
// @Summary List interest postings of a fixed deposit
// @Tags interest
// @Produce  json
// @Param   fdNumber path string true "Fixed deposit number"
// @Success 200 {object} dto.ListInterestPostingsResponse
// @Failure 404 {object} map[string]string "Fixed deposit not found"
// @Security BearerAuth
// @Router /fixed-deposits/{fdNumber}/interest-postings [get]
func (h *interestHandler) listDepositPostings(c *gin.Context) {
	fd, err := h.fixedDepositService.GetFixedDepositByNumber(c.Request.Context(), c.Param("fdNumber"))
	if err != nil {
		respondError(c, err, "Failed to list interest postings")
		return
	}
	h.listPostings(c, fd.FixedDepositID)
}

func (h *interestHandler) listPostings(c *gin.Context, resourceID string) {
	postings, err := h.interestService.ListPostings(c.Request.Context(), resourceID)
	if err != nil {
		respondError(c, err, "Failed to list interest postings")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInterestPostingsResponse(postings))
}

// listRates godoc
// @Summary List the savings rate bands of an account type
// @Description Accounts with a balance outside every band earn the rate they were opened with.
// @Tags interest
// @Produce  json
// @Param   accountType query string true "Account type" Enums(SAVINGS, CURRENT, FIXED_DEPOSIT, BUSINESS)
// @Success 200 {object} dto.ListInterestRatesResponse
// @Failure 400 {object} map[string]string "Invalid account type"
// @Security BearerAuth
// @Router /interest-rates [get]
func (h *interestHandler) listRates(c *gin.Context) {
	var params dto.InterestRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "Failed to bind query for ListInterestRates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInterestRatesResponse(h.interestService.ActiveRates(params.AccountType)))
}

// runSavingsSweep godoc
// @Summary Run the savings interest accrual
// @Description Posts interest for every active interest-bearing account. Defaults to the previous calendar month.
// @Tags interest
// @Accept  json
// @Produce  json
// @Param   sweep body dto.SavingsSweepRequest false "Period override"
// @Success 200 {object} dto.SweepSummaryResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /interest/sweeps/savings [post]
func (h *interestHandler) runSavingsSweep(c *gin.Context) {
	var req dto.SavingsSweepRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err, "Failed to bind JSON for SavingsSweep")
			return
		}
	}
	period, err := req.Period(h.now())
	if err != nil {
		badRequest(c, err, "Invalid sweep period")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	summary, err := h.interestService.RunSavingsAccrual(ctx, period, actor)
	if err != nil {
		respondError(c, err, "Failed to run savings sweep")
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("Savings sweep finished", slog.String("period", period.Key()), slog.Int("posted", summary.Posted))
	c.JSON(http.StatusOK, dto.ToSweepSummaryResponse(summary))
}

// runMaturitySweep godoc
// @Summary Mature every due fixed deposit
// @Tags interest
// @Accept  json
// @Produce  json
// @Param   sweep body dto.MaturitySweepRequest false "Cut-off date"
// @Success 200 {object} dto.SweepSummaryResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /interest/sweeps/maturity [post]
func (h *interestHandler) runMaturitySweep(c *gin.Context) {
	var req dto.MaturitySweepRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err, "Failed to bind JSON for MaturitySweep")
			return
		}
	}
	asOf, err := req.Cutoff(h.now())
	if err != nil {
		badRequest(c, err, "Invalid maturity cut-off")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	summary, err := h.interestService.RunMaturitySweep(ctx, asOf, actor)
	if err != nil {
		respondError(c, err, "Failed to run maturity sweep")
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("Maturity sweep finished", slog.Time("as_of", asOf), slog.Int("matured", summary.Posted))
	c.JSON(http.StatusOK, dto.ToSweepSummaryResponse(summary))
}
