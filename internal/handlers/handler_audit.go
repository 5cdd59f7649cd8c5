package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// RegisterAuditRoutes registers read access to the audit trail.
func RegisterAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}
	rg.GET("/audit-logs", h.list)
}

// list godoc
// @Summary Query the audit trail
// @Description Filter by resourceType and resourceID (full history, newest first) or by actor (paged with nextToken).
// @Tags audit
// @Produce  json
// @Param   resourceType query string false "ACCOUNT, TRANSACTION or FIXED_DEPOSIT"
// @Param   resourceID query string false "Resource ID"
// @Param   actor query string false "Actor"
// @Param   limit query int false "Page size for actor queries" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAuditLogsResponse
// @Failure 400 {object} map[string]string "Missing or invalid filter"
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *auditHandler) list(c *gin.Context) {
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "Failed to bind query for ListAuditLogs")
		return
	}
	if err := params.Check(); err != nil {
		badRequest(c, err, "Invalid audit log filter")
		return
	}

	ctx := c.Request.Context()
	if params.ByResource() {
		logs, err := h.auditService.ListByResource(ctx, params.ResourceType, params.ResourceID)
		if err != nil {
			respondError(c, err, "Failed to list audit logs")
			return
		}
		c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(logs, nil))
		return
	}

	logs, next, err := h.auditService.ListByActor(ctx, params.Actor, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(logs, next))
}
